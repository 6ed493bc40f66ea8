/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"crypto/rand"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrRootMismatch = errors.New("merkle root does not match values")
	ErrUnknownField = errors.New("field not present in tree")
)

// FullTree is the complete commitment of one record: root, salted leaves and internal nodes.
// It carries every secret salt and value and is only ever handed to the data subject.
type FullTree struct {
	Root   common.Hash `json:"root"`
	Values []Leaf      `json:"values"`

	// complete binary tree in array form. nodes[0] is the top node, Root commits it with the leaf count.
	nodes []common.Hash
}

type Option func(opts *Builder)

// WithSaltSource replaces crypto/rand as the salt source.
func WithSaltSource(r io.Reader) Option {
	return func(opts *Builder) {
		opts.salts = r
	}
}

// Builder salts typed values and commits them into a FullTree.
type Builder struct {
	salts io.Reader
}

func NewBuilder(opts ...Option) *Builder {
	b := &Builder{salts: rand.Reader}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build salts every value with fresh randomness and builds the tree. Value order defines leaf indices.
func (r *Builder) Build(values []TypedValue) (*FullTree, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}

	leaves := make([]Leaf, len(values))
	for i, v := range values {
		leaves[i].TypedValue = v

		_, err := io.ReadFull(r.salts, leaves[i].Salt[:])
		if err != nil {
			return nil, errors.Wrap(err, "unable to read salt")
		}
	}

	return BuildWithSalts(leaves)
}

// BuildWithSalts builds the tree over already salted leaves. The same leaves always yield the same root.
func BuildWithSalts(leaves []Leaf) (*FullTree, error) {
	if len(leaves) == 0 {
		return nil, ErrNoValues
	}

	seen := make(map[string]struct{}, len(leaves))
	values := make([]Leaf, len(leaves))
	for i, l := range leaves {
		if err := l.Normalize(); err != nil {
			return nil, err
		}

		if _, ok := seen[l.Name]; ok {
			return nil, errors.Wrap(ErrDuplicateName, l.Name)
		}
		seen[l.Name] = struct{}{}

		values[i] = l
	}

	nodes, err := buildNodes(values)
	if err != nil {
		return nil, err
	}

	return &FullTree{Root: commitRoot(len(values), nodes[0]), Values: values, nodes: nodes}, nil
}

// Rebuild recomputes the internal nodes of a decoded tree and checks them against its root.
func (r *FullTree) Rebuild() error {
	t, err := BuildWithSalts(r.Values)
	if err != nil {
		return err
	}

	if t.Root != r.Root {
		return errors.Wrapf(ErrRootMismatch, "expected %s, computed %s", r.Root.Hex(), t.Root.Hex())
	}

	r.Values = t.Values
	r.nodes = t.nodes
	return nil
}

// IndicesOf maps field names to leaf indices, preserving the order of names.
func (r *FullTree) IndicesOf(names ...string) ([]int, error) {
	pos := make(map[string]int, len(r.Values))
	for i, v := range r.Values {
		pos[v.Name] = i
	}

	out := make([]int, len(names))
	for i, name := range names {
		idx, ok := pos[name]
		if !ok {
			return nil, errors.Wrap(ErrUnknownField, name)
		}
		out[i] = idx
	}

	return out, nil
}

func (r *FullTree) ensureNodes() error {
	if len(r.nodes) == 2*len(r.Values)-1 && len(r.nodes) > 0 {
		return nil
	}

	return r.Rebuild()
}

// buildNodes lays the leaves out as a complete binary tree: leaf i at nodes[len-1-i],
// node k = hashNode(nodes[2k+1], nodes[2k+2]).
func buildNodes(leaves []Leaf) ([]common.Hash, error) {
	size := 2*len(leaves) - 1
	nodes := make([]common.Hash, size)

	for i := range leaves {
		h, err := leaves[i].Hash()
		if err != nil {
			return nil, err
		}
		nodes[leafPosition(size, i)] = h
	}

	for k := size - 1 - len(leaves); k >= 0; k-- {
		nodes[k] = hashNode(nodes[leftChild(k)], nodes[rightChild(k)])
	}

	return nodes, nil
}

func leafPosition(size, i int) int { return size - 1 - i }
func leftChild(k int) int           { return 2*k + 1 }
func rightChild(k int) int          { return 2*k + 2 }
func parent(k int) int              { return (k - 1) / 2 }

func sibling(k int) int {
	if k%2 == 1 {
		return k + 1
	}
	return k - 1
}
