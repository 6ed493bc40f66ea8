/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	ErrEmptySelection  = errors.New("at least one leaf must be revealed")
	ErrIndexOutOfRange = errors.New("leaf index out of range")
	ErrDuplicateIndex  = errors.New("leaf index revealed more than once")
	ErrMalformedProof  = errors.New("malformed multi-proof")
)

// MultiProof discloses a subset of leaves together with the sibling hashes needed to
// recompute the root. Leaves and Indices are in ascending leaf order.
type MultiProof struct {
	Leaves     []Leaf        `json:"leaves"`
	Indices    []int         `json:"indices"`
	LeafCount  int           `json:"leafCount"`
	Proof      []common.Hash `json:"proof"`
	ProofFlags []bool        `json:"proofFlags"`
}

// GenerateProof reveals the leaves at indices. The remaining leaves only contribute hashes.
func GenerateProof(tree *FullTree, indices []int) (*MultiProof, error) {
	if tree == nil {
		return nil, errors.New("tree is required")
	}

	if len(indices) == 0 {
		return nil, ErrEmptySelection
	}

	if err := tree.ensureNodes(); err != nil {
		return nil, err
	}

	sorted, err := sortIndices(indices, len(tree.Values))
	if err != nil {
		return nil, err
	}

	size := len(tree.nodes)
	siblings := []common.Hash{}
	flags := walk(positions(size, sorted), func(pos int) {
		siblings = append(siblings, tree.nodes[pos])
	})

	out := &MultiProof{
		Leaves:     make([]Leaf, len(sorted)),
		Indices:    sorted,
		LeafCount:  len(tree.Values),
		Proof:      siblings,
		ProofFlags: flags,
	}

	for i, idx := range sorted {
		out.Leaves[i] = tree.Values[idx]
	}

	return out, nil
}

// sortIndices validates indices and returns them ascending.
func sortIndices(indices []int, count int) ([]int, error) {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	for i, idx := range sorted {
		if idx < 0 || idx >= count {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "%d not in [0, %d)", idx, count)
		}
		if i > 0 && sorted[i-1] == idx {
			return nil, errors.Wrapf(ErrDuplicateIndex, "%d", idx)
		}
	}

	return sorted, nil
}

// positions maps ascending leaf indices to descending node positions.
func positions(size int, indices []int) []int {
	out := make([]int, len(indices))
	for i, idx := range indices {
		out[i] = leafPosition(size, idx)
	}

	return out
}

// walk climbs from the queued node positions to the root. For every step it records whether
// the sibling was also queued (true) or had to be supplied by the proof (false, reported to
// needSibling). The queue is consumed highest position first, which is the order the
// verifier replays.
func walk(queue []int, needSibling func(pos int)) []bool {
	flags := make([]bool, 0, len(queue))
	queue = append([]int(nil), queue...)

	for len(queue) > 0 && queue[0] > 0 {
		j := queue[0]
		queue = queue[1:]

		s := sibling(j)
		if len(queue) > 0 && queue[0] == s {
			flags = append(flags, true)
			queue = queue[1:]
		} else {
			flags = append(flags, false)
			needSibling(s)
		}

		queue = append(queue, parent(j))
	}

	return flags
}
