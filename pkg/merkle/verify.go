/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// VerifyProof recomputes the root from the revealed leaves and sibling hashes of proof and
// compares it with root. Only (root, proof) is needed. A structurally invalid proof returns
// false together with an error wrapping ErrMalformedProof.
func VerifyProof(root common.Hash, proof *MultiProof) (bool, error) {
	if err := checkShape(proof); err != nil {
		return false, err
	}

	size := 2*proof.LeafCount - 1
	queue := make([]node, len(proof.Leaves))
	for i := range proof.Leaves {
		h, err := proof.Leaves[i].Hash()
		if err != nil {
			return false, errors.Wrapf(ErrMalformedProof, "leaf %d: %v", proof.Indices[i], err)
		}
		queue[i] = node{pos: leafPosition(size, proof.Indices[i]), hash: h}
	}

	siblings := proof.Proof
	for _, flag := range proof.ProofFlags {
		a := queue[0]
		queue = queue[1:]

		var b common.Hash
		if flag {
			b, queue = queue[0].hash, queue[1:]
		} else {
			b, siblings = siblings[0], siblings[1:]
		}

		queue = append(queue, node{pos: parent(a.pos), hash: hashChildren(a.pos, a.hash, b)})
	}

	if len(queue) != 1 || len(siblings) != 0 {
		return false, errors.Wrap(ErrMalformedProof, "proof not fully consumed")
	}

	return commitRoot(proof.LeafCount, queue[0].hash) == root, nil
}

type node struct {
	pos  int
	hash common.Hash
}

// checkShape derives the flag sequence and sibling count from LeafCount and Indices alone and
// requires the proof to match them exactly.
func checkShape(proof *MultiProof) error {
	if proof == nil {
		return errors.Wrap(ErrMalformedProof, "missing proof")
	}

	if len(proof.Leaves) == 0 {
		return errors.Wrap(ErrMalformedProof, ErrEmptySelection.Error())
	}

	if len(proof.Indices) != len(proof.Leaves) {
		return errors.Wrapf(ErrMalformedProof, "%d indices for %d leaves", len(proof.Indices), len(proof.Leaves))
	}

	if proof.LeafCount < 1 {
		return errors.Wrap(ErrMalformedProof, "leaf count must be positive")
	}

	for i, idx := range proof.Indices {
		if idx < 0 || idx >= proof.LeafCount {
			return errors.Wrapf(ErrMalformedProof, "index %d not in [0, %d)", idx, proof.LeafCount)
		}
		if i > 0 && proof.Indices[i-1] >= idx {
			return errors.Wrap(ErrMalformedProof, "indices must be strictly ascending")
		}
	}

	size := 2*proof.LeafCount - 1
	siblings := 0
	flags := walk(positions(size, proof.Indices), func(int) { siblings++ })

	if siblings != len(proof.Proof) {
		return errors.Wrapf(ErrMalformedProof, "expected %d sibling hashes, got %d", siblings, len(proof.Proof))
	}

	if len(flags) != len(proof.ProofFlags) {
		return errors.Wrapf(ErrMalformedProof, "expected %d flags, got %d", len(flags), len(proof.ProofFlags))
	}

	for i := range flags {
		if flags[i] != proof.ProofFlags[i] {
			return errors.Wrapf(ErrMalformedProof, "flag %d does not match the revealed indices", i)
		}
	}

	return nil
}
