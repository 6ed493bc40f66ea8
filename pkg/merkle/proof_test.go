/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// subsets enumerates every non-empty subset of [0, n).
func subsets(n int) [][]int {
	var out [][]int
	for mask := 1; mask < 1<<n; mask++ {
		var s []int
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				s = append(s, i)
			}
		}
		out = append(out, s)
	}

	return out
}

func TestMultiProofs(t *testing.T) {
	for n := 1; n <= 9; n++ {
		tree, err := NewBuilder(WithSaltSource(pseudorandomSalts(uint64(n)))).Build(valuesOfSize(n))
		require.NoError(t, err)

		for _, subset := range subsets(n) {
			proof, err := GenerateProof(tree, subset)
			require.NoError(t, err)
			require.Equal(t, subset, proof.Indices)
			require.Len(t, proof.Leaves, len(subset))

			ok, err := VerifyProof(tree.Root, proof)
			require.NoError(t, err, "n=%d subset=%v", n, subset)
			require.True(t, ok, "n=%d subset=%v", n, subset)
		}
	}
}

func TestGenerateProof(t *testing.T) {
	tree, err := NewBuilder().Build(diplomaValues())
	require.NoError(t, err)

	t.Run("unsorted selection", func(t *testing.T) {
		proof, err := GenerateProof(tree, []int{5, 0, 3})
		require.NoError(t, err)
		require.Equal(t, []int{0, 3, 5}, proof.Indices)
		require.Equal(t, "degree", proof.Leaves[0].Name)
		require.Equal(t, "program", proof.Leaves[1].Name)
		require.Equal(t, "date", proof.Leaves[2].Name)
	})

	t.Run("reveal everything needs no siblings", func(t *testing.T) {
		proof, err := GenerateProof(tree, []int{0, 1, 2, 3, 4, 5})
		require.NoError(t, err)
		require.Empty(t, proof.Proof)
	})

	t.Run("empty selection", func(t *testing.T) {
		_, err := GenerateProof(tree, nil)
		require.Equal(t, ErrEmptySelection, err)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := GenerateProof(tree, []int{6})
		require.True(t, errors.Is(err, ErrIndexOutOfRange))

		_, err = GenerateProof(tree, []int{-1})
		require.True(t, errors.Is(err, ErrIndexOutOfRange))
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := GenerateProof(tree, []int{1, 1})
		require.True(t, errors.Is(err, ErrDuplicateIndex))
	})

	t.Run("decoded tree without nodes", func(t *testing.T) {
		decoded := &FullTree{Root: tree.Root, Values: tree.Values}
		proof, err := GenerateProof(decoded, []int{2})
		require.NoError(t, err)

		ok, err := VerifyProof(tree.Root, proof)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("decoded tree with wrong root", func(t *testing.T) {
		decoded := &FullTree{Root: common.HexToHash("0xbad"), Values: tree.Values}
		_, err := GenerateProof(decoded, []int{2})
		require.True(t, errors.Is(err, ErrRootMismatch))
	})
}

func TestVerifyProof_Tampering(t *testing.T) {
	tree, err := NewBuilder().Build(diplomaValues())
	require.NoError(t, err)

	fresh := func() *MultiProof {
		proof, err := GenerateProof(tree, []int{0, 1})
		require.NoError(t, err)
		return proof
	}

	for i := 0; i < 2; i++ {
		t.Run(fmt.Sprintf("value of leaf %d", i), func(t *testing.T) {
			proof := fresh()
			proof.Leaves[i].Value = "Someone Else"

			ok, err := VerifyProof(tree.Root, proof)
			require.NoError(t, err)
			require.False(t, ok)
		})

		t.Run(fmt.Sprintf("salt of leaf %d", i), func(t *testing.T) {
			proof := fresh()
			proof.Leaves[i].Salt[0] ^= 0xff

			ok, err := VerifyProof(tree.Root, proof)
			require.NoError(t, err)
			require.False(t, ok)
		})
	}

	t.Run("sibling hash", func(t *testing.T) {
		proof := fresh()
		proof.Proof[0][31] ^= 0x01

		ok, err := VerifyProof(tree.Root, proof)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("relabelled index", func(t *testing.T) {
		proof, err := GenerateProof(tree, []int{1, 4})
		require.NoError(t, err)
		proof.Indices[0] = 0

		ok, err := VerifyProof(tree.Root, proof)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("relabelled index in a larger tree", func(t *testing.T) {
		// leaf 0 of 6 and leaf 2 of 7 share array position 10 and the same walk
		proof, err := GenerateProof(tree, []int{0})
		require.NoError(t, err)
		proof.LeafCount = 7
		proof.Indices = []int{2}

		ok, err := VerifyProof(tree.Root, proof)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("leaf count", func(t *testing.T) {
		proof := fresh()
		proof.LeafCount = 7

		ok, _ := VerifyProof(tree.Root, proof)
		require.False(t, ok)
	})

	t.Run("other root", func(t *testing.T) {
		other, err := NewBuilder().Build(diplomaValues())
		require.NoError(t, err)

		ok, err := VerifyProof(other.Root, fresh())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("value of the wrong type", func(t *testing.T) {
		proof, err := GenerateProof(tree, []int{5})
		require.NoError(t, err)
		proof.Leaves[0].Value = "soon"

		ok, err := VerifyProof(tree.Root, proof)
		require.False(t, ok)
		require.True(t, errors.Is(err, ErrMalformedProof))
	})
}

func TestVerifyProof_Malformed(t *testing.T) {
	tree, err := NewBuilder().Build(diplomaValues())
	require.NoError(t, err)

	tests := map[string]func(p *MultiProof){
		"missing sibling":  func(p *MultiProof) { p.Proof = p.Proof[1:] },
		"extra sibling":    func(p *MultiProof) { p.Proof = append(p.Proof, common.Hash{}) },
		"flipped flag":     func(p *MultiProof) { p.ProofFlags[0] = !p.ProofFlags[0] },
		"dropped flag":     func(p *MultiProof) { p.ProofFlags = p.ProofFlags[1:] },
		"unsorted indices": func(p *MultiProof) { p.Indices[0], p.Indices[1] = p.Indices[1], p.Indices[0] },
		"index count":      func(p *MultiProof) { p.Indices = p.Indices[:1] },
		"leaf count":       func(p *MultiProof) { p.LeafCount = 0 },
		"index past count": func(p *MultiProof) { p.LeafCount = 3; p.Indices[1] = 3 },
		"no leaves":        func(p *MultiProof) { p.Leaves = nil; p.Indices = nil },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			proof, err := GenerateProof(tree, []int{1, 4})
			require.NoError(t, err)
			mutate(proof)

			ok, err := VerifyProof(tree.Root, proof)
			require.False(t, ok)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrMalformedProof), err.Error())
		})
	}

	t.Run("nil proof", func(t *testing.T) {
		ok, err := VerifyProof(tree.Root, nil)
		require.False(t, ok)
		require.True(t, errors.Is(err, ErrMalformedProof))
	})
}

func TestEndToEndDiploma(t *testing.T) {
	tree, err := NewBuilder().Build(diplomaValues())
	require.NoError(t, err)

	indices, err := tree.IndicesOf("degree", "fio")
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, indices)

	proof, err := GenerateProof(tree, indices)
	require.NoError(t, err)

	// the verifier only sees the root and the proof
	disclosed := &MultiProof{
		Leaves:     proof.Leaves,
		Indices:    proof.Indices,
		LeafCount:  proof.LeafCount,
		Proof:      proof.Proof,
		ProofFlags: proof.ProofFlags,
	}

	ok, err := VerifyProof(tree.Root, disclosed)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Master", disclosed.Leaves[0].Value)
	require.Equal(t, "Ivanov Ivan", disclosed.Leaves[1].Value)

	other, err := NewBuilder().Build(diplomaValues())
	require.NoError(t, err)
	ok, err = VerifyProof(other.Root, disclosed)
	require.NoError(t, err)
	require.False(t, ok)
}
