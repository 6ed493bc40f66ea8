/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// SaltSize is the width in bytes of every leaf salt.
const SaltSize = 32

var (
	stringType  = mustNewType("string")
	bytesType   = mustNewType("bytes")
	bytes32Type = mustNewType("bytes32")

	// type, name, abi encoded value, salt
	leafArguments = abi.Arguments{
		{Type: stringType}, {Type: stringType}, {Type: bytesType}, {Type: bytes32Type},
	}
)

// Leaf is the committed form of a TypedValue.
type Leaf struct {
	TypedValue
	Salt common.Hash `json:"salt"`
}

// Hash computes the leaf hash as keccak256(keccak256(abi.encode(type, name, abi.encode(value), salt))).
func (r *Leaf) Hash() (common.Hash, error) {
	_, packable, t, err := encodeValue(r.Type, r.Value)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "field %s", r.Name)
	}

	encoded, err := abi.Arguments{{Type: t}}.Pack(packable)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "unable to abi encode field %s", r.Name)
	}

	data, err := leafArguments.Pack(r.Type, r.Name, encoded, [32]byte(r.Salt))
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "unable to abi encode leaf %s", r.Name)
	}

	return crypto.Keccak256Hash(crypto.Keccak256(data)), nil
}

// commitRoot binds the leaf count to the top node: keccak256(uint256(n) || top).
func commitRoot(n int, top common.Hash) common.Hash {
	count := common.BigToHash(big.NewInt(int64(n)))
	return crypto.Keccak256Hash(count[:], top[:])
}

// hashNode commits to child order, which binds every leaf to its index.
func hashNode(left, right common.Hash) common.Hash {
	return crypto.Keccak256Hash(left[:], right[:])
}

// hashChildren combines the node at pos with its sibling in tree order. Odd positions are left children.
func hashChildren(pos int, h, siblingHash common.Hash) common.Hash {
	if pos%2 == 1 {
		return hashNode(h, siblingHash)
	}
	return hashNode(siblingHash, h)
}

// Like abi.NewType but panics, for package level types.
func mustNewType(t string) abi.Type {
	ty, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}

	return ty
}
