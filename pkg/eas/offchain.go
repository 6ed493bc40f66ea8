/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eas

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported off-chain attestation version")
	ErrUIDMismatch        = errors.New("attestation uid does not match its contents")
	ErrInvalidSignature   = errors.New("invalid attestation signature")
)

var domainType = []apitypes.Type{
	{Name: "name", Type: "string"},
	{Name: "version", Type: "string"},
	{Name: "chainId", Type: "uint256"},
	{Name: "verifyingContract", Type: "address"},
}

var attestTypes = map[uint16][]apitypes.Type{
	OffchainVersion1: {
		{Name: "version", Type: "uint16"},
		{Name: "schema", Type: "bytes32"},
		{Name: "recipient", Type: "address"},
		{Name: "time", Type: "uint64"},
		{Name: "expirationTime", Type: "uint64"},
		{Name: "revocable", Type: "bool"},
		{Name: "refUID", Type: "bytes32"},
		{Name: "data", Type: "bytes"},
	},
	OffchainVersion2: {
		{Name: "version", Type: "uint16"},
		{Name: "schema", Type: "bytes32"},
		{Name: "recipient", Type: "address"},
		{Name: "time", Type: "uint64"},
		{Name: "expirationTime", Type: "uint64"},
		{Name: "revocable", Type: "bool"},
		{Name: "refUID", Type: "bytes32"},
		{Name: "data", Type: "bytes"},
		{Name: "salt", Type: "bytes32"},
	},
}

// NewDomain returns the EAS signing domain for a deployment.
func NewDomain(version string, chainID uint64, contract common.Address) Domain {
	return Domain{Name: DomainName, Version: version, ChainID: Uint64(chainID), VerifyingContract: contract}
}

type SignerOption func(opts *KeySigner)

// WithSigningSalts replaces crypto/rand as the source of attestation salts.
func WithSigningSalts(r io.Reader) SignerOption {
	return func(opts *KeySigner) {
		opts.salts = r
	}
}

// KeySigner signs version 2 off-chain attestations with a local ECDSA key.
type KeySigner struct {
	key    *ecdsa.PrivateKey
	domain Domain
	salts  io.Reader
}

func NewKeySigner(key *ecdsa.PrivateKey, domain Domain, opts ...SignerOption) *KeySigner {
	r := &KeySigner{key: key, domain: domain, salts: rand.Reader}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *KeySigner) Address() common.Address {
	return crypto.PubkeyToAddress(r.key.PublicKey)
}

func (r *KeySigner) SignOffchainAttestation(ctx context.Context, params *AttestationParams) (*SignedOffchainAttestation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if params == nil {
		return nil, errors.New("attestation params are required")
	}

	msg := OffchainMessage{
		Version:        OffchainVersion2,
		Schema:         params.Schema,
		Recipient:      params.Recipient,
		Time:           Uint64(params.Time),
		ExpirationTime: Uint64(params.ExpirationTime),
		Revocable:      params.Revocable,
		RefUID:         params.RefUID,
		Data:           append(hexutil.Bytes{}, params.Data...),
	}

	if _, err := io.ReadFull(r.salts, msg.Salt[:]); err != nil {
		return nil, errors.Wrap(err, "unable to read attestation salt")
	}

	td := typedData(r.domain, &msg)
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return nil, errors.Wrap(err, "unable to hash attestation")
	}

	sig, err := crypto.Sign(hash, r.key)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign attestation")
	}

	out := &SignedOffchainAttestation{
		Version:     msg.Version,
		UID:         OffchainUID(&msg),
		Domain:      r.domain,
		PrimaryType: PrimaryType,
		Types:       apitypes.Types{PrimaryType: attestTypes[msg.Version]},
		Message:     msg,
		Signature: Signature{
			R: common.BytesToHash(sig[:32]),
			S: common.BytesToHash(sig[32:64]),
			V: sig[64] + 27,
		},
	}

	return out, nil
}

// OffchainUID is keccak256 over the packed attestation fields. The attester slot is always
// the zero address for off-chain attestations.
func OffchainUID(msg *OffchainMessage) common.Hash {
	var (
		version [2]byte
		times   [16]byte
		tail    [4]byte
	)

	binary.BigEndian.PutUint16(version[:], msg.Version)
	binary.BigEndian.PutUint64(times[:8], uint64(msg.Time))
	binary.BigEndian.PutUint64(times[8:], uint64(msg.ExpirationTime))

	revocable := []byte{0}
	if msg.Revocable {
		revocable[0] = 1
	}

	parts := [][]byte{
		version[:], msg.Schema[:], msg.Recipient[:], common.Address{}.Bytes(),
		times[:], revocable, msg.RefUID[:], msg.Data,
	}
	if msg.Version >= OffchainVersion2 {
		parts = append(parts, msg.Salt[:])
	}
	parts = append(parts, tail[:])

	return crypto.Keccak256Hash(parts...)
}

// VerifyOffchainAttestation checks that pkg.Sig was signed by pkg.Signer and that its uid
// matches its contents.
func VerifyOffchainAttestation(pkg *SharePackage) error {
	if pkg == nil || pkg.Sig == nil {
		return errors.Wrap(ErrInvalidSignature, "missing attestation")
	}

	sig := pkg.Sig
	if _, ok := attestTypes[sig.Message.Version]; !ok {
		return errors.Wrapf(ErrUnsupportedVersion, "%d", sig.Message.Version)
	}

	if sig.PrimaryType != PrimaryType {
		return errors.Wrapf(ErrInvalidSignature, "unexpected primary type %q", sig.PrimaryType)
	}

	if sig.Domain.Name != DomainName {
		return errors.Wrapf(ErrInvalidSignature, "unexpected domain %q", sig.Domain.Name)
	}

	if uid := OffchainUID(&sig.Message); uid != sig.UID {
		return errors.Wrapf(ErrUIDMismatch, "expected %s, computed %s", sig.UID.Hex(), uid.Hex())
	}

	hash, _, err := apitypes.TypedDataAndHash(typedData(sig.Domain, &sig.Message))
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}

	v := sig.Signature.V
	if v >= 27 {
		v -= 27
	}
	if v > 1 {
		return errors.Wrapf(ErrInvalidSignature, "bad recovery id %d", sig.Signature.V)
	}

	raw := make([]byte, 0, crypto.SignatureLength)
	raw = append(raw, sig.Signature.R[:]...)
	raw = append(raw, sig.Signature.S[:]...)
	raw = append(raw, v)

	pub, err := crypto.SigToPub(hash, raw)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}

	if signer := crypto.PubkeyToAddress(*pub); signer != pkg.Signer {
		return errors.Wrapf(ErrInvalidSignature, "signed by %s, expected %s", signer.Hex(), pkg.Signer.Hex())
	}

	return nil
}

func typedData(domain Domain, msg *OffchainMessage) apitypes.TypedData {
	message := apitypes.TypedDataMessage{
		"version":        big.NewInt(int64(msg.Version)),
		"schema":         msg.Schema.Hex(),
		"recipient":      msg.Recipient.Hex(),
		"time":           new(big.Int).SetUint64(uint64(msg.Time)),
		"expirationTime": new(big.Int).SetUint64(uint64(msg.ExpirationTime)),
		"revocable":      msg.Revocable,
		"refUID":         msg.RefUID.Hex(),
		"data":           hexutil.Encode(msg.Data),
	}
	if msg.Version >= OffchainVersion2 {
		message["salt"] = msg.Salt.Hex()
	}

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": domainType,
			PrimaryType:    attestTypes[msg.Version],
		},
		PrimaryType: PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              domain.Name,
			Version:           domain.Version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).SetUint64(uint64(domain.ChainID))),
			VerifyingContract: domain.VerifyingContract.Hex(),
		},
		Message: message,
	}
}
