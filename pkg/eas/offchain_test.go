/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eas

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var (
	testContract = common.HexToAddress("0xC2679fBD37d54388Ce493F1DB75320D236e1815e")
	testSchema   = common.HexToHash("0x7ab3b8e0b2a1d2d4f0c0b2c1a8e6f3d5c4b3a2910f1e2d3c4b5a69788796a5b4")
	testDomain   = NewDomain("1.0.1", 11155111, testContract)
)

func newTestSigner(t *testing.T) *KeySigner {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	return NewKeySigner(key, testDomain)
}

func testParams(t *testing.T) *AttestationParams {
	enc, err := NewSchemaEncoder(DiplomaSchema)
	require.NoError(t, err)

	data, err := enc.EncodeData([]SchemaItem{{Name: "privateData", Type: "bytes32", Value: common.HexToHash("0x01")}})
	require.NoError(t, err)

	return &AttestationParams{
		Schema:    testSchema,
		Recipient: common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"),
		Time:      1700000000,
		Revocable: true,
		Data:      data,
	}
}

func TestKeySigner_SignOffchainAttestation(t *testing.T) {
	signer := newTestSigner(t)

	t.Run("verifies", func(t *testing.T) {
		sig, err := signer.SignOffchainAttestation(context.Background(), testParams(t))
		require.NoError(t, err)
		require.Equal(t, OffchainVersion2, sig.Version)
		require.Equal(t, PrimaryType, sig.PrimaryType)
		require.Equal(t, OffchainUID(&sig.Message), sig.UID)
		require.NotEqual(t, common.Hash{}, sig.Message.Salt)
		require.True(t, sig.Signature.V == 27 || sig.Signature.V == 28)

		require.NoError(t, VerifyOffchainAttestation(&SharePackage{Sig: sig, Signer: signer.Address()}))
	})

	t.Run("salt makes uids unique", func(t *testing.T) {
		a, err := signer.SignOffchainAttestation(context.Background(), testParams(t))
		require.NoError(t, err)
		b, err := signer.SignOffchainAttestation(context.Background(), testParams(t))
		require.NoError(t, err)
		require.NotEqual(t, a.UID, b.UID)
	})

	t.Run("fixed salt is deterministic", func(t *testing.T) {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		salt := bytes.Repeat([]byte{7}, 64)
		a, err := NewKeySigner(key, testDomain, WithSigningSalts(bytes.NewReader(salt))).
			SignOffchainAttestation(context.Background(), testParams(t))
		require.NoError(t, err)
		b, err := NewKeySigner(key, testDomain, WithSigningSalts(bytes.NewReader(salt))).
			SignOffchainAttestation(context.Background(), testParams(t))
		require.NoError(t, err)
		require.Equal(t, a, b)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := signer.SignOffchainAttestation(ctx, testParams(t))
		require.Equal(t, context.Canceled, err)
	})
}

func TestVerifyOffchainAttestation(t *testing.T) {
	signer := newTestSigner(t)

	fresh := func() *SharePackage {
		sig, err := signer.SignOffchainAttestation(context.Background(), testParams(t))
		require.NoError(t, err)
		return &SharePackage{Sig: sig, Signer: signer.Address()}
	}

	t.Run("json round trip", func(t *testing.T) {
		d, err := json.Marshal(fresh())
		require.NoError(t, err)
		require.Contains(t, string(d), `"time":"1700000000"`)

		var pkg SharePackage
		require.NoError(t, json.Unmarshal(d, &pkg))
		require.NoError(t, VerifyOffchainAttestation(&pkg))
	})

	tests := []struct {
		name   string
		mutate func(p *SharePackage)
		err    error
	}{
		{"recipient changed", func(p *SharePackage) { p.Sig.Message.Recipient = common.Address{1} }, ErrUIDMismatch},
		{"data changed", func(p *SharePackage) { p.Sig.Message.Data[31] ^= 1 }, ErrUIDMismatch},
		{"uid and message changed", func(p *SharePackage) {
			p.Sig.Message.Time++
			p.Sig.UID = OffchainUID(&p.Sig.Message)
		}, ErrInvalidSignature},
		{"other signer", func(p *SharePackage) { p.Signer = common.Address{2} }, ErrInvalidSignature},
		{"other domain", func(p *SharePackage) { p.Sig.Domain.ChainID = 1 }, ErrInvalidSignature},
		{"bad recovery id", func(p *SharePackage) { p.Sig.Signature.V = 30 }, ErrInvalidSignature},
		{"unknown version", func(p *SharePackage) { p.Sig.Message.Version = 9 }, ErrUnsupportedVersion},
		{"missing", func(p *SharePackage) { p.Sig = nil }, ErrInvalidSignature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pkg := fresh()
			tc.mutate(pkg)

			err := VerifyOffchainAttestation(pkg)
			require.Error(t, err)
			require.True(t, errors.Is(err, tc.err), err.Error())
		})
	}
}

func TestUint64_JSON(t *testing.T) {
	var v struct {
		A Uint64 `json:"a"`
		B Uint64 `json:"b"`
		C Uint64 `json:"c"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "18446744073709551615", "c": "0x10"}`), &v))
	require.Equal(t, Uint64(12), v.A)
	require.Equal(t, Uint64(18446744073709551615), v.B)
	require.Equal(t, Uint64(16), v.C)

	d, err := json.Marshal(v)
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"12","b":"18446744073709551615","c":"16"}`, string(d))

	require.Error(t, json.Unmarshal([]byte(`{"a": 1.5}`), &v))
	require.Error(t, json.Unmarshal([]byte(`{"a": -1}`), &v))
}
