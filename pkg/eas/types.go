/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eas

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/pkg/errors"
)

const (
	DomainName  = "EAS Attestation"
	PrimaryType = "Attest"

	OffchainVersion1 uint16 = 1
	OffchainVersion2 uint16 = 2
)

// Uint64 serializes as a decimal string and accepts either a JSON number or a string.
type Uint64 uint64

func (r Uint64) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(r), 10))
}

func (r *Uint64) UnmarshalJSON(d []byte) error {
	s := strings.TrimSpace(string(d))
	if s == "null" {
		return nil
	}

	s = strings.Trim(s, `"`)
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return errors.Wrapf(err, "invalid uint64 %s", s)
	}

	*r = Uint64(v)
	return nil
}

// Signer signs off-chain attestations. Signing may cross a network boundary, so it takes a context.
type Signer interface {
	Address() common.Address
	SignOffchainAttestation(ctx context.Context, params *AttestationParams) (*SignedOffchainAttestation, error)
}

// AttestationParams are the fields a caller chooses. Version and salt are added by the signer.
type AttestationParams struct {
	Schema         common.Hash
	Recipient      common.Address
	Time           uint64
	ExpirationTime uint64
	Revocable      bool
	RefUID         common.Hash
	Data           []byte
}

type Domain struct {
	Name              string         `json:"name"`
	Version           string         `json:"version"`
	ChainID           Uint64         `json:"chainId"`
	VerifyingContract common.Address `json:"verifyingContract"`
}

type OffchainMessage struct {
	Version        uint16         `json:"version"`
	Schema         common.Hash    `json:"schema"`
	Recipient      common.Address `json:"recipient"`
	Time           Uint64         `json:"time"`
	ExpirationTime Uint64         `json:"expirationTime"`
	Revocable      bool           `json:"revocable"`
	RefUID         common.Hash    `json:"refUID"`
	Data           hexutil.Bytes  `json:"data"`
	Salt           common.Hash    `json:"salt"`
}

type Signature struct {
	V uint8       `json:"v"`
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
}

// SignedOffchainAttestation is the EIP-712 signed attestation as produced by the EAS SDK.
type SignedOffchainAttestation struct {
	Version     uint16          `json:"version"`
	UID         common.Hash     `json:"uid"`
	Domain      Domain          `json:"domain"`
	PrimaryType string          `json:"primaryType"`
	Types       apitypes.Types  `json:"types"`
	Message     OffchainMessage `json:"message"`
	Signature   Signature       `json:"signature"`
}

// SharePackage is the shareable form of a signed attestation, carried in the attestation= fragment.
type SharePackage struct {
	Sig    *SignedOffchainAttestation `json:"sig"`
	Signer common.Address             `json:"signer"`
}
