/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package link

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/merkle"
)

var logger = log.New("diploma/link")

// View is what a reader of a link can establish about it.
type View struct {
	UID             common.Hash         `json:"uid"`
	Signer          common.Address      `json:"signer"`
	Recipient       common.Address      `json:"recipient"`
	SignatureValid  bool                `json:"signatureValid"`
	SignatureError  string              `json:"signatureError,omitempty"`
	RevokedAt       uint64              `json:"revokedAt"`
	RevocationError string              `json:"revocationError,omitempty"`
	Root            *common.Hash        `json:"root,omitempty"`
	RootMatches     *bool               `json:"rootMatches,omitempty"`
	ProofValid      *bool               `json:"proofValid,omitempty"`
	ProofError      string              `json:"proofError,omitempty"`
	Disclosed       []merkle.TypedValue `json:"disclosed,omitempty"`
	RefUID          *common.Hash        `json:"refUid,omitempty"`
	RefValid        *bool               `json:"refValid,omitempty"`
}

// View checks the attestation signature, its revocation status when checker is set, and
// binds any carried proof or tree to the root committed in the attestation data.
func (r *Bundle) View(ctx context.Context, checker eas.RevocationChecker) *View {
	out := &View{}
	if r.Attestation == nil || r.Attestation.Sig == nil {
		out.SignatureError = "no attestation"
		return out
	}

	sig := r.Attestation.Sig
	out.UID = sig.UID
	out.Signer = r.Attestation.Signer
	out.Recipient = sig.Message.Recipient

	if err := eas.VerifyOffchainAttestation(r.Attestation); err != nil {
		out.SignatureError = err.Error()
	} else {
		out.SignatureValid = true
	}

	if checker != nil {
		ts, err := checker.RevokedAt(ctx, r.Attestation.Signer, sig.UID)
		if err != nil {
			logger.Warnf("unable to read revocation of %s: %v", sig.UID.Hex(), err)
			out.RevocationError = err.Error()
		}
		out.RevokedAt = ts
	}

	if r.RefAttestation != nil && r.RefAttestation.Sig != nil {
		uid := r.RefAttestation.Sig.UID
		valid := eas.VerifyOffchainAttestation(r.RefAttestation) == nil
		out.RefUID, out.RefValid = &uid, &valid
	}

	if r.Proof == nil && r.Merkle == nil {
		return out
	}

	root, err := eas.PrivateDataRoot(sig.Message.Data)
	if err != nil {
		out.ProofError = err.Error()
		return out
	}
	out.Root = &root

	if r.Merkle != nil {
		matches := r.Merkle.Root == root
		out.RootMatches = &matches
		if matches && out.SignatureValid {
			for _, v := range r.Merkle.Values {
				out.Disclosed = append(out.Disclosed, v.TypedValue)
			}
		}
	}

	if r.Proof != nil {
		ok, err := merkle.VerifyProof(root, r.Proof)
		if err != nil {
			out.ProofError = err.Error()
		}
		out.ProofValid = &ok

		if r.Merkle == nil && ok && out.SignatureValid {
			for _, l := range r.Proof.Leaves {
				out.Disclosed = append(out.Disclosed, l.TypedValue)
			}
		}
	}

	return out
}
