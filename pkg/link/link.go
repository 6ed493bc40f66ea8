/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package link

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/fragment"
	"github.com/scoir/diploma/pkg/merkle"
)

const (
	ViewPath    = "/offchain/url/"
	PrivatePath = "/offchain/private/"
)

var ErrNoFragments = errors.New("url carries no recognised fragment")

// Bundle is everything a link can carry. Only Attestation is required to build one.
type Bundle struct {
	Attestation    *eas.SharePackage  `json:"attestation,omitempty"`
	Proof          *merkle.MultiProof `json:"proofs,omitempty"`
	Merkle         *merkle.FullTree   `json:"merkle,omitempty"`
	RefAttestation *eas.SharePackage  `json:"refAttestation,omitempty"`
}

// Builder renders bundles as links under origin, e.g. https://diplomas.example. An empty
// origin yields relative links.
type Builder struct {
	origin string
}

func NewBuilder(origin string) *Builder {
	return &Builder{origin: strings.TrimRight(origin, "/")}
}

// URL renders b. Bundles with a full tree go to the private page, everything else to the view page.
func (r *Builder) URL(b *Bundle) (string, error) {
	if b == nil || b.Attestation == nil {
		return "", errors.New("attestation is required")
	}

	path := ViewPath
	if b.Merkle != nil {
		path = PrivatePath
	}

	var parts []fragment.Part
	add := func(key string, v interface{}) error {
		s, err := fragment.Encode(v)
		if err != nil {
			return errors.Wrapf(err, "unable to encode %s", key)
		}
		parts = append(parts, fragment.Part{Key: key, Value: s})
		return nil
	}

	if err := add(fragment.KeyAttestation, b.Attestation); err != nil {
		return "", err
	}

	if b.Merkle != nil {
		if err := add(fragment.KeyMerkle, b.Merkle); err != nil {
			return "", err
		}
	}

	if b.Proof != nil {
		if err := add(fragment.KeyProofs, b.Proof); err != nil {
			return "", err
		}
	}

	if b.RefAttestation != nil {
		if err := add(fragment.KeyRefAttestation, b.RefAttestation); err != nil {
			return "", err
		}
	}

	return r.origin + path + "#" + fragment.Join(parts...), nil
}

// AttestationURL links to the public view of an attestation.
func (r *Builder) AttestationURL(pkg *eas.SharePackage) (string, error) {
	return r.URL(&Bundle{Attestation: pkg})
}

// PrivateURL links the data subject to their full tree. It must only ever be handed to them.
func (r *Builder) PrivateURL(pkg *eas.SharePackage, tree *merkle.FullTree) (string, error) {
	if tree == nil {
		return "", errors.New("merkle tree is required")
	}

	return r.URL(&Bundle{Attestation: pkg, Merkle: tree})
}

// ProofURL links to the public view with a selective disclosure attached.
func (r *Builder) ProofURL(pkg *eas.SharePackage, proof *merkle.MultiProof) (string, error) {
	if proof == nil {
		return "", errors.New("proof is required")
	}

	return r.URL(&Bundle{Attestation: pkg, Proof: proof})
}

// Parse decodes every recognised fragment of a URL or bare fragment. Keys decode independently:
// the returned bundle holds whatever decoded, and the error is the first failure.
func Parse(raw string) (*Bundle, error) {
	frag := fragment.Of(raw)
	out := &Bundle{}

	var (
		found    bool
		firstErr error
	)

	decode := func(key string, v interface{}) bool {
		s, ok, err := fragment.Lookup(frag, key)
		if !ok {
			return false
		}
		found = true

		if err == nil {
			err = fragment.Decode(s, v)
		}

		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "fragment %s", key)
			}
			return false
		}

		return true
	}

	pkg := &eas.SharePackage{}
	if decode(fragment.KeyAttestation, pkg) {
		out.Attestation = pkg
	}

	proof := &merkle.MultiProof{}
	if decode(fragment.KeyProofs, proof) {
		out.Proof = proof
	}

	tree := &merkle.FullTree{}
	if decode(fragment.KeyMerkle, tree) {
		if err := tree.Rebuild(); err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "fragment %s", fragment.KeyMerkle)
			}
		} else {
			out.Merkle = tree
		}
	}

	ref := &eas.SharePackage{}
	if decode(fragment.KeyRefAttestation, ref) {
		out.RefAttestation = ref
	}

	if !found {
		return nil, ErrNoFragments
	}

	return out, firstErr
}
