/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package apiserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/fragment"
	"github.com/scoir/diploma/pkg/link"
	"github.com/scoir/diploma/pkg/merkle"
	"github.com/scoir/diploma/pkg/util"
)

// ProofRequest selects fields of a full tree to disclose. Merkle is either the tree itself or a
// string holding its fragment encoding, a merkle= fragment, or a private link.
type ProofRequest struct {
	Merkle      json.RawMessage `json:"merkle"`
	Fields      []string        `json:"fields,omitempty"`
	Indices     []int           `json:"indices,omitempty"`
	Attestation string          `json:"attestation,omitempty"`
}

type ProofResponse struct {
	Proof    *merkle.MultiProof `json:"proof"`
	Fragment string             `json:"fragment"`
	URL      string             `json:"url,omitempty"`
}

type VerifyRequest struct {
	Root     common.Hash        `json:"root"`
	Proof    *merkle.MultiProof `json:"proof,omitempty"`
	Fragment string             `json:"fragment,omitempty"`
}

type VerifyResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type DecodeRequest struct {
	URL string `json:"url"`
}

type DecodeResponse struct {
	Bundle *link.Bundle `json:"bundle"`
	View   *link.View   `json:"view"`
	Error  string       `json:"error,omitempty"`
}

func (r *APIServer) createProof(w http.ResponseWriter, req *http.Request) {
	body := &ProofRequest{}
	if err := json.NewDecoder(req.Body).Decode(body); err != nil {
		util.WriteErrorf(w, http.StatusBadRequest, "invalid proof request: %v", err)
		return
	}

	tree, err := decodeTree(body.Merkle)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	indices := body.Indices
	if len(body.Fields) > 0 {
		indices, err = tree.IndicesOf(body.Fields...)
		if err != nil {
			util.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	proof, err := merkle.GenerateProof(tree, indices)
	if err != nil {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	frag, err := fragment.Encode(proof)
	if err != nil {
		util.WriteErrorf(w, http.StatusInternalServerError, "unable to encode proof: %v", err)
		return
	}

	out := &ProofResponse{Proof: proof, Fragment: frag}

	if body.Attestation != "" {
		pkg := &eas.SharePackage{}
		if err := fragment.Decode(value(body.Attestation, fragment.KeyAttestation), pkg); err != nil {
			util.WriteErrorf(w, http.StatusBadRequest, "invalid attestation: %v", err)
			return
		}

		out.URL, err = r.links.ProofURL(pkg, proof)
		if err != nil {
			util.WriteErrorf(w, http.StatusInternalServerError, "unable to build proof link: %v", err)
			return
		}
	}

	util.WriteJSON(w, http.StatusOK, out)
}

// verifyProof answers with valid false and the reason for malformed proofs.
func (r *APIServer) verifyProof(w http.ResponseWriter, req *http.Request) {
	body := &VerifyRequest{}
	if err := json.NewDecoder(req.Body).Decode(body); err != nil {
		util.WriteErrorf(w, http.StatusBadRequest, "invalid verify request: %v", err)
		return
	}

	proof := body.Proof
	if proof == nil {
		if body.Fragment == "" {
			util.WriteError(w, http.StatusBadRequest, "proof or fragment is required")
			return
		}

		proof = &merkle.MultiProof{}
		if err := fragment.Decode(value(body.Fragment, fragment.KeyProofs), proof); err != nil {
			util.WriteJSON(w, http.StatusOK, &VerifyResponse{Error: err.Error()})
			return
		}
	}

	ok, err := merkle.VerifyProof(body.Root, proof)
	out := &VerifyResponse{Valid: ok}
	if err != nil {
		out.Error = err.Error()
	}

	util.WriteJSON(w, http.StatusOK, out)
}

func (r *APIServer) decodeLink(w http.ResponseWriter, req *http.Request) {
	body := &DecodeRequest{}
	if err := json.NewDecoder(req.Body).Decode(body); err != nil {
		util.WriteErrorf(w, http.StatusBadRequest, "invalid decode request: %v", err)
		return
	}

	bundle, err := link.Parse(body.URL)
	if errors.Is(err, link.ErrNoFragments) {
		util.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := &DecodeResponse{Bundle: bundle, View: bundle.View(req.Context(), r.revocations)}
	if err != nil {
		out.Error = err.Error()
	}

	util.WriteJSON(w, http.StatusOK, out)
}

func decodeTree(raw json.RawMessage) (*merkle.FullTree, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("merkle is required")
	}

	tree := &merkle.FullTree{}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := fragment.Decode(value(s, fragment.KeyMerkle), tree); err != nil {
			return nil, errors.Wrap(err, "invalid merkle fragment")
		}
	} else if err := json.Unmarshal(raw, tree); err != nil {
		return nil, errors.Wrap(err, "invalid merkle tree")
	}

	if err := tree.Rebuild(); err != nil {
		return nil, err
	}

	return tree, nil
}

// value accepts a bare encoded value, a key= fragment or a whole link.
func value(s, key string) string {
	if !strings.ContainsAny(s, "#=") {
		return s
	}

	v, ok, err := fragment.Lookup(fragment.Of(s), key)
	if !ok || err != nil {
		return s
	}

	return v
}
