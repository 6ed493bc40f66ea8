/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package disclosure

import (
	"context"
	"strings"

	"github.com/cucumber/godog"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/issuance"
	"github.com/scoir/diploma/pkg/link"
	"github.com/scoir/diploma/pkg/merkle"
)

type provider struct {
	signer eas.Signer
}

func (r *provider) Signer() (eas.Signer, error) { return r.signer, nil }
func (r *provider) SchemaUID() common.Hash    { return common.HexToHash("0x01") }

type world struct {
	links  *link.Builder
	result *issuance.Result
	proof  *merkle.MultiProof
	view   *link.View
}

func (r *world) diplomaIsIssued(fio, theme string) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	signer := eas.NewKeySigner(key, eas.NewDomain("1.0.1", 11155111, common.HexToAddress("0xC2679fBD37d54388Ce493F1DB75320D236e1815e")))
	r.links = link.NewBuilder("https://diplomas.example")

	orch, err := issuance.New(&provider{signer: signer}, issuance.WithLinks(r.links))
	if err != nil {
		return err
	}

	report, err := orch.Run(context.Background(), []*issuance.DiplomaRecord{{
		Degree:       "Master",
		FIO:          fio,
		Faculty:      "Applied Mathematics",
		Program:      "Machine Learning",
		DiplomaTheme: theme,
		Date:         "1688169600",
		To:           "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	}})
	if err != nil {
		return err
	}

	if len(report.Results) != 1 {
		return errors.Errorf("expected one result, got %d: %v", len(report.Results), report.Errors)
	}

	r.result = report.Results[0]
	return nil
}

func (r *world) holderDiscloses(names string) error {
	tree, err := r.privateTree()
	if err != nil {
		return err
	}

	indices, err := tree.IndicesOf(strings.Split(names, ",")...)
	if err != nil {
		return err
	}

	r.proof, err = merkle.GenerateProof(tree, indices)
	return err
}

func (r *world) disclosedIsChanged(name, value string) error {
	for i := range r.proof.Leaves {
		if r.proof.Leaves[i].Name == name {
			r.proof.Leaves[i].Value = value
			return nil
		}
	}

	return errors.Errorf("%s was not disclosed", name)
}

func (r *world) proofVerifies() error {
	ok, err := merkle.VerifyProof(r.result.MerkleData.Root, r.proof)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("proof did not verify")
	}

	return nil
}

func (r *world) proofFails() error {
	ok, _ := merkle.VerifyProof(r.result.MerkleData.Root, r.proof)
	if ok {
		return errors.New("tampered proof verified")
	}

	return nil
}

func (r *world) proofLinkShows(shown, hidden string) error {
	u, err := r.links.ProofURL(r.result.Attestation, r.proof)
	if err != nil {
		return err
	}

	bundle, err := link.Parse(u)
	if err != nil {
		return err
	}

	view := bundle.View(context.Background(), nil)
	if !view.SignatureValid {
		return errors.Errorf("signature invalid: %s", view.SignatureError)
	}
	if view.ProofValid == nil || !*view.ProofValid {
		return errors.Errorf("proof invalid: %s", view.ProofError)
	}

	disclosed := map[string]bool{}
	for _, v := range view.Disclosed {
		disclosed[v.Name] = true
	}

	for _, name := range strings.Split(shown, ",") {
		if !disclosed[name] {
			return errors.Errorf("%s not disclosed", name)
		}
	}

	for _, name := range strings.Split(hidden, ",") {
		if disclosed[name] {
			return errors.Errorf("%s disclosed", name)
		}
	}

	return nil
}

func (r *world) holderOpensPrivateLink() error {
	bundle, err := link.Parse(r.result.PrivateURL)
	if err != nil {
		return err
	}

	r.view = bundle.View(context.Background(), nil)
	return nil
}

func (r *world) treeRootMatches() error {
	if r.view.RootMatches == nil || !*r.view.RootMatches {
		return errors.New("tree root does not match attestation")
	}

	return nil
}

func (r *world) privateTree() (*merkle.FullTree, error) {
	bundle, err := link.Parse(r.result.PrivateURL)
	if err != nil {
		return nil, err
	}
	if bundle.Merkle == nil {
		return nil, errors.New("private link carries no tree")
	}

	return bundle.Merkle, nil
}

func ScenarioContext(s *godog.ScenarioContext) {
	w := &world{}

	s.BeforeScenario(func(*godog.Scenario) {
		*w = world{}
	})

	s.Step(`^a diploma for "([^"]*)" with theme "([^"]*)" is issued$`, w.diplomaIsIssued)
	s.Step(`^the holder discloses "([^"]*)"$`, w.holderDiscloses)
	s.Step(`^the disclosed "([^"]*)" is changed to "([^"]*)"$`, w.disclosedIsChanged)
	s.Step(`^the proof verifies against the attested root$`, w.proofVerifies)
	s.Step(`^the proof does not verify$`, w.proofFails)
	s.Step(`^the proof link shows "([^"]*)" but not "([^"]*)"$`, w.proofLinkShows)
	s.Step(`^the holder opens the private link$`, w.holderOpensPrivateLink)
	s.Step(`^the tree root matches the attestation$`, w.treeRootMatches)
}
