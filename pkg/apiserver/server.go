/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package apiserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"
	goji "goji.io"
	"goji.io/pat"

	"github.com/scoir/diploma/pkg/datastore"
	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/issuance"
	"github.com/scoir/diploma/pkg/link"
)

var logger = log.New("diploma/apiserver")

// DefaultRunRetention bounds how long a finished run and its private results stay in memory.
const DefaultRunRetention = 10 * time.Minute

type issuer interface {
	Start(ctx context.Context, records []*issuance.DiplomaRecord) *issuance.Run
}

// APIServer is the HTTP surface over issuance runs, proofs and links.
type APIServer struct {
	issuer      issuer
	signer      func() (eas.Signer, error)
	store       datastore.Store
	links       *link.Builder
	revocations eas.RevocationChecker

	runsLock  sync.RWMutex
	runs      map[string]*issuance.Run
	retention time.Duration
}

//go:generate mockery -name=provider --structname=Provider
type provider interface {
	Orchestrator() (*issuance.Orchestrator, error)
	Signer() (eas.Signer, error)
	Store() (datastore.Store, error)
	Links() *link.Builder
	RevocationChecker(ctx context.Context) (eas.RevocationChecker, error)
}

func New(ctx provider) (*APIServer, error) {
	r := &APIServer{
		signer:    ctx.Signer,
		links:     ctx.Links(),
		runs:      map[string]*issuance.Run{},
		retention: DefaultRunRetention,
	}

	orch, err := ctx.Orchestrator()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get orchestrator")
	}
	r.issuer = orch

	r.store, err = ctx.Store()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get datastore")
	}

	r.revocations, err = ctx.RevocationChecker(context.Background())
	if err != nil {
		logger.Warnf("revocation status unavailable: %v", err)
		r.revocations = nil
	}

	return r, nil
}

func (r *APIServer) Routes() http.Handler {
	mux := goji.NewMux()

	mux.Handle(pat.Post("/attestations"), http.HandlerFunc(r.issue))
	mux.Handle(pat.Get("/attestations"), http.HandlerFunc(r.listAttestations))
	mux.Handle(pat.Get("/attestations/runs/:id"), http.HandlerFunc(r.getRun))
	mux.Handle(pat.Get("/attestations/runs/:id/watch"), http.HandlerFunc(r.watchRun))
	mux.Handle(pat.Get("/attestations/:uid"), http.HandlerFunc(r.getAttestation))
	mux.Handle(pat.Get("/runs"), http.HandlerFunc(r.listRuns))

	mux.Handle(pat.Post("/proofs"), http.HandlerFunc(r.createProof))
	mux.Handle(pat.Post("/proofs/verify"), http.HandlerFunc(r.verifyProof))
	mux.Handle(pat.Post("/links/decode"), http.HandlerFunc(r.decodeLink))

	mux.Handle(pat.Post("/webhooks"), http.HandlerFunc(r.createWebhook))
	mux.Handle(pat.Get("/webhooks/:topic"), http.HandlerFunc(r.listWebhooks))
	mux.Handle(pat.Delete("/webhooks/:topic"), http.HandlerFunc(r.deleteWebhook))

	return mux
}
