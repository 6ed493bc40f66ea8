/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datastore

import (
	"github.com/pkg/errors"
)

const (
	RunC         = "Run"
	AttestationC = "Attestation"
	WebhookC     = "Webhook"
)

var ErrNotFound = errors.New("not found")

// Provider storage provider interface
type Provider interface {
	// OpenStore opens a store with given name space and returns the handle
	OpenStore(name string) (Store, error)

	// CloseStore closes store of given name space
	CloseStore(name string) error

	// Close closes all stores created under this store provider
	Close() error
}

// Store keeps public issuance metadata only. Full trees, salts and private values never reach it.
//go:generate mockery -name=Store
type Store interface {
	InsertRun(r *Run) (string, error)
	UpdateRun(r *Run) error
	GetRun(id string) (*Run, error)
	ListRuns(c *RunCriteria) (*RunList, error)

	InsertAttestations(a []*IssuedAttestation) error
	GetAttestation(uid string) (*IssuedAttestation, error)
	ListAttestations(c *AttestationCriteria) (*AttestationList, error)

	InsertWebhook(w *Webhook) error
	ListWebhooks(topic string) ([]*Webhook, error)
	DeleteWebhook(topic string) error
}
