/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package datastore

import (
	"time"
)

type Run struct {
	ID          string
	Phase       string
	Status      string
	Progress    int
	Total       int
	Succeeded   int
	Failed      int
	Errors      []*RunError
	SchemaUID   string
	Signer      string
	Error       string
	StartedAt   time.Time
	CompletedAt time.Time
}

type RunError struct {
	Index   int
	Message string
}

type RunCriteria struct {
	Start, PageSize int
	Status          string
}

type RunList struct {
	Count int
	Runs  []*Run
}

// IssuedAttestation is the public record of one signed attestation.
type IssuedAttestation struct {
	UID       string
	RunID     string
	Index     int
	Recipient string
	Schema    string
	Root      string
	Signer    string
	Time      uint64
	Revocable bool
}

type AttestationCriteria struct {
	Start, PageSize int
	RunID           string
	Recipient       string
}

type AttestationList struct {
	Count        int
	Attestations []*IssuedAttestation
}

type Webhook struct {
	Type string
	URL  string
}
