/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/merkle"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhasePreparing Phase = "preparing"
	PhaseBatching  Phase = "batching"
	PhaseCompleted Phase = "completed"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusFailure Status = "failure"
)

// Progress checkpoints. Batching interpolates between prepared and completed.
const (
	progressStarted   = 5
	progressConnected = 10
	progressPrepared  = 30
	progressCompleted = 100
)

// RecordError ties a failure to the index of the record that caused it.
type RecordError struct {
	Index   int    `json:"index"`
	Message string `json:"error"`

	err error
}

func newRecordError(index int, err error) RecordError {
	return RecordError{Index: index, Message: fmt.Sprintf("record %d: %v", index+1, err), err: err}
}

func (r RecordError) Error() string {
	return r.Message
}

func (r RecordError) Unwrap() error {
	return r.err
}

// MerkleData is the tree of one diploma as handed to its holder.
type MerkleData struct {
	RelatedUID common.Hash   `json:"relatedUid"`
	Root       common.Hash   `json:"root"`
	Values     []merkle.Leaf `json:"values"`
}

type Result struct {
	Index       int               `json:"index"`
	UID         common.Hash       `json:"uid"`
	Recipient   common.Address    `json:"recipient"`
	FIO         string            `json:"fio"`
	Attestation *eas.SharePackage `json:"attestation"`
	MerkleData  *MerkleData       `json:"merkleData"`
	URL         string            `json:"url"`
	PrivateURL  string            `json:"privateUrl"`
	QRCode      string            `json:"qrCode,omitempty"`

	tree *merkle.FullTree
}

// Tree is the full tree behind the result. It never leaves the process through sinks.
func (r *Result) Tree() *merkle.FullTree {
	return r.tree
}

// Snapshot is the externally visible state of a run.
type Snapshot struct {
	RunID     string        `json:"runId"`
	Phase     Phase         `json:"phase"`
	Progress  int           `json:"progress"`
	Total     int           `json:"total"`
	Results   []*Result     `json:"results"`
	Errors    []RecordError `json:"errors"`
	Status    Status        `json:"status,omitempty"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
}

func (r Snapshot) copy() Snapshot {
	r.Results = append([]*Result{}, r.Results...)
	r.Errors = append([]RecordError{}, r.Errors...)
	return r
}

// Report is the outcome of a completed run.
type Report struct {
	RunID       string         `json:"runId"`
	Status      Status         `json:"status"`
	Total       int            `json:"total"`
	Results     []*Result      `json:"results"`
	Errors      []RecordError  `json:"errors"`
	Signer      common.Address `json:"signer"`
	Schema      common.Hash    `json:"schema"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt time.Time      `json:"completedAt"`
}

func status(succeeded, failed int) Status {
	switch {
	case failed == 0 && succeeded > 0:
		return StatusSuccess
	case succeeded > 0:
		return StatusPartial
	default:
		return StatusFailure
	}
}
