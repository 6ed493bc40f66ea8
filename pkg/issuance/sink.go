/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/amqp"
	"github.com/scoir/diploma/pkg/datastore"
	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/notifier"
)

// Sink observes the durable milestones of a run. Sinks only ever see public data: full trees
// stay in the Result. A failing sink never fails the run.
type Sink interface {
	RunStarted(ctx context.Context, snap Snapshot) error
	BatchCommitted(ctx context.Context, runID string, results []*Result, errs []RecordError) error
	RunFinished(ctx context.Context, snap Snapshot) error
}

// StoreSink records runs and issued attestations in the datastore.
type StoreSink struct {
	store datastore.Store
}

func NewStoreSink(store datastore.Store) *StoreSink {
	return &StoreSink{store: store}
}

func (r *StoreSink) RunStarted(_ context.Context, snap Snapshot) error {
	_, err := r.store.InsertRun(toRun(snap))
	return errors.Wrap(err, "unable to record run")
}

func (r *StoreSink) BatchCommitted(_ context.Context, runID string, results []*Result, _ []RecordError) error {
	issued := make([]*datastore.IssuedAttestation, 0, len(results))
	for _, res := range results {
		issued = append(issued, toIssued(runID, res))
	}

	return errors.Wrap(r.store.InsertAttestations(issued), "unable to record attestations")
}

func (r *StoreSink) RunFinished(_ context.Context, snap Snapshot) error {
	return errors.Wrap(r.store.UpdateRun(toRun(snap)), "unable to update run")
}

func toRun(snap Snapshot) *datastore.Run {
	run := &datastore.Run{
		ID:        snap.RunID,
		Phase:     string(snap.Phase),
		Status:    string(snap.Status),
		Progress:  snap.Progress,
		Total:     snap.Total,
		Succeeded: len(snap.Results),
		Failed:    len(snap.Errors),
		Errors:    []*datastore.RunError{},
		Error:     snap.Error,
		StartedAt: snap.StartedAt,
	}

	for _, e := range snap.Errors {
		run.Errors = append(run.Errors, &datastore.RunError{Index: e.Index, Message: e.Message})
	}

	if len(snap.Results) > 0 {
		sig := snap.Results[0].Attestation
		run.Signer = sig.Signer.Hex()
		run.SchemaUID = sig.Sig.Message.Schema.Hex()
	}

	return run
}

func toIssued(runID string, res *Result) *datastore.IssuedAttestation {
	msg := res.Attestation.Sig.Message

	root, err := eas.PrivateDataRoot(msg.Data)
	if err != nil {
		root = res.MerkleData.Root
	}

	return &datastore.IssuedAttestation{
		UID:       res.UID.Hex(),
		RunID:     runID,
		Index:     res.Index,
		Recipient: res.Recipient.Hex(),
		Schema:    msg.Schema.Hex(),
		Root:      root.Hex(),
		Signer:    res.Attestation.Signer.Hex(),
		Time:      uint64(msg.Time),
		Revocable: msg.Revocable,
	}
}

// PublisherSink publishes run milestones as notifications on the issuance topic.
type PublisherSink struct {
	publisher amqp.Publisher
}

func NewPublisherSink(publisher amqp.Publisher) *PublisherSink {
	return &PublisherSink{publisher: publisher}
}

// BatchSummary is the event payload of a committed batch.
type BatchSummary struct {
	RunID  string        `json:"runId"`
	UIDs   []string      `json:"uids"`
	Errors []RecordError `json:"errors"`
}

// RunSummary is the event payload of a finished run.
type RunSummary struct {
	RunID     string        `json:"runId"`
	Phase     Phase         `json:"phase"`
	Status    Status        `json:"status,omitempty"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Errors    []RecordError `json:"errors"`
	Error     string        `json:"error,omitempty"`
}

func (r *PublisherSink) RunStarted(context.Context, Snapshot) error {
	return nil
}

func (r *PublisherSink) BatchCommitted(_ context.Context, runID string, results []*Result, errs []RecordError) error {
	summary := BatchSummary{RunID: runID, UIDs: []string{}, Errors: append([]RecordError{}, errs...)}
	for _, res := range results {
		summary.UIDs = append(summary.UIDs, res.UID.Hex())
	}

	return r.publish(notifier.BatchCommittedEvent, summary)
}

func (r *PublisherSink) RunFinished(_ context.Context, snap Snapshot) error {
	return r.publish(notifier.RunCompletedEvent, RunSummary{
		RunID:     snap.RunID,
		Phase:     snap.Phase,
		Status:    snap.Status,
		Total:     snap.Total,
		Succeeded: len(snap.Results),
		Errors:    snap.Errors,
		Error:     snap.Error,
	})
}

func (r *PublisherSink) publish(event string, data interface{}) error {
	d, err := json.Marshal(&notifier.Notification{
		Topic:     notifier.IssuanceTopic,
		Event:     event,
		EventData: data,
	})
	if err != nil {
		return errors.Wrap(err, "unable to marshal notification")
	}

	return r.publisher.Publish(d, "application/json")
}
