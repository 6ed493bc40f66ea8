/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/link"
	"github.com/scoir/diploma/pkg/merkle"
)

var logger = log.New("diploma/issuance")

var (
	ErrNoSigner  = errors.New("no signer connected")
	ErrNoRecords = errors.New("no records to issue")
)

const DefaultBatchSize = 5

// QRRenderer renders the merkle data of a result as an image data URL.
type QRRenderer interface {
	DataURL(v interface{}) (string, error)
}

type provider interface {
	Signer() (eas.Signer, error)
	SchemaUID() common.Hash
}

// Orchestrator turns diploma records into signed off-chain attestations, one run at a time
// per Start call. Runs may execute concurrently.
type Orchestrator struct {
	prov      provider
	batchSize int
	now       func() time.Time
	links     *link.Builder
	qr        QRRenderer
	sinks     []Sink
	observers []func(Snapshot)
	schema    *eas.SchemaEncoder

	treeLock sync.Mutex
	trees    *merkle.Builder
}

type Option func(opts *Orchestrator)

func WithBatchSize(n int) Option {
	return func(opts *Orchestrator) {
		opts.batchSize = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(opts *Orchestrator) {
		opts.now = now
	}
}

func WithTreeBuilder(b *merkle.Builder) Option {
	return func(opts *Orchestrator) {
		opts.trees = b
	}
}

func WithLinks(b *link.Builder) Option {
	return func(opts *Orchestrator) {
		opts.links = b
	}
}

func WithQRRenderer(qr QRRenderer) Option {
	return func(opts *Orchestrator) {
		opts.qr = qr
	}
}

func WithSink(s Sink) Option {
	return func(opts *Orchestrator) {
		opts.sinks = append(opts.sinks, s)
	}
}

// WithObserver registers f for every snapshot of every run. Calls for one run are sequential.
func WithObserver(f func(Snapshot)) Option {
	return func(opts *Orchestrator) {
		opts.observers = append(opts.observers, f)
	}
}

func New(prov provider, opts ...Option) (*Orchestrator, error) {
	schema, err := eas.NewSchemaEncoder(eas.DiplomaSchema)
	if err != nil {
		return nil, err
	}

	r := &Orchestrator{
		prov:      prov,
		batchSize: DefaultBatchSize,
		now:       time.Now,
		links:     link.NewBuilder(""),
		schema:    schema,
		trees:     merkle.NewBuilder(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.batchSize < 1 {
		return nil, errors.Errorf("batch size must be positive, got %d", r.batchSize)
	}

	return r, nil
}

// Start begins a run in the background and returns its handle.
func (r *Orchestrator) Start(ctx context.Context, records []*DiplomaRecord) *Run {
	run := newRun(uuid.New().String(), r.now(), r.observers)

	go func() {
		report, err := r.execute(ctx, run, records)
		run.finish(report, err)
	}()

	return run
}

// Run issues records and blocks until the run completes. A fatal error returns no report
// unless some batches were already committed.
func (r *Orchestrator) Run(ctx context.Context, records []*DiplomaRecord) (*Report, error) {
	return r.Start(ctx, records).Wait()
}

type request struct {
	index     int
	record    *DiplomaRecord
	recipient common.Address
	tree      *merkle.FullTree
	params    *eas.AttestationParams
}

type outcome struct {
	result *Result
	err    error
}

func (r *Orchestrator) execute(ctx context.Context, run *Run, records []*DiplomaRecord) (*Report, error) {
	run.update(func(s *Snapshot) {
		s.Phase = PhasePreparing
		s.Progress = progressStarted
		s.Total = len(records)
	})
	r.notify(func(s Sink) error { return s.RunStarted(ctx, run.Snapshot()) })

	signer, err := r.prov.Signer()
	if err == nil && signer == nil {
		err = errors.New("provider returned no signer")
	}
	if err != nil {
		return nil, r.abort(ctx, run, errors.Wrap(ErrNoSigner, err.Error()))
	}
	run.update(func(s *Snapshot) { s.Progress = progressConnected })

	if len(records) == 0 {
		return nil, r.abort(ctx, run, ErrNoRecords)
	}

	signerAddr := signer.Address()
	requests, failed := r.prepare(records)
	run.update(func(s *Snapshot) {
		s.Progress = progressPrepared
		s.Errors = append(s.Errors, failed...)
	})

	report := &Report{
		RunID:     run.ID,
		Total:     len(records),
		Results:   []*Result{},
		Errors:    append([]RecordError{}, failed...),
		Signer:    signerAddr,
		Schema:    r.prov.SchemaUID(),
		StartedAt: run.Snapshot().StartedAt,
	}

	batches := partition(requests, r.batchSize)
	run.update(func(s *Snapshot) { s.Phase = PhaseBatching })
	logger.Infof("run %s: %d records, %d prepared, %d batches", run.ID, len(records), len(requests), len(batches))

	for b, batch := range batches {
		if err := ctx.Err(); err != nil {
			sortErrors(report.Errors)
			report.Status = status(len(report.Results), len(records)-len(report.Results))
			return report, r.abort(ctx, run, errors.Wrapf(err, "run interrupted before batch %d of %d", b+1, len(batches)))
		}

		results, errs := r.sign(ctx, signer, signerAddr, batch)
		report.Results = append(report.Results, results...)
		report.Errors = append(report.Errors, errs...)

		run.update(func(s *Snapshot) {
			s.Results = append(s.Results, results...)
			s.Errors = append(s.Errors, errs...)
			s.Progress = batchProgress(b, len(batches))
		})

		r.notify(func(s Sink) error { return s.BatchCommitted(ctx, run.ID, results, errs) })
	}

	sortErrors(report.Errors)
	report.Status = status(len(report.Results), len(report.Errors))
	report.CompletedAt = r.now()

	run.update(func(s *Snapshot) {
		s.Phase = PhaseCompleted
		s.Progress = progressCompleted
		s.Status = report.Status
		s.Errors = append([]RecordError{}, report.Errors...)
	})
	logger.Infof("run %s completed: %s, %d issued, %d failed", run.ID, report.Status, len(report.Results), len(report.Errors))

	r.notify(func(s Sink) error { return s.RunFinished(ctx, run.Snapshot()) })

	return report, nil
}

func (r *Orchestrator) abort(ctx context.Context, run *Run, err error) error {
	logger.Errorf("run %s failed: %v", run.ID, err)
	run.update(func(s *Snapshot) { s.Error = err.Error() })
	r.notify(func(s Sink) error { return s.RunFinished(ctx, run.Snapshot()) })
	return err
}

// prepare validates every record and commits it into a tree. Failures exclude the record from signing.
func (r *Orchestrator) prepare(records []*DiplomaRecord) ([]*request, []RecordError) {
	var (
		out    []*request
		failed []RecordError
	)

	now := uint64(r.now().Unix())
	schemaUID := r.prov.SchemaUID()

	for i, rec := range records {
		req, err := r.prepareOne(rec, schemaUID, now)
		if err != nil {
			failed = append(failed, newRecordError(i, err))
			continue
		}

		req.index = i
		out = append(out, req)
	}

	return out, failed
}

func (r *Orchestrator) prepareOne(rec *DiplomaRecord, schemaUID common.Hash, now uint64) (*request, error) {
	if rec == nil {
		return nil, errors.New("empty record")
	}

	recipient, err := rec.Recipient()
	if err != nil {
		return nil, err
	}

	r.treeLock.Lock()
	tree, err := r.trees.Build(rec.Fields())
	r.treeLock.Unlock()
	if err != nil {
		return nil, errors.Wrap(err, "unable to build merkle tree")
	}

	data, err := r.schema.EncodeData([]eas.SchemaItem{{Name: "privateData", Type: "bytes32", Value: tree.Root}})
	if err != nil {
		return nil, err
	}

	return &request{
		record:    rec,
		recipient: recipient,
		tree:      tree,
		params: &eas.AttestationParams{
			Schema:    schemaUID,
			Recipient: recipient,
			Time:      now,
			Revocable: true,
			Data:      data,
		},
	}, nil
}

// sign issues one batch concurrently. Results and errors come back in request order
// whatever order the signer finishes in.
func (r *Orchestrator) sign(ctx context.Context, signer eas.Signer, addr common.Address, batch []*request) ([]*Result, []RecordError) {
	slots := make([]outcome, len(batch))

	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.issue(ctx, signer, addr, batch[i])
			slots[i] = outcome{result: res, err: err}
		}(i)
	}
	wg.Wait()

	var (
		results []*Result
		errs    []RecordError
	)
	for i, o := range slots {
		if o.err != nil {
			errs = append(errs, newRecordError(batch[i].index, o.err))
			continue
		}
		results = append(results, o.result)
	}

	return results, errs
}

func (r *Orchestrator) issue(ctx context.Context, signer eas.Signer, addr common.Address, req *request) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("signer panicked: %v", p)
		}
	}()

	sig, err := signer.SignOffchainAttestation(ctx, req.params)
	if err != nil {
		return nil, errors.Wrap(err, "unable to sign attestation")
	}

	if sig == nil {
		return nil, errors.New("signer returned no attestation")
	}

	pkg := &eas.SharePackage{Sig: sig, Signer: addr}

	url, err := r.links.AttestationURL(pkg)
	if err != nil {
		return nil, err
	}

	private, err := r.links.PrivateURL(pkg, req.tree)
	if err != nil {
		return nil, err
	}

	res = &Result{
		Index:       req.index,
		UID:         sig.UID,
		Recipient:   req.recipient,
		FIO:         req.record.FIO,
		Attestation: pkg,
		MerkleData:  &MerkleData{RelatedUID: sig.UID, Root: req.tree.Root, Values: req.tree.Values},
		URL:         url,
		PrivateURL:  private,
		tree:        req.tree,
	}

	if r.qr != nil {
		code, err := r.qr.DataURL(res.MerkleData)
		if err != nil {
			logger.Warnf("no qr code for record %d: %v", req.index+1, err)
		} else {
			res.QRCode = code
		}
	}

	return res, nil
}

func (r *Orchestrator) notify(f func(s Sink) error) {
	for _, s := range r.sinks {
		if err := f(s); err != nil {
			logger.Warnf("issuance sink failed: %v", err)
		}
	}
}

func partition(requests []*request, size int) [][]*request {
	var out [][]*request
	for start := 0; start < len(requests); start += size {
		end := start + size
		if end > len(requests) {
			end = len(requests)
		}
		out = append(out, requests[start:end])
	}

	return out
}

// batchProgress stays below completion until the run is marked completed.
func batchProgress(b, batches int) int {
	p := progressPrepared + (progressCompleted-progressPrepared)*(b+1)/batches
	if p >= progressCompleted {
		p = progressCompleted - 1
	}

	return p
}

func sortErrors(errs []RecordError) {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Index < errs[j].Index })
}
