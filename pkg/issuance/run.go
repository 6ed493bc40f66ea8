/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"sync"
	"time"
)

// Run is the handle of one issuance run. All methods are safe for concurrent use.
type Run struct {
	ID string

	lock      sync.RWMutex
	snap      Snapshot
	observers []func(Snapshot)
	watchers  map[chan Snapshot]struct{}
	done      chan struct{}
	report    *Report
	err       error
}

func newRun(id string, started time.Time, observers []func(Snapshot)) *Run {
	return &Run{
		ID: id,
		snap: Snapshot{
			RunID:     id,
			Phase:     PhaseIdle,
			Results:   []*Result{},
			Errors:    []RecordError{},
			StartedAt: started,
		},
		observers: observers,
		watchers:  map[chan Snapshot]struct{}{},
		done:      make(chan struct{}),
	}
}

func (r *Run) Snapshot() Snapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.snap.copy()
}

func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run finishes.
func (r *Run) Wait() (*Report, error) {
	<-r.done
	return r.report, r.err
}

// Watch streams snapshots, always starting with the current one. A slow reader only misses
// intermediate snapshots, never the final one. The channel is closed when the run finishes
// or cancel is called.
func (r *Run) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	r.lock.Lock()
	defer r.lock.Unlock()

	ch <- r.snap.copy()

	select {
	case <-r.done:
		close(ch)
		return ch, func() {}
	default:
	}

	r.watchers[ch] = struct{}{}

	return ch, func() {
		r.lock.Lock()
		defer r.lock.Unlock()

		if _, ok := r.watchers[ch]; ok {
			delete(r.watchers, ch)
			close(ch)
		}
	}
}

// update applies f and publishes the result. Progress never moves backwards.
func (r *Run) update(f func(s *Snapshot)) {
	r.lock.Lock()

	prev := r.snap.Progress
	f(&r.snap)
	if r.snap.Progress < prev {
		r.snap.Progress = prev
	}

	snap := r.snap.copy()
	for ch := range r.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- snap.copy()
	}

	r.lock.Unlock()

	for _, f := range r.observers {
		f(snap.copy())
	}
}

func (r *Run) finish(report *Report, err error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.report, r.err = report, err
	for ch := range r.watchers {
		close(ch)
	}
	r.watchers = map[chan Snapshot]struct{}{}
	close(r.done)
}
