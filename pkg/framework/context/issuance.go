/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	"github.com/scoir/diploma/pkg/framework"
	"github.com/scoir/diploma/pkg/issuance"
	"github.com/scoir/diploma/pkg/link"
	"github.com/scoir/diploma/pkg/notifier"
	"github.com/scoir/diploma/pkg/qr"
)

func (r *Provider) issuanceConfig() *framework.IssuanceConfig {
	ic, err := r.conf.Issuance()
	if err != nil {
		logger.Warnf("using issuance defaults: %v", err)
		return &framework.IssuanceConfig{}
	}

	return ic
}

// Links builds links under the configured link base.
func (r *Provider) Links() *link.Builder {
	return link.NewBuilder(r.issuanceConfig().LinkBase)
}

// Orchestrator is the shared orchestrator built by NewOrchestrator without extra options.
func (r *Provider) Orchestrator() (*issuance.Orchestrator, error) {
	r.lock.Lock()
	orch := r.orch
	r.lock.Unlock()
	if orch != nil {
		return orch, nil
	}

	orch, err := r.NewOrchestrator()
	if err != nil {
		return nil, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if r.orch == nil {
		r.orch = orch
	}

	return r.orch, nil
}

// NewOrchestrator wires a new issuance orchestrator to this provider. The store and the
// notification queue become sinks when they are configured. Extra options apply last.
func (r *Provider) NewOrchestrator(extra ...issuance.Option) (*issuance.Orchestrator, error) {
	ic := r.issuanceConfig()
	opts := []issuance.Option{issuance.WithLinks(link.NewBuilder(ic.LinkBase))}

	if ic.BatchSize > 0 {
		opts = append(opts, issuance.WithBatchSize(ic.BatchSize))
	}

	if ic.QR {
		opts = append(opts, issuance.WithQRRenderer(qr.NewRenderer()))
	}

	if store, err := r.Store(); err != nil {
		logger.Warnf("issuance runs will not be recorded: %v", err)
	} else {
		opts = append(opts, issuance.WithSink(issuance.NewStoreSink(store)))
	}

	if pub, err := r.GetAMQPPublisher(notifier.QueueName); err != nil {
		logger.Warnf("issuance notifications disabled: %v", err)
	} else {
		opts = append(opts, issuance.WithSink(issuance.NewPublisherSink(pub)))
	}

	return issuance.New(r, append(opts, extra...)...)
}
