/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	"sync"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/scoir/diploma/pkg/amqp"
	"github.com/scoir/diploma/pkg/config"
	"github.com/scoir/diploma/pkg/datastore"
	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/framework"
	"github.com/scoir/diploma/pkg/issuance"
)

var logger = log.New("diploma/context")

// Provider lazily builds the collaborators of the diploma binaries from their configuration.
// Each collaborator is built once and shared.
type Provider struct {
	conf config.Config
	lock sync.Mutex

	ds          datastore.Provider
	store       datastore.Store
	signer      eas.Signer
	revocations eas.RevocationChecker
	publishers  map[string]amqp.Publisher
	orch        *issuance.Orchestrator
}

func NewProvider(conf config.Config) *Provider {
	return &Provider{conf: conf, publishers: map[string]amqp.Publisher{}}
}

func (r *Provider) Endpoint(name string) (*framework.Endpoint, error) {
	return r.conf.Endpoint(name)
}
