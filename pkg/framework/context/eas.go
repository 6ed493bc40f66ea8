/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/scoir/diploma/pkg/eas"
)

// Signer returns the configured issuing key. Without one no run can start.
func (r *Provider) Signer() (eas.Signer, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.signer != nil {
		return r.signer, nil
	}

	ec, err := r.conf.EAS()
	if err != nil {
		return nil, err
	}

	signer, err := ec.Signer()
	if err != nil {
		return nil, err
	}

	r.signer = signer
	return r.signer, nil
}

// SchemaUID is the registered diploma schema, or the zero hash when unconfigured.
func (r *Provider) SchemaUID() common.Hash {
	ec, err := r.conf.EAS()
	if err != nil {
		return common.Hash{}
	}

	uid, err := ec.Schema()
	if err != nil {
		logger.Warnf("no diploma schema: %v", err)
		return common.Hash{}
	}

	return uid
}

func (r *Provider) RevocationChecker(ctx context.Context) (eas.RevocationChecker, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.revocations != nil {
		return r.revocations, nil
	}

	ec, err := r.conf.EAS()
	if err != nil {
		return nil, err
	}

	revocations, err := ec.Revocations(ctx)
	if err != nil {
		return nil, err
	}

	r.revocations = revocations
	return r.revocations, nil
}
