/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/datastore"
)

const storeName = "diploma"

func (r *Provider) Datastore() (datastore.Provider, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.datastore()
}

func (r *Provider) datastore() (datastore.Provider, error) {
	if r.ds != nil {
		return r.ds, nil
	}

	dc, err := r.conf.DataStore()
	if err != nil {
		return nil, err
	}

	ds, err := dc.StorageProvider()
	if err != nil {
		return nil, errors.Wrap(err, "unable to get datastore from config")
	}

	r.ds = ds
	return r.ds, nil
}

// Store opens the shared diploma store.
func (r *Provider) Store() (datastore.Store, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.store != nil {
		return r.store, nil
	}

	ds, err := r.datastore()
	if err != nil {
		return nil, err
	}

	r.store, err = ds.OpenStore(storeName)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open diploma store")
	}

	return r.store, nil
}
