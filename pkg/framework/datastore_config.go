/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package framework

import (
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/datastore"
	"github.com/scoir/diploma/pkg/datastore/mongodb"
)

// DefaultDatabase holds run and attestation metadata when no database name is configured.
const DefaultDatabase = "diploma"

var (
	ErrNoDatastore          = errors.New("no datastore configuration was provided")
	ErrUnsupportedDatastore = errors.New("unsupported datastore")
)

type DatastoreConfig struct {
	Database string          `mapstructure:"database"`
	Mongo    *mongodb.Config `mapstructure:"mongo"`
}

// MongoConfig validates the mongo section and fills in the default database name.
func (r *DatastoreConfig) MongoConfig() (*mongodb.Config, error) {
	if r.Mongo == nil || r.Mongo.URL == "" {
		return nil, errors.New("mongo datastore requires a url")
	}

	mc := *r.Mongo
	if mc.Database == "" {
		mc.Database = DefaultDatabase
	}

	return &mc, nil
}

func (r *DatastoreConfig) StorageProvider() (datastore.Provider, error) {
	switch r.Database {
	case "":
		return nil, ErrNoDatastore
	case "mongo":
		mc, err := r.MongoConfig()
		if err != nil {
			return nil, err
		}

		dp, err := mongodb.NewProvider(mc)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create mongo datastore")
		}

		return dp, nil
	default:
		return nil, errors.Wrap(ErrUnsupportedDatastore, r.Database)
	}
}
