/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import "github.com/scoir/diploma/pkg/framework"

type Provider interface {
	Load(file string) (Config, error)
}

// Config is the merged configuration of one binary. With* merges a section file into it; a
// failed merge surfaces from the matching accessor.
type Config interface {
	WithAMQP(opts ...Option) Config
	AMQPAddress() string
	AMQPConfig() (*framework.AMQPConfig, error)

	WithDatastore(opts ...Option) Config
	DataStore() (*framework.DatastoreConfig, error)

	WithEAS(opts ...Option) Config
	EAS() (*framework.EASConfig, error)

	Issuance() (*framework.IssuanceConfig, error)
	LogLevel() string

	GetString(s string) string
	GetInt(s string) int

	Endpoint(s string) (*framework.Endpoint, error)
}
