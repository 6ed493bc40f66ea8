/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/scoir/diploma/pkg/framework"
)

const (
	defaultAMQP      = "diploma-amqp-config"
	defaultDataStore = "diploma-data-store-config"
	defaultEAS       = "diploma-eas-config"

	envPrefix = "DIPLOMA"
)

// Option configures a section merge.
type Option func(opts *vpr)

// WithFile merges file instead of the section's default config name.
func WithFile(file string) Option {
	return func(opts *vpr) {
		opts.file = file
	}
}

type ViperConfigProvider struct {
	DefaultConfigName string
}

type vpr struct {
	*viper.Viper
	file   string
	merges map[string]error
}

func (r *ViperConfigProvider) Load(file string) (Config, error) {
	config := &vpr{
		Viper:  viper.New(),
		merges: map[string]error{},
	}

	if file != "" {
		config.SetConfigFile(file)
	} else {
		config.SetConfigType("yaml")
		config.AddConfigPath("/etc/diploma/")
		config.AddConfigPath("./deploy/compose/")
		config.SetConfigName(r.DefaultConfigName)
	}

	config.SetEnvPrefix(envPrefix)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv()

	err := config.BindPFlags(pflag.CommandLine)
	if err != nil {
		return nil, errors.Wrap(err, "failed to bind flags")
	}

	err = config.ReadInConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", config.ConfigFileUsed())
	}

	return config, nil
}

func (r *vpr) WithDatastore(opts ...Option) Config {
	return r.with("datastore", defaultDataStore, opts)
}

func (r *vpr) WithAMQP(opts ...Option) Config {
	return r.with("amqp", defaultAMQP, opts)
}

func (r *vpr) WithEAS(opts ...Option) Config {
	return r.with("eas", defaultEAS, opts)
}

func (r *vpr) with(section, defawlt string, opts []Option) Config {
	r.file = ""
	for _, opt := range opts {
		opt(r)
	}

	if r.file != "" {
		r.SetConfigFile(r.file)
	} else {
		r.SetConfigName(defawlt)
	}

	err := r.MergeInConfig()
	if err != nil {
		r.merges[section] = errors.Wrapf(err, "failed to merge %s", r.ConfigFileUsed())
	}

	return r
}

func (r *vpr) AMQPAddress() string {
	amqpUser := r.GetString("amqp.user")
	amqpPwd := r.GetString("amqp.password")
	amqpHost := r.GetString("amqp.host")
	amqpPort := r.GetInt("amqp.port")
	amqpVHost := r.GetString("amqp.vhost")

	return fmt.Sprintf("amqp://%s:%s@%s:%d/%s", amqpUser, amqpPwd, amqpHost, amqpPort, amqpVHost)
}

func (r *vpr) AMQPConfig() (*framework.AMQPConfig, error) {
	config := &framework.AMQPConfig{}

	err := r.unmarshal("amqp", config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

func (r *vpr) DataStore() (*framework.DatastoreConfig, error) {
	dc := &framework.DatastoreConfig{}

	err := r.unmarshal("datastore", dc)
	if err != nil {
		return nil, err
	}

	return dc, nil
}

// EAS reads the eas section. The private key may come from DIPLOMA_EAS_PRIVATEKEY instead of a file.
func (r *vpr) EAS() (*framework.EASConfig, error) {
	ec := &framework.EASConfig{}

	err := r.unmarshal("eas", ec)
	if err != nil {
		return nil, err
	}

	if key := r.GetString("eas.privateKey"); key != "" {
		ec.PrivateKey = key
	}

	return ec, nil
}

func (r *vpr) Issuance() (*framework.IssuanceConfig, error) {
	ic := &framework.IssuanceConfig{}

	err := r.unmarshal("issuance", ic)
	if err != nil {
		return nil, err
	}

	return ic, nil
}

func (r *vpr) LogLevel() string {
	level := r.GetString("log.level")
	if level == "" {
		level = "info"
	}

	return level
}

func (r *vpr) unmarshal(section string, v interface{}) error {
	if err := r.merges[section]; err != nil {
		return err
	}

	return errors.Wrapf(r.UnmarshalKey(section, v), "invalid %s configuration", section)
}

// GetString uses Get because recursion
func (r *vpr) GetString(s string) string {
	ret, _ := r.Get(s).(string)

	return ret
}

// GetInt uses Get because same recursion
func (r *vpr) GetInt(s string) int {
	ret, _ := r.Get(s).(int)

	return ret
}

func (r *vpr) Endpoint(key string) (*framework.Endpoint, error) {
	ep := &framework.Endpoint{}

	err := r.UnmarshalKey(key, ep)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load key "+key)
	}

	return ep, nil
}
