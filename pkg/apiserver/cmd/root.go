/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/config"
	"github.com/scoir/diploma/pkg/framework/context"
	"github.com/scoir/diploma/pkg/util"
)

var cfgFile string

var ctx *context.Provider

var rootCmd = &cobra.Command{
	Use:   "diploma-api",
	Short: "The diploma attestation API.",
	Long: `"The diploma attestation API.".

 Issues diploma attestations in batches, builds selective disclosure proofs and decodes shared links.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/diploma/diploma-api-config.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	vp := &config.ViperConfigProvider{DefaultConfigName: "diploma-api-config"}

	conf, err := vp.Load(cfgFile)
	if err != nil {
		fmt.Println("unable to read config:", err)
		os.Exit(1)
	}

	if err := util.SetLogLevel(conf.LogLevel()); err != nil {
		fmt.Println("invalid log level:", err)
		os.Exit(1)
	}

	ctx = context.NewProvider(conf)
}
