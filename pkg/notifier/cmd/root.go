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

var (
	cfgFile string
	prov    *context.Provider
)

var rootCmd = &cobra.Command{
	Use:   "diploma-notifier",
	Short: "The diploma webhook notifier.",
	Long: `"The diploma webhook notifier.".

 Delivers issuance events from the notification queue to registered webhooks.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/diploma/diploma-webhook-notifier.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	vp := &config.ViperConfigProvider{DefaultConfigName: "diploma-webhook-notifier"}

	conf, err := vp.Load(cfgFile)
	if err != nil {
		fmt.Println("unable to read config:", err)
		os.Exit(1)
	}

	if err := util.SetLogLevel(conf.LogLevel()); err != nil {
		fmt.Println("invalid log level:", err)
		os.Exit(1)
	}

	prov = context.NewProvider(conf)
}
