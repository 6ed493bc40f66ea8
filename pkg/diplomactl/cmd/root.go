/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/config"
	"github.com/scoir/diploma/pkg/framework/context"
	"github.com/scoir/diploma/pkg/util"
)

var (
	cfgFile string

	ctxOnce sync.Once
	ctx     *context.Provider
)

var rootCmd = &cobra.Command{
	Use:   "diplomactl",
	Short: "The diploma CLI issues and checks diploma attestations.",
	Long: `The diploma CLI issues and checks diploma attestations.

 Proof, verify and decode work offline. Issue and runs read the configuration file.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.diploma.yaml)")
}

// provider loads the configuration on first use so offline commands never need one.
func provider() *context.Provider {
	ctxOnce.Do(func() {
		file := cfgFile
		if file == "" {
			home, err := homedir.Dir()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			file = filepath.Join(home, ".diploma.yaml")
		}

		conf, err := (&config.ViperConfigProvider{}).Load(file)
		if err != nil {
			fmt.Println("unable to read config:", err)
			os.Exit(1)
		}

		if err := util.SetLogLevel(conf.LogLevel()); err != nil {
			fmt.Println("invalid log level:", err)
			os.Exit(1)
		}

		ctx = context.NewProvider(conf)
	})

	return ctx
}
