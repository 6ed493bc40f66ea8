/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/apiserver"
	"github.com/scoir/diploma/pkg/controller"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Starts the diploma API",
	Long:  `Starts the diploma API`,
	Run:   runStart,
}

func runStart(_ *cobra.Command, _ []string) {
	srv, err := apiserver.New(ctx)
	if err != nil {
		log.Fatalln("error initializing diploma-api", err)
	}

	runner, err := controller.New(ctx, srv)
	if err != nil {
		log.Fatalln("unable to start diploma-api", err)
	}

	err = runner.Launch()
	if err != nil {
		log.Fatalln("launch errored with", err)
	}

	log.Println("Shutdown")
}

func init() {
	rootCmd.AddCommand(startCmd)
}
