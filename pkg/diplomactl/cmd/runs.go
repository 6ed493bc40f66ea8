/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/datastore"
)

var (
	runsStart    int
	runsPageSize int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Lists recorded issuance runs",
	Long:  `Lists recorded issuance runs, newest first`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, err := provider().Store()
		if err != nil {
			return errors.Wrap(err, "unable to access datastore")
		}

		return listRuns(cmd.OutOrStdout(), store, time.Now())
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().IntVar(&runsStart, "start", 0, "index of the first run")
	runsCmd.Flags().IntVar(&runsPageSize, "page-size", 10, "number of runs to list")
}

func listRuns(out io.Writer, store datastore.Store, now time.Time) error {
	list, err := store.ListRuns(&datastore.RunCriteria{Start: runsStart, PageSize: runsPageSize})
	if err != nil {
		return errors.Wrap(err, "unable to list runs")
	}

	tab := tabwriter.NewWriter(out, 10, 4, 3, ' ', 0)
	fmt.Fprintln(tab, "ID\tSTATUS\tISSUED\tFAILED\tAGE")

	for _, r := range list.Runs {
		status := r.Status
		if status == "" {
			status = r.Phase
		}
		fmt.Fprintf(tab, "%s\t%s\t%d\t%d\t%s\n", r.ID, status, r.Succeeded, r.Failed, now.Sub(r.StartedAt).Round(time.Second))
	}
	_ = tab.Flush()

	fmt.Fprintf(out, "\nRuns recorded: %d\n", list.Count)
	return nil
}
