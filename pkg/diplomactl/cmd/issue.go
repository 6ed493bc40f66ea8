/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/issuance"
)

var (
	recordsFile string
	reportFile  string
	batchSize   int
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issues attestations for a file of diploma records",
	Long: `Issues attestations for a JSON array of diploma records.

 The report, including private links and merkle data, is written to --out when given.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := readRecords(recordsFile)
		if err != nil {
			return err
		}

		orch, err := orchestrator(provider(), batchSize)
		if err != nil {
			return err
		}

		report, err := orch.Run(context.Background(), records)
		if err != nil {
			return errors.Wrap(err, "issuance failed")
		}

		if reportFile != "" {
			d, _ := json.MarshalIndent(report, "", "  ")
			if err := ioutil.WriteFile(reportFile, d, 0600); err != nil {
				return errors.Wrap(err, "unable to write report")
			}
		}

		printReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)
	issueCmd.Flags().StringVar(&recordsFile, "records", "", "JSON file of diploma records")
	issueCmd.Flags().StringVar(&reportFile, "out", "", "file to write the full report to")
	issueCmd.Flags().IntVar(&batchSize, "batch-size", 0, "records signed concurrently per batch")
	_ = issueCmd.MarkFlagRequired("records")
}

type orchestrators interface {
	Orchestrator() (*issuance.Orchestrator, error)
	NewOrchestrator(extra ...issuance.Option) (*issuance.Orchestrator, error)
}

// orchestrator keeps the configured sinks and renderers and only overrides the batch size.
func orchestrator(prov orchestrators, batchSize int) (*issuance.Orchestrator, error) {
	if batchSize <= 0 {
		return prov.Orchestrator()
	}

	return prov.NewOrchestrator(issuance.WithBatchSize(batchSize))
}

func readRecords(file string) ([]*issuance.DiplomaRecord, error) {
	d, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read records")
	}

	var records []*issuance.DiplomaRecord
	if err := json.Unmarshal(d, &records); err != nil {
		return nil, errors.Wrapf(err, "invalid records file %s", file)
	}

	return records, nil
}

func printReport(out io.Writer, report *issuance.Report) {
	tab := tabwriter.NewWriter(out, 10, 4, 3, ' ', 0)
	fmt.Fprintln(tab, "RECORD\tFIO\tUID\tURL")
	for _, res := range report.Results {
		fmt.Fprintf(tab, "%d\t%s\t%s\t%s\n", res.Index+1, res.FIO, res.UID.Hex(), res.URL)
	}
	_ = tab.Flush()

	for _, e := range report.Errors {
		fmt.Fprintln(out, e.Message)
	}

	fmt.Fprintf(out, "\nRun %s: %s, %d of %d issued\n", report.RunID, report.Status, len(report.Results), report.Total)
}
