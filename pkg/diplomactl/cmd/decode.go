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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/link"
)

var checkRevocation bool

var decodeCmd = &cobra.Command{
	Use:   "decode URL",
	Short: "Decodes a diploma link and checks what it carries",
	Long: `Decodes a diploma link and checks what it carries.

 The attestation signature and any proof or tree are always checked. With --revocation the
 configured EAS contract is asked whether the attestation was revoked.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var checker eas.RevocationChecker
		if checkRevocation {
			var err error
			checker, err = provider().RevocationChecker(ctx)
			if err != nil {
				return errors.Wrap(err, "unable to check revocations")
			}
		}

		return decode(ctx, cmd.OutOrStdout(), args[0], checker)
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVar(&checkRevocation, "revocation", false, "check revocation against the configured contract")
}

func decode(ctx context.Context, out io.Writer, raw string, checker eas.RevocationChecker) error {
	bundle, err := link.Parse(raw)
	if errors.Is(err, link.ErrNoFragments) {
		return err
	}
	if err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}

	d, _ := json.MarshalIndent(struct {
		Bundle *link.Bundle `json:"bundle"`
		View   *link.View   `json:"view"`
	}{bundle, bundle.View(ctx, checker)}, "", "  ")

	fmt.Fprintln(out, string(d))
	return nil
}
