/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/fragment"
	"github.com/scoir/diploma/pkg/merkle"
)

var ErrInvalidProof = errors.New("proof does not match root")

var (
	rootArg  string
	proofArg string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Checks a multi-proof against a merkle root",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return verify(cmd.OutOrStdout(), rootArg, proofArg)
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&rootArg, "root", "", "0x prefixed merkle root")
	verifyCmd.Flags().StringVar(&proofArg, "proof", "", "encoded proof, proofs= fragment or proof link")
	_ = verifyCmd.MarkFlagRequired("root")
	_ = verifyCmd.MarkFlagRequired("proof")
}

func verify(out io.Writer, root, proofArg string) error {
	b, err := hexutil.Decode(root)
	if err != nil || len(b) != common.HashLength {
		return errors.Errorf("invalid root %q", root)
	}

	proof := &merkle.MultiProof{}
	if err := fragment.Decode(valueOf(proofArg, fragment.KeyProofs), proof); err != nil {
		return errors.Wrap(err, "invalid proof")
	}

	ok, err := merkle.VerifyProof(common.BytesToHash(b), proof)
	if err != nil {
		return errors.Wrap(err, "malformed proof")
	}

	if !ok {
		return ErrInvalidProof
	}

	for _, v := range proof.Leaves {
		fmt.Fprintf(out, "%s (%s): %v\n", v.Name, v.Type, v.Value)
	}
	fmt.Fprintln(out, "proof valid")

	return nil
}
