/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scoir/diploma/pkg/eas"
	"github.com/scoir/diploma/pkg/fragment"
	"github.com/scoir/diploma/pkg/link"
	"github.com/scoir/diploma/pkg/merkle"
)

var (
	merkleArg      string
	attestationArg string
	linkOrigin     string
	fields         []string
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Builds a multi-proof disclosing selected fields",
	Long: `Builds a multi-proof disclosing selected fields of a private merkle tree.

 --merkle takes the encoded tree, a merkle= fragment or a whole private link. With --attestation
 a shareable proof link is printed as well.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return prove(cmd.OutOrStdout(), merkleArg, fields, attestationArg, linkOrigin)
	},
}

func init() {
	rootCmd.AddCommand(proveCmd)
	proveCmd.Flags().StringVar(&merkleArg, "merkle", "", "encoded merkle tree or private link")
	proveCmd.Flags().StringSliceVar(&fields, "field", nil, "field name to disclose, repeatable")
	proveCmd.Flags().StringVar(&attestationArg, "attestation", "", "encoded attestation or link carrying one")
	proveCmd.Flags().StringVar(&linkOrigin, "origin", "", "origin for the proof link")
	_ = proveCmd.MarkFlagRequired("merkle")
	_ = proveCmd.MarkFlagRequired("field")
}

func prove(out io.Writer, merkleArg string, fields []string, attestation, origin string) error {
	tree := &merkle.FullTree{}
	if err := fragment.Decode(valueOf(merkleArg, fragment.KeyMerkle), tree); err != nil {
		return errors.Wrap(err, "invalid merkle tree")
	}

	if err := tree.Rebuild(); err != nil {
		return err
	}

	indices, err := tree.IndicesOf(fields...)
	if err != nil {
		return err
	}

	proof, err := merkle.GenerateProof(tree, indices)
	if err != nil {
		return err
	}

	frag, err := fragment.Encode(proof)
	if err != nil {
		return errors.Wrap(err, "unable to encode proof")
	}

	fmt.Fprintf(out, "root: %s\n", tree.Root.Hex())
	fmt.Fprintf(out, "proofs: %s\n", frag)

	if attestation == "" {
		return nil
	}

	pkg := &eas.SharePackage{}
	if err := fragment.Decode(valueOf(attestation, fragment.KeyAttestation), pkg); err != nil {
		return errors.Wrap(err, "invalid attestation")
	}

	u, err := link.NewBuilder(origin).ProofURL(pkg, proof)
	if err != nil {
		return errors.Wrap(err, "unable to build proof link")
	}

	fmt.Fprintf(out, "url: %s\n", u)
	return nil
}

// valueOf accepts a bare encoded value, a key= fragment or a whole link.
func valueOf(s, key string) string {
	if !strings.ContainsAny(s, "#=") {
		return s
	}

	v, ok, err := fragment.Lookup(fragment.Of(s), key)
	if !ok || err != nil {
		return s
	}

	return v
}
