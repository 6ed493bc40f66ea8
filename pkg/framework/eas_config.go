/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package framework

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/eas"
)

var ErrNoSigningKey = errors.New("no signing key configured")

// EASConfig locates the attestation service deployment diplomas are issued against.
type EASConfig struct {
	Contract   string `mapstructure:"contract"`
	ChainID    uint64 `mapstructure:"chainId"`
	Version    string `mapstructure:"version"`
	SchemaUID  string `mapstructure:"schemaUID"`
	RPCURL     string `mapstructure:"rpcURL"`
	PrivateKey string `mapstructure:"privateKey"`
}

func (r *EASConfig) Domain() (eas.Domain, error) {
	if !common.IsHexAddress(r.Contract) {
		return eas.Domain{}, errors.Errorf("invalid eas contract address %q", r.Contract)
	}

	if r.ChainID == 0 || r.Version == "" {
		return eas.Domain{}, errors.New("eas chainId and version are required")
	}

	return eas.NewDomain(r.Version, r.ChainID, common.HexToAddress(r.Contract)), nil
}

func (r *EASConfig) Schema() (common.Hash, error) {
	s := strings.TrimPrefix(r.SchemaUID, "0x")
	if len(s) != 2*common.HashLength {
		return common.Hash{}, errors.Errorf("invalid schema uid %q", r.SchemaUID)
	}

	return common.HexToHash(r.SchemaUID), nil
}

// Signer loads the configured private key into a key signer for the configured domain.
func (r *EASConfig) Signer() (*eas.KeySigner, error) {
	if r.PrivateKey == "" {
		return nil, ErrNoSigningKey
	}

	domain, err := r.Domain()
	if err != nil {
		return nil, err
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(r.PrivateKey, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid eas private key")
	}

	return eas.NewKeySigner(key, domain), nil
}

// Revocations dials the configured RPC endpoint and queries revocations on the eas contract.
func (r *EASConfig) Revocations(ctx context.Context) (*eas.ContractRevocations, error) {
	if r.RPCURL == "" {
		return nil, errors.New("no eas rpc url configured")
	}

	if !common.IsHexAddress(r.Contract) {
		return nil, errors.Errorf("invalid eas contract address %q", r.Contract)
	}

	client, err := ethclient.DialContext(ctx, r.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to dial %s", r.RPCURL)
	}

	return eas.NewContractRevocations(client, common.HexToAddress(r.Contract))
}
