/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eas

import (
	"context"
	"strings"

	"github.com/cenkalti/backoff"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/util"
)

const revocationABI = `[{
	"type": "function",
	"name": "getRevokeOffchain",
	"stateMutability": "view",
	"inputs": [{"name": "revoker", "type": "address"}, {"name": "data", "type": "bytes32"}],
	"outputs": [{"name": "", "type": "uint64"}]
}]`

// RevocationChecker reports when revoker revoked uid off-chain, 0 if it never did.
type RevocationChecker interface {
	RevokedAt(ctx context.Context, revoker common.Address, uid common.Hash) (uint64, error)
}

// ContractRevocations reads revocations from the EAS contract.
type ContractRevocations struct {
	caller     ethereum.ContractCaller
	contract   common.Address
	abi        abi.ABI
	newBackOff func() backoff.BackOff
}

type RevocationOption func(opts *ContractRevocations)

// WithBackOff replaces the exponential retry policy used for contract calls.
func WithBackOff(f func() backoff.BackOff) RevocationOption {
	return func(opts *ContractRevocations) {
		opts.newBackOff = f
	}
}

func NewContractRevocations(caller ethereum.ContractCaller, contract common.Address, opts ...RevocationOption) (*ContractRevocations, error) {
	parsed, err := abi.JSON(strings.NewReader(revocationABI))
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse revocation abi")
	}

	r := &ContractRevocations{
		caller:   caller,
		contract: contract,
		abi:      parsed,
		newBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4)
		},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

func (r *ContractRevocations) RevokedAt(ctx context.Context, revoker common.Address, uid common.Hash) (uint64, error) {
	input, err := r.abi.Pack("getRevokeOffchain", revoker, [32]byte(uid))
	if err != nil {
		return 0, errors.Wrap(err, "unable to pack getRevokeOffchain")
	}

	var out []byte
	call := func() error {
		var err error
		out, err = r.caller.CallContract(ctx, ethereum.CallMsg{To: &r.contract, Data: input}, nil)
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}

	err = backoff.RetryNotify(call, backoff.WithContext(r.newBackOff(), ctx), util.Logger)
	if err != nil {
		return 0, errors.Wrap(err, "unable to read revocation")
	}

	res, err := r.abi.Unpack("getRevokeOffchain", out)
	if err != nil {
		return 0, errors.Wrap(err, "unable to unpack revocation")
	}

	ts, ok := res[0].(uint64)
	if !ok {
		return 0, errors.Errorf("unexpected revocation result %T", res[0])
	}

	return ts, nil
}
