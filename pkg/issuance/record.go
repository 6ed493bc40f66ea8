/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"encoding/json"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/merkle"
)

var ErrInvalidRecipient = errors.New("invalid recipient address")

// DiplomaRecord is one row of an issuance request.
type DiplomaRecord struct {
	Degree       string      `json:"degree"`
	FIO          string      `json:"fio"`
	Faculty      string      `json:"faculty"`
	Program      string      `json:"program"`
	DiplomaTheme string      `json:"diploma_theme"`
	Date         json.Number `json:"date"`
	To           string      `json:"to"`
}

// Fields is the committed leaf set of a diploma, in leaf order.
func (r *DiplomaRecord) Fields() []merkle.TypedValue {
	return []merkle.TypedValue{
		{Type: "string", Name: "degree", Value: r.Degree},
		{Type: "string", Name: "fio", Value: r.FIO},
		{Type: "string", Name: "faculty", Value: r.Faculty},
		{Type: "string", Name: "program", Value: r.Program},
		{Type: "string", Name: "diploma_theme", Value: r.DiplomaTheme},
		{Type: "uint256", Name: "date", Value: r.Date},
	}
}

// Recipient requires a 0x prefixed 20 byte hex address. ENS names are rejected.
func (r *DiplomaRecord) Recipient() (common.Address, error) {
	if !strings.HasPrefix(r.To, "0x") || len(r.To) != 42 || !common.IsHexAddress(r.To) {
		return common.Address{}, errors.Wrap(ErrInvalidRecipient, r.To)
	}

	return common.HexToAddress(r.To), nil
}
