/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuance

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDiplomaRecord_Recipient(t *testing.T) {
	tests := []struct {
		to   string
		want common.Address
		err  bool
	}{
		{to: "0x1111111111111111111111111111111111111111", want: common.HexToAddress("0x1111111111111111111111111111111111111111")},
		{to: "0xC2679fBD37d54388Ce493F1DB75320D236e1815e", want: common.HexToAddress("0xC2679fBD37d54388Ce493F1DB75320D236e1815e")},
		{to: "1111111111111111111111111111111111111111", err: true},
		{to: "0x11111111111111111111111111111111111111", err: true},
		{to: "0xZZ11111111111111111111111111111111111111", err: true},
		{to: "ivanov.eth", err: true},
		{to: "", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			rec := &DiplomaRecord{To: tt.to}
			addr, err := rec.Recipient()
			if tt.err {
				require.True(t, errors.Is(err, ErrInvalidRecipient))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, addr)
		})
	}
}

func TestDiplomaRecord_Fields(t *testing.T) {
	rec := &DiplomaRecord{}
	err := json.Unmarshal([]byte(`{
		"degree": "Master",
		"fio": "Ivanov Ivan",
		"faculty": "CS",
		"program": "ML",
		"diploma_theme": "X",
		"date": 1700000000,
		"to": "0x1111111111111111111111111111111111111111"
	}`), rec)
	require.NoError(t, err)

	fields := rec.Fields()
	require.Len(t, fields, 6)

	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"degree", "fio", "faculty", "program", "diploma_theme", "date"}, names)
	require.Equal(t, "uint256", fields[5].Type)
	require.Equal(t, json.Number("1700000000"), fields[5].Value)
}
