/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestNewValue(t *testing.T) {
	maxUint256, _ := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)

	tests := []struct {
		name     string
		typ      string
		raw      interface{}
		expected interface{}
		err      error
	}{
		{name: "string", typ: "string", raw: "Ivanov Ivan", expected: "Ivanov Ivan"},
		{name: "empty string", typ: "string", raw: "", expected: ""},
		{name: "string from int", typ: "string", raw: 12, err: ErrValueMismatch},
		{name: "uint256 int", typ: "uint256", raw: 1700000000, expected: "1700000000"},
		{name: "uint256 float", typ: "uint256", raw: float64(1700000000), expected: "1700000000"},
		{name: "uint256 fractional", typ: "uint256", raw: 1.5, err: ErrValueMismatch},
		{name: "uint256 json number", typ: "uint256", raw: json.Number("42"), expected: "42"},
		{name: "uint256 hex", typ: "uint256", raw: "0xff", expected: "255"},
		{name: "uint256 max", typ: "uint256", raw: maxUint256, expected: maxUint256.String()},
		{name: "uint256 overflow", typ: "uint256", raw: new(big.Int).Add(maxUint256, big.NewInt(1)), err: ErrValueMismatch},
		{name: "uint256 negative", typ: "uint256", raw: -1, err: ErrValueMismatch},
		{name: "uint8 max", typ: "uint8", raw: 255, expected: "255"},
		{name: "uint8 overflow", typ: "uint8", raw: 256, err: ErrValueMismatch},
		{name: "int8 min", typ: "int8", raw: -128, expected: "-128"},
		{name: "int8 underflow", typ: "int8", raw: -129, err: ErrValueMismatch},
		{name: "int8 overflow", typ: "int8", raw: 128, err: ErrValueMismatch},
		{name: "bool", typ: "bool", raw: true, expected: true},
		{name: "bool string", typ: "bool", raw: "false", expected: false},
		{name: "bool garbage", typ: "bool", raw: "maybe", err: ErrValueMismatch},
		{name: "address", typ: "address", raw: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", expected: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{name: "address without prefix", typ: "address", raw: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", err: ErrValueMismatch},
		{name: "address short", typ: "address", raw: "0x1234", err: ErrValueMismatch},
		{name: "bytes32", typ: "bytes32", raw: common.HexToHash("0x01"), expected: "0x0000000000000000000000000000000000000000000000000000000000000001"},
		{name: "bytes32 short", typ: "bytes32", raw: "0x0102", err: ErrValueMismatch},
		{name: "bytes", typ: "bytes", raw: []byte{0xde, 0xad}, expected: "0xdead"},
		{name: "unsupported", typ: "fixed128x18", raw: "1", err: ErrUnsupportedType},
		{name: "unsupported bytes16", typ: "bytes16", raw: "0x00", err: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewValue(tt.typ, "field", tt.raw)
			if tt.err != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.err), err.Error())
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expected, v.Value)
		})
	}

	t.Run("empty name", func(t *testing.T) {
		_, err := NewValue("string", "", "x")
		require.Equal(t, ErrEmptyName, err)
	})
}

func TestLeaf_Hash(t *testing.T) {
	base := Leaf{
		TypedValue: TypedValue{Type: "string", Name: "degree", Value: "Master"},
		Salt:       common.HexToHash("0x01"),
	}

	h, err := base.Hash()
	require.NoError(t, err)

	again, err := base.Hash()
	require.NoError(t, err)
	require.Equal(t, h, again)

	mutations := map[string]func(l *Leaf){
		"value": func(l *Leaf) { l.Value = "Bachelor" },
		"name":  func(l *Leaf) { l.Name = "fio" },
		"salt":  func(l *Leaf) { l.Salt = common.HexToHash("0x02") },
		"type":  func(l *Leaf) { l.Type = "bytes"; l.Value = "0x4d6173746572" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			l := base
			mutate(&l)
			other, err := l.Hash()
			require.NoError(t, err)
			require.NotEqual(t, h, other)
		})
	}

	t.Run("canonical forms hash alike", func(t *testing.T) {
		a := Leaf{TypedValue: TypedValue{Type: "uint256", Name: "date", Value: 1700000000}, Salt: base.Salt}
		b := Leaf{TypedValue: TypedValue{Type: "uint256", Name: "date", Value: "1700000000"}, Salt: base.Salt}

		ha, err := a.Hash()
		require.NoError(t, err)
		hb, err := b.Hash()
		require.NoError(t, err)
		require.Equal(t, ha, hb)
	})

	t.Run("mismatched value", func(t *testing.T) {
		l := Leaf{TypedValue: TypedValue{Type: "uint256", Name: "date", Value: "yesterday"}}
		_, err := l.Hash()
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrValueMismatch))
	})
}
