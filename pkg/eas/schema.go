/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package eas

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
)

// DiplomaSchema is the on-chain schema every diploma attestation is registered under.
const DiplomaSchema = "bytes32 privateData"

type SchemaItem struct {
	Name  string      `json:"name"`
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// SchemaEncoder ABI encodes attestation data for a schema string like "bytes32 privateData, string note".
type SchemaEncoder struct {
	fields []SchemaItem
	args   abi.Arguments
}

func NewSchemaEncoder(schema string) (*SchemaEncoder, error) {
	r := &SchemaEncoder{}

	for _, f := range strings.Split(schema, ",") {
		parts := strings.Fields(f)
		if len(parts) != 2 {
			return nil, errors.Errorf("invalid schema field %q", strings.TrimSpace(f))
		}

		t, err := abi.NewType(parts[0], "", nil)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid schema type %s", parts[0])
		}

		r.fields = append(r.fields, SchemaItem{Type: parts[0], Name: parts[1]})
		r.args = append(r.args, abi.Argument{Name: parts[1], Type: t})
	}

	return r, nil
}

// EncodeData packs items, which must follow the schema field order.
func (r *SchemaEncoder) EncodeData(items []SchemaItem) ([]byte, error) {
	if len(items) != len(r.fields) {
		return nil, errors.Errorf("schema has %d fields, got %d", len(r.fields), len(items))
	}

	values := make([]interface{}, len(items))
	for i, item := range items {
		f := r.fields[i]
		if item.Name != f.Name || item.Type != f.Type {
			return nil, errors.Errorf("field %d: expected %s %s, got %s %s", i, f.Type, f.Name, item.Type, item.Name)
		}

		v, err := packable(f.Type, item.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		values[i] = v
	}

	d, err := r.args.Pack(values...)
	return d, errors.Wrap(err, "unable to encode schema data")
}

func (r *SchemaEncoder) DecodeData(data []byte) ([]SchemaItem, error) {
	values, err := r.args.Unpack(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode schema data")
	}

	out := make([]SchemaItem, len(values))
	for i, v := range values {
		out[i] = r.fields[i]
		switch tv := v.(type) {
		case [32]byte:
			out[i].Value = common.Hash(tv)
		default:
			out[i].Value = v
		}
	}

	return out, nil
}

// PrivateDataRoot extracts the merkle root carried in diploma attestation data.
func PrivateDataRoot(data []byte) (common.Hash, error) {
	enc, err := NewSchemaEncoder(DiplomaSchema)
	if err != nil {
		return common.Hash{}, err
	}

	items, err := enc.DecodeData(data)
	if err != nil {
		return common.Hash{}, err
	}

	return items[0].Value.(common.Hash), nil
}

func packable(typ string, v interface{}) (interface{}, error) {
	switch typ {
	case "bytes32":
		switch tv := v.(type) {
		case common.Hash:
			return [32]byte(tv), nil
		case [32]byte:
			return tv, nil
		case string:
			b, err := hexutil.Decode(tv)
			if err != nil || len(b) != 32 {
				return nil, errors.Errorf("invalid bytes32 %q", tv)
			}
			return [32]byte(common.BytesToHash(b)), nil
		}
	case "address":
		switch tv := v.(type) {
		case common.Address:
			return tv, nil
		case string:
			if !common.IsHexAddress(tv) {
				return nil, errors.Errorf("invalid address %q", tv)
			}
			return common.HexToAddress(tv), nil
		}
	case "uint256", "int256":
		switch tv := v.(type) {
		case *big.Int:
			return tv, nil
		case string:
			n, ok := new(big.Int).SetString(tv, 0)
			if !ok {
				return nil, errors.Errorf("invalid integer %q", tv)
			}
			return n, nil
		}
	default:
		return v, nil
	}

	return nil, errors.Errorf("unsupported value %T for %s", v, typ)
}
