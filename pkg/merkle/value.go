/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package merkle

import (
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var (
	ErrNoValues        = errors.New("at least one value is required")
	ErrEmptyName       = errors.New("value name must not be empty")
	ErrDuplicateName   = errors.New("duplicate value name")
	ErrUnsupportedType = errors.New("unsupported value type")
	ErrValueMismatch   = errors.New("value does not match its type")
)

// TypedValue is one named field of a record's private data.
type TypedValue struct {
	Type  string      `json:"type"`
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// NewValue validates raw against typ and returns the value in its canonical form.
func NewValue(typ, name string, raw interface{}) (TypedValue, error) {
	v := TypedValue{Type: typ, Name: name, Value: raw}
	if err := v.Normalize(); err != nil {
		return TypedValue{}, err
	}

	return v, nil
}

// Normalize checks the value against its type and rewrites it into the canonical
// JSON-safe representation (decimal strings for integers, hex for bytes and addresses).
func (r *TypedValue) Normalize() error {
	if r.Name == "" {
		return ErrEmptyName
	}

	canonical, _, _, err := encodeValue(r.Type, r.Value)
	if err != nil {
		return errors.Wrapf(err, "field %s", r.Name)
	}

	r.Value = canonical
	return nil
}

// encodeValue returns the canonical representation of raw, the go value expected by the abi
// packer and the abi type itself.
func encodeValue(typ string, raw interface{}) (interface{}, interface{}, abi.Type, error) {
	t, err := parseType(typ)
	if err != nil {
		return nil, nil, abi.Type{}, err
	}

	switch t.T {
	case abi.StringTy:
		s, ok := raw.(string)
		if !ok {
			return nil, nil, t, mismatch(typ, raw)
		}
		return s, s, t, nil

	case abi.BoolTy:
		switch v := raw.(type) {
		case bool:
			return v, v, t, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, nil, t, mismatch(typ, raw)
			}
			return b, b, t, nil
		}
		return nil, nil, t, mismatch(typ, raw)

	case abi.AddressTy:
		switch v := raw.(type) {
		case common.Address:
			return v.Hex(), v, t, nil
		case string:
			if !strings.HasPrefix(v, "0x") || !common.IsHexAddress(v) {
				return nil, nil, t, mismatch(typ, raw)
			}
			a := common.HexToAddress(v)
			return a.Hex(), a, t, nil
		}
		return nil, nil, t, mismatch(typ, raw)

	case abi.FixedBytesTy:
		b, err := toBytes(raw)
		if err != nil || len(b) != 32 {
			return nil, nil, t, mismatch(typ, raw)
		}
		var h [32]byte
		copy(h[:], b)
		return hexutil.Encode(b), h, t, nil

	case abi.BytesTy:
		b, err := toBytes(raw)
		if err != nil {
			return nil, nil, t, mismatch(typ, raw)
		}
		return hexutil.Encode(b), b, t, nil

	case abi.UintTy, abi.IntTy:
		i, err := toBigInt(raw)
		if err != nil {
			return nil, nil, t, mismatch(typ, raw)
		}
		if !fits(i, t) {
			return nil, nil, t, errors.Wrapf(ErrValueMismatch, "%s out of range for %s", i.String(), typ)
		}
		return i.String(), packableInt(i, t), t, nil
	}

	return nil, nil, t, errors.Wrap(ErrUnsupportedType, typ)
}

func parseType(typ string) (abi.Type, error) {
	switch {
	case typ == "string", typ == "bool", typ == "address", typ == "bytes", typ == "bytes32":
	case strings.HasPrefix(typ, "uint"), strings.HasPrefix(typ, "int"):
	default:
		return abi.Type{}, errors.Wrap(ErrUnsupportedType, typ)
	}

	t, err := abi.NewType(typ, "", nil)
	if err != nil {
		return abi.Type{}, errors.Wrap(ErrUnsupportedType, typ)
	}

	return t, nil
}

func mismatch(typ string, raw interface{}) error {
	return errors.Wrapf(ErrValueMismatch, "%v (%T) is not a valid %s", raw, raw, typ)
}

func toBytes(raw interface{}) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case common.Hash:
		return v.Bytes(), nil
	case [32]byte:
		return v[:], nil
	case string:
		return hexutil.Decode(v)
	}

	return nil, errors.Errorf("unexpected %T", raw)
}

func toBigInt(raw interface{}) (*big.Int, error) {
	switch v := raw.(type) {
	case *big.Int:
		if v == nil {
			return nil, errors.New("nil integer")
		}
		return new(big.Int).Set(v), nil
	case *uint256.Int:
		return v.ToBig(), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("%v is not an integer", v)
		}
		i, _ := big.NewFloat(v).Int(nil)
		return i, nil
	case json.Number:
		return parseIntString(v.String())
	case string:
		return parseIntString(v)
	}

	return nil, errors.Errorf("unexpected %T", raw)
}

func parseIntString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}

	i, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, errors.Errorf("%q is not an integer", s)
	}

	return i, nil
}

func fits(i *big.Int, t abi.Type) bool {
	if t.T == abi.UintTy {
		if i.Sign() < 0 {
			return false
		}
		if t.Size == 256 {
			_, overflow := uint256.FromBig(i)
			return !overflow
		}
		return i.BitLen() <= t.Size
	}

	if i.Sign() < 0 {
		return new(big.Int).Not(i).BitLen() < t.Size
	}
	return i.BitLen() < t.Size
}

// packableInt converts i into the go type the abi packer expects for t.
func packableInt(i *big.Int, t abi.Type) interface{} {
	if t.T == abi.UintTy {
		switch t.Size {
		case 8:
			return uint8(i.Uint64())
		case 16:
			return uint16(i.Uint64())
		case 32:
			return uint32(i.Uint64())
		case 64:
			return i.Uint64()
		}
		return i
	}

	switch t.Size {
	case 8:
		return int8(i.Int64())
	case 16:
		return int16(i.Int64())
	case 32:
		return int32(i.Int64())
	case 64:
		return i.Int64()
	}
	return i
}
