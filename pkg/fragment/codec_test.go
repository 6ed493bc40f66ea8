/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fragment

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Root   string            `json:"root"`
	Values []sampleValue     `json:"values"`
	Flags  []bool            `json:"flags"`
	Extra  map[string]string `json:"extra"`
}

type sampleValue struct {
	Name  string      `json:"name"`
	Value json.Number `json:"value"`
}

func TestRoundTrip(t *testing.T) {
	t.Run("struct", func(t *testing.T) {
		in := sample{
			Root: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			Values: []sampleValue{
				{Name: "date", Value: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
				{Name: "fio", Value: "1"},
			},
			Flags: []bool{},
			Extra: map[string]string{"fio": "Иванов Иван", "note": "a&b=c#d"},
		}

		s, err := Encode(in)
		require.NoError(t, err)
		require.Equal(t, url.QueryEscape(s), s)
		require.NotContains(t, s, "=")

		var out sample
		require.NoError(t, Decode(s, &out))
		if diff := cmp.Diff(in, out); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("generic keeps big integers", func(t *testing.T) {
		s, err := Encode(map[string]interface{}{
			"n":      json.Number("340282366920938463463374607431768211457"),
			"nested": map[string]interface{}{"list": []interface{}{}},
		})
		require.NoError(t, err)

		var out map[string]interface{}
		require.NoError(t, Decode(s, &out))
		require.Equal(t, json.Number("340282366920938463463374607431768211457"), out["n"])
		require.Equal(t, map[string]interface{}{"list": []interface{}{}}, out["nested"])
	})
}

func TestDecode_Tolerance(t *testing.T) {
	in := map[string]string{"payload": strings.Repeat("diploma?&/+", 40)}
	s, err := Encode(in)
	require.NoError(t, err)

	// standard alphabet with padding, as another encoder would produce
	std := strings.NewReplacer("-", "+", "_", "/").Replace(s)
	for len(std)%4 != 0 {
		std += "="
	}

	tests := map[string]string{
		"raw url":        s,
		"standard":       std,
		"percent":        url.QueryEscape(std),
		"form decoded":   strings.ReplaceAll(std, "+", " "),
		"surrounding ws": "  " + s + "\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			var out map[string]string
			require.NoError(t, Decode(input, &out))
			require.Equal(t, in, out)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	s, err := Encode(map[string]string{"fio": "Ivanov Ivan", "degree": "Master"})
	require.NoError(t, err)

	notJSON, err := deflate([]byte("not json"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		stage string
	}{
		{"empty", "", StageBase64},
		{"bad alphabet", "!!!!", StageBase64},
		{"not deflated", "aGVsbG8", StageInflate},
		{"truncated", truncated(s), StageInflate},
		{"not json", notJSON, StageJSON},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out map[string]string
			err := Decode(tc.input, &out)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidFragment))

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			require.Equal(t, tc.stage, de.Stage)
		})
	}
}

func truncated(s string) string {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}

	return base64.RawURLEncoding.EncodeToString(raw[:len(raw)-5])
}
