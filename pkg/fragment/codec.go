/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fragment

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/url"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// ErrInvalidFragment is matched by every decode failure.
var ErrInvalidFragment = errors.New("invalid fragment")

const (
	StageBase64  = "base64"
	StageInflate = "inflate"
	StageJSON    = "json"
)

// DecodeError reports which step of Decode rejected the input.
type DecodeError struct {
	Stage string
	Err   error
}

func (r *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s stage: %v", ErrInvalidFragment, r.Stage, r.Err)
}

func (r *DecodeError) Unwrap() error {
	return r.Err
}

func (r *DecodeError) Is(target error) bool {
	return target == ErrInvalidFragment
}

// Encode serializes v as JSON, deflates it and returns unpadded URL-safe base64. The output
// survives encodeURIComponent unchanged.
func Encode(v interface{}) (string, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "unable to marshal fragment")
	}

	return deflate(d)
}

func deflate(d []byte) (string, error) {
	buf := &bytes.Buffer{}
	zw, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return "", errors.Wrap(err, "unable to create deflater")
	}

	if _, err = zw.Write(d); err != nil {
		return "", errors.Wrap(err, "unable to deflate fragment")
	}

	if err = zw.Close(); err != nil {
		return "", errors.Wrap(err, "unable to deflate fragment")
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode into v. Numbers decode as json.Number when v is an interface.
func Decode(s string, v interface{}) error {
	raw, err := decodeBase64(s)
	if err != nil {
		return &DecodeError{Stage: StageBase64, Err: err}
	}

	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return &DecodeError{Stage: StageInflate, Err: err}
	}
	defer zr.Close()

	d, err := ioutil.ReadAll(zr)
	if err != nil {
		return &DecodeError{Stage: StageInflate, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	if err = dec.Decode(v); err != nil {
		return &DecodeError{Stage: StageJSON, Err: err}
	}

	if dec.More() {
		return &DecodeError{Stage: StageJSON, Err: errors.New("trailing data after document")}
	}

	return nil
}

// decodeBase64 accepts both alphabets, with or without padding, after undoing any
// percent-encoding or form decoding the transport applied.
func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "%") {
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
	}

	s = strings.ReplaceAll(s, " ", "+")
	s = strings.TrimRight(s, "=")
	s = strings.NewReplacer("+", "-", "/", "_").Replace(s)

	if s == "" {
		return nil, errors.New("empty input")
	}

	return base64.RawURLEncoding.DecodeString(s)
}
