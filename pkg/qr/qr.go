/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package qr

import (
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const DefaultSize = 256

// Renderer turns a payload into a PNG data URL.
type Renderer struct {
	Level qrcode.RecoveryLevel
	Size  int
}

func NewRenderer() *Renderer {
	return &Renderer{Level: qrcode.Medium, Size: DefaultSize}
}

// DataURL renders v as JSON, or as is when it is already a string.
func (r *Renderer) DataURL(v interface{}) (string, error) {
	content, ok := v.(string)
	if !ok {
		d, err := json.Marshal(v)
		if err != nil {
			return "", errors.Wrap(err, "unable to marshal qr payload")
		}
		content = string(d)
	}

	png, err := qrcode.Encode(content, r.Level, r.Size)
	if err != nil {
		return "", errors.Wrap(err, "unable to render qr code")
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
