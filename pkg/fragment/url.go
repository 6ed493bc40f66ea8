/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fragment

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Keys recognised in a link fragment.
const (
	KeyAttestation    = "attestation"
	KeyProofs         = "proofs"
	KeyMerkle         = "merkle"
	KeyRefAttestation = "refAttestation"
)

// Part is one key=value segment of a fragment. Value is the output of Encode.
type Part struct {
	Key   string
	Value string
}

// Join renders parts as k=v&k=v with every value escaped the way encodeURIComponent would.
func Join(parts ...Part) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		segs = append(segs, p.Key+"="+escape(p.Value))
	}

	return strings.Join(segs, "&")
}

// Lookup finds key in fragment and returns its unescaped value. The key must start the
// fragment or follow one of '#', '&' or '?'. The value runs up to the next '&'.
func Lookup(fragment, key string) (string, bool, error) {
	needle := key + "="
	from := 0
	for {
		i := strings.Index(fragment[from:], needle)
		if i < 0 {
			return "", false, nil
		}
		i += from

		if i == 0 || strings.ContainsRune("#&?", rune(fragment[i-1])) {
			v := fragment[i+len(needle):]
			if end := strings.IndexByte(v, '&'); end >= 0 {
				v = v[:end]
			}

			u, err := url.PathUnescape(v)
			if err != nil {
				return "", true, errors.Wrapf(err, "unable to unescape %s", key)
			}

			return u, true, nil
		}

		from = i + len(needle)
	}
}

// Of returns the fragment of a full URL, or s itself when it carries no '#'.
func Of(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[i+1:]
	}

	return s
}

// url.QueryEscape plus the characters encodeURIComponent leaves alone.
func escape(s string) string {
	e := url.QueryEscape(s)
	return strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	).Replace(e)
}
