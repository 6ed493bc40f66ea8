/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package util

import (
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("diploma/retry")

// Logger is a backoff.Notify that reports each failed attempt.
func Logger(err error, next time.Duration) {
	logger.Warnf("attempt failed, retrying in %s: %v", next, err)
}

// SetLogLevel applies a level name such as "debug" or "warning" to every module logger.
func SetLogLevel(level string) error {
	if level == "" {
		return nil
	}

	l, err := log.ParseLevel(level)
	if err != nil {
		return err
	}

	log.SetLevel("", l)
	return nil
}
