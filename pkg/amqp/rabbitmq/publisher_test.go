/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rabbitmq

import (
	"os"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/stretchr/testify/require"
)

func noRetry() Option {
	return WithRetry(&backoff.StopBackOff{})
}

func TestPublisher_Publish(t *testing.T) {
	t.Run("publish and listen", func(t *testing.T) {
		addy := os.Getenv("DIPLOMA_TEST_AMQP_URL")
		if addy == "" {
			t.Skip("DIPLOMA_TEST_AMQP_URL not set")
		}

		queue := "test-queue"
		publisher, err := NewPublisher(addy, queue, noRetry())
		require.NoError(t, err)
		listener, err := NewListener(addy, queue, noRetry())
		require.NoError(t, err)

		ch, err := listener.Listen()
		require.NoError(t, err)

		err = publisher.Publish([]byte("{}"), "application/json")
		require.NoError(t, err)

		incoming := <-ch
		require.Equal(t, []byte("{}"), incoming.Body)

		require.NoError(t, publisher.Close())
		require.NoError(t, listener.Close())
	})

	t.Run("bad address publisher", func(t *testing.T) {
		publisher, err := NewPublisher("amqp://localhost:9999/", "test-queue", noRetry())
		require.Error(t, err)
		require.Nil(t, publisher)
	})

	t.Run("bad address listener", func(t *testing.T) {
		listener, err := NewListener("amqp://localhost:9999/", "test-queue", noRetry())
		require.Error(t, err)
		require.Nil(t, listener)
	})
}
