/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rabbitmq

import (
	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"

	"github.com/scoir/diploma/pkg/util"
)

type Option func(opts *options)

type options struct {
	retry backoff.BackOff
}

// WithRetry sets the policy for connecting to the broker. The default gives up after about a minute.
func WithRetry(b backoff.BackOff) Option {
	return func(opts *options) {
		opts.retry = b
	}
}

// dial connects, opens a channel and declares queue.
func dial(addr, queue string, opts []Option) (*amqp.Connection, *amqp.Channel, error) {
	o := &options{retry: backoff.NewExponentialBackOff()}
	for _, opt := range opts {
		opt(o)
	}

	var conn *amqp.Connection
	err := backoff.RetryNotify(func() error {
		var err error
		conn, err = amqp.Dial(addr)
		return err
	}, o.retry, util.Logger)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to connect to RabbitMQ at %s", addr)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, errors.Wrap(err, "unable to create an AMQP channel")
	}

	_, err = ch.QueueDeclare(
		queue, // name
		false, // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		conn.Close()
		return nil, nil, errors.Wrap(err, "unable to declare AMQP queue")
	}

	return conn, ch, nil
}
