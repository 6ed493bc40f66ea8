/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package rabbitmq

import (
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

type Listener struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

func NewListener(addr, queue string, opts ...Option) (*Listener, error) {
	conn, ch, err := dial(addr, queue, opts)
	if err != nil {
		return nil, err
	}

	return &Listener{conn: conn, ch: ch, queue: queue}, nil
}

func (r *Listener) Listen() (<-chan amqp.Delivery, error) {
	msgs, err := r.ch.Consume(
		r.queue,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "unable to consume")
	}

	return msgs, nil
}

func (r *Listener) Close() error {
	return r.conn.Close()
}
