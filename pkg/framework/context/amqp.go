/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package context

import (
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/amqp"
	"github.com/scoir/diploma/pkg/amqp/rabbitmq"
)

func (r *Provider) GetAMQPPublisher(queue string) (amqp.Publisher, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if p, ok := r.publishers[queue]; ok {
		return p, nil
	}

	addr, err := r.amqpAddress()
	if err != nil {
		return nil, err
	}

	p, err := rabbitmq.NewPublisher(addr, queue)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to publish to %s", queue)
	}

	r.publishers[queue] = p
	return p, nil
}

func (r *Provider) GetAMQPListener(queue string) (amqp.Listener, error) {
	addr, err := r.amqpAddress()
	if err != nil {
		return nil, err
	}

	l, err := rabbitmq.NewListener(addr, queue)
	return l, errors.Wrapf(err, "unable to listen on %s", queue)
}

func (r *Provider) amqpAddress() (string, error) {
	cfg, err := r.conf.AMQPConfig()
	if err != nil {
		return "", err
	}

	if cfg.Host == "" {
		return "", errors.New("amqp is not configured")
	}

	return cfg.Endpoint(), nil
}
