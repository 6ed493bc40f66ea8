/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package notifier

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"

	"github.com/scoir/diploma/pkg/amqp"
	"github.com/scoir/diploma/pkg/datastore"
)

var logger = log.New("diploma/notifier")

type Server struct {
	store    datastore.Store
	listener amqp.Listener
	client   *http.Client
	errors   chan error
}

type provider interface {
	Store() (datastore.Store, error)
	GetAMQPListener(queue string) (amqp.Listener, error)
}

func New(prov provider) (*Server, error) {
	store, err := prov.Store()
	if err != nil {
		return nil, errors.Wrap(err, "unable to open datastore")
	}

	listener, err := prov.GetAMQPListener(QueueName)
	if err != nil {
		return nil, errors.Wrap(err, "unable to listen for notifications")
	}

	srv := &Server{
		store:    store,
		listener: listener,
		client:   &http.Client{Timeout: 10 * time.Second},
	}

	return srv, nil
}

func (r *Server) Start() error {
	return r.listenAndServe()
}

func (r *Server) listenAndServe() error {
	msgs, err := r.listener.Listen()
	if err != nil {
		return errors.Wrap(err, "unable to consume")
	}

	for d := range msgs {
		note := &Notification{}
		err := json.Unmarshal(d.Body, note)
		if err != nil {
			r.Error(errors.Wrap(err, "bad notification message"))
			continue
		}

		hooks, err := r.store.ListWebhooks(note.Topic)
		if err != nil {
			r.Error(errors.Wrapf(err, "no webhooks for topic %s", note.Topic))
			continue
		}

		event := &EventMessage{
			Event:     note.Event,
			Timestamp: time.Now().Unix(),
			EventData: note.EventData,
		}
		data, _ := json.Marshal(event)
		for _, hook := range hooks {
			r.deliver(hook, data)
		}
	}

	return errors.New("notification messages closed")
}

func (r *Server) deliver(hook *datastore.Webhook, data []byte) {
	resp, err := r.client.Post(hook.URL, "application/json", bytes.NewBuffer(data))
	if err != nil {
		r.Error(errors.Wrapf(err, "unable to post event to hook %s", hook.URL))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		b, _ := ioutil.ReadAll(resp.Body)
		r.Error(errors.Errorf("error response from hook. code: (%d): %s", resp.StatusCode, string(b)))
	}
}

func (r *Server) Error(err error) {
	if r.errors == nil {
		logger.Errorf("%v", err)
		return
	}

	r.errors <- err
}

func (r *Server) Errors() (chan error, error) {
	if r.errors != nil {
		return nil, errors.New("error listener already registered")
	}

	r.errors = make(chan error, 1)
	return r.errors, nil
}
