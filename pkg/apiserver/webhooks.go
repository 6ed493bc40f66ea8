/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package apiserver

import (
	"encoding/json"
	"net/http"
	"net/url"

	"goji.io/pat"

	"github.com/scoir/diploma/pkg/datastore"
	"github.com/scoir/diploma/pkg/util"
)

type Webhook struct {
	Topic string `json:"topic"`
	URL   string `json:"url"`
}

func (r *APIServer) createWebhook(w http.ResponseWriter, req *http.Request) {
	body := &Webhook{}
	if err := json.NewDecoder(req.Body).Decode(body); err != nil {
		util.WriteErrorf(w, http.StatusBadRequest, "invalid webhook: %v", err)
		return
	}

	if body.Topic == "" {
		util.WriteError(w, http.StatusBadRequest, "topic is required")
		return
	}

	u, err := url.Parse(body.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		util.WriteErrorf(w, http.StatusBadRequest, "invalid webhook url %q", body.URL)
		return
	}

	err = r.store.InsertWebhook(&datastore.Webhook{Type: body.Topic, URL: body.URL})
	if err != nil {
		util.WriteErrorf(w, http.StatusInternalServerError, "unable to save webhook: %v", err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, body)
}

func (r *APIServer) listWebhooks(w http.ResponseWriter, req *http.Request) {
	topic := pat.Param(req, "topic")

	hooks, err := r.store.ListWebhooks(topic)
	if err != nil {
		util.WriteErrorf(w, http.StatusInternalServerError, "unable to list webhooks: %v", err)
		return
	}

	out := make([]*Webhook, 0, len(hooks))
	for _, h := range hooks {
		out = append(out, &Webhook{Topic: h.Type, URL: h.URL})
	}

	util.WriteJSON(w, http.StatusOK, out)
}

func (r *APIServer) deleteWebhook(w http.ResponseWriter, req *http.Request) {
	topic := pat.Param(req, "topic")

	if err := r.store.DeleteWebhook(topic); err != nil {
		util.WriteErrorf(w, http.StatusInternalServerError, "unable to delete webhooks: %v", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
