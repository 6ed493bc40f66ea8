/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"goji.io/pat"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/scoir/diploma/pkg/datastore"
	"github.com/scoir/diploma/pkg/issuance"
	"github.com/scoir/diploma/pkg/util"
)

type IssueRequest struct {
	Records []*issuance.DiplomaRecord `json:"records"`
}

type IssueResponse struct {
	RunID string `json:"runId"`
}

// issue starts a run in the background. Progress is read back through getRun and watchRun.
func (r *APIServer) issue(w http.ResponseWriter, req *http.Request) {
	body := &IssueRequest{}
	err := json.NewDecoder(req.Body).Decode(body)
	if err != nil {
		util.WriteErrorf(w, http.StatusBadRequest, "invalid issue request: %v", err)
		return
	}

	if len(body.Records) == 0 {
		util.WriteError(w, http.StatusBadRequest, issuance.ErrNoRecords.Error())
		return
	}

	signer, err := r.signer()
	if err != nil || signer == nil {
		util.WriteError(w, http.StatusServiceUnavailable, issuance.ErrNoSigner.Error())
		return
	}

	run := r.issuer.Start(context.Background(), body.Records)

	r.runsLock.Lock()
	r.runs[run.ID] = run
	r.runsLock.Unlock()
	go r.expire(run)

	logger.Infof("started run %s for %d records", run.ID, len(body.Records))
	util.WriteJSON(w, http.StatusAccepted, &IssueResponse{RunID: run.ID})
}

func (r *APIServer) run(id string) *issuance.Run {
	r.runsLock.RLock()
	defer r.runsLock.RUnlock()

	return r.runs[id]
}

func (r *APIServer) forget(id string) {
	r.runsLock.Lock()
	defer r.runsLock.Unlock()

	delete(r.runs, id)
}

// expire drops a finished run from memory once its retention lapses, collected or not.
func (r *APIServer) expire(run *issuance.Run) {
	<-run.Done()
	time.AfterFunc(r.retention, func() { r.forget(run.ID) })
}

// getRun serves live runs from memory and earlier runs from the datastore. A finished run
// carries private trees and is handed out from memory once; later reads get the stored public record.
func (r *APIServer) getRun(w http.ResponseWriter, req *http.Request) {
	id := pat.Param(req, "id")

	if run := r.run(id); run != nil {
		select {
		case <-run.Done():
			r.forget(id)
		default:
		}

		util.WriteJSON(w, http.StatusOK, run.Snapshot())
		return
	}

	stored, err := r.store.GetRun(id)
	if err != nil {
		writeStoreError(w, err, "run %s", id)
		return
	}

	util.WriteJSON(w, http.StatusOK, stored)
}

func (r *APIServer) watchRun(w http.ResponseWriter, req *http.Request) {
	id := pat.Param(req, "id")

	run := r.run(id)
	if run == nil {
		util.WriteErrorf(w, http.StatusNotFound, "run %s is not in progress", id)
		return
	}

	c, err := websocket.Accept(w, req, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
		CompressionMode:    websocket.CompressionDisabled,
	})
	if err != nil {
		logger.Warnf("unable to upgrade watch of run %s: %v", id, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "watch ended")

	snaps, cancel := run.Watch()
	defer cancel()

	ctx := c.CloseRead(req.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				_ = c.Close(websocket.StatusNormalClosure, "run finished")
				return
			}

			if err := wsjson.Write(ctx, c, snap); err != nil {
				logger.Debugf("watch of run %s closed: %v", id, err)
				return
			}
		}
	}
}

func (r *APIServer) listRuns(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	criteria := &datastore.RunCriteria{
		Start:    atoi(q.Get("start")),
		PageSize: atoi(q.Get("pageSize")),
		Status:   q.Get("status"),
	}

	runs, err := r.store.ListRuns(criteria)
	if err != nil {
		util.WriteErrorf(w, http.StatusInternalServerError, "unable to list runs: %v", err)
		return
	}

	util.WriteJSON(w, http.StatusOK, runs)
}

func (r *APIServer) listAttestations(w http.ResponseWriter, req *http.Request) {
	q := req.URL.Query()
	criteria := &datastore.AttestationCriteria{
		Start:     atoi(q.Get("start")),
		PageSize:  atoi(q.Get("pageSize")),
		RunID:     q.Get("runId"),
		Recipient: q.Get("recipient"),
	}

	list, err := r.store.ListAttestations(criteria)
	if err != nil {
		util.WriteErrorf(w, http.StatusInternalServerError, "unable to list attestations: %v", err)
		return
	}

	util.WriteJSON(w, http.StatusOK, list)
}

func (r *APIServer) getAttestation(w http.ResponseWriter, req *http.Request) {
	uid := pat.Param(req, "uid")

	a, err := r.store.GetAttestation(uid)
	if err != nil {
		writeStoreError(w, err, "attestation %s", uid)
		return
	}

	util.WriteJSON(w, http.StatusOK, a)
}

func writeStoreError(w http.ResponseWriter, err error, what string, args ...interface{}) {
	if errors.Is(err, datastore.ErrNotFound) {
		util.WriteErrorf(w, http.StatusNotFound, what+" not found", args...)
		return
	}

	util.WriteErrorf(w, http.StatusInternalServerError, "unable to load "+what, args...)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
