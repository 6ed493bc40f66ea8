/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package util

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

func WriteSuccess(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// WriteJSON marshals v as the response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	d, err := json.Marshal(v)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "unable to marshal response")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(d)
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	d, _ := json.Marshal(&errorBody{Error: msg})

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(d)
}

func WriteErrorf(w http.ResponseWriter, status int, msg string, args ...interface{}) {
	WriteError(w, status, fmt.Sprintf(msg, args...))
}
