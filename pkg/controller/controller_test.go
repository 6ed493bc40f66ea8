/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/scoir/diploma/pkg/framework"
)

type endpoints map[string]*framework.Endpoint

func (r endpoints) Endpoint(name string) (*framework.Endpoint, error) {
	ep, ok := r[name]
	if !ok {
		return nil, errors.New("missing")
	}

	return ep, nil
}

type okAPI struct{}

func (okAPI) Routes() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestNew(t *testing.T) {
	t.Run("no endpoint", func(t *testing.T) {
		_, err := New(endpoints{}, okAPI{})
		require.Error(t, err)
	})

	t.Run("no port", func(t *testing.T) {
		_, err := New(endpoints{"api": {Host: "0.0.0.0"}}, okAPI{})
		require.Error(t, err)
	})

	t.Run("happy path", func(t *testing.T) {
		r, err := New(endpoints{"api": {Host: "0.0.0.0", Port: 8080}}, okAPI{})
		require.NoError(t, err)
		require.Equal(t, "0.0.0.0:8080", r.addr)
	})
}

func TestRunner_Handler(t *testing.T) {
	r, err := New(endpoints{"api": {Host: "0.0.0.0", Port: 8080, Token: "s3cret"}}, okAPI{})
	require.NoError(t, err)
	h := r.Handler()

	tests := []struct {
		name string
		key  string
		code int
	}{
		{name: "no key", code: http.StatusUnauthorized},
		{name: "wrong key", key: "guess", code: http.StatusUnauthorized},
		{name: "right key", key: "s3cret", code: http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/runs", nil)
			if tt.key != "" {
				req.Header.Set(APIKeyHeaderName, tt.key)
			}

			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			require.Equal(t, tt.code, w.Code)
		})
	}

	t.Run("preflight skips the key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/attestations", nil)
		req.Header.Set("Origin", "https://diplomas.example")
		req.Header.Set("Access-Control-Request-Method", "POST")

		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		require.NotEqual(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, "https://diplomas.example", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
