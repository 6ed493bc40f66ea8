/*
Copyright Scoir Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package controller

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/scoir/diploma/pkg/framework"
)

const (
	APIKeyHeaderName = "X-API-Key"

	apiEndpoint = "api"
)

var logger = log.New("diploma/controller")

// Routable is an HTTP surface the runner can serve.
type Routable interface {
	Routes() http.Handler
}

type Runner struct {
	api      Routable
	addr     string
	apiToken string
}

type provider interface {
	Endpoint(name string) (*framework.Endpoint, error)
}

func New(ctx provider, api Routable) (*Runner, error) {
	ep, err := ctx.Endpoint(apiEndpoint)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create controller")
	}

	if ep.Port == 0 {
		return nil, errors.New("api endpoint port is not configured")
	}

	r := &Runner{
		api:      api,
		addr:     ep.Address(),
		apiToken: ep.Token,
	}

	return r, nil
}

// Handler is the API with CORS and, when a token is configured, API key checks applied.
func (r *Runner) Handler() http.Handler {
	h := r.api.Routes()
	if r.apiToken != "" {
		h = r.basicTokenAuth(h)
	}

	return CorsHandler()(Logger(h))
}

func (r *Runner) Launch() error {
	logger.Infof("API listening on %s", r.addr)
	return http.ListenAndServe(r.addr, r.Handler())
}

func (r *Runner) basicTokenAuth(h http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		authHeader := req.Header.Get(APIKeyHeaderName)
		if authHeader == "" {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		givenToken := sha256.Sum256([]byte(authHeader))
		requiredToken := sha256.Sum256([]byte(r.apiToken))

		if subtle.ConstantTimeCompare(givenToken[:], requiredToken[:]) != 1 {
			http.Error(w, "Not authorized", http.StatusUnauthorized)
			return
		}

		h.ServeHTTP(w, req)
	}
}

func CorsHandler() func(h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "PATCH", "POST", "DELETE"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Authentication", "Authorization", "Accept",
			"If-Modified-Since", "Cache-Control", "Pragma", "Upgrade", "Connection", APIKeyHeaderName},
		ExposedHeaders:   []string{"Content-Length", "Content-Type", "Cache-Control", "Last-Modified", "Upgrade", "Connection"},
		AllowCredentials: true,
	})
	return c.Handler
}

func Logger(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		logger.Debugf("%s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}
