// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/openregistry/registryd/counter"
	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
)

// read results are only cached briefly, long enough to absorb polling
// clients without serving stale data for more than a moment
const (
	readCacheLifetime  = 2 * time.Second
	cacheSweepInterval = 1 * time.Minute
)

// submit throughput limits
const (
	submitRatePerSecond = 20
	submitBurst         = 40
)

// Server - HTTP front end over one runtime instance
type Server struct {
	runtime *host.Runtime
	cache   *cache.Cache
	limiter *rate.Limiter
	log     *logger.L
	router  chi.Router

	started   time.Time
	submitted counter.Counter
	rejected  counter.Counter
}

// NewServer - wire the routes over a runtime
func NewServer(runtime *host.Runtime) *Server {
	s := &Server{
		runtime: runtime,
		cache:   cache.New(readCacheLifetime, cacheSweepInterval),
		limiter: rate.NewLimiter(rate.Limit(submitRatePerSecond), submitBurst),
		log:     logger.New("rpc"),
		started: time.Now(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/info", s.handleInfo)
		r.Post("/transactions", s.handleSubmit)
		r.Get("/accounts/{key}", s.handleAccount)
		r.Get("/classes/{authority}/{name}", s.handleClass)
		r.Get("/classes/{authority}/{name}/records/{record}", s.handleRecord)
	})
	s.router = r

	return s
}

// Handler - the routed handler for an http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); nil != err {
		s.log.Errorf("response encoding failed: %s", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// map a fault class onto an HTTP status
func httpStatus(err error) int {
	switch {
	case fault.ErrInvalidSignature == err || fault.ErrMissingSignature == err:
		return http.StatusUnauthorized
	case fault.IsErrNotFound(err):
		return http.StatusNotFound
	case fault.IsErrExists(err):
		return http.StatusConflict
	case fault.IsErrInvalid(err):
		return http.StatusBadRequest
	case fault.IsErrProcess(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.respond(w, httpStatus(err), errorResponse{Error: err.Error()})
}
