// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bot

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/hackathon-teambot/pkg/envelope"
	"github.com/AccelByte/hackathon-teambot/pkg/models"
)

const pingTimeout = 2 * time.Second

const errUnauthorizedCode = 20001

type errorResponse struct {
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// AdminRouter serves health, metrics and the formation trigger.
func (b *Bot) AdminRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", b.serveHealth)
	if b.opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(b.opts.Registry, promhttp.HandlerOpts{}))
	}
	r.Route("/formations", func(r chi.Router) {
		r.Use(requireBearerToken(b.opts.AdminToken))
		r.Post("/", b.serveExecute)
		r.Get("/preview", b.servePreview)
	})
	return r
}

// requireBearerToken refuses requests without "Authorization: Bearer <token>".
// An empty token refuses everything.
func requireBearerToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			given, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" || subtle.ConstantTimeCompare([]byte(given), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeJSON(w, http.StatusUnauthorized, errorResponse{ErrorCode: errUnauthorizedCode, ErrorMessage: "missing or invalid admin token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (b *Bot) serveHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := b.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "database": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": "connected"})
}

func (b *Bot) serveExecute(w http.ResponseWriter, r *http.Request) {
	scope := envelope.NewRootScope(r.Context(), "Admin.Execute", middleware.GetReqID(r.Context()))
	defer scope.Finish()

	report, err := b.formations.Execute(scope)
	if err != nil {
		writeError(w, scope, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (b *Bot) servePreview(w http.ResponseWriter, r *http.Request) {
	scope := envelope.NewRootScope(r.Context(), "Admin.Preview", middleware.GetReqID(r.Context()))
	defer scope.Finish()

	result, err := b.formations.Preview(scope)
	if err != nil {
		writeError(w, scope, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func writeError(w http.ResponseWriter, scope *envelope.Scope, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, models.ErrFormationInProgress) {
		status = http.StatusConflict
	} else {
		scope.Log.Errorf("formation request failed: %s", err)
	}
	writeJSON(w, status, errorResponse{ErrorCode: models.ErrorCode(err), ErrorMessage: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Warnf("unable to write response: %s", err)
	}
}
