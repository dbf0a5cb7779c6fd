// Copyright 2026 The mdtk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package server implements the HTTP API of the mdserve playground:
// a parse endpoint exposing block elements with source positions,
// a render endpoint producing preview HTML,
// and static file serving for the playground UI.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/mdtk/markdown"
	"github.com/mdtk/markdown/internal/config"
)

// Handler serves the playground API.
type Handler struct {
	mux      *http.ServeMux
	logger   *log.Logger
	maxBody  int64
	renderer goldmark.Markdown
}

// NewHandler builds the API handler from a validated configuration.
func NewHandler(cfg *config.Config, logger *log.Logger) *Handler {
	h := &Handler{
		mux:     http.NewServeMux(),
		logger:  logger,
		maxBody: cfg.MaxSourceBytes,
		renderer: goldmark.New(
			goldmark.WithRendererOptions(ghtml.WithUnsafe()),
		),
	}
	h.mux.HandleFunc("POST /parse", h.handleParse)
	h.mux.HandleFunc("POST /render", h.handleRender)
	if cfg.PublicDir != "" {
		h.mux.Handle("/", http.FileServer(http.Dir(cfg.PublicDir)))
	}
	return h
}

// ServeHTTP implements [http.Handler].
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.mux.ServeHTTP(w, r)
	h.logger.Debug("request served",
		"method", r.Method,
		"path", r.URL.Path,
		"duration", time.Since(start))
}

// sourceRequest is the body of the parse and render endpoints.
type sourceRequest struct {
	Source string `json:"source"`
}

func (h *Handler) readSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req sourceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.logger.Warn("bad request body", "path", r.URL.Path, "error", err)
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return "", false
	}
	return req.Source, true
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	source, ok := h.readSource(w, r)
	if !ok {
		return
	}
	doc := markdown.ParseDocument([]byte(source))
	writeJSON(w, h.logger, doc)
}

// renderResponse is the body of a successful render call.
type renderResponse struct {
	HTML string `json:"html"`
}

func (h *Handler) handleRender(w http.ResponseWriter, r *http.Request) {
	source, ok := h.readSource(w, r)
	if !ok {
		return
	}
	buf := new(bytes.Buffer)
	if err := h.renderer.Convert([]byte(source), buf); err != nil {
		h.logger.Error("render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, &renderResponse{HTML: buf.String()})
}

func writeJSON(w http.ResponseWriter, logger *log.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response", "error", err)
	}
}

// Run serves the handler on cfg.Addr until ctx is canceled,
// then shuts down gracefully within cfg.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: NewHandler(cfg, logger),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve %s: %w", cfg.Addr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
