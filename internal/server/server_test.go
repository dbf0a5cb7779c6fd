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

package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdtk/markdown"
	"github.com/mdtk/markdown/internal/config"
	"github.com/mdtk/markdown/internal/logging"
	"github.com/mdtk/markdown/internal/normhtml"
)

func newTestHandler(t *testing.T, mutate func(*config.Config)) *Handler {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	return NewHandler(cfg, logging.New(io.Discard, "error"))
}

func postJSON(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleParse(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := postJSON(h, "/parse", `{"source":"# Hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc markdown.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.BlockElements, 2)
	assert.Equal(t, markdown.RootKind, doc.BlockElements[0].Kind)
	assert.Equal(t, markdown.ATXHeadingKind, doc.BlockElements[1].Kind)
	assert.Equal(t, "Hi", string(doc.BlockElements[1].ContentRange.Text([]byte("# Hi"))))
	assert.NotNil(t, doc.InlineElements)
}

func TestHandleParseEmptySource(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := postJSON(h, "/parse", `{"source":""}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc markdown.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.BlockElements, 1)
	assert.Equal(t, markdown.RootKind, doc.BlockElements[0].Kind)
}

func TestHandleParseBadRequest(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"NotJSON", "# Hi"},
		{"UnknownField", `{"text":"# Hi"}`},
		{"Empty", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rec := postJSON(h, "/parse", test.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleParseBodyLimit(t *testing.T) {
	h := newTestHandler(t, func(cfg *config.Config) {
		cfg.MaxSourceBytes = 16
	})

	rec := postJSON(h, "/parse", `{"source":"`+strings.Repeat("a", 64)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleParseMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/parse", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleRender(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"Heading", "# Hi", "<h1>Hi</h1>"},
		{"BlockQuote", "> quoted", "<blockquote><p>quoted</p></blockquote>"},
		{"CodeBlock", "    x := 1", "<pre><code>x := 1\n</code></pre>"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			body, err := json.Marshal(map[string]string{"source": test.source})
			require.NoError(t, err)
			rec := postJSON(h, "/render", string(body))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				HTML string `json:"html"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, test.want, string(normhtml.Normalize([]byte(resp.HTML))))
		})
	}
}

func TestStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<!DOCTYPE html>playground"), 0o644))
	h := newTestHandler(t, func(cfg *config.Config) {
		cfg.PublicDir = dir
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "playground")
}

func TestStaticFilesDisabled(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
