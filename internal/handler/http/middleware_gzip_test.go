// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write(data)
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func TestGZipRequest(t *testing.T) {
	tests := []struct {
		name            string
		contentEncoding string
		requestBody     []byte
		compressBody    bool
		expectedStatus  int
		wantDecodedBody string
	}{
		{
			name:            "gzipped request body is decompressed",
			contentEncoding: "gzip",
			requestBody:     []byte("Request data"),
			compressBody:    true,
			expectedStatus:  http.StatusOK,
			wantDecodedBody: "Request data",
		},
		{
			name:            "plain request body passes through",
			contentEncoding: "",
			requestBody:     []byte("Request data"),
			expectedStatus:  http.StatusOK,
			wantDecodedBody: "Request data",
		},
		{
			name:            "invalid gzip request body",
			contentEncoding: "gzip",
			requestBody:     []byte("not gzipped data"),
			expectedStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var receivedBody []byte
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var err error
				receivedBody, err = io.ReadAll(r.Body)
				require.NoError(t, err)
				w.WriteHeader(http.StatusOK)
			})

			body := tt.requestBody
			if tt.compressBody {
				body = gzipBytes(t, body)
			}

			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewReader(body))
			if tt.contentEncoding != "" {
				req.Header.Set("Content-Encoding", tt.contentEncoding)
			}

			rr := httptest.NewRecorder()
			withGZipRequest(next).ServeHTTP(rr, req)

			require.Equal(t, tt.expectedStatus, rr.Code)
			if tt.wantDecodedBody != "" {
				assert.Equal(t, tt.wantDecodedBody, string(receivedBody))
			}
		})
	}
}

// Responses pass through unmodified regardless of Accept-Encoding: the
// protocol requires an exact Content-Length on every body.
func TestGZipRequest_ResponseNotCompressed(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("plain body"))
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Accept-Encoding", "gzip")

	rr := httptest.NewRecorder()
	withGZipRequest(next).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain body", rr.Body.String())
}
