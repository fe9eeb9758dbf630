// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http exposes the Weave synchronization protocol over HTTP:
// the storage API (/{version}/{hash}/...), the account API
// (/user/{version}/{hash}/...), an operator API under /admin and a
// Prometheus metrics endpoint.
package http
