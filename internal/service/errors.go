// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("authentication failed")
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrMissingPassword     = errors.New("no password provided")
	ErrMissingEmail        = errors.New("no email provided")
	ErrUserAlreadyExists   = errors.New("account already exists")
	ErrQuotaExceeded       = errors.New("storage quota exceeded")
	ErrStorageFailure      = errors.New("storage operation failed")
	ErrTokenInvalid        = errors.New("token is expired or invalid")
)
