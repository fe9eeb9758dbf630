// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

var (
	ErrNoUserWasFound     = errors.New("no sync user was found")
	ErrUserAlreadyExists  = errors.New("sync user already exists")
	ErrNoIdentityWasFound = errors.New("no identity was found")
	ErrWBONotFound        = errors.New("weave basic object not found")
	ErrMissingWBOID       = errors.New("weave basic object has no id")
	ErrConfigKeyNotFound  = errors.New("config key not found")
	ErrBuildingSQLQuery   = errors.New("error occurred during building SQL query")
	ErrExecutingQuery     = errors.New("error occurred during query execution")
	ErrScanningRows       = errors.New("error occurred during scanning rows")
)
