// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated is returned by NewServer when no listen address is
// configured: a sync node that cannot accept storage requests is useless, so
// startup fails instead of idling.
var (
	errNoServersAreCreated = errors.New("no servers are created")
)
