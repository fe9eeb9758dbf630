// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "context"

// CredentialChecker verifies account credentials against an external
// directory. Deployments without local password hashes for every account
// fall back to it during authentication.
type CredentialChecker interface {
	// CheckPassword reports whether the directory accepts the credentials.
	// A directory outage is an error, not a rejection.
	CheckPassword(ctx context.Context, email string, password string) (bool, error)
}
