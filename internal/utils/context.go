// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, Weave protocol
// timestamps, HTTP response writing, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// SyncIDCtxKey is the key used to store the internal Sync user ID in the
// context after the account hash from the URL has been resolved.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.SyncIDCtxKey, int64(42))
var SyncIDCtxKey = contextKey("syncID")

// GetSyncIDFromContext retrieves the internal Sync user ID from the context.
//
// Returns the ID of type int64 and an ok flag:
//   - ok == true  — value is found and has the correct int64 type
//   - ok == false — value is missing or has an unexpected type
func GetSyncIDFromContext(ctx context.Context) (int64, bool) {
	syncID, ok := ctx.Value(SyncIDCtxKey).(int64)
	return syncID, ok
}
