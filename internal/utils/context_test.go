package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSyncIDFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), SyncIDCtxKey, int64(42))

	syncID, ok := GetSyncIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, int64(42), syncID)
}

func TestGetSyncIDFromContext_Missing(t *testing.T) {
	_, ok := GetSyncIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestGetSyncIDFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), SyncIDCtxKey, "42")

	_, ok := GetSyncIDFromContext(ctx)
	assert.False(t, ok)
}
