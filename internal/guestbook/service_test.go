package guestbook

import (
	"context"
	"io"
	"strings"
	"testing"

	"slotbook/internal/store"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() GuestbookService {
	cfg := &config.Config{Log: logger.New(logger.Config{Level: "error", Output: io.Discard})}
	return NewGuestbookService(store.NewMemoryStore(), cfg)
}

func TestAddAndList(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	first, err := svc.Add(ctx, &EntryRequest{Author: "Alice", Message: "Great site!"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.CreatedAt)

	second, err := svc.Add(ctx, &EntryRequest{Message: "  anonymous hello  "})
	require.NoError(t, err)
	assert.Empty(t, second.Author)
	assert.Equal(t, "anonymous hello", second.Message)

	entries, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "newest entry comes first")
	assert.Equal(t, first.ID, entries[1].ID)
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tests := []struct {
		name    string
		message string
	}{
		{"empty message", ""},
		{"whitespace only", "   \n\t  "},
		{"over length limit", strings.Repeat("a", MaxMessageLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, &EntryRequest{Message: tt.message})
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeInvalidInput, apperrors.AsAppError(err).Code)
		})
	}

	// The boundary itself is accepted.
	_, err := svc.Add(ctx, &EntryRequest{Message: strings.Repeat("a", MaxMessageLength)})
	require.NoError(t, err)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	entry, err := svc.Add(ctx, &EntryRequest{Author: "Alice", Message: "to be removed"})
	require.NoError(t, err)
	keeper, err := svc.Add(ctx, &EntryRequest{Author: "Bob", Message: "stays"})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, entry.ID))

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, keeper.ID, entries[0].ID)

	err = svc.Remove(ctx, entry.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)

	err = svc.Remove(ctx, "no-such-id")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.AsAppError(err).Code)
}
