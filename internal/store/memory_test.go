package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetIfAbsent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.SetIfAbsent(ctx, "lock:2025-01-06:10:30", LockSentinel, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.SetIfAbsent(ctx, "lock:2025-01-06:10:30", LockSentinel, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, created, "second acquisition must not create the key")

	require.NoError(t, s.Delete(ctx, "lock:2025-01-06:10:30"))

	created, err = s.SetIfAbsent(ctx, "lock:2025-01-06:10:30", LockSentinel, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, created, "released key must be acquirable again")
}

func TestSetIfAbsentExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	current := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return current })

	created, err := s.SetIfAbsent(ctx, "lock:k", LockSentinel, 10*time.Second)
	require.NoError(t, err)
	require.True(t, created)

	// Just inside the TTL: still held.
	current = current.Add(9 * time.Second)
	created, err = s.SetIfAbsent(ctx, "lock:k", LockSentinel, 10*time.Second)
	require.NoError(t, err)
	assert.False(t, created)

	// Past the TTL: the abandoned key self-heals.
	current = current.Add(2 * time.Second)
	created, err = s.SetIfAbsent(ctx, "lock:k", LockSentinel, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestGetHonorsExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	current := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return current })

	require.NoError(t, s.Set(ctx, "k", "v", time.Minute))

	val, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", val)

	current = current.Add(2 * time.Minute)
	_, found, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	// No TTL means no expiry.
	require.NoError(t, s.Set(ctx, "forever", "v", 0))
	current = current.Add(1000 * time.Hour)
	_, found, err = s.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSetOperations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	key := DateIndexKey("2025-01-06")

	members, err := s.MembersOf(ctx, key)
	require.NoError(t, err)
	assert.Empty(t, members)

	require.NoError(t, s.AddToSet(ctx, key, "10:30"))
	require.NoError(t, s.AddToSet(ctx, key, "11:00"))
	require.NoError(t, s.AddToSet(ctx, key, "10:30"))

	members, err = s.MembersOf(ctx, key)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"10:30", "11:00"}, members)

	require.NoError(t, s.RemoveFromSet(ctx, key, "10:30"))

	members, err = s.MembersOf(ctx, key)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"11:00"}, members)
}

func TestListOperations(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.PushToList(ctx, GuestbookKey, "first"))
	require.NoError(t, s.PushToList(ctx, GuestbookKey, "second"))
	require.NoError(t, s.PushToList(ctx, GuestbookKey, "third"))

	items, err := s.ListRange(ctx, GuestbookKey, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, items, "push prepends")

	items, err = s.ListRange(ctx, GuestbookKey, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second"}, items)

	require.NoError(t, s.RemoveFromList(ctx, GuestbookKey, "second"))

	items, err = s.ListRange(ctx, GuestbookKey, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "first"}, items)
}

func TestSliceRange(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	tests := []struct {
		name        string
		start, stop int64
		want        []string
	}{
		{"full range", 0, -1, []string{"a", "b", "c", "d"}},
		{"prefix", 0, 1, []string{"a", "b"}},
		{"middle", 1, 2, []string{"b", "c"}},
		{"stop past end", 0, 99, []string{"a", "b", "c", "d"}},
		{"negative start", -2, -1, []string{"c", "d"}},
		{"inverted", 3, 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sliceRange(items, tt.start, tt.stop))
		})
	}
}
