// Package store defines the narrow key-value contract the reservation
// protocol is built on. Every operation is a single round-trip to the
// shared store; no store-side transactions are assumed, so the locking
// protocol's correctness cannot depend on driver-specific features.
package store

import (
	"context"
	"time"
)

// Store is the shared key-value surface. SetIfAbsent is the only
// conditional primitive: it reports whether this call created the key,
// which is what the slot lock is built on.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error

	AddToSet(ctx context.Context, key, member string) error
	RemoveFromSet(ctx context.Context, key, member string) error
	MembersOf(ctx context.Context, key string) ([]string, error)

	PushToList(ctx context.Context, key, value string) error
	ListRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	RemoveFromList(ctx context.Context, key, value string) error

	Ping(ctx context.Context) error
}

// Key shapes shared by all drivers.

func BookingKey(date, slot string) string {
	return "booking:" + date + ":" + slot
}

func LockKey(date, slot string) string {
	return "lock:" + date + ":" + slot
}

func DateIndexKey(date string) string {
	return "bookings:" + date
}

const GuestbookKey = "guestbook:entries"

// LockSentinel is the value held by slot lock keys.
const LockSentinel = "LOCKED"
