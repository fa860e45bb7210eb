// Package guestbook stores visitor messages as a store-backed list,
// newest first.
package guestbook

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"slotbook/internal/store"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"

	"github.com/google/uuid"
)

const MaxMessageLength = 500

type Entry struct {
	ID        string `json:"id"`
	Author    string `json:"author,omitempty"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

type EntryRequest struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

type GuestbookService interface {
	List(ctx context.Context) ([]Entry, error)
	Add(ctx context.Context, req *EntryRequest) (*Entry, error)
	Remove(ctx context.Context, id string) error
}

type guestbookService struct {
	store store.Store
	cfg   *config.Config
}

func NewGuestbookService(st store.Store, cfg *config.Config) GuestbookService {
	return &guestbookService{store: st, cfg: cfg}
}

// List returns every entry, newest first. Entries that no longer decode
// are skipped rather than failing the whole page.
func (s *guestbookService) List(ctx context.Context) ([]Entry, error) {
	raw, err := s.store.ListRange(ctx, store.GuestbookKey, 0, -1)
	if err != nil {
		s.cfg.Log.Error("Failed to read guestbook entries", "operation", "lrange", "error", err)
		return nil, apperrors.Internal("Failed to read guestbook entries", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			s.cfg.Log.Warn("Skipping undecodable guestbook entry", "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *guestbookService) Add(ctx context.Context, req *EntryRequest) (*Entry, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, apperrors.InvalidInput("message is required")
	}
	if len(message) > MaxMessageLength {
		return nil, apperrors.InvalidInput("message must be at most 500 characters")
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		Author:    strings.TrimSpace(req.Author),
		Message:   message,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode guestbook entry", err)
	}

	if err := s.store.PushToList(ctx, store.GuestbookKey, string(payload)); err != nil {
		s.cfg.Log.Error("Failed to write guestbook entry", "operation", "lpush", "error", err)
		return nil, apperrors.Internal("Failed to write guestbook entry", err)
	}

	s.cfg.Log.Info("Guestbook entry added", "entry_id", entry.ID)
	return entry, nil
}

// Remove deletes the entry with the given id. The stored value is the full
// JSON payload, so removal re-reads the list to find the exact element.
func (s *guestbookService) Remove(ctx context.Context, id string) error {
	raw, err := s.store.ListRange(ctx, store.GuestbookKey, 0, -1)
	if err != nil {
		return apperrors.Internal("Failed to read guestbook entries", err)
	}

	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		if entry.ID != id {
			continue
		}
		if err := s.store.RemoveFromList(ctx, store.GuestbookKey, item); err != nil {
			s.cfg.Log.Error("Failed to delete guestbook entry", "entry_id", id, "operation", "lrem", "error", err)
			return apperrors.Internal("Failed to delete guestbook entry", err)
		}
		s.cfg.Log.Info("Guestbook entry removed", "entry_id", id)
		return nil
	}

	return apperrors.NotFound("Guestbook entry")
}
