// Package service implements the reservation coordinator: the
// lock/check/commit/unlock protocol that turns a booking request into a
// durable, race-free reservation over the shared store.
package service

import (
	"context"
	"encoding/json"
	"time"

	"slotbook/internal/availability"
	bookingerrors "slotbook/internal/booking/errors"
	"slotbook/internal/booking/validator"
	"slotbook/internal/notify"
	"slotbook/internal/store"
	"slotbook/pkg/config"
	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

type BookingService interface {
	Reserve(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	AvailableSlots(ctx context.Context, date string) (*model.DayAvailability, error)
	CheckAvailability(ctx context.Context, date, slot string) (bool, error)
	GetBooking(ctx context.Context, date, slot string) (*model.Booking, error)
	Cancel(ctx context.Context, date, slot string) error
}

type bookingService struct {
	store     store.Store
	calc      *availability.Calculator
	validator *validator.BookingValidator
	notifier  notify.Notifier
	cfg       *config.Config
}

func NewBookingService(
	st store.Store,
	calc *availability.Calculator,
	v *validator.BookingValidator,
	notifier notify.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		store:     st,
		calc:      calc,
		validator: v,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Reserve validates the request, then runs the locking protocol: acquire a
// short-lived lock for (date,time), re-check occupancy under it, commit the
// booking record and occupancy index, release the lock. Validation failures
// never reach the store.
func (s *bookingService) Reserve(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.InvalidInput(err.Error())
	}

	date, err := s.calc.ParseDate(req.Date)
	if err != nil {
		return nil, apperrors.InvalidInput("date is not a valid calendar day")
	}
	if !s.calc.IsBookable(date) {
		return nil, apperrors.InvalidInput("date is outside the booking window")
	}
	if s.calc.IsSlotInPast(date, req.Time) {
		return nil, apperrors.InvalidInput("this time slot is in the past or starts too soon")
	}

	// Advisory read; the authoritative check happens again under the lock.
	_, taken, err := s.store.Get(ctx, store.BookingKey(req.Date, req.Time))
	if err != nil {
		s.cfg.Log.Error("Failed to check slot availability",
			"date", req.Date, "time", req.Time, "operation", "get", "error", err)
		return nil, apperrors.Internal("Failed to check slot availability", err)
	}
	if taken {
		return nil, slotTaken()
	}

	booking, err := s.reserveWithLock(ctx, req)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"date", booking.Date, "time", booking.Time, "email", booking.Email)
	s.dispatch(func(ctx context.Context) error {
		return s.notifier.BookingConfirmed(ctx, booking)
	})

	return booking, nil
}

func (s *bookingService) reserveWithLock(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	lockKey := store.LockKey(req.Date, req.Time)

	for attempt := 1; attempt <= s.cfg.LockAttempts; attempt++ {
		acquired, err := s.store.SetIfAbsent(ctx, lockKey, store.LockSentinel, s.cfg.LockTTL)
		if err != nil {
			s.cfg.Log.Error("Failed to acquire slot lock",
				"date", req.Date, "time", req.Time, "attempt", attempt, "error", err)
			return nil, apperrors.Internal("Failed to acquire slot lock", err)
		}

		if !acquired {
			// Another request holds the lock: linear backoff, bounded retries.
			if attempt == s.cfg.LockAttempts {
				break
			}
			if err := sleepContext(ctx, time.Duration(attempt)*s.cfg.LockBackoffStep); err != nil {
				return nil, apperrors.Internal("Reservation interrupted", err)
			}
			continue
		}

		booking, err := s.commitUnderLock(ctx, req)
		s.releaseLock(lockKey)
		return booking, err
	}

	s.cfg.Log.Warn("Slot lock contended past retry budget",
		"date", req.Date, "time", req.Time, "attempts", s.cfg.LockAttempts)
	return nil, lockContended()
}

// commitUnderLock performs the read-check-write-write sequence. The caller
// holds the slot lock and releases it on every return path; all work here
// must finish well inside the lock TTL.
func (s *bookingService) commitUnderLock(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	bookingKey := store.BookingKey(req.Date, req.Time)

	_, taken, err := s.store.Get(ctx, bookingKey)
	if err != nil {
		s.cfg.Log.Error("Failed to verify slot under lock",
			"date", req.Date, "time", req.Time, "operation", "get", "error", err)
		return nil, apperrors.Internal("Failed to verify slot availability", err)
	}
	if taken {
		// Not a transient condition: surface immediately, no retries.
		return nil, slotTaken()
	}

	booking := &model.Booking{
		Name:     req.Name,
		Email:    req.Email,
		Date:     req.Date,
		Time:     req.Time,
		BookedAt: time.Now().UTC().Format(time.RFC3339),
		Status:   model.StatusConfirmed,
	}

	payload, err := json.Marshal(booking)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode booking", err)
	}

	// Bookings persist indefinitely: no expiry on the record.
	if err := s.store.Set(ctx, bookingKey, string(payload), 0); err != nil {
		s.cfg.Log.Error("Failed to write booking record",
			"date", req.Date, "time", req.Time, "operation", "set", "error", err)
		return nil, apperrors.Internal("Failed to write booking", err)
	}

	if err := s.store.AddToSet(ctx, store.DateIndexKey(req.Date), req.Time); err != nil {
		s.cfg.Log.Error("Failed to update occupancy index",
			"date", req.Date, "time", req.Time, "operation", "sadd", "error", err)
		return nil, apperrors.Internal("Failed to update occupancy index", err)
	}

	return booking, nil
}

// releaseLock deletes the lock key. Runs on its own context so a cancelled
// request still cleans up; the TTL remains the backstop if this fails.
func (s *bookingService) releaseLock(lockKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.LockTTL)
	defer cancel()

	if err := s.store.Delete(ctx, lockKey); err != nil {
		s.cfg.Log.Warn("Failed to release slot lock", "lock_key", lockKey, "error", err)
	}
}

// AvailableSlots returns the date's template slots minus the occupancy set,
// as a point-in-time snapshot. A store failure propagates: a down store
// must never read as "slot free".
func (s *bookingService) AvailableSlots(ctx context.Context, dateStr string) (*model.DayAvailability, error) {
	if err := s.validator.ValidateDate(dateStr); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	date, err := s.calc.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.InvalidInput("date is not a valid calendar day")
	}

	result := &model.DayAvailability{
		Date:      dateStr,
		Slots:     []string{},
		IsWeekend: date.Weekday() == time.Sunday,
	}

	if !s.calc.IsBookable(date) {
		return result, nil
	}

	template := s.calc.SlotsForDate(date)
	if len(template) == 0 {
		result.IsBookable = !s.calc.IsClosedDay(date)
		return result, nil
	}

	occupied, err := s.store.MembersOf(ctx, store.DateIndexKey(dateStr))
	if err != nil {
		s.cfg.Log.Error("Failed to read occupied slots",
			"date", dateStr, "operation", "smembers", "error", err)
		return nil, apperrors.Internal("Failed to read occupied slots", err)
	}

	taken := make(map[string]struct{}, len(occupied))
	for _, slot := range occupied {
		taken[slot] = struct{}{}
	}
	for _, slot := range template {
		if _, ok := taken[slot.Time]; !ok {
			result.Slots = append(result.Slots, slot.Time)
		}
	}
	result.IsBookable = true

	return result, nil
}

// CheckAvailability is a single advisory read of the booking key.
func (s *bookingService) CheckAvailability(ctx context.Context, date, slot string) (bool, error) {
	_, taken, err := s.store.Get(ctx, store.BookingKey(date, slot))
	if err != nil {
		return false, apperrors.Internal("Failed to check slot availability", err)
	}
	return !taken, nil
}

func (s *bookingService) GetBooking(ctx context.Context, date, slot string) (*model.Booking, error) {
	raw, found, err := s.store.Get(ctx, store.BookingKey(date, slot))
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	if !found {
		return nil, notFound()
	}

	var booking model.Booking
	if err := json.Unmarshal([]byte(raw), &booking); err != nil {
		return nil, apperrors.Internal("Failed to decode booking", err)
	}
	return &booking, nil
}

// Cancel deletes the booking record and removes the slot from the date's
// occupancy index. Deletes are idempotent, so no lock is needed: there is
// no "taken" race to resolve on this path.
func (s *bookingService) Cancel(ctx context.Context, date, slot string) error {
	if err := s.validator.ValidateDate(date); err != nil {
		return apperrors.InvalidInput(err.Error())
	}
	if err := s.validator.ValidateTime(slot); err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	bookingKey := store.BookingKey(date, slot)

	_, found, err := s.store.Get(ctx, bookingKey)
	if err != nil {
		return apperrors.Internal("Failed to retrieve booking", err)
	}
	if !found {
		return notFound()
	}

	if err := s.store.Delete(ctx, bookingKey); err != nil {
		s.cfg.Log.Error("Failed to delete booking record",
			"date", date, "time", slot, "operation", "delete", "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}
	if err := s.store.RemoveFromSet(ctx, store.DateIndexKey(date), slot); err != nil {
		s.cfg.Log.Error("Failed to update occupancy index",
			"date", date, "time", slot, "operation", "srem", "error", err)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "date", date, "time", slot)
	s.dispatch(func(ctx context.Context) error {
		return s.notifier.BookingCancelled(ctx, date, slot)
	})

	return nil
}

// dispatch runs a notification in the background. Notification errors are
// logged and swallowed: they never fail or roll back a committed booking.
func (s *bookingService) dispatch(fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil {
			s.cfg.Log.Warn("Booking notification failed", "error", err)
		}
	}()
}

func slotTaken() *apperrors.AppError {
	e := apperrors.Conflict("This slot has already been booked. Please pick another time.")
	e.Err = bookingerrors.ErrSlotTaken
	return e
}

func lockContended() *apperrors.AppError {
	e := apperrors.Conflict("This slot is currently being booked by another request. Please refresh and try again.")
	e.Err = bookingerrors.ErrLockContended
	return e
}

func notFound() *apperrors.AppError {
	e := apperrors.NotFound("Booking")
	e.Err = bookingerrors.ErrNotFound
	return e
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
