package errors

import "errors"

var (
	// ErrSlotTaken is the authoritative under-lock outcome for a slot that
	// already holds a booking. Terminal: never retried.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrLockContended means the slot lock could not be acquired within the
	// bounded retry budget. Callers cannot distinguish this from a taken
	// slot and should react the same way: refresh availability and retry.
	ErrLockContended = errors.New("slot lock contended")

	ErrNotFound = errors.New("booking not found")
)
