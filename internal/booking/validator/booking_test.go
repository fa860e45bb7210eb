package validator

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: "error", Output: io.Discard}))
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Date:  "2025-01-06",
		Time:  "10:30",
	}
}

func TestValidateRequest(t *testing.T) {
	v := newTestValidator()

	if err := v.ValidateRequest(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		wantField string
	}{
		{"missing name", func(r *model.BookingRequest) { r.Name = "" }, "request"},
		{"missing email", func(r *model.BookingRequest) { r.Email = "" }, "request"},
		{"missing date", func(r *model.BookingRequest) { r.Date = "" }, "request"},
		{"missing time", func(r *model.BookingRequest) { r.Time = "" }, "request"},
		{"bad email", func(r *model.BookingRequest) { r.Email = "not-an-email" }, "email"},
		{"single char name", func(r *model.BookingRequest) { r.Name = "J" }, "name"},
		{"bad date shape", func(r *model.BookingRequest) { r.Date = "06-01-2025" }, "date"},
		{"impossible date", func(r *model.BookingRequest) { r.Date = "2025-02-31" }, "date"},
		{"bad time shape", func(r *model.BookingRequest) { r.Time = "9:30" }, "time"},
		{"out of range time", func(r *model.BookingRequest) { r.Time = "24:00" }, "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := v.ValidateRequest(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			vErr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if vErr.Field != tt.wantField {
				t.Errorf("expected error on field %q, got %q (%s)", tt.wantField, vErr.Field, vErr.Message)
			}
		})
	}
}

func TestValidateRequestFirstFailureWins(t *testing.T) {
	v := newTestValidator()

	// Email and time are both broken; the email error is reported.
	req := validRequest()
	req.Email = "broken"
	req.Time = "99:99"

	err := v.ValidateRequest(req)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if vErr := err.(ValidationError); vErr.Field != "email" {
		t.Errorf("expected the email error to win, got field %q", vErr.Field)
	}
}

func TestRejectionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	v := NewBookingValidator(logger.New(logger.Config{Level: "debug", Output: &buf}))

	req := validRequest()
	req.Email = "not-an-email"
	if err := v.ValidateRequest(req); err == nil {
		t.Fatal("expected a validation error")
	}

	out := buf.String()
	if !strings.Contains(out, "Booking validation rejected") || !strings.Contains(out, `"field":"email"`) {
		t.Errorf("expected a rejection log naming the field, got: %s", out)
	}
}

func TestValidateDate(t *testing.T) {
	v := newTestValidator()

	valid := []string{"2025-01-06", "2024-02-29", "2025-12-31"}
	for _, date := range valid {
		if err := v.ValidateDate(date); err != nil {
			t.Errorf("ValidateDate(%q) = %v, want nil", date, err)
		}
	}

	invalid := []string{"", "2025-1-6", "2025/01/06", "20250106", "2025-13-01", "2025-02-30", "not-a-date"}
	for _, date := range invalid {
		if err := v.ValidateDate(date); err == nil {
			t.Errorf("ValidateDate(%q) = nil, want error", date)
		}
	}
}

func TestValidateTime(t *testing.T) {
	v := newTestValidator()

	valid := []string{"00:00", "09:30", "10:00", "19:30", "23:59"}
	for _, slot := range valid {
		if err := v.ValidateTime(slot); err != nil {
			t.Errorf("ValidateTime(%q) = %v, want nil", slot, err)
		}
	}

	invalid := []string{"", "9:30", "10:5", "24:00", "10:60", "10.30", "1030"}
	for _, slot := range invalid {
		if err := v.ValidateTime(slot); err == nil {
			t.Errorf("ValidateTime(%q) = nil, want error", slot)
		}
	}
}
