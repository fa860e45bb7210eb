package validator

import (
	"fmt"
	"regexp"

	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateRequest checks a booking request in the order callers observe:
// required fields, then email shape, then date format, then time format.
// The first failure wins; later problems are not reported.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if req.Name == "" || req.Email == "" || req.Date == "" || req.Time == "" {
		return v.reject(ValidationError{Field: "request", Message: "name, email, date and time are required"})
	}

	if err := v.validate.Var(req.Email, "email"); err != nil {
		return v.reject(ValidationError{Field: "email", Message: "invalid email address"})
	}

	if err := v.validate.Var(req.Name, "min=2,max=100"); err != nil {
		return v.reject(ValidationError{Field: "name", Message: "name must be between 2 and 100 characters"})
	}

	if err := v.ValidateDate(req.Date); err != nil {
		return err
	}

	return v.ValidateTime(req.Time)
}

func (v *BookingValidator) ValidateDate(date string) error {
	if !dateRegex.MatchString(date) {
		return v.reject(ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if err := v.validate.Var(date, "datetime=2006-01-02"); err != nil {
		return v.reject(ValidationError{Field: "date", Message: "date is not a valid calendar day"})
	}
	return nil
}

func (v *BookingValidator) ValidateTime(slot string) error {
	if !timeRegex.MatchString(slot) {
		return v.reject(ValidationError{Field: "time", Message: "time must be in HH:MM format"})
	}
	return nil
}

func (v *BookingValidator) reject(err ValidationError) error {
	v.logger.Debug("Booking validation rejected", "field", err.Field, "reason", err.Message)
	return err
}
