// Package validation holds the pure request validators. Every validator
// returns on the first failing condition with a machine-readable code and a
// human-readable message; no I/O happens here.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Protagonistst/serenity-spa/internal/entity"
)

// FieldError is a single failed validation check.
type FieldError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Code + ": " + e.Message
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Booking checks a booking submission. Dates are compared at day granularity
// against now, so a booking for today is still accepted.
func Booking(req *entity.BookingRequest, now time.Time) *FieldError {
	if req.SelectedService == nil || req.SelectedDate == "" || req.SelectedTime == "" || req.PersonalInfo == nil {
		return &FieldError{"Missing required fields", "Please complete all booking steps"}
	}

	svc := req.SelectedService
	if svc.Title == "" || svc.Duration == "" || svc.Price == "" {
		return &FieldError{"Invalid service data", "Selected service is invalid"}
	}

	info := req.PersonalInfo
	if info.FirstName == "" || info.LastName == "" || info.Email == "" || info.Phone == "" {
		return &FieldError{"Incomplete personal information", "Please provide all required personal details"}
	}

	if !ValidEmail(info.Email) {
		return &FieldError{"Invalid email", "Please provide a valid email address"}
	}

	date, err := time.Parse("2006-01-02", req.SelectedDate)
	if err != nil {
		return &FieldError{"Invalid date format", "Please provide a valid date in YYYY-MM-DD format"}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return &FieldError{"Invalid date", "Booking date cannot be in the past"}
	}

	return nil
}

// Contact checks a contact-form submission.
func Contact(req *entity.ContactRequest) *FieldError {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return &FieldError{"Missing required fields", "Please fill in all required fields"}
	}

	// Bounds are in characters, not bytes.
	if utf8.RuneCountInString(strings.TrimSpace(req.FirstName)) < 2 {
		return &FieldError{"Invalid first name", "First name must be at least 2 characters long"}
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.LastName)) < 2 {
		return &FieldError{"Invalid last name", "Last name must be at least 2 characters long"}
	}

	if !ValidEmail(req.Email) {
		return &FieldError{"Invalid email", "Please provide a valid email address"}
	}

	msg := strings.TrimSpace(req.Message)
	if utf8.RuneCountInString(msg) < 10 {
		return &FieldError{"Message too short", "Please provide a message with at least 10 characters"}
	}
	if utf8.RuneCountInString(msg) > 2000 {
		return &FieldError{"Message too long", "Message must be less than 2000 characters"}
	}

	return nil
}

// Subscribe checks a newsletter signup. Names are optional but must be at
// least 2 characters when supplied.
func Subscribe(req *entity.SubscribeRequest) *FieldError {
	if req.Email == "" {
		return &FieldError{"Email required", "Please provide an email address"}
	}

	if !ValidEmail(req.Email) {
		return &FieldError{"Invalid email", "Please provide a valid email address"}
	}

	if req.FirstName != "" && utf8.RuneCountInString(req.FirstName) < 2 {
		return &FieldError{"Invalid first name", "First name must be at least 2 characters long"}
	}

	if req.LastName != "" && utf8.RuneCountInString(req.LastName) < 2 {
		return &FieldError{"Invalid last name", "Last name must be at least 2 characters long"}
	}

	return nil
}

// Email checks a bare email address (unsubscribe and status lookups).
func Email(email string) *FieldError {
	if email == "" {
		return &FieldError{"Email required", "Please provide an email address"}
	}

	if !ValidEmail(email) {
		return &FieldError{"Invalid email", "Please provide a valid email address"}
	}

	return nil
}

// Feedback checks a newsletter feedback submission.
func Feedback(req *entity.FeedbackRequest) *FieldError {
	if req.Email == "" || req.Rating == 0 {
		return &FieldError{"Missing required fields", "Please provide email and rating"}
	}

	if !ValidEmail(req.Email) {
		return &FieldError{"Invalid email", "Please provide a valid email address"}
	}

	if req.Rating < 1 || req.Rating > 5 {
		return &FieldError{"Invalid rating", "Rating must be between 1 and 5"}
	}

	return nil
}

// AvailabilityDate parses and checks a date used for an availability lookup.
func AvailabilityDate(raw string, now time.Time) (time.Time, *FieldError) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, &FieldError{"Invalid date format", "Please provide a valid date in YYYY-MM-DD format"}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return time.Time{}, &FieldError{"Invalid date", "Cannot check availability for past dates"}
	}

	return date, nil
}
