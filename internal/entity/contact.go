package entity

import (
	"strings"
	"time"
)

type ContactRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// ContactMessage is the normalized form of a contact submission: all fields
// trimmed, email lowercased. It lives only for the duration of the request.
type ContactMessage struct {
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submittedAt"`
	IPAddress   string    `json:"-"`
}

// Normalize builds the canonical contact record from raw input.
func (r *ContactRequest) Normalize(ip string, now time.Time) *ContactMessage {
	return &ContactMessage{
		FirstName:   strings.TrimSpace(r.FirstName),
		LastName:    strings.TrimSpace(r.LastName),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:       strings.TrimSpace(r.Phone),
		Subject:     strings.TrimSpace(r.Subject),
		Message:     strings.TrimSpace(r.Message),
		SubmittedAt: now,
		IPAddress:   ip,
	}
}

func (m *ContactMessage) FullName() string {
	return m.FirstName + " " + m.LastName
}
