package entity

import (
	"strings"
	"time"
)

type SubscribeRequest struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Source         string `json:"source"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Normalize trims everything, lowercases the email and defaults the source.
func (r *SubscribeRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	if r.Source == "" {
		r.Source = "website"
	}
}

type UnsubscribeRequest struct {
	Email string `json:"email"`
}

type FeedbackRequest struct {
	Email       string `json:"email"`
	Rating      int    `json:"rating"`
	Feedback    string `json:"feedback"`
	Suggestions string `json:"suggestions"`
}

// Subscriber is the normalized view of a list member as reported by the
// external list provider. The provider is the system of record.
type Subscriber struct {
	Email         string   `json:"email"`
	Status        string   `json:"status"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	SubscribeDate string   `json:"subscribeDate"`
	Tags          []string `json:"tags"`
}

type SubscriptionResult struct {
	Email            string    `json:"email"`
	Status           string    `json:"status"`
	SubscribedAt     time.Time `json:"subscribedAt"`
	WelcomeEmailSent bool      `json:"welcomeEmailSent"`
}
