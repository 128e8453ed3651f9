package entity

import "errors"

// Newsletter provider errors, mapped from the list provider's vocabulary.
var (
	ErrAlreadySubscribed     = errors.New("email is already subscribed")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrSubscriberNotFound    = errors.New("subscriber not found")
	ErrProviderNotConfigured = errors.New("newsletter provider not configured")
)
