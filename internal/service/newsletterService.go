package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/pkg/mailchimp"
	"github.com/Protagonistst/serenity-spa/pkg/mailer"
)

type newsletterService struct {
	list     ListProvider
	notifier Notifier
}

func NewNewsletterService(list ListProvider, notifier Notifier) NewsletterService {
	return &newsletterService{list: list, notifier: notifier}
}

// mapProviderError translates the list provider's vocabulary into the error
// taxonomy the transport layer maps to HTTP statuses.
func mapProviderError(err error) error {
	switch {
	case errors.Is(err, mailchimp.ErrMemberExists):
		return entity.ErrAlreadySubscribed
	case errors.Is(err, mailchimp.ErrInvalidEmail):
		return entity.ErrInvalidEmail
	case errors.Is(err, mailchimp.ErrNotFound):
		return entity.ErrSubscriberNotFound
	case errors.Is(err, mailchimp.ErrNotConfigured):
		return entity.ErrProviderNotConfigured
	}
	return err
}

// Subscribe forwards the signup to the list provider first; only on its
// success is the welcome email attempted, and that send is non-fatal.
func (s *newsletterService) Subscribe(ctx context.Context, req *entity.SubscribeRequest) (*entity.SubscriptionResult, error) {
	logrus.WithFields(logrus.Fields{
		"email":  req.Email,
		"source": req.Source,
	}).Info("Processing newsletter subscription")

	member, err := s.list.Subscribe(ctx, mailchimp.SubscribeParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return nil, fmt.Errorf("newsletter subscription failed: %w", mapProviderError(err))
	}

	welcome := s.notifier.SendNewsletterWelcome(ctx, req.Email, mailer.WelcomeEmailData{
		FirstName: req.FirstName,
		Email:     req.Email,
	})
	if welcome.Success {
		logrus.Info("Welcome email sent to new subscriber")
	} else {
		logrus.Errorf("Failed to send welcome email: %s", welcome.Error)
	}

	return &entity.SubscriptionResult{
		Email:            member.Email,
		Status:           member.Status,
		SubscribedAt:     time.Now(),
		WelcomeEmailSent: welcome.Success,
	}, nil
}

func (s *newsletterService) Unsubscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	logrus.WithField("email", email).Info("Processing newsletter unsubscription")

	member, err := s.list.Unsubscribe(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("newsletter unsubscription failed: %w", mapProviderError(err))
	}

	return &entity.Subscriber{
		Email:  member.Email,
		Status: member.Status,
	}, nil
}

func (s *newsletterService) SubscriberStatus(ctx context.Context, email string) (*entity.Subscriber, error) {
	member, err := s.list.GetMember(ctx, email)
	if err != nil {
		return nil, mapProviderError(err)
	}

	return &entity.Subscriber{
		Email:         member.Email,
		Status:        member.Status,
		FirstName:     member.FirstName,
		LastName:      member.LastName,
		SubscribeDate: member.SubscribeDate,
		Tags:          member.Tags,
	}, nil
}

// RecordFeedback only logs; there is no datastore to keep it in. The
// acknowledgement id gives the caller something to quote.
func (s *newsletterService) RecordFeedback(_ context.Context, req *entity.FeedbackRequest) string {
	ackID := uuid.New().String()

	logrus.WithFields(logrus.Fields{
		"ack_id":          ackID,
		"email":           req.Email,
		"rating":          req.Rating,
		"has_feedback":    req.Feedback != "",
		"has_suggestions": req.Suggestions != "",
	}).Info("Newsletter feedback received")

	return ackID
}
