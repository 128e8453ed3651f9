package service

import (
	"context"
	"time"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/pkg/mailchimp"
	"github.com/Protagonistst/serenity-spa/pkg/mailer"
)

// Notifier is the outbound-email seam. Implemented by *mailer.Dispatcher,
// substituted with a fake in tests.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to string, data mailer.BookingEmailData) mailer.SendResult
	SendBookingAlert(ctx context.Context, data mailer.BookingEmailData) mailer.SendResult
	SendContactAutoReply(ctx context.Context, to string, data mailer.ContactEmailData) mailer.SendResult
	SendContactAlert(ctx context.Context, data mailer.ContactEmailData) mailer.SendResult
	SendNewsletterWelcome(ctx context.Context, to string, data mailer.WelcomeEmailData) mailer.SendResult
}

// ListProvider is the subscriber-list seam. Implemented by *mailchimp.Client.
type ListProvider interface {
	Subscribe(ctx context.Context, params mailchimp.SubscribeParams) (*mailchimp.Member, error)
	Unsubscribe(ctx context.Context, email string) (*mailchimp.Member, error)
	GetMember(ctx context.Context, email string) (*mailchimp.Member, error)
}

type BookingService interface {
	SubmitBooking(ctx context.Context, req *entity.BookingRequest) (*entity.BookingConfirmation, error)
	CheckAvailability(date time.Time) *entity.Availability
}

type ContactService interface {
	SubmitContact(ctx context.Context, msg *entity.ContactMessage) (autoReplySent bool, err error)
}

type NewsletterService interface {
	Subscribe(ctx context.Context, req *entity.SubscribeRequest) (*entity.SubscriptionResult, error)
	Unsubscribe(ctx context.Context, email string) (*entity.Subscriber, error)
	SubscriberStatus(ctx context.Context, email string) (*entity.Subscriber, error)
	RecordFeedback(ctx context.Context, req *entity.FeedbackRequest) string
}
