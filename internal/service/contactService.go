package service

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/pkg/mailer"
)

type contactService struct {
	notifier Notifier
}

func NewContactService(notifier Notifier) ContactService {
	return &contactService{notifier: notifier}
}

// SubmitContact fires the auto-reply and the operator alert for a normalized
// contact message. The submission succeeds regardless of either send; the
// auto-reply outcome is reported so the response can carry the flag.
func (s *contactService) SubmitContact(ctx context.Context, msg *entity.ContactMessage) (bool, error) {
	logrus.WithFields(logrus.Fields{
		"name":      msg.FullName(),
		"email":     msg.Email,
		"subject":   msg.Subject,
		"has_phone": msg.Phone != "",
	}).Info("Processing contact form submission")

	data := mailer.ContactEmailData{
		FirstName:   msg.FirstName,
		LastName:    msg.LastName,
		Email:       msg.Email,
		Phone:       msg.Phone,
		Subject:     msg.Subject,
		Message:     msg.Message,
		SubmittedAt: msg.SubmittedAt,
	}

	var autoReplyResult, adminResult mailer.SendResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		autoReplyResult = s.notifier.SendContactAutoReply(ctx, msg.Email, data)
	}()
	go func() {
		defer wg.Done()
		adminResult = s.notifier.SendContactAlert(ctx, data)
	}()
	wg.Wait()

	if autoReplyResult.Success {
		logrus.Info("Auto-reply email sent to customer")
	} else {
		logrus.Errorf("Failed to send auto-reply email: %s", autoReplyResult.Error)
	}
	if adminResult.Success {
		logrus.Info("Notification email sent to admin")
	} else {
		logrus.Errorf("Failed to send admin notification: %s", adminResult.Error)
	}

	return autoReplyResult.Success, nil
}
