package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/pkg/mailer"
)

// daySlots is the fixed slot template every day opens with. The real
// scheduling system behind this is out of scope, availability is a stand-in.
var daySlots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00",
}

var (
	weekendBooked = []string{"10:00", "15:00"}
	weekdayBooked = []string{"12:00"}
)

const referenceChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

type bookingService struct {
	notifier Notifier
}

func NewBookingService(notifier Notifier) BookingService {
	return &bookingService{notifier: notifier}
}

// newBookingReference builds "SPA-<unix ms>-<5 random chars>". References are
// never looked up again, so probabilistic uniqueness is accepted.
func newBookingReference(now time.Time) string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = referenceChars[rand.Intn(len(referenceChars))]
	}
	return fmt.Sprintf("SPA-%d-%s", now.UnixMilli(), suffix)
}

// SubmitBooking stamps the validated request with a reference and submission
// time, then fires the customer confirmation and the operator alert. Email
// failures are logged, never surfaced as a request failure.
func (s *bookingService) SubmitBooking(ctx context.Context, req *entity.BookingRequest) (*entity.BookingConfirmation, error) {
	now := time.Now()
	reference := newBookingReference(now)

	logrus.WithFields(logrus.Fields{
		"reference": reference,
		"service":   req.SelectedService.Title,
		"date":      req.SelectedDate,
		"time":      req.SelectedTime,
		"customer":  req.PersonalInfo.FirstName + " " + req.PersonalInfo.LastName,
	}).Info("Processing booking")

	data := mailer.BookingEmailData{
		Reference:    reference,
		ServiceTitle: req.SelectedService.Title,
		Duration:     req.SelectedService.Duration,
		Price:        req.SelectedService.Price,
		Date:         req.SelectedDate,
		Time:         req.SelectedTime,
		FirstName:    req.PersonalInfo.FirstName,
		LastName:     req.PersonalInfo.LastName,
		Email:        req.PersonalInfo.Email,
		Phone:        req.PersonalInfo.Phone,
	}

	// The two sends are independent, issue them concurrently.
	var customerResult, adminResult mailer.SendResult
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		customerResult = s.notifier.SendBookingConfirmation(ctx, req.PersonalInfo.Email, data)
	}()
	go func() {
		defer wg.Done()
		adminResult = s.notifier.SendBookingAlert(ctx, data)
	}()
	wg.Wait()

	if customerResult.Success {
		logrus.Info("Confirmation email sent to customer")
	} else {
		logrus.Errorf("Failed to send customer email: %s", customerResult.Error)
	}
	if adminResult.Success {
		logrus.Info("Notification email sent to admin")
	} else {
		logrus.Errorf("Failed to send admin email: %s", adminResult.Error)
	}

	return &entity.BookingConfirmation{
		Reference:   reference,
		Service:     req.SelectedService.Title,
		Date:        req.SelectedDate,
		Time:        req.SelectedTime,
		Status:      entity.BookingStatusPending,
		SubmittedAt: now,
		EmailSent:   customerResult.Success,
	}, nil
}

// CheckAvailability returns the fixed slot template minus the mock booked
// subset, which differs for weekends and weekdays.
func (s *bookingService) CheckAvailability(date time.Time) *entity.Availability {
	booked := weekdayBooked
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		booked = weekendBooked
	}

	available := make([]string, 0, len(daySlots))
	for _, slot := range daySlots {
		taken := false
		for _, b := range booked {
			if slot == b {
				taken = true
				break
			}
		}
		if !taken {
			available = append(available, slot)
		}
	}

	return &entity.Availability{
		Date:           date.Format("2006-01-02"),
		AvailableSlots: available,
		BookedSlots:    booked,
	}
}
