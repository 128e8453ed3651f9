package entity

import (
	"time"
)

// ServiceSelection describes the treatment picked in the booking wizard.
type ServiceSelection struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
	Price    string `json:"price"`
}

type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type BookingRequest struct {
	SelectedService *ServiceSelection `json:"selectedService"`
	SelectedDate    string            `json:"selectedDate"`
	SelectedTime    string            `json:"selectedTime"`
	PersonalInfo    *PersonalInfo     `json:"personalInfo"`
	Notes           string            `json:"notes"`
	RecaptchaToken  string            `json:"recaptchaToken"`
}

// BookingConfirmation is what the customer gets back. Nothing is stored,
// the reference exists only in the confirmation emails and the logs.
type BookingConfirmation struct {
	Reference   string    `json:"reference"`
	Service     string    `json:"service"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	EmailSent   bool      `json:"emailSent"`
}

type Availability struct {
	Date           string   `json:"date"`
	AvailableSlots []string `json:"availableSlots"`
	BookedSlots    []string `json:"bookedSlots"`
}

const BookingStatusPending = "pending"
