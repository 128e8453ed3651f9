package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"
)

// Message is a rendered email ready for the transport.
type Message struct {
	Subject string
	HTML    string
}

// BookingEmailData feeds the booking confirmation and the operator alert.
type BookingEmailData struct {
	Reference    string
	ServiceTitle string
	Duration     string
	Price        string
	Date         string
	Time         string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
}

// ContactEmailData feeds the contact auto-reply and the operator alert.
type ContactEmailData struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Subject     string
	Message     string
	SubmittedAt time.Time
}

// MessageHTML escapes the message and keeps its line breaks as <br> tags.
func (d ContactEmailData) MessageHTML() template.HTML {
	escaped := template.HTMLEscapeString(d.Message)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// WelcomeEmailData feeds the newsletter welcome email.
type WelcomeEmailData struct {
	FirstName string
	Email     string
}

var bookingConfirmationTmpl = template.Must(template.New("bookingConfirmation").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #5a8a5a;">Serenity Spa</h1>
  <h2>Booking Confirmation</h2>
  <p>Dear {{.FirstName}},</p>
  <p>Thank you for choosing Serenity Spa! We're delighted to confirm your booking.</p>
  <h3>Booking Details</h3>
  <p><strong>Reference:</strong> {{.Reference}}</p>
  <p><strong>Service:</strong> {{.ServiceTitle}}</p>
  <p><strong>Date:</strong> {{.Date}}</p>
  <p><strong>Time:</strong> {{.Time}}</p>
  <p><strong>Duration:</strong> {{.Duration}}</p>
  <p><strong>Price:</strong> {{.Price}}</p>
  <h3>Contact Information</h3>
  <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
  <p>If you need to modify or cancel your appointment, please contact us at least 24 hours in advance.</p>
  <p style="color: #5a8a5a;">(555) 123-SPA | hello@serenityspa.com</p>
</div>`))

var bookingAlertTmpl = template.Must(template.New("bookingAlert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #5a8a5a;">New Booking Received</h2>
  <p><strong>Reference:</strong> {{.Reference}}</p>
  <p><strong>Service:</strong> {{.ServiceTitle}} ({{.Duration}}, {{.Price}})</p>
  <p><strong>Date:</strong> {{.Date}} at {{.Time}}</p>
  <p><strong>Customer:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  {{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
</div>`))

var contactAlertTmpl = template.Must(template.New("contactAlert").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #5a8a5a;">New Contact Form Submission</h2>
  <p><strong>Name:</strong> {{.FirstName}} {{.LastName}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
  <p><strong>Phone:</strong> {{if .Phone}}{{.Phone}}{{else}}Not provided{{end}}</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Message:</strong></p>
  <div style="border-left: 4px solid #5a8a5a; padding-left: 15px;">{{.MessageHTML}}</div>
  <p style="color: #666; font-size: 14px;">Submitted on: {{.SubmittedAt.Format "Jan 2, 2006 15:04 MST"}}</p>
</div>`))

var contactAutoReplyTmpl = template.Must(template.New("contactAutoReply").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #5a8a5a;">Serenity Spa</h1>
  <h2>Thank You for Reaching Out</h2>
  <p>Dear {{.FirstName}},</p>
  <p>Thank you for contacting Serenity Spa. We've received your message and will respond within 24 hours.</p>
  <p><strong>Subject:</strong> {{.Subject}}</p>
  <p><strong>Submitted:</strong> {{.SubmittedAt.Format "Jan 2, 2006 15:04 MST"}}</p>
  <p>For urgent matters, please call (555) 123-SPA.</p>
  <p style="color: #5a8a5a;">Experience tranquility. Embrace wellness.</p>
</div>`))

var newsletterWelcomeTmpl = template.Must(template.New("newsletterWelcome").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #5a8a5a;">Welcome to Serenity</h1>
  <p>Hello {{if .FirstName}}{{.FirstName}}{{else}}Friend{{end}},</p>
  <p>Thank you for joining our wellness community! You're now part of an exclusive group that receives:</p>
  <ul>
    <li>Weekly wellness tips and self-care inspiration</li>
    <li>Exclusive offers and early access to new treatments</li>
    <li>Priority booking for special events and workshops</li>
    <li>Personalized treatment recommendations</li>
  </ul>
  <p><strong>Special Welcome Offer:</strong> enjoy 15% off your first treatment with code WELCOME15.</p>
  <p style="color: #5a8a5a;">hello@serenityspa.com | (555) 123-SPA</p>
</div>`))

// BookingConfirmation renders the customer confirmation email.
func BookingConfirmation(data BookingEmailData) Message {
	return Message{
		Subject: "Booking Confirmation - Serenity Spa",
		HTML:    render(bookingConfirmationTmpl, data),
	}
}

// BookingAlert renders the operator copy of a booking.
func BookingAlert(data BookingEmailData) Message {
	return Message{
		Subject: fmt.Sprintf("New Booking %s - %s", data.Reference, data.ServiceTitle),
		HTML:    render(bookingAlertTmpl, data),
	}
}

// ContactAlert renders the operator copy of a contact submission.
func ContactAlert(data ContactEmailData) Message {
	return Message{
		Subject: "New Contact Form Submission - " + data.Subject,
		HTML:    render(contactAlertTmpl, data),
	}
}

// ContactAutoReply renders the auto-reply sent back to the submitter.
func ContactAutoReply(data ContactEmailData) Message {
	return Message{
		Subject: "Thank you for contacting Serenity Spa",
		HTML:    render(contactAutoReplyTmpl, data),
	}
}

// NewsletterWelcome renders the welcome email for a new subscriber.
func NewsletterWelcome(data WelcomeEmailData) Message {
	return Message{
		Subject: "Welcome to Serenity Spa Newsletter",
		HTML:    render(newsletterWelcomeTmpl, data),
	}
}

func render(tmpl *template.Template, data interface{}) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		// Templates are closed over fixed struct types, execution cannot
		// fail on missing fields. Keep the subject deliverable anyway.
		return ""
	}
	return buf.String()
}
