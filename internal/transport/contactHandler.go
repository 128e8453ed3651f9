package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/internal/service"
	"github.com/Protagonistst/serenity-spa/internal/validation"
)

type ContactHandler struct {
	service service.ContactService
}

func NewContactHandler(service service.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) SubmitContact(c *gin.Context) {
	var req entity.ContactRequest
	if !bindJSON(c, &req) {
		return
	}

	if ferr := validation.Contact(&req); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	msg := req.Normalize(c.ClientIP(), time.Now())

	autoReplySent, err := h.service.SubmitContact(c.Request.Context(), msg)
	if err != nil {
		logrus.Errorf("Contact form submission error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Submission failed",
			"message": "Unable to send your message. Please try again or contact us directly.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Your message has been sent successfully!",
		"data": gin.H{
			"name":          msg.FullName(),
			"email":         msg.Email,
			"subject":       msg.Subject,
			"submittedAt":   msg.SubmittedAt,
			"autoReplySent": autoReplySent,
			"responseTime":  "We typically respond within 24 hours",
		},
	})
}

type contactSubject struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

var contactSubjects = []contactSubject{
	{"general-inquiry", "General Inquiry", "General questions about our services"},
	{"booking-assistance", "Booking Assistance", "Help with booking or scheduling"},
	{"treatment-info", "Treatment Information", "Questions about specific treatments"},
	{"pricing-packages", "Pricing & Packages", "Information about pricing and packages"},
	{"group-bookings", "Group Bookings", "Corporate or group spa packages"},
	{"gift-certificates", "Gift Certificates", "Information about spa gift certificates"},
	{"membership", "Membership", "Spa membership and loyalty programs"},
	{"special-events", "Special Events", "Spa parties and special occasions"},
	{"feedback", "Feedback", "Share your experience with us"},
	{"complaint", "Complaint", "Report an issue or concern"},
	{"partnership", "Partnership", "Business partnerships and collaborations"},
	{"other", "Other", "Other inquiries not listed above"},
}

func (h *ContactHandler) GetSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contactSubjects,
	})
}

type dayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen"`
}

var businessHours = map[string]dayHours{
	"monday":    {"09:00", "20:00", true},
	"tuesday":   {"09:00", "20:00", true},
	"wednesday": {"09:00", "20:00", true},
	"thursday":  {"09:00", "20:00", true},
	"friday":    {"09:00", "21:00", true},
	"saturday":  {"08:00", "21:00", true},
	"sunday":    {"08:00", "19:00", true},
}

var contactInfo = gin.H{
	"phone": "(555) 123-SPA",
	"email": "hello@serenityspa.com",
	"address": gin.H{
		"street":  "123 Wellness Boulevard",
		"city":    "Serenity Valley",
		"state":   "CA",
		"zipCode": "90210",
		"country": "United States",
	},
}

func (h *ContactHandler) GetHours(c *gin.Context) {
	now := time.Now()
	isOpen := currentlyOpen(now)

	status := gin.H{
		"isOpen": isOpen,
	}
	if isOpen {
		status["message"] = "We are currently open"
	} else {
		status["message"] = "We are currently closed"
		status["nextOpenTime"] = "Check our business hours below"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"businessHours": businessHours,
			"contact":       contactInfo,
			"responseTime": gin.H{
				"email":     "Within 24 hours",
				"phone":     "Immediate during business hours",
				"emergency": "For urgent matters, please call directly",
			},
			"socialMedia": gin.H{
				"instagram": "@serenityspa",
				"facebook":  "SerenitySpaRetreat",
				"twitter":   "@serenityspa",
			},
			"policies": gin.H{
				"cancellation": "24 hours advance notice required",
				"lateness":     "15-minute grace period",
				"rescheduling": "Free rescheduling up to 24 hours before appointment",
			},
			"currentStatus": status,
		},
	})
}

// currentlyOpen compares wall-clock time against today's hours. The "HH:MM"
// strings compare correctly as strings.
func currentlyOpen(now time.Time) bool {
	day := businessHours[dayKey(now.Weekday())]
	if !day.IsOpen {
		return false
	}
	current := now.Format("15:04")
	return current >= day.Open && current <= day.Close
}

func dayKey(wd time.Weekday) string {
	switch wd {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}
