package transport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/internal/service"
	"github.com/Protagonistst/serenity-spa/internal/validation"
)

type NewsletterHandler struct {
	service service.NewsletterService
}

func NewNewsletterHandler(service service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{service: service}
}

var subscriptionBenefits = []string{
	"Weekly wellness tips and inspiration",
	"Exclusive offers and discounts",
	"Early access to new treatments",
	"Priority booking for events",
}

func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req entity.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	if ferr := validation.Subscribe(&req); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	req.Normalize()

	result, err := h.service.Subscribe(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrAlreadySubscribed):
			c.JSON(http.StatusConflict, gin.H{
				"error":      "Already subscribed",
				"message":    "This email is already subscribed to our newsletter",
				"suggestion": "Check your email for our latest newsletters, or contact us if you're not receiving them.",
			})
		case errors.Is(err, entity.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid email",
				"message": "Please provide a valid email address",
			})
		default:
			logrus.Errorf("Newsletter subscription error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Subscription failed",
				"message": "Unable to complete your newsletter subscription. Please try again later.",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Successfully subscribed to our newsletter!",
		"data": gin.H{
			"email":            result.Email,
			"status":           "subscribed",
			"welcomeEmailSent": result.WelcomeEmailSent,
			"benefits":         subscriptionBenefits,
		},
	})
}

func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req entity.UnsubscribeRequest
	if !bindJSON(c, &req) {
		return
	}

	if ferr := validation.Email(req.Email); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.service.Unsubscribe(c.Request.Context(), email); err != nil {
		if errors.Is(err, entity.ErrSubscriberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":      "Email not found",
				"message":    "Email address not found in our newsletter list",
				"suggestion": "The email address may not be subscribed to our newsletter.",
			})
			return
		}

		logrus.Errorf("Newsletter unsubscription error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Unsubscription failed",
			"message": "Unable to process your unsubscription request. Please contact us directly.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully unsubscribed from our newsletter",
		"data": gin.H{
			"email":  email,
			"status": "unsubscribed",
			"note":   "We're sorry to see you go! You can always resubscribe if you change your mind.",
		},
	})
}

func (h *NewsletterHandler) Status(c *gin.Context) {
	email := c.Param("email")

	if ferr := validation.Email(email); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	subscriber, err := h.service.SubscriberStatus(c.Request.Context(), strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// An unknown address is a successful lookup, not an error.
		if errors.Is(err, entity.ErrSubscriberNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"subscribed": false,
				"message":    "Email address is not subscribed to our newsletter",
			})
			return
		}

		logrus.Errorf("Newsletter status check error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Status check failed",
			"message": "Unable to check subscription status",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"subscribed": true,
		"data":       subscriber,
	})
}

func (h *NewsletterHandler) Preferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"frequency": []gin.H{
				{"value": "weekly", "label": "Weekly", "description": "Receive our newsletter every week with the latest wellness tips"},
				{"value": "bi-weekly", "label": "Bi-weekly", "description": "Receive our newsletter every two weeks"},
				{"value": "monthly", "label": "Monthly", "description": "Receive our newsletter once a month with curated content"},
			},
			"content": []gin.H{
				{"value": "wellness-tips", "label": "Wellness Tips", "description": "Self-care and wellness advice from our experts"},
				{"value": "new-services", "label": "New Services", "description": "Be the first to know about our latest treatments"},
				{"value": "special-offers", "label": "Special Offers", "description": "Exclusive discounts and promotional offers"},
				{"value": "events", "label": "Events & Workshops", "description": "Information about spa events and wellness workshops"},
				{"value": "seasonal", "label": "Seasonal Content", "description": "Seasonal wellness tips and treatment recommendations"},
			},
			"benefits": []string{
				"Exclusive member-only discounts up to 20%",
				"Early access to new treatment bookings",
				"Free wellness consultations",
				"Birthday month special offers",
				"Priority customer support",
				"Invitation to exclusive spa events",
			},
		},
	})
}

func (h *NewsletterHandler) Feedback(c *gin.Context) {
	var req entity.FeedbackRequest
	if !bindJSON(c, &req) {
		return
	}

	if ferr := validation.Feedback(&req); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	ackID := h.service.RecordFeedback(c.Request.Context(), &req)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Thank you for your feedback!",
		"data": gin.H{
			"id":      ackID,
			"rating":  req.Rating,
			"message": "Your feedback helps us improve our newsletter content and frequency.",
		},
	})
}
