package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/internal/entity"
	"github.com/Protagonistst/serenity-spa/internal/service"
	"github.com/Protagonistst/serenity-spa/internal/validation"
)

type BookingHandler struct {
	service service.BookingService
}

func NewBookingHandler(service service.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req entity.BookingRequest
	if !bindJSON(c, &req) {
		return
	}

	if ferr := validation.Booking(&req, time.Now()); ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	confirmation, err := h.service.SubmitBooking(c.Request.Context(), &req)
	if err != nil {
		logrus.Errorf("Booking submission error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Booking failed",
			"message": "Unable to process your booking. Please try again or contact us directly.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"message":          "Booking submitted successfully",
		"bookingReference": confirmation.Reference,
		"data":             confirmation,
	})
}

// GetBooking is a placeholder: nothing is persisted yet, so there is nothing
// to look up.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Booking lookup functionality will be available soon",
		"reference": c.Param("reference"),
	})
}

func (h *BookingHandler) CheckAvailability(c *gin.Context) {
	date, ferr := validation.AvailabilityDate(c.Param("date"), time.Now())
	if ferr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": ferr.Code, "message": ferr.Message})
		return
	}

	availability := h.service.CheckAvailability(date)

	message := "No slots available for this date"
	if n := len(availability.AvailableSlots); n > 0 {
		message = fmt.Sprintf("%d time slots available", n)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"date":           availability.Date,
		"availableSlots": availability.AvailableSlots,
		"bookedSlots":    availability.BookedSlots,
		"message":        message,
	})
}
