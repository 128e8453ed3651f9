package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/config"
	"github.com/Protagonistst/serenity-spa/internal/transport/middleware"
)

func InitRoutes(cfg *config.Config, bookingHandler *BookingHandler, contactHandler *ContactHandler, newsletterHandler *NewsletterHandler, verifier middleware.Verifier) *gin.Engine {

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithField("panic", recovered).Error("Unhandled error")

		message := "Something went wrong!"
		if !cfg.IsProduction() {
			if err, ok := recovered.(error); ok {
				message = err.Error()
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": message,
		})
	}))
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.BodyLimit())
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))

	verify := middleware.Recaptcha(verifier, cfg.Recaptcha.MinScore)

	// API routes
	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":      "OK",
				"timestamp":   time.Now().Format(time.RFC3339),
				"environment": cfg.Server.Env,
			})
		})

		booking := api.Group("/booking")
		{
			booking.POST("", verify, bookingHandler.CreateBooking)
			booking.GET("/availability/:date", bookingHandler.CheckAvailability)
			booking.GET("/:reference", bookingHandler.GetBooking)
		}

		contact := api.Group("/contact")
		{
			contact.POST("", verify, contactHandler.SubmitContact)
			contact.GET("/subjects", contactHandler.GetSubjects)
			contact.GET("/hours", contactHandler.GetHours)
		}

		newsletter := api.Group("/newsletter")
		{
			newsletter.POST("/subscribe", verify, newsletterHandler.Subscribe)
			newsletter.POST("/unsubscribe", newsletterHandler.Unsubscribe)
			newsletter.GET("/status/:email", newsletterHandler.Status)
			newsletter.GET("/preferences", newsletterHandler.Preferences)
			newsletter.POST("/feedback", newsletterHandler.Feedback)
		}
	}

	// Catch-all for unmatched API paths
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not Found",
			"message": "API endpoint not found",
		})
	})

	return router
}

// bindJSON parses the request body, mapping oversized payloads to 413 and
// malformed JSON to 400. Returns false once a response has been written.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":   "Request too large",
				"message": "The request payload is too large.",
			})
			return false
		}

		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": "Request body must be valid JSON",
		})
		return false
	}
	return true
}
