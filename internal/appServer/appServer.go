package appServer

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Protagonistst/serenity-spa/config"
	"github.com/Protagonistst/serenity-spa/internal/service"
	"github.com/Protagonistst/serenity-spa/internal/transport"
	"github.com/Protagonistst/serenity-spa/pkg/mailchimp"
	"github.com/Protagonistst/serenity-spa/pkg/mailer"
	"github.com/Protagonistst/serenity-spa/pkg/recaptcha"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(os.Stderr, "SERVER ERROR: ", log.LstdFlags),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewServer wires the adapters into the services, the services into the
// handlers, and runs the HTTP server until SIGTERM/SIGINT.
func NewServer(cfg *config.Config) {

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)

	// Outbound mail transport
	smtpTransport := mailer.NewTransport(mailer.Config{
		Service:  cfg.SMTP.Service,
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	dispatcher := mailer.NewDispatcher(smtpTransport, cfg.Admin.Email)

	// External collaborators
	listClient := mailchimp.NewClient(cfg.Mailchimp.APIKey, cfg.Mailchimp.ListID)
	if listClient.Configured() {
		logrus.Info("Mailchimp client initialized")
	} else {
		logrus.Warn("Mailchimp API key not configured")
	}

	verifier := recaptcha.NewClient(cfg.Recaptcha.SecretKey)
	if !verifier.Configured() {
		logrus.Warn("reCAPTCHA secret key not configured, verification disabled")
	}

	// Initialize services
	bookingService := service.NewBookingService(dispatcher)
	contactService := service.NewContactService(dispatcher)
	newsletterService := service.NewNewsletterService(listClient, dispatcher)

	// Initialize handlers
	bookingHandler := transport.NewBookingHandler(bookingService)
	contactHandler := transport.NewContactHandler(contactService)
	newsletterHandler := transport.NewNewsletterHandler(newsletterService)

	if cfg.Server.Mode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := new(Server)
	go func() {
		if err := srv.Run(cfg, transport.InitRoutes(cfg, bookingHandler, contactHandler, newsletterHandler, verifier)); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("error occured while running http server: %s", err.Error())
		}
	}()

	logrus.Infof("App Started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logrus.Print("App Shutting Down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
	}
}
