package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/jwalitptl/booker-api/config"
	"github.com/jwalitptl/booker-api/internal/calendar"
	"github.com/jwalitptl/booker-api/internal/email"
	"github.com/jwalitptl/booker-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/booker-api/internal/handler/appointment"
	doctorHandler "github.com/jwalitptl/booker-api/internal/handler/doctor"
	patientHandler "github.com/jwalitptl/booker-api/internal/handler/patient"
	verifyHandler "github.com/jwalitptl/booker-api/internal/handler/verify"
	"github.com/jwalitptl/booker-api/internal/repository/postgres"
	"github.com/jwalitptl/booker-api/internal/router"
	"github.com/jwalitptl/booker-api/internal/scheduling"
	availabilityService "github.com/jwalitptl/booker-api/internal/service/availability"
	bookingService "github.com/jwalitptl/booker-api/internal/service/booking"
	doctorService "github.com/jwalitptl/booker-api/internal/service/doctor"
	otpService "github.com/jwalitptl/booker-api/internal/service/otp"
	patientService "github.com/jwalitptl/booker-api/internal/service/patient"
	"github.com/jwalitptl/booker-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	l := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		l.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	ctx := context.Background()

	calCfg := calendar.GoogleConfig{
		ClientID:     cfg.Calendar.ClientID,
		ClientSecret: cfg.Calendar.ClientSecret,
		RefreshToken: cfg.Calendar.RefreshToken,
	}
	var calSvc calendar.Service
	if calCfg.Configured() {
		calSvc, err = calendar.NewGoogleService(ctx, calCfg)
		if err != nil {
			l.Fatal(err, "failed to initialize calendar client")
		}
	} else {
		l.Warn("calendar credentials missing, running without external calendar")
		calSvc = calendar.Unconfigured{}
	}

	smtpCfg := email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}
	var mailSvc email.Service
	if smtpCfg.Configured() {
		mailSvc, err = email.NewGomailService(smtpCfg)
		if err != nil {
			l.Fatal(err, "failed to initialize mail transport")
		}
	} else {
		l.Warn("smtp transport missing, running without outbound mail")
		mailSvc = email.Unconfigured{}
	}

	var otpStore otpService.Store
	switch cfg.Verification.Store {
	case "redis":
		otpStore, err = otpService.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			l.Fatal(err, "failed to connect to redis")
		}
	default:
		otpStore = otpService.NewMemoryStore(time.Minute)
	}

	loc := scheduling.Zone(cfg.Booking.UTCOffsetMinutes)
	width := cfg.Booking.SlotWidth()

	doctorSvc := doctorService.NewService(doctorRepo)
	patientSvc := patientService.NewService(patientRepo)
	availabilitySvc := availabilityService.NewService(doctorRepo, appointmentRepo, calSvc, width, loc, l.Component("availability"))
	bookingSvc := bookingService.NewService(doctorRepo, patientRepo, appointmentRepo, calSvc, mailSvc, width, loc, l.Component("booking"))
	otpSvc := otpService.NewService(otpStore, mailSvc, cfg.Verification.CodeTTL, cfg.Verification.MaxAttempts, l.Component("verify"))

	h := handler.NewHandler(db)
	doctorH := doctorHandler.NewHandler(doctorSvc, availabilitySvc)
	appointmentH := appointmentHandler.NewHandler(bookingSvc)
	patientH := patientHandler.NewHandler(patientSvc, bookingSvc)
	verifyH := verifyHandler.NewHandler(otpSvc)

	limit := rate.Inf
	if cfg.RateLimit.Enabled {
		limit = rate.Limit(cfg.RateLimit.RequestsPerSecond)
	}

	r := router.NewRouter(doctorH, appointmentH, patientH, verifyH, h, router.Config{
		RateLimit:     limit,
		RateBurst:     cfg.RateLimit.Burst,
		Timeout:       30 * time.Second,
		SharedSecret:  cfg.Booking.SharedSecret,
		MetricsPrefix: "booker",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	l.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Fatal(err, "server forced to shutdown")
	}

	l.Info("server exited properly")
}
