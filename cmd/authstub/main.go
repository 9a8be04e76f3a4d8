package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authflow/internal/authstub"
	"authflow/internal/config"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	cfg, err := config.LoadStub()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := config.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	users, err := authstub.OpenUserStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open user store: %v", err)
	}
	defer users.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	otps := authstub.NewOTPStore(cfg.OTPTTL)
	go otps.RunCleanup(ctx, 5*time.Minute)

	handler := authstub.NewHandler(users, otps, authstub.NewTokenIssuer(cfg.JWTSecret), log, 0)

	accessLog := log.Writer()
	defer accessLog.Close()
	app := authstub.NewApp(handler, accessLog)

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Addr, "db": cfg.DBPath}).Info("Starting auth stub")
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
