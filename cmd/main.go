package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authflow/internal/config"
	"authflow/internal/delivery"
	"authflow/internal/flow"
	"authflow/internal/service"
	"authflow/internal/tui"

	"github.com/sirupsen/logrus"
)

const (
	sweepInterval = time.Minute
	sessionIdle   = 30 * time.Minute
)

func main() {
	config.LoadEnv()

	cfg, err := config.LoadClient()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	ui := flag.String("ui", "web", "front end to run: web or tui")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-ui web|tui]\n       %s reset-password -email EMAIL -password NEW_PASSWORD\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.Arg(0) == "reset-password" {
		if err := resetPassword(cfg, flag.Args()[1:]); err != nil {
			logrus.Fatalf("Reset password failed: %v", err)
		}
		return
	}

	switch *ui {
	case "web":
		err = runWeb(cfg)
	case "tui":
		err = runTUI(cfg)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		logrus.Fatalf("authflow: %v", err)
	}
}

func runWeb(cfg *config.Client) error {
	log, err := config.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	client := service.NewAuthClient(cfg.APIURL, cfg.HTTPTimeout, log)
	registry := delivery.NewRegistry(func() *flow.Coordinator {
		// one token slot per browser
		session := service.NewSession(service.NewMemoryTokenStore(), log)
		return flow.NewCoordinator(client, session, log)
	}, log)
	defer registry.Close()

	accessLog := log.Writer()
	defer accessLog.Close()
	app := delivery.NewApp(delivery.NewWebHandler(registry, log), accessLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go registry.RunSweeper(ctx, sweepInterval, sessionIdle)
	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Server shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{"addr": cfg.WebAddr, "api": cfg.APIURL}).Info("Starting web front end")
	return app.Listen(cfg.WebAddr)
}

func runTUI(cfg *config.Client) error {
	log, closer, err := config.NewFileLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	client := service.NewAuthClient(cfg.APIURL, cfg.HTTPTimeout, log)
	session := service.NewSession(service.NewFileTokenStore(cfg.TokenFile), log)
	coordinator := flow.NewCoordinator(client, session, log)
	defer coordinator.Close()

	log.WithField("api", cfg.APIURL).Info("Starting terminal front end")
	return tui.NewApp(coordinator, log).Run()
}

func resetPassword(cfg *config.Client, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		fs.Usage()
		return fmt.Errorf("email and password are required")
	}

	log, err := config.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	client := service.NewAuthClient(cfg.APIURL, cfg.HTTPTimeout, log)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	if err := client.ResetPassword(ctx, *email, *password); err != nil {
		return err
	}

	log.WithField("email", *email).Info("Password updated")
	return nil
}
