package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepak-shinde14/wellness-platform-backend/configs"
	httpEngine "github.com/deepak-shinde14/wellness-platform-backend/internal/app/http"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/logics"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/repositories"
	"github.com/deepak-shinde14/wellness-platform-backend/internal/utils"

	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to config file (short)")
	flag.StringVar(&configPath, "config", "", "Path to config file (long)")
	flag.Parse()

	configs.Init(&configPath)
	defer configs.Logger.Sync()

	configs.Logger.Info("Configuration loaded",
		zap.String("configPath", configPath),
		zap.String("environment", configs.Configs.Service.Environment),
	)

	// Initialize repositories (Postgres)
	repositories.Init()

	emailService := utils.NewEmailService(
		configs.Configs.Email.SMTPHost,
		configs.Configs.Email.SMTPPort,
		configs.Configs.Email.Username,
		configs.Configs.Email.Password,
		configs.Configs.Email.SenderEmail,
		configs.Configs.Service.FrontendURL,
	)
	notifier := logics.NewNotifier(emailService,
		time.Duration(configs.Configs.Email.SendTimeoutSec)*time.Second)

	httpServer := httpEngine.NewServer(notifier)
	go func() {
		if err := httpServer.Start(); err != nil {
			if err.Error() != "http: Server closed" {
				configs.Logger.Fatal("HTTP server error", zap.Error(err))
			}
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	configs.Logger.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		configs.Logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		configs.Logger.Info("HTTP server shutdown gracefully")
	}

	// Drain queued notification emails before closing the database.
	notifier.Close()
	repositories.Close()

	configs.Logger.Info("Server exited")
}
