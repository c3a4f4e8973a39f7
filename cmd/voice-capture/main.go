// Command voice-capture runs the voice ingestion gateway: it accepts audio
// uploads over HTTP, transcribes them, and emails the transcript.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/voice-capture/internal/config"
	"github.com/skillsenselab/voice-capture/internal/logger"
	"github.com/skillsenselab/voice-capture/internal/mail"
	"github.com/skillsenselab/voice-capture/internal/observability"
	"github.com/skillsenselab/voice-capture/internal/server"
	"github.com/skillsenselab/voice-capture/internal/server/endpoint"
	"github.com/skillsenselab/voice-capture/internal/server/middleware"
	"github.com/skillsenselab/voice-capture/internal/transcribe"
	"github.com/skillsenselab/voice-capture/internal/util"
	"github.com/skillsenselab/voice-capture/internal/version"
	"github.com/skillsenselab/voice-capture/internal/voice"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voice-capture: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	serviceVersion := cfg.Service.Version
	if serviceVersion == "unknown" {
		serviceVersion = version.Get().Version
	}

	log := logger.New(cfg.Logging, config.ServiceName, serviceVersion, cfg.Service.Environment)
	log.Info("Starting voice capture gateway", logger.Fields(
		"version", serviceVersion,
		"environment", cfg.Service.Environment,
	))
	log.Info("Configuration loaded", logger.Fields(
		"ingest_token", util.MaskSecret(cfg.Auth.IngestToken, 4),
		"whisper", cfg.Whisper.String(),
		"smtp_host", cfg.SMTP.Host,
		"smtp_port", cfg.SMTP.Port,
		"mail_to", cfg.SMTP.To,
	))

	ctx := context.Background()

	meterProvider, err := observability.InitMeter(ctx, observability.MeterConfig{
		ServiceName:    config.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Service.Environment,
		Endpoint:       cfg.Metrics.Endpoint,
		Insecure:       cfg.Metrics.Insecure,
	})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	recorder, err := observability.NewRecorder(observability.Meter(config.ServiceName))
	if err != nil {
		return fmt.Errorf("create metric recorder: %w", err)
	}

	transcriber := transcribe.NewClient(cfg.Whisper, log)
	mailer, err := mail.NewClient(cfg.SMTP, log)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	lifecycle := server.NewLifecycle()
	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware(lifecycle)

	engine := srv.GinEngine()
	engine.GET("/health", endpoint.Health(lifecycle))
	engine.GET("/ready", endpoint.Readiness(cfg.Ready))

	handler := voice.NewHandler(transcriber, mailer, recorder, log)
	engine.POST("/voice", middleware.BearerAuth(middleware.AuthConfig{
		Token:    cfg.Auth.IngestToken,
		Recorder: recorder,
		Log:      log.WithComponent("auth"),
	}), handler.Capture)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	// Block until asked to stop, then drain: reject new work, let in-flight
	// requests finish, and flush metrics last.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info("Shutdown signal received", logger.Fields("signal", sig.String()))
	lifecycle.BeginDrain()

	if err := srv.Stop(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown incomplete")
	}

	if meterProvider != nil {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(flushCtx); err != nil {
			log.WithError(err).Warn("Metric flush failed")
		}
	}

	log.Info("Shutdown complete")
	return nil
}
