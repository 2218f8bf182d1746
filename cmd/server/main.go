package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dohahub/eduhub-edge/authapi"
	"github.com/dohahub/eduhub-edge/credentials"
	"github.com/dohahub/eduhub-edge/credentials/filestore"
	"github.com/dohahub/eduhub-edge/credentials/redisstore"
	"github.com/dohahub/eduhub-edge/internal/config"
	"github.com/dohahub/eduhub-edge/server"
	"github.com/dohahub/eduhub-edge/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}

	logger := newLogger(cfg)
	displayAppname(cfg.GetAppName())

	creds := newCredentialStore(cfg)
	apiClient := authapi.New(cfg.GetBackendOrigin())

	sessions, err := session.New(apiClient, creds, session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("session.New: %w", err)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	sessions.Start(startupCtx)
	cancel()
	logger.Info().Stringer("session_state", sessions.State()).Msg("session restored")

	srv, err := server.New(cfg, sessions, server.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

func newLogger(cfg config.Config) zerolog.Logger {
	if cfg.GetEnv() == "DEV" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func newCredentialStore(cfg config.Config) credentials.Store {
	if addr := cfg.GetRedisAddr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		return redisstore.New(client, "")
	}
	return filestore.New(cfg.GetCredentialsFile())
}

func listenAndServe(server *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
