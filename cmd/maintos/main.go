package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metakgp/maintos/internal/github"
	httpx "github.com/metakgp/maintos/internal/http"
	"github.com/metakgp/maintos/internal/service/access"
	"github.com/metakgp/maintos/internal/service/auth"
	"github.com/metakgp/maintos/internal/service/deployments"
	"github.com/metakgp/maintos/internal/session"
	"github.com/metakgp/maintos/pkg/config"
	"github.com/metakgp/maintos/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("maintos", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	codec, err := session.New(cfg.JWTSecret, session.WithTTL(cfg.SessionTTL))
	if err != nil {
		log.Error("invalid jwt secret", "error", err)
		os.Exit(1)
	}

	gh := github.New(log, github.WithTimeout(cfg.GithubTimeout))
	resolver := access.New(gh, log, cfg)
	authSvc := auth.New(gh, resolver, codec, log, cfg)
	deploySvc := deployments.New(nil, resolver, log, cfg)

	router := httpx.NewRouter(log, authSvc, deploySvc, codec, cfg.CORSAllowedOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", cfg.Addr, "deployments_dir", cfg.DeploymentsDir)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
