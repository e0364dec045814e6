// @title           Portfolio Content API
// @version         1.0.0
// @description     Flat-file content store behind the portfolio admin dashboard: gallery images, auction works and press articles with WebP derivatives.

// @host      localhost:8080
// @BasePath  /

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/logging"
	"portfolio-content-api/internal/middleware"
	"portfolio-content-api/internal/mirror"
	"portfolio-content-api/internal/server"
	"portfolio-content-api/internal/services"
	"portfolio-content-api/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Session store
	store, err := session.OpenStore(ctx, cfg, logging.WithComponent(logger, "session"))
	if err != nil {
		log.Fatalf("Failed to open %s session store: %v", cfg.SessionStore, err)
	}

	verifier, err := session.NewPasswordVerifier(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		log.Fatalf("Failed to initialize admin credentials: %v", err)
	}

	manager := session.NewManager(store, cfg.SessionTTL, logging.WithComponent(logger, "session"))
	gate := middleware.NewSessionGate(manager, session.NewTokenCodec(cfg.SessionSecret),
		cfg.SessionCookieName, cfg.IsProduction(), logging.WithComponent(logger, "auth"))

	// Derivative mirror
	mir, err := mirror.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s mirror: %v", cfg.MirrorBackend, err)
	}

	content, err := services.NewContent(cfg, mir, logging.WithComponent(logger, "content"))
	if err != nil {
		log.Fatalf("Failed to initialize content store: %v", err)
	}

	router := server.NewRouter(server.Deps{
		Content:             content,
		Gate:                gate,
		Verifier:            verifier,
		UploadsDir:          cfg.UploadsDir,
		PublicUploadsPrefix: cfg.PublicUploadsPrefix,
		MaxUploadBytes:      cfg.MaxUploadBytes,
		Logger:              logging.WithComponent(logger, "http"),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("server starting", "port", cfg.Port, "session_store", cfg.SessionStore, "mirror", mir.Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		return manager.RunPurger(groupCtx, cfg.SessionPurgeInterval)
	})

	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = group.Wait()
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("failed to close session store", "error", closeErr)
	}
	if err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
