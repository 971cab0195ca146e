package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobpilot/internal/bootstrap"
	"jobpilot/internal/http/handlers"
	httpapi "jobpilot/internal/http/httpapi"
	"jobpilot/internal/infra"
)

const tokenTTL = 7 * 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	svc, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise services")
	}
	defer svc.Close()

	app := &handlers.App{
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       tokenTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Users:          svc.Users,
		CVs:            svc.CVs,
		Preferences:    svc.Preferences,
		Applications:   svc.Applications,
		Files:          svc.Files,
		Parser:         svc.Parser,
		Search:         svc.Search,
		Orchestrator:   svc.AutoApply,
		Ping:           svc.Ping,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		CountryLookup:  svc.CountryLookup(),
	})
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("addr", server.Addr()).Str("storage", cfg.StorageDriver).Msg("API listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
