package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	sentrygo "github.com/getsentry/sentry-go"
	_ "github.com/lib/pq"

	"movieapi/auth"
	"movieapi/httpserver"
	"movieapi/movie"
	"movieapi/pkg/config"
	"movieapi/pkg/sentry"
	"movieapi/postgres"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Cannot load config", "error", err)
		os.Exit(1)
	}

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		slog.Error("Cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	pool := postgres.NewPool()
	err = pool.Initialize(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
		MinConns: cfg.DB.MinConns,
		MaxConns: cfg.DB.MaxConns,
	})
	if err != nil {
		slog.Error("Cannot initialize connection pool", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := pool.Shutdown(); err != nil {
			slog.Error("Cannot close connection pool", "error", err)
		}
	}()

	server := httpserver.Default(cfg)
	server.Addr = fmt.Sprintf(":%d", cfg.Port)
	server.Pool = pool
	server.MovieService = movie.NewUsecase(postgres.NewMovieRepository(pool))

	if cfg.Auth.Enabled {
		validator, err := auth.NewValidator(auth.Config{
			Provider:          cfg.Auth.Provider,
			KeycloakURL:       cfg.Auth.KeycloakURL,
			KeycloakRealm:     cfg.Auth.KeycloakRealm,
			CognitoRegion:     cfg.Auth.CognitoRegion,
			CognitoUserPoolID: cfg.Auth.CognitoUserPoolID,
			CognitoJWKSURL:    cfg.Auth.CognitoJWKSURL,
			ClientID:          cfg.Auth.ClientID,
		})
		if err != nil {
			slog.Error("Cannot build token validator", "error", err)
			os.Exit(1)
		}
		server.TokenValidator = validator
	}

	slog.Info("server started!", "addr", server.Addr, "auth_enabled", cfg.Auth.Enabled)
	if err := server.Start(); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}
