package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/mmynk/esusu/internal/api"
	"github.com/mmynk/esusu/internal/auth"
	"github.com/mmynk/esusu/internal/config"
	"github.com/mmynk/esusu/internal/engine"
	"github.com/mmynk/esusu/internal/notify"
	"github.com/mmynk/esusu/internal/storage/sqlite"
	"github.com/mmynk/esusu/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	groupEngine := engine.New(store, notify.NewLogDispatcher())

	router := api.NewRouter(groupEngine, authenticator, jwtManager)

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
