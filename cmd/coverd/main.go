package main

import (
	"os"

	"flarecover/internal/config"
	"flarecover/internal/infra/db"
	httpinfra "flarecover/internal/infra/http"
	"flarecover/internal/logging"
)

func main() {
	cfg := config.FromEnv()
	logger := logging.New(cfg.LogLevel)

	store, err := db.NewStore(cfg, logger)
	if err != nil {
		logger.Error("audit store init failed", "error", err)
		os.Exit(1)
	}

	srv := httpinfra.NewServer(cfg, store)
	if err := srv.Run(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
