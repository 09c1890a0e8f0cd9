package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"gazette/api"
	"gazette/config"
	"gazette/db"
	"gazette/middleware"
	"gazette/parser"
	"gazette/refresh"
	"gazette/websub"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	dataDirPath = "/data/gazette"
	confDirPath = ".config"
)

func refreshLoop(r *refresh.Refresher, period time.Duration) {
	for {
		result, err := r.Refresh(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("Refresh cycle failed")
		} else {
			for _, msg := range result.Errors {
				log.Warn().Msg(msg)
			}
		}

		time.Sleep(period)
	}
}

func renewalLoop(m *websub.Manager, period time.Duration) {
	for {
		result, err := m.RenewExpiring(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("Renewal run failed")
		} else if len(result.Results) > 0 {
			log.Info().
				Int("renewed", result.Renewed).
				Int("failed", result.Failed).
				Msg("Subscription renewal run finished")
		}

		time.Sleep(period)
	}
}

func main() {
	// Create data dir if it doesn't exist
	_, err := os.Stat(dataDirPath)
	if err != nil && os.IsNotExist(err) {
		err = os.MkdirAll(dataDirPath, 0750)
	}

	if err != nil {
		log.Error().Err(err).Msg("Data directory is inaccessible")
		return
	}

	cfg, err := config.New(confDirPath, "config")
	if err != nil {
		log.Error().Err(err).Msg("Failed to load config")
		return
	}

	adb, err := db.New(&config.DBConfig{
		DSN: fmt.Sprintf("%v/db.sqlite3", dataDirPath),
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create db client")
		return
	}

	defer adb.Close()

	err = adb.Migrate()
	if err != nil {
		log.Error().Err(err).Msg("Failed to migrate db")
		return
	}

	p := parser.New()
	refresher := refresh.New(adb, p, cfg.BaseInterval)
	manager := websub.NewManager(adb, p, cfg.BaseURL)

	r := chi.NewRouter()
	r.Use(middleware.LogMiddlewareFunc)
	api.New(adb, p, refresher, manager).Routes(r)

	go refreshLoop(refresher, cfg.RefreshPeriod)
	go renewalLoop(manager, cfg.RenewalPeriod)

	log.Info().Str("addr", cfg.Addr).Msg("Starting server")

	err = http.ListenAndServe(cfg.Addr, r)
	log.Error().Err(err).Msg("Server failed")
}
