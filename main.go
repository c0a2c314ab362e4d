package main

import (
	"courtflow/internal/backup"
	"courtflow/internal/config"
	"courtflow/internal/handlers"
	"courtflow/internal/live"
	"courtflow/internal/routes"
	"courtflow/internal/services"
	"courtflow/internal/session"
	"courtflow/internal/store"
	"fmt"
	"log"
	"log/slog"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("config.json")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	rules := session.DefaultRules()
	rules.ShuffleAfterRefill = cfg.ShuffleAfterRefill
	rules.RetainHistoryOnReset = cfg.RetainHistoryOnReset

	st := store.New(cfg.DataFile, cfg.CourtCount)
	hub := live.NewHub()
	service := services.NewService(st, rules, hub)

	// Fail fast on an unreadable state file instead of at the first request.
	if _, err := service.State(); err != nil {
		log.Fatalf("Failed to load session state: %v", err)
	}

	if cfg.BackupSchedule != "" {
		stop, err := backup.Start(cfg.BackupSchedule, cfg.DataFile, cfg.BackupDir)
		if err != nil {
			log.Fatalf("Failed to start backup schedule: %v", err)
		}
		defer stop()
		slog.Info("State file backups scheduled", "schedule", cfg.BackupSchedule, "dir", cfg.BackupDir)
	}

	r := gin.Default()

	handler := &handlers.Handler{Service: service, Hub: hub}
	routes.Routes(r, handler)

	fmt.Printf("Server running at http://localhost%s\n", cfg.ListenAddr)
	r.Run(cfg.ListenAddr)
}
