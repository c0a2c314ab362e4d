package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Config carries the service settings loaded from config.json.
type Config struct {
	ListenAddr string `json:"listen_addr"`
	DataFile   string `json:"data_file"`
	CourtCount int    `json:"court_count"`
	// ShuffleAfterRefill reorders refilled courts cosmetically.
	ShuffleAfterRefill bool `json:"shuffle_after_refill"`
	// RetainHistoryOnReset keeps the game log across a full reset.
	RetainHistoryOnReset bool `json:"retain_history_on_reset"`
	// BackupSchedule is a cron expression (e.g. "@daily"). Empty disables
	// state file backups.
	BackupSchedule string `json:"backup_schedule"`
	BackupDir      string `json:"backup_dir"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		ListenAddr: ":4000",
		DataFile:   "courtflow_data.json",
		CourtCount: 3,
		BackupDir:  "backups",
	}
}

// Load reads configuration from the given JSON file. A missing file just
// means defaults; a present but unreadable one is an error.
func Load(filename string) (Config, error) {
	cfg := Default()

	f, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("open config %s: %w", filename, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", filename, err)
	}
	if cfg.CourtCount <= 0 {
		cfg.CourtCount = Default().CourtCount
	}
	if cfg.DataFile == "" {
		cfg.DataFile = Default().DataFile
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = Default().ListenAddr
	}
	return cfg, nil
}
