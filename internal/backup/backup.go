// Package backup copies the state file aside on a cron schedule, so a
// fat-fingered reset during a session can be undone by hand.
package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
)

// Start schedules a recurring copy of dataFile into dir. The schedule is a
// cron expression ("@daily", "0 * * * *", ...). The returned stop function
// halts the scheduler.
func Start(schedule, dataFile, dir string) (func(), error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if err := copyStateFile(dataFile, dir); err != nil {
			slog.Error("Error backing up state file", "error", err.Error())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("bad backup schedule %q: %w", schedule, err)
	}
	c.Start()
	return func() { c.Stop() }, nil
}

func copyStateFile(dataFile, dir string) error {
	raw, err := os.ReadFile(dataFile)
	if errors.Is(err, fs.ErrNotExist) {
		// Nothing played yet, nothing to keep.
		slog.Info("No state file yet, skipping backup", "file", dataFile)
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("courtflow-%s.json", time.Now().Format("20060102-150405"))
	return os.WriteFile(filepath.Join(dir, name), raw, 0o644)
}
