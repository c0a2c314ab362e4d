package backup

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyStateFileWritesTimestampedCopy(t *testing.T) {
	dir := t.TempDir()
	dataFile := filepath.Join(dir, "courtflow_data.json")
	if err := os.WriteFile(dataFile, []byte(`{"players": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	backupDir := filepath.Join(dir, "backups")

	if err := copyStateFile(dataFile, backupDir); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("backup count = %d, want 1", len(entries))
	}
	raw, err := os.ReadFile(filepath.Join(backupDir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"players": []}` {
		t.Fatalf("backup content = %s", raw)
	}
}

func TestCopyStateFileSkipsMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := copyStateFile(filepath.Join(dir, "missing.json"), filepath.Join(dir, "backups")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "backups")); !os.IsNotExist(err) {
		t.Fatal("backup dir created for missing source")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	if _, err := Start("not a schedule", "x.json", t.TempDir()); err == nil {
		t.Fatal("want error for bad cron expression")
	}
}
