package logger

import (
	"course_seeder/internal/config"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestInitLoggerWritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seeder.log")
	cfg := &config.Config{
		App: config.AppConfig{Name: "course-seeder", Mode: "debug"},
		Log: config.LogConfig{File: file, MaxSize: 1, MaxBackups: 1, MaxAge: 1},
	}

	InitLogger(cfg)
	t.Cleanup(func() { Log = zap.NewNop() })

	Log.Debug("debug line")
	_ = Log.Sync()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}

	line := strings.TrimSpace(string(data))
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q (%v)", line, err)
	}
	if entry["msg"] != "debug line" {
		t.Errorf("msg = %v, want %q", entry["msg"], "debug line")
	}
	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
	if entry["app"] != "course-seeder" {
		t.Errorf("app = %v, want course-seeder", entry["app"])
	}
}
