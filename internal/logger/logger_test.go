package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigure_LevelAndFormat(t *testing.T) {
	l := Logger()
	if err := l.Configure("debug", "text", "stderr", 0); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Errorf("expected debug level, got %v", l.GetLevel())
	}
}

func TestConfigure_InvalidInputs(t *testing.T) {
	l := Logger()
	if err := l.Configure("verbose", "json", "stdout", 0); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := l.Configure("info", "xml", "stdout", 0); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigure_EnvLevelWins(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	l := Logger()
	if err := l.Configure("debug", "json", "stdout", 0); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if l.GetLevel() != logrus.WarnLevel {
		t.Errorf("LOG_LEVEL should win over config, got %v", l.GetLevel())
	}
}

func TestConfigure_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stockdata.log")
	l := Logger()
	if err := l.Configure("info", "json", path, 0); err != nil {
		t.Fatalf("configure: %v", err)
	}
	l.WithComponent("test").Info("hello")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected log file to exist: %v", err)
	}
}
