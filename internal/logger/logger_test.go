package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestResolveLogFilePathDefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("unexpected log filename: %s", filepath.Base(got))
	}
	if filepath.Base(filepath.Dir(got)) != defaultLogDirName {
		t.Fatalf("unexpected log dir: %s", filepath.Dir(got))
	}
	if _, err := os.Stat(got); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

func TestNewReleaseWritesJSONToFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "release.log"})
	log.Info("order_placed", zap.String("order_id", "ord-1"))
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "release.log"))
	if err != nil {
		t.Fatalf("read release log failed: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, `"message":"order_placed"`) || !strings.Contains(text, `"order_id":"ord-1"`) {
		t.Fatalf("expected json log line, got=%s", text)
	}
}

func TestNewDebugDoesNotWriteFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("debug-log-test")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create log file")
	}
}

func TestResolveLevel(t *testing.T) {
	if lvl := resolveLevel("warn", true); lvl.Level() != zap.WarnLevel {
		t.Fatalf("explicit level should win, got %s", lvl.Level())
	}
	if lvl := resolveLevel("", true); lvl.Level() != zap.DebugLevel {
		t.Fatalf("debug mode default want debug, got %s", lvl.Level())
	}
	if lvl := resolveLevel("bogus", false); lvl.Level() != zap.InfoLevel {
		t.Fatalf("invalid level should fall back to info, got %s", lvl.Level())
	}
}

func TestOptionsRotationDefaults(t *testing.T) {
	r := Options{MaxBackups: 3}.rotation("/tmp/x.log")
	if r.MaxSize != 100 || r.MaxBackups != 3 || r.MaxAge != 30 {
		t.Fatalf("unexpected rotation %+v", r)
	}
}
