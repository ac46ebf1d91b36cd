package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathFallsBackToWorkdir(t *testing.T) {
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

	path, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(path) != defaultLogFilename {
		t.Fatalf("filename want %s got %s", defaultLogFilename, filepath.Base(path))
	}

	// t.TempDir 在 macOS 上可能是符号链接，比较前先解析
	wantDir, err := filepath.EvalSymlinks(filepath.Join(tmpDir, defaultLogDirName))
	if err != nil {
		t.Fatalf("log dir should be created: %v", err)
	}
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		t.Fatalf("resolve log dir failed: %v", err)
	}
	if gotDir != wantDir {
		t.Fatalf("log dir want %s got %s", wantDir, gotDir)
	}
}

func TestReleaseModeWritesFileDebugModeDoesNot(t *testing.T) {
	t.Run("release", func(t *testing.T) {
		dir := t.TempDir()
		log := New("release", Options{Dir: dir, Filename: "store.log"})
		log.Info("order-settled")
		_ = log.Sync()

		content, err := os.ReadFile(filepath.Join(dir, "store.log"))
		if err != nil {
			t.Fatalf("read log file failed: %v", err)
		}
		if !strings.Contains(string(content), "order-settled") {
			t.Fatalf("log file should carry the message, got %s", string(content))
		}
	})

	t.Run("debug", func(t *testing.T) {
		dir := t.TempDir()
		log := New("debug", Options{Dir: dir, Filename: "store.log"})
		log.Info("order-settled")
		_ = log.Sync()

		if _, err := os.Stat(filepath.Join(dir, "store.log")); !os.IsNotExist(err) {
			t.Fatalf("debug mode should log to stdout only")
		}
	})
}
