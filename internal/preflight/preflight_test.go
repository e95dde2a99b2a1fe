package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tidy/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Watch directory", dir)
	if !result.Passed {
		t.Fatalf("expected pass for writable dir, got %+v", result)
	}

	result = CheckDirectoryAccess("Watch directory", filepath.Join(dir, "missing"))
	if result.Passed || !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("expected missing-dir failure, got %+v", result)
	}

	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	result = CheckDirectoryAccess("Watch directory", file)
	if result.Passed || !strings.Contains(result.Detail, "not a directory") {
		t.Fatalf("expected non-dir failure, got %+v", result)
	}

	result = CheckDirectoryAccess("Watch directory", "")
	if result.Passed {
		t.Fatalf("expected failure for empty path, got %+v", result)
	}
}

func TestCheckFreeSpace(t *testing.T) {
	result := CheckFreeSpace("Watch volume", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp volume, got %+v", result)
	}

	result = CheckFreeSpace("Watch volume", "")
	if result.Passed {
		t.Fatalf("expected failure for empty path, got %+v", result)
	}
}

func TestCheckNtfy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	result := CheckNtfy(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected pass for reachable endpoint, got %+v", result)
	}

	server.Close()
	result = CheckNtfy(context.Background(), &cfg)
	if result.Passed {
		t.Fatalf("expected failure for closed endpoint, got %+v", result)
	}
}

func TestRunAllCoversConfiguredPaths(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.WatchDir = t.TempDir()
	cfg.Paths.DataDir = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if !AllPassed(results) {
		t.Fatalf("expected all checks to pass, got %+v", results)
	}

	cfg.Paths.WatchDir = filepath.Join(t.TempDir(), "missing")
	if AllPassed(RunAll(context.Background(), &cfg)) {
		t.Fatal("expected failure when watch dir is missing")
	}
}
