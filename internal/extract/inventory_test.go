package extract

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestDefaultInventory(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Skills) < 70 {
		t.Errorf("DefaultInventory() skills = %d, want at least 70", len(inv.Skills))
	}
	for _, want := range []string{"python", "kubernetes", "postgresql", "pytorch"} {
		if !slices.Contains(inv.Skills, want) {
			t.Errorf("DefaultInventory() missing skill %q", want)
		}
	}
	if len(inv.Technologies) == 0 || len(inv.Education) == 0 {
		t.Error("DefaultInventory() technologies or education lists are empty")
	}
}

func TestLoadInventory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	content := "skills:\n  - cobol\n  - fortran\ntechnologies:\n  - mainframe modernization\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory() error = %v", err)
	}
	if !slices.Equal(inv.Skills, []string{"cobol", "fortran"}) {
		t.Errorf("LoadInventory() skills = %v", inv.Skills)
	}
	// Omitted sections fall back to the defaults.
	if len(inv.Education) == 0 {
		t.Error("LoadInventory() education is empty, want defaults")
	}
}

func TestLoadInventoryErrors(t *testing.T) {
	if _, err := LoadInventory(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadInventory() error = nil for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("skills: {not: [valid"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Error("LoadInventory() error = nil for malformed yaml")
	}
}

func TestInventoryWatcherLifecycle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	if err := os.WriteFile(path, []byte("skills:\n  - zig\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	watcher, err := NewInventoryWatcher(path, 10*time.Millisecond, nil, testLogger(t))
	if err != nil {
		t.Fatalf("NewInventoryWatcher() error = %v", err)
	}
	if !slices.Equal(watcher.Inventory().Skills, []string{"zig"}) {
		t.Errorf("Inventory() skills = %v, want initial file contents", watcher.Inventory().Skills)
	}

	if err := watcher.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !watcher.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := watcher.Start(); err == nil {
		t.Error("Start() error = nil on second call, want already-running error")
	}
	if err := watcher.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if watcher.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestInventoryWatcherReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	if err := os.WriteFile(path, []byte("skills:\n  - zig\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	reloaded := make(chan *Inventory, 1)
	watcher, err := NewInventoryWatcher(path, 10*time.Millisecond, func(inv *Inventory) {
		reloaded <- inv
	}, testLogger(t))
	if err != nil {
		t.Fatalf("NewInventoryWatcher() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("skills:\n  - zig\n  - odin\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	watcher.reload()

	select {
	case inv := <-reloaded:
		if !slices.Contains(inv.Skills, "odin") {
			t.Errorf("reload() skills = %v, want odin", inv.Skills)
		}
	default:
		t.Fatal("reload() did not invoke callback")
	}
	if !slices.Contains(watcher.Inventory().Skills, "odin") {
		t.Errorf("Inventory() skills = %v after reload, want odin", watcher.Inventory().Skills)
	}
}

func TestInventoryWatcherKeepsPreviousOnBadReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventory.yaml")
	if err := os.WriteFile(path, []byte("skills:\n  - zig\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	watcher, err := NewInventoryWatcher(path, 10*time.Millisecond, nil, testLogger(t))
	if err != nil {
		t.Fatalf("NewInventoryWatcher() error = %v", err)
	}

	if err := os.WriteFile(path, []byte("skills: {not: [valid"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	watcher.reload()

	if !slices.Equal(watcher.Inventory().Skills, []string{"zig"}) {
		t.Errorf("Inventory() skills = %v, want previous inventory kept", watcher.Inventory().Skills)
	}
}
