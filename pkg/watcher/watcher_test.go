package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Fatalf("Expected 1 call after burst, got %d", got)
	}
}

func TestDebouncer_CancelDropsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("Expected 0 calls after cancel, got %d", got)
	}
}

func TestWatchFile_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deskhub.yaml")
	if err := os.WriteFile(path, []byte("dashboard_id: a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	fw, err := WatchFile(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer fw.Close()

	if err := os.WriteFile(path, []byte("dashboard_id: b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected change callback after write")
	}
}

func TestWatchFile_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deskhub.yaml")
	if err := os.WriteFile(path, []byte("dashboard_id: a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls atomic.Int32
	fw, err := WatchFile(path, func() { calls.Add(1) })
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	defer fw.Close()

	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(other, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(500 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("Expected no callback for sibling file, got %d", got)
	}
}
