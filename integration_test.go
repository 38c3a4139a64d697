//go:build dev

package framemetrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thisdougb/framemetrics/internal/storage"
)

func TestIntegrationMemoryLedger(t *testing.T) {
	// Create dumper with memory ledger
	manager := storage.NewManager(storage.NewMemoryBackend(), true)
	p := newTestPlatform()
	d := NewWithLedger(p, manager)
	defer d.Close()

	d.Init(testApp{label: "Demo", root: t.TempDir()}, "debug")

	main := &testScreen{name: "MainScreen"}
	d.TrackMetricsFor(main)
	p.frame(main, Sample{TotalDuration: 16})
	d.EndMetricsListeningFor(main)

	// Force the worker to finish the close and ledger update
	d.Flush()

	sessions, err := d.GetStorageManager().ReadSessions("")
	if err != nil {
		t.Fatalf("ReadSessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Records != 1 {
		t.Fatalf("unexpected sessions %+v", sessions)
	}
}

func TestIntegrationSQLiteLedger(t *testing.T) {
	// Create temporary SQLite database
	tmpFile := filepath.Join(t.TempDir(), "framemetrics_test.db")

	// Set environment variables for SQLite backend
	t.Setenv("FRAMEMETRICS_LEDGER_ENABLED", "true")
	t.Setenv("FRAMEMETRICS_LEDGER_PATH", tmpFile)
	t.Setenv("FRAMEMETRICS_SYNC_EACH_RECORD", "false")

	// Create dumper - should automatically use SQLite backend from env vars
	p := newTestPlatform()
	d := New(p)
	root := t.TempDir()
	d.Init(testApp{label: "Demo", root: root}, "release")

	main := &testScreen{name: "MainScreen"}
	for run := 0; run < 2; run++ {
		d.TrackMetricsFor(main)
		for i := 0; i < 5; i++ {
			p.frame(main, Sample{SyncDuration: int64(i), TotalDuration: int64(i * 2)})
		}
		d.EndMetricsListeningFor(main)
	}
	d.Flush()

	// Verify the database file was created
	if _, err := os.Stat(tmpFile); os.IsNotExist(err) {
		t.Fatal("SQLite database file was not created")
	}

	sessions, err := d.Sessions("MainScreen")
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.Records != 5 || s.Open() {
			t.Errorf("unexpected session %+v", s)
		}
		if s.Variant != "release" || s.AppLabel != "Demo" {
			t.Errorf("unexpected session identity %+v", s)
		}
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	// Both runs appended to the same file
	data, err := os.ReadFile(filepath.Join(root, "framemetrics", "Demo_MainScreen_release.mtx"))
	if err != nil {
		t.Fatalf("metrics file missing: %v", err)
	}
	if n := strings.Count(string(data), "FM:\n"); n != 10 {
		t.Errorf("expected 10 records, got %d", n)
	}
}

func TestGracefulShutdown(t *testing.T) {
	// Test that Close() method works properly
	t.Setenv("FRAMEMETRICS_SYNC_EACH_RECORD", "false")

	p := newTestPlatform()
	d := New(p)
	root := t.TempDir()
	d.Init(testApp{label: "Demo", root: root}, "debug")

	// Leave subjects tracked with samples in flight
	screens := []*testScreen{{name: "A"}, {name: "B"}}
	for _, s := range screens {
		d.TrackMetricsFor(s)
		for i := 0; i < 100; i++ {
			p.frame(s, Sample{TotalDuration: int64(i)})
		}
	}

	// Should close without error, writing every pending sample
	if err := d.Close(); err != nil {
		t.Fatalf("Close() returned error: %v", err)
	}

	for _, s := range screens {
		data, err := os.ReadFile(filepath.Join(root, "framemetrics", "Demo_"+s.name+"_debug.mtx"))
		if err != nil {
			t.Fatalf("metrics file missing: %v", err)
		}
		if n := strings.Count(string(data), "FM:\n"); n != 100 {
			t.Errorf("%s: expected 100 records, got %d", s.name, n)
		}
	}

	// Should be safe to call Close() multiple times
	if err := d.Close(); err != nil {
		t.Fatalf("Second Close() returned error: %v", err)
	}
}
