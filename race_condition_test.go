//go:build dev

package framemetrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TestRaceConditionDistinctSubjects tests concurrent producers on distinct subjects
// This test MUST be run with: go test -race
//
// What we're testing:
// - Many goroutines delivering samples for their own subject simultaneously
// - Every record lands in its own subject's file, none lost or interleaved
func TestRaceConditionDistinctSubjects(t *testing.T) {
	t.Setenv("FRAMEMETRICS_SYNC_EACH_RECORD", "false")
	t.Setenv("FRAMEMETRICS_QUEUE_SIZE", "100000")

	p := newTestPlatform()
	d := New(p)
	defer d.Close()

	root := t.TempDir()
	d.Init(testApp{label: "Race", root: root}, "debug")

	numSubjects := 20
	samplesPerSubject := 500

	var wg sync.WaitGroup
	for i := 0; i < numSubjects; i++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			s := &testScreen{name: fmt.Sprintf("Screen%d", id)}
			if err := d.TrackMetricsFor(s); err != nil {
				t.Errorf("TrackMetricsFor failed: %v", err)
				return
			}
			for j := 0; j < samplesPerSubject; j++ {
				p.frame(s, Sample{AnimationDuration: int64(id), TotalDuration: int64(j)})
			}
			d.EndMetricsListeningFor(s)
		}(i)
	}

	wg.Wait()
	d.Flush()

	for i := 0; i < numSubjects; i++ {
		path := filepath.Join(root, "framemetrics", fmt.Sprintf("Race_Screen%d_debug.mtx", i))
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("metrics file missing: %v", err)
		}

		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		if len(lines) != samplesPerSubject*2 {
			t.Fatalf("Screen%d: expected %d lines, got %d", i, samplesPerSubject*2, len(lines))
		}

		prefix := fmt.Sprintf("%d ", i)
		for j := 1; j < len(lines); j += 2 {
			if !strings.HasPrefix(lines[j], prefix) {
				t.Fatalf("Screen%d: foreign record %q", i, lines[j])
			}
		}
	}
}

// TestRaceConditionStartStopDump mixes tracking changes with status reads
func TestRaceConditionStartStopDump(t *testing.T) {
	t.Setenv("FRAMEMETRICS_SYNC_EACH_RECORD", "false")

	p := newTestPlatform()
	d := New(p)
	defer d.Close()
	d.Init(testApp{label: "Race", root: t.TempDir()}, "debug")

	shared := &testScreen{name: "Shared"}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(3)

		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.TrackMetricsFor(shared)
				d.EndMetricsListeningFor(shared)
			}
		}()

		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.frame(shared, Sample{TotalDuration: int64(j)})
			}
		}()

		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = d.Dump()
			}
		}()
	}

	wg.Wait()

	if err := d.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if d.Tracked() != 0 {
		t.Errorf("expected no tracked subjects after Close, got %d", d.Tracked())
	}
}
