//go:build longrunning

package framemetrics

import (
	"fmt"
	"testing"
)

// TestStressQueueOverflow floods a small queue
// This shows how the dumper sheds load instead of blocking the producer
func TestStressQueueOverflow(t *testing.T) {
	t.Setenv("FRAMEMETRICS_QUEUE_SIZE", "16")
	t.Setenv("FRAMEMETRICS_SYNC_EACH_RECORD", "true")

	p := newTestPlatform()
	d := New(p)
	defer d.Close()
	d.Init(testApp{label: "Stress", root: t.TempDir()}, "debug")

	s := &testScreen{name: "Busy"}
	d.TrackMetricsFor(s)

	total := 100000
	for i := 0; i < total; i++ {
		p.frame(s, Sample{TotalDuration: int64(i)})
	}
	d.Flush()

	status := d.Status()
	if len(status) != 1 {
		t.Fatalf("expected 1 status entry, got %d", len(status))
	}

	// Every sample is either written or counted as dropped
	if got := status[0].Records + status[0].Dropped; got != int64(total) {
		t.Errorf("records %d + dropped %d != %d", status[0].Records, status[0].Dropped, total)
	}
}

// TestStressManySubjects tracks many subjects at once
func TestStressManySubjects(t *testing.T) {
	t.Setenv("FRAMEMETRICS_SYNC_EACH_RECORD", "false")
	t.Setenv("FRAMEMETRICS_QUEUE_SIZE", "1000000")

	p := newTestPlatform()
	d := New(p)
	defer d.Close()
	d.Init(testApp{label: "Stress", root: t.TempDir()}, "debug")

	screens := make([]*testScreen, 200)
	for i := range screens {
		screens[i] = &testScreen{name: fmt.Sprintf("Screen%d", i)}
		d.TrackMetricsFor(screens[i])
	}

	for j := 0; j < 1000; j++ {
		for _, s := range screens {
			p.frame(s, Sample{TotalDuration: int64(j)})
		}
	}
	d.Flush()

	for _, st := range d.Status() {
		if st.Records != 1000 || st.Dropped != 0 || st.Errors != 0 {
			t.Errorf("unexpected status %+v", st)
		}
	}
}
