/*
Package framemetrics dumps per-frame rendering metrics to text files.

The host platform delivers a Sample for every rendered frame of a tracked
subject (a screen, a window). The dumper appends each sample as a record
to one file per subject, without blocking the goroutine delivering the
samples: all file I/O happens on a single background worker, so records of
a subject are written in the order they arrived.

Files are named {appLabel}_{subjectType}_{variant}.mtx and live in the
framemetrics directory under the storage root supplied by the host.

Example:

	d := framemetrics.New(platform)
	defer d.Close() // Always close gracefully to flush pending samples

	d.Init(app, "debug")

	d.TrackMetricsFor(mainScreen)
	// ... frames are rendered ...
	d.EndMetricsListeningFor(mainScreen)

	http.Handle("/framemetrics", d.StatusHandler())

Each sample becomes two lines:

	FM:
	10 2 3 1 4 5 6 7 7 0

Setting FRAMEMETRICS_RECORD_FORMAT=v2 switches to the FM2: record, whose
ninth field carries the total frame duration.

Configuration

	FRAMEMETRICS_QUEUE_SIZE       samples queued before new ones are dropped (1024)
	FRAMEMETRICS_RECORD_FORMAT    v1 or v2 (v1)
	FRAMEMETRICS_SYNC_EACH_RECORD sync the file after every record (true)
	FRAMEMETRICS_ROLLING_SIZE     samples in the Dump() rolling average (60)
	FRAMEMETRICS_DEBUG            debug logging (false)
	FRAMEMETRICS_LEDGER_ENABLED   record tracking sessions (false)
	FRAMEMETRICS_LEDGER_PATH      sqlite file for sessions, memory if empty
*/
package framemetrics
