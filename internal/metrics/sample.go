package metrics

import (
	"strconv"
)

// Sample is one frame metrics event for a subject. All durations are in
// nanoseconds; FirstDrawFrame is 1 for the first frame drawn, 0 otherwise.
type Sample struct {
	AnimationDuration     int64
	CommandIssueDuration  int64
	DrawDuration          int64
	FirstDrawFrame        int64
	InputHandlingDuration int64
	LayoutMeasureDuration int64
	SwapBuffersDuration   int64
	SyncDuration          int64
	TotalDuration         int64
	UnknownDelayDuration  int64
}

// FormatVersion selects the record layout written for each sample.
type FormatVersion int

const (
	// FormatV1 is the legacy layout. Its ninth field repeats SyncDuration
	// instead of TotalDuration; existing readers depend on that.
	FormatV1 FormatVersion = iota + 1

	// FormatV2 writes TotalDuration in the ninth field and tags records
	// with FM2: so readers can tell the layouts apart.
	FormatV2
)

// Record tags, written on their own line before each data line.
const (
	TagV1 = "FM:"
	TagV2 = "FM2:"
)

// ParseFormatVersion maps a config name (v1, v2) to a FormatVersion,
// defaulting to FormatV1.
func ParseFormatVersion(name string) FormatVersion {
	if name == "v2" {
		return FormatV2
	}
	return FormatV1
}

// Tag returns the tag line for the version.
func (v FormatVersion) Tag() string {
	if v == FormatV2 {
		return TagV2
	}
	return TagV1
}

func (v FormatVersion) String() string {
	if v == FormatV2 {
		return "v2"
	}
	return "v1"
}

// Format renders s as a two line record without the trailing newline:
// the tag line, then the ten fields as space separated decimals.
func (v FormatVersion) Format(s Sample) string {
	ninth := s.SyncDuration
	if v == FormatV2 {
		ninth = s.TotalDuration
	}

	fields := [10]int64{
		s.AnimationDuration,
		s.CommandIssueDuration,
		s.DrawDuration,
		s.FirstDrawFrame,
		s.InputHandlingDuration,
		s.LayoutMeasureDuration,
		s.SwapBuffersDuration,
		s.SyncDuration,
		ninth,
		s.UnknownDelayDuration,
	}

	tag := v.Tag()
	buf := make([]byte, 0, len(tag)+1+len(fields)*8)
	buf = append(buf, tag...)
	buf = append(buf, '\n')
	for i, f := range fields {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, f, 10)
	}

	return string(buf)
}

// Format renders s in the legacy FormatV1 layout.
func Format(s Sample) string {
	return FormatV1.Format(s)
}
