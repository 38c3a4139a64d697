package metrics

// RollingAverage implements a circular buffer for calculating the average
// of the last N durations. It is not safe for concurrent use.
type RollingAverage struct {
	data   []int64
	index  int
	filled int
}

// Add a value to the buffer and return the average of the values held
func (ra *RollingAverage) Add(value int64) float64 {
	dataLength := len(ra.data)

	// simple index wrap-around technique
	if ra.index >= dataLength {
		ra.index = 0
	}
	ra.data[ra.index] = value
	ra.index++

	if ra.filled < dataLength {
		ra.filled++
	}

	return ra.Average()
}

// Average returns the average of the values added so far, zero when empty
func (ra *RollingAverage) Average() float64 {
	if ra.filled == 0 {
		return 0
	}

	var total int64
	for i := 0; i < ra.filled; i++ {
		total += ra.data[i]
	}

	return float64(total) / float64(ra.filled)
}

// NewRollingAverage creates a rolling average over the last size values
func NewRollingAverage(size int) *RollingAverage {
	if size < 1 {
		size = 1
	}
	return &RollingAverage{
		data: make([]int64, size),
	}
}
