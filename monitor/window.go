package monitor

// SlidingWindow is a fixed-capacity FIFO buffer of recent samples.
// Values are kept in insertion (chronological) order; pushing into a
// full window evicts the oldest value first.
//
// A SlidingWindow is not safe for concurrent use. It is mutated only by
// its owning Detector under the single-threaded scheduling model.
type SlidingWindow struct {
	values   []float64
	capacity int
}

// NewSlidingWindow creates an empty window holding at most capacity values.
// Panics if capacity is not positive.
func NewSlidingWindow(capacity int) *SlidingWindow {
	if capacity <= 0 {
		panic("monitor: sliding window capacity must be positive")
	}
	return &SlidingWindow{
		values:   make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Push appends v, evicting the oldest value if the window is full.
func (w *SlidingWindow) Push(v float64) {
	if len(w.values) >= w.capacity {
		w.values = w.values[1:]
	}
	w.values = append(w.values, v)
}

// Mean returns the arithmetic mean of the held values.
// Panics on an empty window: every call site pushes before reading, so
// an empty mean indicates a bug rather than a condition to paper over.
func (w *SlidingWindow) Mean() float64 {
	if len(w.values) == 0 {
		panic("monitor: mean of empty sliding window")
	}

	sum := 0.0
	for _, v := range w.values {
		sum += v
	}
	return sum / float64(len(w.values))
}

// Clear removes all values, resetting the window to empty.
func (w *SlidingWindow) Clear() {
	w.values = w.values[:0]
}

// Size returns the current number of held values.
func (w *SlidingWindow) Size() int {
	return len(w.values)
}

// Capacity returns the fixed maximum number of held values.
func (w *SlidingWindow) Capacity() int {
	return w.capacity
}

// Full reports whether the window holds capacity values.
func (w *SlidingWindow) Full() bool {
	return len(w.values) >= w.capacity
}

// Values returns a copy of the held values in chronological order.
func (w *SlidingWindow) Values() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}
