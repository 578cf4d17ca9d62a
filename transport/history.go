package transport

import "sync"

// History is the sample cache behind a DataReader. Samples are kept in
// arrival order; with a positive depth the oldest sample is dropped when a
// new one does not fit.
type History struct {
	mu      sync.Mutex
	depth   int
	samples []Sample
	dropped uint64
}

func NewHistory(depth int) *History {
	if depth < 0 {
		depth = 0
	}
	return &History{depth: depth}
}

func (h *History) Push(s Sample) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.depth > 0 && len(h.samples) >= h.depth {
		h.samples[0] = Sample{}
		h.samples = h.samples[1:]
		h.dropped++
	}
	h.samples = append(h.samples, s)
}

func (h *History) TakeNext() (Sample, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) == 0 {
		return Sample{}, ErrNoData
	}
	s := h.samples[0]
	h.samples[0] = Sample{}
	h.samples = h.samples[1:]
	return s, nil
}

// Take removes up to max samples, all of them when max <= 0.
func (h *History) Take(max int) ([]Sample, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.samples) == 0 {
		return nil, ErrNoData
	}
	n := len(h.samples)
	if max > 0 && max < n {
		n = max
	}
	out := make([]Sample, n)
	copy(out, h.samples[:n])
	for i := 0; i < n; i++ {
		h.samples[i] = Sample{}
	}
	h.samples = h.samples[n:]
	return out, nil
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.samples)
}

// Dropped is the number of samples evicted by the depth limit.
func (h *History) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Clear discards every cached sample.
func (h *History) Clear() {
	h.mu.Lock()
	h.samples = nil
	h.mu.Unlock()
}
