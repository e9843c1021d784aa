// Package stats provides small sample accumulators for the toolkit.
package stats

// Rolling is a fixed-capacity sliding window of float64 samples. Pushing
// beyond capacity drops the oldest sample.
type Rolling struct {
	buf   []float64
	head  int
	count int
}

// NewRolling returns a window holding at most capacity samples. Capacity
// must be at least 1; smaller values are raised to 1.
func NewRolling(capacity int) *Rolling {
	if capacity < 1 {
		capacity = 1
	}
	return &Rolling{buf: make([]float64, capacity)}
}

// Push appends a sample, evicting the oldest when full.
func (r *Rolling) Push(v float64) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Len returns the number of stored samples.
func (r *Rolling) Len() int { return r.count }

// Cap returns the window capacity.
func (r *Rolling) Cap() int { return len(r.buf) }

// Last returns the most recent sample, or 0 when empty.
func (r *Rolling) Last() float64 {
	if r.count == 0 {
		return 0
	}
	return r.buf[(r.head-1+len(r.buf))%len(r.buf)]
}

// Min returns the smallest stored sample, or 0 when empty.
func (r *Rolling) Min() float64 {
	if r.count == 0 {
		return 0
	}
	min := r.at(0)
	for i := 1; i < r.count; i++ {
		if v := r.at(i); v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest stored sample, or 0 when empty.
func (r *Rolling) Max() float64 {
	if r.count == 0 {
		return 0
	}
	max := r.at(0)
	for i := 1; i < r.count; i++ {
		if v := r.at(i); v > max {
			max = v
		}
	}
	return max
}

// Mean returns the arithmetic mean of the stored samples, or 0 when empty.
func (r *Rolling) Mean() float64 {
	if r.count == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < r.count; i++ {
		sum += r.at(i)
	}
	return sum / float64(r.count)
}

// Values returns the stored samples, oldest first.
func (r *Rolling) Values() []float64 {
	out := make([]float64, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.at(i)
	}
	return out
}

// Reset drops all samples.
func (r *Rolling) Reset() {
	r.head = 0
	r.count = 0
}

// at indexes samples oldest-first.
func (r *Rolling) at(i int) float64 {
	start := (r.head - r.count + len(r.buf)) % len(r.buf)
	return r.buf[(start+i)%len(r.buf)]
}
