package frameclock

import (
	"errors"
	"fmt"
	"sync"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/devfmo/physkit/internal/stats"
)

const (
	// DefaultFPS is the assumed refresh rate when a smoothing-mode
	// scheduler has no previous sample to difference against.
	DefaultFPS = 60

	// DefaultSampleSize is the delta history window used when a listener
	// config leaves SampleSize zero.
	DefaultSampleSize = 10

	// smoothingRate is the lerp factor of the smoothing-mode fps estimate.
	smoothingRate = 0.2
)

// ErrInvalidFPS reports a listener config with a non-positive target fps,
// which would make the derived delta bounds Inf/NaN. Rejected at
// registration time rather than silently substituted.
var ErrInvalidFPS = errors.New("frameclock: listener fps must be positive")

// Frame is what a listener receives each tick.
type Frame struct {
	// Delta is the corrected frame interval in ms, already multiplied by
	// the listener's time scale. Zero while paused.
	Delta float64
	// Raw is the unsmoothed wall-clock interval in ms.
	Raw float64
	// Now is the clock reading for this tick in ms.
	Now float64
	// FPS is the listener's rolling frames-per-second estimate.
	FPS float64
	// Correction is Delta relative to the nominal interval, folded with
	// any live time-scale change since the previous tick.
	Correction float64
	// TimeScale is the scale applied to Delta this tick.
	TimeScale float64
}

// Callback consumes frames. Callbacks run synchronously on the driver's
// tick, in registration order.
type Callback func(Frame)

// Config describes one listener registration.
type Config struct {
	// FPS is the listener's nominal refresh rate. Must be positive.
	FPS float64
	// Fixed delivers the nominal interval every tick instead of measured
	// wall-clock deltas.
	Fixed bool
	// SampleSize is the delta history window for min-of-window smoothing.
	// Zero means DefaultSampleSize.
	SampleSize int
	// TimeScale multiplies delivered deltas. Zero means 1 here; pausing a
	// live listener is done through Handle.SetTimeScale(0).
	TimeScale float64
}

type listener struct {
	cb    Callback
	fixed bool

	nominal  float64
	deltaMin float64
	deltaMax float64

	history *stats.Rolling
	prev    float64
	hasPrev bool

	scale     float64 // guarded by Scheduler.mu; ticks receive a snapshot copy
	prevScale float64 // tick goroutine only

	frames      int
	windowStart float64
	hasWindow   bool
	fps         float64
}

// Scheduler samples a Clock once per Driver tick and fans corrected deltas
// out to its listeners. Construct with New or NewSmoothing, Start it once,
// and Stop it when the host shuts down.
type Scheduler struct {
	clock  Clock
	driver Driver

	mu        sync.Mutex
	listeners *orderedmap.OrderedMap[int, *listener]
	nextID    int
	running   bool

	// smoothing-mode state
	smoothing bool
	smPrev    float64
	smHasPrev bool
	smFPS     float64
}

// New returns a dynamic-mode scheduler reading time from clock and frames
// from driver.
func New(clock Clock, driver Driver) *Scheduler {
	return &Scheduler{
		clock:     clock,
		driver:    driver,
		listeners: orderedmap.NewOrderedMap[int, *listener](),
	}
}

// NewSmoothing returns a scheduler in the simplified smoothing mode: no
// per-listener history or clamping, a single exponentially-smoothed fps
// estimate, raw deltas delivered to every listener.
func NewSmoothing(clock Clock, driver Driver) *Scheduler {
	s := New(clock, driver)
	s.smoothing = true
	s.smFPS = DefaultFPS
	return s
}

// Start attaches the scheduler to its driver. Starting twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()
	s.driver.Start(s.tick)
}

// Stop detaches from the driver. Listeners stay registered and resume on
// the next Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()
	s.driver.Stop()
}

// Handle identifies one registration. Its zero value is not usable.
type Handle struct {
	s  *Scheduler
	id int
}

// Unregister removes the listener for future ticks. A tick already in
// flight may still deliver one final frame. Unregistering twice is safe.
func (h *Handle) Unregister() {
	h.s.mu.Lock()
	h.s.listeners.Delete(h.id)
	h.s.mu.Unlock()
}

// SetTimeScale changes the listener's time scale from the next tick on.
// Zero pauses delivery (Delta 0) without unregistering.
func (h *Handle) SetTimeScale(scale float64) {
	h.s.mu.Lock()
	if l, ok := h.s.listeners.Get(h.id); ok {
		l.scale = scale
	}
	h.s.mu.Unlock()
}

// Register adds cb with the given config and returns its handle. In
// dynamic and fixed modes a non-positive cfg.FPS is rejected; in smoothing
// mode the config is ignored entirely.
func (s *Scheduler) Register(cb Callback, cfg Config) (*Handle, error) {
	if !s.smoothing && cfg.FPS <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidFPS, cfg.FPS)
	}

	if cfg.SampleSize <= 0 {
		cfg.SampleSize = DefaultSampleSize
	}
	scale := cfg.TimeScale
	if scale == 0 {
		scale = 1
	}

	nominal := 1000 / cfg.FPS
	l := &listener{
		cb:        cb,
		fixed:     cfg.Fixed,
		nominal:   nominal,
		deltaMin:  nominal / 2,
		deltaMax:  nominal * 2,
		history:   stats.NewRolling(cfg.SampleSize),
		scale:     scale,
		prevScale: scale,
	}

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners.Set(id, l)
	s.mu.Unlock()

	return &Handle{s: s, id: id}, nil
}

// tickEntry is one listener captured for a tick, with its time scale read
// under the scheduler lock so SetTimeScale never races the delivery.
type tickEntry struct {
	l     *listener
	scale float64
}

// tick runs one frame: snapshot the registry, then deliver to each listener
// in registration order. The snapshot keeps registration and removal during
// delivery from corrupting the iteration.
func (s *Scheduler) tick() {
	now := s.clock.Now()

	s.mu.Lock()
	snapshot := make([]tickEntry, 0, s.listeners.Len())
	for _, id := range s.listeners.Keys() {
		if l, ok := s.listeners.Get(id); ok {
			snapshot = append(snapshot, tickEntry{l: l, scale: l.scale})
		}
	}
	s.mu.Unlock()

	if s.smoothing {
		s.tickSmoothing(now, snapshot)
		return
	}
	for _, e := range snapshot {
		e.l.tick(now, e.scale)
	}
}

func (s *Scheduler) tickSmoothing(now float64, snapshot []tickEntry) {
	raw := 1000.0 / DefaultFPS
	if s.smHasPrev {
		raw = now - s.smPrev
	}
	s.smPrev, s.smHasPrev = now, true

	if raw > 0 {
		s.smFPS += (1000/raw - s.smFPS) * smoothingRate
	}

	frame := Frame{
		Delta:      raw,
		Raw:        raw,
		Now:        now,
		FPS:        s.smFPS,
		Correction: 1,
		TimeScale:  1,
	}
	for _, e := range snapshot {
		e.l.cb(frame)
	}
}

func (l *listener) tick(now, scale float64) {
	raw := l.nominal
	if l.hasPrev {
		raw = now - l.prev
	}
	l.prev, l.hasPrev = now, true

	var delta, correction float64
	if l.fixed {
		delta = l.nominal
		correction = 1
	} else {
		l.history.Push(raw)
		// The smallest recent interval damps the occasional long frame.
		delta = l.history.Min()
		if delta < l.deltaMin {
			delta = l.deltaMin
		} else if delta > l.deltaMax {
			delta = l.deltaMax
		}

		ratio := 1.0
		if l.prevScale != 0 {
			ratio = scale / l.prevScale
		}
		correction = delta / l.nominal * ratio
		if scale == 0 {
			correction = 0
		}
	}
	l.prevScale = scale

	l.frames++
	if !l.hasWindow {
		l.windowStart, l.hasWindow = now, true
	} else if elapsed := now - l.windowStart; elapsed >= 1000 {
		l.fps = float64(l.frames) * (elapsed / 1000)
		l.frames = 0
		l.windowStart = now
	}

	l.cb(Frame{
		Delta:      delta * scale,
		Raw:        raw,
		Now:        now,
		FPS:        l.fps,
		Correction: correction,
		TimeScale:  scale,
	})
}
