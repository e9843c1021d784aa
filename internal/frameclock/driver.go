package frameclock

import (
	"sync"
	"time"
)

// Driver is the host adapter that fires once per display refresh. The
// scheduler installs a single tick function at Start and expects no further
// invocations after Stop returns.
type Driver interface {
	Start(tick func())
	Stop()
}

// TickerDriver fires at a fixed rate from a background goroutine, standing
// in for a hardware refresh signal.
type TickerDriver struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTickerDriver returns a driver firing hz times per second. Non-positive
// rates are raised to 60.
func NewTickerDriver(hz float64) *TickerDriver {
	if hz <= 0 {
		hz = 60
	}
	return &TickerDriver{interval: time.Duration(float64(time.Second) / hz)}
}

// Start begins firing tick from a background goroutine. Starting a running
// driver is a no-op.
func (d *TickerDriver) Start(tick func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		return
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})

	go func(stop, done chan struct{}) {
		defer close(done)
		t := time.NewTicker(d.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				tick()
			}
		}
	}(d.stop, d.done)
}

// Stop halts the driver and waits for the in-flight tick, if any, to finish.
func (d *TickerDriver) Stop() {
	d.mu.Lock()
	stop, done := d.stop, d.done
	d.stop, d.done = nil, nil
	d.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// ManualDriver delivers ticks only when Tick is called. It is the adapter
// for hosts that own their own frame loop (the TUI) and for tests.
type ManualDriver struct {
	mu   sync.Mutex
	tick func()
}

// NewManualDriver returns an idle manual driver.
func NewManualDriver() *ManualDriver {
	return &ManualDriver{}
}

// Start installs the tick function.
func (d *ManualDriver) Start(tick func()) {
	d.mu.Lock()
	d.tick = tick
	d.mu.Unlock()
}

// Stop uninstalls the tick function; subsequent Tick calls are no-ops.
func (d *ManualDriver) Stop() {
	d.mu.Lock()
	d.tick = nil
	d.mu.Unlock()
}

// Tick fires one frame synchronously.
func (d *ManualDriver) Tick() {
	d.mu.Lock()
	tick := d.tick
	d.mu.Unlock()
	if tick != nil {
		tick()
	}
}
