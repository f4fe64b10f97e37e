package loop

import (
	"context"
	"sync"
	"time"

	"github.com/wricardo/blockfall/game/engine"
)

// DefaultQueueSize bounds the number of commands waiting for the next frame
const DefaultQueueSize = 64

// Frame describes what a single Step did
type Frame struct {
	Number   int                    `json:"number"`
	Gravity  engine.TickResult      `json:"gravity,omitempty"`
	Results  []engine.CommandResult `json:"results,omitempty"`
	Changed  bool                   `json:"changed"`
	Snapshot *engine.Snapshot       `json:"snapshot"`
}

// FrameHook observes frames that changed the session
type FrameHook func(Frame)

// Driver owns an engine and serializes every mutation of it
type Driver struct {
	mu       sync.Mutex
	eng      *engine.Engine
	cadence  Cadence
	commands chan engine.Command
	hooks    []FrameHook

	frame   int
	elapsed int
	last    *engine.Snapshot
}

// Option configures a Driver
type Option func(*Driver)

// WithFrameHook registers a hook called after each changed frame
func WithFrameHook(hook FrameHook) Option {
	return func(d *Driver) {
		d.hooks = append(d.hooks, hook)
	}
}

// WithQueueSize sets the command queue capacity
func WithQueueSize(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.commands = make(chan engine.Command, n)
		}
	}
}

// New wraps eng. A nil cadence is derived from the engine settings.
func New(eng *engine.Engine, cadence Cadence, opts ...Option) *Driver {
	if cadence == nil {
		cadence = CadenceFor(eng.Settings())
	}
	d := &Driver{
		eng:      eng,
		cadence:  cadence,
		commands: make(chan engine.Command, DefaultQueueSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.last = eng.Snapshot()
	return d
}

// Start puts the session in play and publishes the first frame
func (d *Driver) Start() bool {
	d.mu.Lock()
	ok := d.eng.Start()
	f := d.publish(engine.Idle, nil, true)
	d.mu.Unlock()

	d.notify(f)
	return ok
}

// Submit queues a command for the next frame without blocking
func (d *Driver) Submit(cmd engine.Command) error {
	if d.Finished() {
		return ErrFinished
	}
	select {
	case d.commands <- cmd:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued commands
func (d *Driver) Pending() int {
	return len(d.commands)
}

// Apply executes a command immediately, bypassing the queue
func (d *Driver) Apply(cmd engine.Command) engine.CommandResult {
	d.mu.Lock()
	res := d.eng.Apply(cmd)
	f := d.publish(engine.Idle, []engine.CommandResult{res}, res.Applied)
	d.mu.Unlock()

	if f.Changed {
		d.notify(f)
	}
	return res
}

// Step runs one frame: gravity when the cadence is due, then every command
// that was queued when the frame began.
func (d *Driver) Step() Frame {
	d.mu.Lock()
	d.frame++

	gravity := engine.Idle
	if d.eng.Status().Playing() {
		d.elapsed++
		if n := d.cadence.Frames(d.eng.Ledger()); n > 0 && d.elapsed >= n {
			d.elapsed = 0
			gravity = d.eng.GravityTick()
		}
	}

	var results []engine.CommandResult
	changed := gravity != engine.Idle
	for pending := len(d.commands); pending > 0; pending-- {
		var cmd engine.Command
		select {
		case cmd = <-d.commands:
		default:
			pending = 0
			continue
		}
		res := d.eng.Apply(cmd)
		results = append(results, res)
		changed = changed || res.Applied
	}

	f := d.publish(gravity, results, changed)
	d.mu.Unlock()

	if f.Changed {
		d.notify(f)
	}
	return f
}

// Run steps the session every interval until ctx is done or the session ends
func (d *Driver) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = FrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if f := d.Step(); f.Snapshot.GameOver() {
				return nil
			}
		}
	}
}

// Snapshot returns the snapshot published by the latest mutation
func (d *Driver) Snapshot() *engine.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.last
}

// Finished reports whether the session has exited
func (d *Driver) Finished() bool {
	return d.Snapshot().GameOver()
}

// Settings returns the settings of the driven engine
func (d *Driver) Settings() engine.Settings {
	return d.eng.Settings()
}

// publish must be called with mu held
func (d *Driver) publish(gravity engine.TickResult, results []engine.CommandResult, changed bool) Frame {
	if changed {
		d.last = d.eng.Snapshot()
	}
	return Frame{
		Number:   d.frame,
		Gravity:  gravity,
		Results:  results,
		Changed:  changed,
		Snapshot: d.last,
	}
}

func (d *Driver) notify(f Frame) {
	for _, hook := range d.hooks {
		hook(f)
	}
}
