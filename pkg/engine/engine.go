package engine

import (
	"sync/atomic"

	"github.com/tinyzimmer/zipper/pkg/config"
	"github.com/tinyzimmer/zipper/pkg/log"
	"github.com/tinyzimmer/zipper/pkg/types"
)

// Option configures an engine.
type Option func(*engine)

// WithObserver sets the observer that receives progress from the engine.
// The default logs through the log package.
func WithObserver(o types.Observer) Option {
	return func(e *engine) { e.observer = o }
}

// New returns a new engine using the given settings. The settings are
// normalized before use.
func New(settings types.Settings, opts ...Option) types.Engine {
	e := &engine{
		gate:     make(chan struct{}, 1),
		observer: LogObserver(),
	}
	e.store(settings)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewFromProvider returns a new engine using the settings from the given
// configuration provider.
func NewFromProvider(p *config.Provider, opts ...Option) types.Engine {
	return New(p.Settings(), opts...)
}

// engine implements the Engine interface. It is Idle while the gate is empty
// and Busy while a pack holds it.
type engine struct {
	// single slot gate held for the duration of a pack or reset
	gate chan struct{}
	// current settings, replaced as a whole so readers always see a
	// consistent snapshot
	settings atomic.Value
	observer types.Observer
}

func (e *engine) acquire() { e.gate <- struct{}{} }

func (e *engine) release() { <-e.gate }

func (e *engine) store(s types.Settings) { e.settings.Store(config.Normalize(s)) }

func (e *engine) Settings() types.Settings { return e.settings.Load().(types.Settings) }

func (e *engine) Usable() bool { return len(e.gate) == 0 }

func (e *engine) Reset(s types.Settings) {
	e.acquire()
	defer e.release()
	e.store(s)
	log.Debugf("Engine settings reset to %s", e.Settings())
}
