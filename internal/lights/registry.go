package lights

import (
	"fmt"
	"log/slog"
)

// Observer is notified about the outcome of every state change.
type Observer interface {
	StateApplied(desc Descriptor, state State, level Level)
	StateFailed(id int, state State, err error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithObserver adds an observer for state changes.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		r.observers = append(r.observers, o)
	}
}

// Registry owns the lights found at startup and dispatches requests to them
// by id. It is immutable after construction and safe for concurrent use.
type Registry struct {
	lights    []Light
	observers []Observer
	logger    *slog.Logger
}

// NewRegistry runs discovery once and returns a registry of its results.
func NewRegistry(d Discoverer, opts ...RegistryOption) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = loggerOrDefault(r.logger)
	r.lights = d.Discover()
	return r
}

// Lights returns the descriptors of all known lights in discovery order.
func (r *Registry) Lights() []Descriptor {
	descs := make([]Descriptor, 0, len(r.lights))
	for _, l := range r.lights {
		descs = append(descs, l.Descriptor())
	}
	return descs
}

// Count returns the number of known lights.
func (r *Registry) Count() int {
	return len(r.lights)
}

// SetState applies state to the light with the given id.
func (r *Registry) SetState(id int, state State) error {
	r.logger.Debug("Setting light state", "light_id", id, "color", formatColor(state.Color), "mode", state.Mode.String())

	if id < 0 || id >= len(r.lights) {
		err := NewError(ErrUnknownLight, "unknown light id", "", nil)
		r.notifyFailed(id, state, err)
		return err
	}

	light := r.lights[id]
	level, err := light.SetState(state)
	if err != nil {
		r.notifyFailed(id, state, err)
		return err
	}

	for _, o := range r.observers {
		o.StateApplied(light.Descriptor(), state, level)
	}
	return nil
}

// Info is a read-only snapshot of one light.
type Info struct {
	Descriptor
	Path          string `json:"path"`
	MaxBrightness uint32 `json:"max_brightness"`
}

// Info returns snapshots of all known lights in discovery order.
func (r *Registry) Info() []Info {
	infos := make([]Info, 0, len(r.lights))
	for _, l := range r.lights {
		info := Info{Descriptor: l.Descriptor()}
		if b, ok := l.(*Backlight); ok {
			info.Path = b.Path()
			info.MaxBrightness = b.MaxBrightness()
		}
		infos = append(infos, info)
	}
	return infos
}

func (r *Registry) notifyFailed(id int, state State, err error) {
	for _, o := range r.observers {
		o.StateFailed(id, state, err)
	}
}

func formatColor(color uint32) string {
	return fmt.Sprintf("0x%06x", color&0xffffff)
}
