package events

import (
	"github.com/kelindar/event"
)

// Bus wraps kelindar/event dispatcher for event broadcasting
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers
// Usage: bus.Publish(LightStateChangedEvent{...})
func (b *Bus) Publish(ev Event) {
	// kelindar/event is generic, dispatch on the concrete type
	switch e := ev.(type) {
	case LightsDiscoveredEvent:
		event.Publish(b.dispatcher, e)
	case LightStateChangedEvent:
		event.Publish(b.dispatcher, e)
	case LightStateFailedEvent:
		event.Publish(b.dispatcher, e)
	case LogEntryEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes a handler whose parameter type selects the events it
// receives. Returns an unsubscribe function, a no-op for unknown handler types.
// Usage: unsub := bus.Subscribe(func(e LightStateChangedEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(LightsDiscoveredEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LightStateChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LightStateFailedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LogEntryEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
