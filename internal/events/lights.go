package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/smazurov/backlightd/internal/lights"
)

// LightObserver publishes registry state changes on the bus.
type LightObserver struct {
	bus *Bus
}

// NewLightObserver creates an observer publishing to bus.
func NewLightObserver(bus *Bus) *LightObserver {
	return &LightObserver{bus: bus}
}

// StateApplied implements lights.Observer.
func (o *LightObserver) StateApplied(desc lights.Descriptor, state lights.State, level lights.Level) {
	o.bus.Publish(LightStateChangedEvent{
		LightID:        desc.ID,
		Color:          FormatColor(state.Color),
		BrightnessMode: state.Mode.String(),
		Brightness:     level.Value,
		MaxBrightness:  level.Max,
		Timestamp:      time.Now().Format(time.RFC3339),
	})
}

// StateFailed implements lights.Observer.
func (o *LightObserver) StateFailed(id int, state lights.State, err error) {
	code := ""
	var lerr *lights.Error
	if errors.As(err, &lerr) {
		code = string(lerr.Code)
	}
	o.bus.Publish(LightStateFailedEvent{
		LightID:   id,
		Color:     FormatColor(state.Color),
		Code:      code,
		Error:     err.Error(),
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// NewLightsDiscoveredEvent builds the startup discovery event.
func NewLightsDiscoveredEvent(infos []lights.Info) LightsDiscoveredEvent {
	found := make([]LightInfo, 0, len(infos))
	for _, info := range infos {
		found = append(found, LightInfo{
			ID:            info.ID,
			Ordinal:       info.Ordinal,
			Type:          info.Type.String(),
			Path:          info.Path,
			MaxBrightness: info.MaxBrightness,
		})
	}
	return LightsDiscoveredEvent{
		Lights:    found,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// FormatColor renders a packed color as 0xrrggbb.
func FormatColor(color uint32) string {
	return fmt.Sprintf("0x%06x", color&0xffffff)
}
