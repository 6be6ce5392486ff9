package events

// Event type constants for kelindar/event.
const (
	TypeLightsDiscovered uint32 = iota + 1
	TypeLightStateChanged
	TypeLightStateFailed
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LightInfo describes one discovered light.
type LightInfo struct {
	ID            int    `json:"id" example:"0" doc:"Light identifier"`
	Ordinal       int    `json:"ordinal" example:"0" doc:"Position among lights of the same type"`
	Type          string `json:"type" example:"backlight" doc:"Light type"`
	Path          string `json:"path" example:"/sys/class/backlight/intel_backlight" doc:"sysfs device directory"`
	MaxBrightness uint32 `json:"max_brightness" example:"937" doc:"Native maximum brightness"`
}

// LightsDiscoveredEvent is published once after startup discovery.
type LightsDiscoveredEvent struct {
	Lights    []LightInfo `json:"lights" doc:"Discovered lights"`
	Timestamp string      `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LightsDiscoveredEvent.
func (e LightsDiscoveredEvent) Type() uint32 { return TypeLightsDiscovered }

// LightStateChangedEvent is published after a brightness write succeeds.
type LightStateChangedEvent struct {
	LightID        int    `json:"light_id" example:"0" doc:"Light identifier"`
	Color          string `json:"color" example:"0xffffff" doc:"Requested color"`
	BrightnessMode string `json:"brightness_mode" example:"user" doc:"Requested brightness mode"`
	Brightness     uint32 `json:"brightness" example:"937" doc:"Value written to the device"`
	MaxBrightness  uint32 `json:"max_brightness" example:"937" doc:"Native maximum brightness"`
	Timestamp      string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LightStateChangedEvent.
func (e LightStateChangedEvent) Type() uint32 { return TypeLightStateChanged }

// LightStateFailedEvent is published when a state change is rejected.
type LightStateFailedEvent struct {
	LightID   int    `json:"light_id" example:"3" doc:"Requested light identifier"`
	Color     string `json:"color" example:"0xffffff" doc:"Requested color"`
	Code      string `json:"code" example:"UNKNOWN_LIGHT" doc:"Failure kind"`
	Error     string `json:"error" doc:"Failure description"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LightStateFailedEvent.
func (e LightStateFailedEvent) Type() uint32 { return TypeLightStateFailed }

// LogEntryEvent carries one log line to SSE clients.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-27T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"lights" doc:"Logging module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
