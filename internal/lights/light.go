// Package lights discovers display backlights exposed by the kernel and
// translates abstract light states into writes to their sysfs control files.
package lights

import (
	"fmt"
	"strings"
)

// Type identifies the category of a light.
type Type int

// Only backlights are populated; other categories are reserved.
const (
	TypeBacklight Type = iota
	TypeKeyboard
	TypeButtons
	TypeBattery
	TypeNotifications
	TypeAttention
)

var typeNames = map[Type]string{
	TypeBacklight:     "backlight",
	TypeKeyboard:      "keyboard",
	TypeButtons:       "buttons",
	TypeBattery:       "battery",
	TypeNotifications: "notifications",
	TypeAttention:     "attention",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// MarshalText encodes the type by name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// BrightnessMode selects how a requested brightness should be driven.
type BrightnessMode int

const (
	// ModeUser is the normal brightness mode.
	ModeUser BrightnessMode = iota
	// ModeSensor lets an ambient light sensor drive brightness. Treated as ModeUser.
	ModeSensor
	// ModeLowPersistence requests low persistence driving (VR panels).
	ModeLowPersistence
)

func (m BrightnessMode) String() string {
	switch m {
	case ModeUser:
		return "user"
	case ModeSensor:
		return "sensor"
	case ModeLowPersistence:
		return "low_persistence"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseBrightnessMode converts a mode name into a BrightnessMode.
// An empty string selects ModeUser.
func ParseBrightnessMode(s string) (BrightnessMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user", "normal":
		return ModeUser, nil
	case "sensor":
		return ModeSensor, nil
	case "low_persistence", "low-persistence":
		return ModeLowPersistence, nil
	default:
		return ModeUser, fmt.Errorf("unknown brightness mode %q", s)
	}
}

// Descriptor is the identity record of one discovered light.
type Descriptor struct {
	ID      int  `json:"id"`
	Ordinal int  `json:"ordinal"`
	Type    Type `json:"type"`
}

// State is a requested light state. The top byte of Color is ignored.
type State struct {
	Color uint32
	Mode  BrightnessMode
}

// Light is a controllable light device.
type Light interface {
	Descriptor() Descriptor
	SetState(state State) (Level, error)
}
