package nats

import (
	"testing"

	"github.com/smazurov/backlightd/internal/lights"
)

func TestSubjectFunctions(t *testing.T) {
	tests := []struct {
		fn       func(int) string
		id       int
		expected string
	}{
		{SubjectLightSet, 0, "backlightd.lights.0.set"},
		{SubjectLightState, 3, "backlightd.lights.3.state"},
	}

	for _, tt := range tests {
		if got := tt.fn(tt.id); got != tt.expected {
			t.Errorf("Got %s, want %s", got, tt.expected)
		}
	}
}

func TestParseLightSubject(t *testing.T) {
	tests := []struct {
		subject string
		want    int
		wantErr bool
	}{
		{"backlightd.lights.0.set", 0, false},
		{"backlightd.lights.12.set", 12, false},
		{"backlightd.lights.-1.set", -1, false},
		{"backlightd.lights.list", 0, true},
		{"backlightd.lights.abc.set", 0, true},
		{"other.lights.0.set", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got, err := ParseLightSubject(tt.subject)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLightSubject(%q) error = %v, wantErr %v", tt.subject, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLightSubject(%q) = %d, want %d", tt.subject, got, tt.want)
			}
		})
	}
}

func TestSetMessageState(t *testing.T) {
	tests := []struct {
		name    string
		msg     SetMessage
		want    lights.State
		wantErr bool
	}{
		{"hex", SetMessage{Color: "0xffffff"}, lights.State{Color: 0xffffff, Mode: lights.ModeUser}, false},
		{"sensor", SetMessage{Color: "255", BrightnessMode: "sensor"}, lights.State{Color: 255, Mode: lights.ModeSensor}, false},
		{"empty", SetMessage{}, lights.State{}, true},
		{"bad mode", SetMessage{Color: "0x1", BrightnessMode: "blink"}, lights.State{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.State()
			if (err != nil) != tt.wantErr {
				t.Fatalf("State() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("State() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
