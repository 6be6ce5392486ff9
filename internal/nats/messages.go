package nats

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Subject prefixes for NATS topics.
const (
	SubjectLightsPrefix = "backlightd.lights"
	SubjectLightsList   = SubjectLightsPrefix + ".list"
)

var errBadSubject = errors.New("subject is not a light subject")

// SubjectLightSet returns the NATS subject for setting a light.
func SubjectLightSet(id int) string {
	return fmt.Sprintf("%s.%d.set", SubjectLightsPrefix, id)
}

// SubjectLightState returns the NATS subject for light state changes.
func SubjectLightState(id int) string {
	return fmt.Sprintf("%s.%d.state", SubjectLightsPrefix, id)
}

// ParseLightSubject extracts the light id from backlightd.lights.{id}.{verb}.
func ParseLightSubject(subject string) (int, error) {
	rest, ok := strings.CutPrefix(subject, SubjectLightsPrefix+".")
	if !ok {
		return 0, errBadSubject
	}
	idPart, _, ok := strings.Cut(rest, ".")
	if !ok {
		return 0, errBadSubject
	}
	id, err := strconv.Atoi(idPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadSubject, err)
	}
	return id, nil
}

// SetMessage requests a light state change.
type SetMessage struct {
	Color          string `json:"color"`
	BrightnessMode string `json:"brightness_mode,omitempty"` // user, sensor, low_persistence
}

// Marshal serializes the message to JSON.
func (m SetMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Reply answers a set request.
type Reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Marshal serializes the message to JSON.
func (m Reply) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// LightMessage describes one light in a list reply.
type LightMessage struct {
	ID      int    `json:"id"`
	Ordinal int    `json:"ordinal"`
	Type    string `json:"type"`
}

// ListReply answers a list request.
type ListReply struct {
	Lights []LightMessage `json:"lights"`
}

// Marshal serializes the message to JSON.
func (m ListReply) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// StateMessage announces a brightness write.
type StateMessage struct {
	LightID        int    `json:"light_id"`
	Timestamp      string `json:"timestamp"`
	Color          string `json:"color"`
	BrightnessMode string `json:"brightness_mode"`
	Brightness     uint32 `json:"brightness"`
	MaxBrightness  uint32 `json:"max_brightness"`
}

// Marshal serializes the message to JSON.
func (m StateMessage) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// UnmarshalSet deserializes a SetMessage from JSON.
func UnmarshalSet(data []byte) (SetMessage, error) {
	var m SetMessage
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalReply deserializes a Reply from JSON.
func UnmarshalReply(data []byte) (Reply, error) {
	var m Reply
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalListReply deserializes a ListReply from JSON.
func UnmarshalListReply(data []byte) (ListReply, error) {
	var m ListReply
	err := json.Unmarshal(data, &m)
	return m, err
}

// UnmarshalState deserializes a StateMessage from JSON.
func UnmarshalState(data []byte) (StateMessage, error) {
	var m StateMessage
	err := json.Unmarshal(data, &m)
	return m, err
}
