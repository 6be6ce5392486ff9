package nats

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/smazurov/backlightd/internal/events"
	"github.com/smazurov/backlightd/internal/lights"
)

// LightService is the light registry as seen by the bridge.
type LightService interface {
	Lights() []lights.Descriptor
	SetState(id int, state lights.State) error
}

// Bridge exposes the light registry on NATS. Set and list requests go to the
// registry; state changes from the event bus are published back out.
type Bridge struct {
	url         string
	lights      LightService
	eventBus    *events.Bus
	conn        *nats.Conn
	subs        []*nats.Subscription
	unsubscribe func()
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewBridge creates a new NATS bridge for svc.
func NewBridge(url string, svc LightService, eventBus *events.Bus, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bridge{
		url:      url,
		lights:   svc,
		eventBus: eventBus,
		logger:   logger.With("component", "nats-bridge"),
	}
}

// Start connects to NATS and subscribes to light subjects.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	conn, err := nats.Connect(b.url,
		nats.Name("backlightd-bridge"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				b.logger.Warn("NATS bridge disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			b.logger.Info("NATS bridge reconnected")
		}),
	)
	if err != nil {
		return err
	}

	b.conn = conn
	b.logger.Info("NATS bridge connected", "url", b.url)

	setSub, err := conn.Subscribe(SubjectLightsPrefix+".*.set", b.handleSet)
	if err != nil {
		b.cleanup()
		return err
	}
	b.subs = append(b.subs, setSub)

	listSub, err := conn.Subscribe(SubjectLightsList, b.handleList)
	if err != nil {
		b.cleanup()
		return err
	}
	b.subs = append(b.subs, listSub)

	if b.eventBus != nil {
		b.unsubscribe = b.eventBus.Subscribe(b.publishState)
	}

	b.logger.Info("NATS bridge subscribed to light subjects")
	return nil
}

// handleSet applies a set request. Every failure is reported as the same
// unsupported operation reply.
func (b *Bridge) handleSet(msg *nats.Msg) {
	reply := Reply{OK: true}
	if err := b.applySet(msg); err != nil {
		b.logger.Warn("Light state change rejected", "subject", msg.Subject, "error", err)
		reply = Reply{Error: lights.ErrUnsupportedOperation.Error()}
	}

	if msg.Reply == "" {
		return
	}
	data, err := reply.Marshal()
	if err != nil {
		b.logger.Warn("Failed to marshal reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		b.logger.Warn("Failed to send reply", "error", err, "subject", msg.Reply)
	}
}

func (b *Bridge) applySet(msg *nats.Msg) error {
	id, err := ParseLightSubject(msg.Subject)
	if err != nil {
		return err
	}
	m, err := UnmarshalSet(msg.Data)
	if err != nil {
		return err
	}
	state, err := m.State()
	if err != nil {
		return err
	}
	return b.lights.SetState(id, state)
}

// handleList answers with the light descriptors in discovery order.
func (b *Bridge) handleList(msg *nats.Msg) {
	if msg.Reply == "" {
		return
	}

	descs := b.lights.Lights()
	reply := ListReply{Lights: make([]LightMessage, 0, len(descs))}
	for _, d := range descs {
		reply.Lights = append(reply.Lights, LightMessage{ID: d.ID, Ordinal: d.Ordinal, Type: d.Type.String()})
	}

	data, err := reply.Marshal()
	if err != nil {
		b.logger.Warn("Failed to marshal list reply", "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		b.logger.Warn("Failed to send list reply", "error", err)
	}
}

// publishState forwards a bus state change to backlightd.lights.{id}.state.
func (b *Bridge) publishState(e events.LightStateChangedEvent) {
	b.mu.Lock()
	conn := b.conn
	b.mu.Unlock()

	if conn == nil || !conn.IsConnected() {
		return
	}

	data, err := StateMessage{
		LightID:        e.LightID,
		Timestamp:      e.Timestamp,
		Color:          e.Color,
		BrightnessMode: e.BrightnessMode,
		Brightness:     e.Brightness,
		MaxBrightness:  e.MaxBrightness,
	}.Marshal()
	if err != nil {
		b.logger.Warn("Failed to marshal state", "error", err)
		return
	}
	if err := conn.Publish(SubjectLightState(e.LightID), data); err != nil {
		b.logger.Warn("Failed to publish state", "error", err, "light_id", e.LightID)
		return
	}
	b.logger.Debug("Published state", "light_id", e.LightID, "brightness", e.Brightness)
}

// cleanup unsubscribes and closes connection.
func (b *Bridge) cleanup() {
	for _, sub := range b.subs {
		_ = sub.Unsubscribe()
	}
	b.subs = nil

	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
}

// Stop closes the bridge connection.
func (b *Bridge) Stop() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	b.mu.Unlock()

	// publishState takes b.mu, so leave the bus before locking
	if unsubscribe != nil {
		unsubscribe()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.cleanup()
	b.logger.Info("NATS bridge stopped")
}

// IsConnected returns true if the bridge is connected to NATS.
func (b *Bridge) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil && b.conn.IsConnected()
}

var errEmptyColor = errors.New("color is required")

// State converts the message into a light state.
func (m SetMessage) State() (lights.State, error) {
	if m.Color == "" {
		return lights.State{}, errEmptyColor
	}
	color, err := lights.ParseColor(m.Color)
	if err != nil {
		return lights.State{}, err
	}
	mode, err := lights.ParseBrightnessMode(m.BrightnessMode)
	if err != nil {
		return lights.State{}, err
	}
	return lights.State{Color: color, Mode: mode}, nil
}
