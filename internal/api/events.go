package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/backlightd/internal/events"
)

// registerSSERoutes registers the light event stream.
func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of light discovery and state change events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"lights-discovered":   events.LightsDiscoveredEvent{},
		"light-state-changed": events.LightStateChangedEvent{},
		"light-state-failed":  events.LightStateFailedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 10)

		unsubscribers := []func(){
			events.SubscribeToChannel[events.LightsDiscoveredEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.LightStateChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.LightStateFailedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Start with the current light set so clients need no extra request
		if s.lights != nil {
			initial := events.LightsDiscoveredEvent{Timestamp: time.Now().Format(time.RFC3339)}
			for _, d := range s.lights.Lights() {
				initial.Lights = append(initial.Lights, events.LightInfo{
					ID:      d.ID,
					Ordinal: d.Ordinal,
					Type:    d.Type.String(),
				})
			}
			if err := send.Data(initial); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event := <-eventCh:
				if err := send.Data(event); err != nil {
					return
				}
			}
		}
	})
}
