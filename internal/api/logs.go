package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/backlightd/internal/events"
	"github.com/smazurov/backlightd/internal/logging"
)

// LogStreamRequest filters the log stream.
type LogStreamRequest struct {
	Module string `query:"module" example:"lights" doc:"Only stream entries of this logging module"`
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// registerLogRoutes registers the log streaming SSE endpoint.
func (s *Server) registerLogRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "logs-stream",
		Method:      http.MethodGet,
		Path:        "/api/logs/stream",
		Summary:     "Log Stream",
		Description: "Sends buffered log history, then streams new entries.",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"message": events.LogEntryEvent{},
	}, func(ctx context.Context, input *LogStreamRequest, send sse.Sender) {
		// Subscribe before reading history so nothing logged in between is lost
		eventCh := make(chan any, 100)
		unsubscribe := events.SubscribeToChannel[events.LogEntryEvent](s.eventBus, eventCh)
		defer unsubscribe()

		var history []logging.LogEntry
		if buffer := logging.GetBuffer(); buffer != nil {
			history = buffer.ReadAll()
		}

		streamLogs(ctx, history, eventCh, input.Module, send.Data)
	})
}

// streamLogs sends history, then live entries until ctx ends or a send
// fails. Live entries already covered by history are skipped.
func streamLogs(ctx context.Context, history []logging.LogEntry, live <-chan any, module string, send func(any) error) {
	match := func(e events.LogEntryEvent) bool {
		return module == "" || e.Module == module
	}

	var replayedUntil time.Time
	for _, entry := range history {
		replayedUntil = entry.Timestamp
		ev := logEntryEvent(entry)
		if !match(ev) {
			continue
		}
		if err := send(ev); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-live:
			entry, ok := ev.(events.LogEntryEvent)
			if !ok || !match(entry) {
				continue
			}
			if ts, err := time.Parse(time.RFC3339Nano, entry.Timestamp); err == nil && !ts.After(replayedUntil) {
				continue
			}
			if err := send(entry); err != nil {
				return
			}
		}
	}
}

func logEntryEvent(entry logging.LogEntry) events.LogEntryEvent {
	return events.LogEntryEvent{
		Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
		Level:      entry.Level,
		Module:     entry.Module,
		Message:    entry.Message,
		Attributes: entry.Attributes,
	}
}

// PublishLogs forwards every log entry to bus for /api/logs/stream. Entries
// below minLevel are not forwarded.
func PublishLogs(bus *events.Bus, minLevel string) {
	minRank := levelRank[minLevel]
	logging.SetLogCallback(func(entry logging.LogEntry) {
		if levelRank[entry.Level] < minRank {
			return
		}
		bus.Publish(logEntryEvent(entry))
	})
}
