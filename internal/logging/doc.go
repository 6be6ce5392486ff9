// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Keeps the last entries in a ring buffer served by /api/logs/stream
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"lights": "debug",
//			"http":   "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("lights")
//	logger.Info("Found backlights", "count", 1)
//
// Levels can be changed at runtime with SetLevels, which the config watcher
// calls when the [logging] table of the config file changes.
//
// # Viewing Logs
//
//	journalctl -t backlightd -f
//	journalctl -t backlightd MODULE=lights
//	journalctl -t backlightd LIGHT_ID=0
//
// # Configuration
//
//	[logging]
//	level = "info"
//	format = "text"
//	lights = "debug"
//	nats = "warn"
package logging
