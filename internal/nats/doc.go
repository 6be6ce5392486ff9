// Package nats exposes the light registry over NATS.
//
// # Components
//
//   - Bridge: subscribes to light subjects in the daemon and answers them
//     from the registry; republishes state changes from the event bus
//   - Client: request/reply client used by the CLI to control a running daemon
//   - Server: optional embedded NATS server for single-host setups
//
// # Subject Hierarchy
//
//	backlightd.lights.list          # list request (reply: ListReply)
//	backlightd.lights.{id}.set      # set request (reply: Reply, if requested)
//	backlightd.lights.{id}.state    # state change after a successful write
//
// Core NATS only, no JetStream. The daemon keeps serving HTTP when the NATS
// server is unreachable.
//
// # Debugging with nats CLI
//
// Watch all light traffic:
//
//	nats sub "backlightd.lights.>"
//
// List lights:
//
//	nats req backlightd.lights.list ""
//
// Set light 0 to full white:
//
//	nats req backlightd.lights.0.set '{"color":"0xffffff"}'
//
// # Message Formats
//
// SetMessage (backlightd.lights.{id}.set):
//
//	{"color": "0xffffff", "brightness_mode": "user"}
//
// Reply:
//
//	{"ok": true}
//	{"ok": false, "error": "unsupported operation"}
//
// StateMessage (backlightd.lights.{id}.state):
//
//	{
//	  "light_id": 0,
//	  "timestamp": "2024-01-01T12:00:00Z",
//	  "color": "0xffffff",
//	  "brightness_mode": "user",
//	  "brightness": 937,
//	  "max_brightness": 937
//	}
package nats
