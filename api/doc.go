// Package api provides the HTTP REST API for game sessions.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session {config_id, realtime, cadence, seed}
//   - GET /api/sessions - List sessions (?sort=accessed|created|score&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Stop and remove a session
//
// Game Operations:
//   - GET /api/sessions/{id}/snapshot - Current snapshot (?format=text for a plain board)
//   - POST /api/sessions/{id}/command - Apply {command: "left"}
//   - POST /api/sessions/{id}/commands - Apply {commands: ["left", "drop"]} in order
//
// Configuration:
//   - GET /api/configs - List presets
//   - POST /api/configs - Save a preset (engine.Settings JSON)
//   - GET /api/configs/{name} - Get a preset
//   - GET /api/catalog - Piece kinds with colors and previews
//
// Streaming:
//   - GET /ws?session={id} - WebSocket snapshot stream
//
// Manual sessions apply commands synchronously and only fall on the "tick"
// command. Realtime sessions run their own frame loop; commands sent to them
// are queued for the next frame and the response carries "queued": true.
//
// Error Handling:
//
// Errors are returned as JSON with the matching HTTP status code:
//
//	{
//	  "error": "session zz99: session not found",
//	  "code": 404
//	}
package api
