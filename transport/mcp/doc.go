// Package mcp exposes Blockfall to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request
// against the REST API and the JSON response is rendered as text, with the
// board drawn between walls and a side panel holding status, score, combo
// and the upcoming pieces.
//
// MCP Tools:
//   - create_session, list_sessions, get_session, delete_session
//   - game_state: render the current snapshot
//   - command: apply one command
//   - bulk_command: apply a list of commands, stopping at game over
//   - list_configs: list board presets
//   - describe_catalog: show every piece shape
//   - game_instructions: rules and scoring
//
// Transport Modes:
//
// The same server is served over stdio for local agents and mounted at /mcp
// on the HTTP server for remote ones:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
