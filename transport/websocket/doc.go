// Package websocket streams session snapshots to browser and bot clients.
//
// A central Hub keeps the clients of every session. Clients connect to
// /ws?session=<id> and receive:
//   - a "snapshot" message with the current state on connect
//   - a "frame" message for every frame that changed the session
//   - a "game_over" message for the final frame
//   - "error" messages for rejected commands
//
// Clients may send {"command": "left"} to play; the hub hands the command
// to the CommandHandler registered by the API server.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	sessions := service.NewGameService(mgr, cfgs, service.WithFrameListener(hub.BroadcastFrame))
//
// Concurrency:
//
// BroadcastFrame is called from session frame loops and never blocks them.
// Messages are queued to the hub loop, which fans them out to each client's
// write pump. Slow clients whose buffers fill up are disconnected.
package websocket
