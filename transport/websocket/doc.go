// Package websocket pushes live game updates to browser clients.
//
// A central Hub owns every connection. Clients subscribe to one session by
// connecting to /ws?session=<id> and from then on receive JSON messages:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "move", "game_state": {...}, "data": {"relocations": [...], "spawned": {...}}}
//
// The move event carries the relocations of the turn so a client can
// animate tiles sliding and merging before showing the new grid.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.ServeWS(w, r, sessionID)
//	hub.BroadcastToSession(sessionID, state)
//
// Session ids are matched case-insensitively. Register, unregister and
// broadcast requests are serialized through the Run goroutine, so the
// Broadcast methods are safe to call from any handler.
package websocket
