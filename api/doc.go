// Package api exposes the game service over a JSON REST API.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions               create a session, body {"config_id": "classic"}
//   - GET    /api/sessions               list sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified       several sessions at once (?sessionIds=a,b or ?configName=x)
//   - GET    /api/sessions/{id}          session info with current state
//   - DELETE /api/sessions/{id}          delete a session and its saved file
//
// Game:
//   - GET  /api/sessions/{id}/state        current grid, score and flags
//   - GET  /api/sessions/{id}/legal-moves  directions that would change the grid
//   - POST /api/sessions/{id}/move         body {"direction": "left", "reset": false}
//   - POST /api/sessions/{id}/bulk-move    body {"moves": ["left", "up"], "reset": false}
//   - POST /api/sessions/{id}/reset        start a fresh grid
//   - GET  /api/sessions/{id}/history      paginated move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET  /api/configs         list available game configurations
//   - GET  /api/configs/{name}  a single configuration
//   - POST /api/configs         save a configuration, keyed by config_id or a slug of its name
//
// Other:
//   - GET /health
//   - GET /ws?session={id}  WebSocket upgrade for live updates
//
// Errors are returned as {"error": "message"}. Unknown sessions and configs
// map to 404, invalid directions and configs to 400, anything else to 500.
package api
