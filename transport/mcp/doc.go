// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API, and the JSON answer is rendered as text an agent can read. The
// grid is printed with right-aligned columns and "." for empty cells.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, legal_moves, describe_cell
//   - move, bulk_move, reset_game
//   - move_history, list_configs, game_instructions
//
// API errors are returned as tool results with IsError set, never as Go
// errors, so agents see the server's message.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
