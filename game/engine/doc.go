// Package engine provides the core rules of the 2048 tile-merging puzzle.
//
// The engine package implements:
//   - The grid engine (Board): slides and merges tiles, spawns new tiles,
//     caches the set of legal moves and detects win/loss
//   - A turn wrapper (GameEngine) that runs the move/spawn/recompute protocol
//     and keeps move history across resets
//   - Configuration loading and validation
//
// Core Types:
//
// Board owns an N×N grid of tile values (0 means empty). ApplyMove returns a
// list of Relocation records describing where each tile went, so a
// presentation layer can animate the move. GameEngine wraps a Board with a
// GameConfig and records MoveHistoryEntry values. GameState is the
// JSON snapshot served to clients and written to disk.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameEngine.Move(engine.Left)
//	state := gameEngine.GetState()
//
// Driving the Board directly follows a two-phase protocol:
//
//	relocations := board.ApplyMove(engine.Left)
//	if len(relocations) > 0 {
//		board.SpawnTile()
//		board.RecomputeLegalMoves()
//	}
//
// Game Rules:
//
// Every move slides all tiles toward one edge. Two equal tiles that meet merge
// into one tile of double value; a tile takes part in at most one merge per
// move. The score is the largest tile on the grid. The game is won when the
// score equals the win target (2048 by default) and over when no direction
// would change the grid.
package engine
