// Package config provides configuration management for the 2048 game server.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Caching parsed configurations
//   - Default configuration selection
//   - Configuration discovery and listing
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - grid_size: the board dimension (2 to 16)
//   - win_target: the tile that wins the game (a power of two)
//   - spawn_four_probability: chance that a spawned tile is a 4 (default 0.2)
//   - seed: optional fixed seed for reproducible games
//   - messages shown on welcome, blocked moves, victory and game over
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("small")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default configuration is classic.json when present, otherwise the
// first valid file, otherwise the built-in 4x4 game to 2048.
package config
