package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}

	// Validate win target
	if config.WinTarget < MinWinTarget || !isPowerOfTwo(config.WinTarget) {
		return fmt.Errorf("config validation: win_target must be a power of two >= %d, got %d", MinWinTarget, config.WinTarget)
	}

	// A grid of n cells can hold at most 2^(n+1) when every cell doubles the last
	if cells := config.GridSize * config.GridSize; cells < 62 && config.WinTarget > 1<<(cells+1) {
		return fmt.Errorf("config validation: win_target %d is unreachable on a %dx%d grid", config.WinTarget, config.GridSize, config.GridSize)
	}

	if p := config.SpawnFourProbability; p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("config validation: spawn_four_probability must be between 0 and 1, got %g", *p)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("config validation: messages.game_over is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the winning tile")
	}
	if config.Messages.ScoreStatus != "" && !strings.Contains(config.Messages.ScoreStatus, "%d") {
		return fmt.Errorf("config validation: messages.score_status must contain %%d for the score")
	}

	return nil
}

// FourProbability returns the configured chance of spawning a 4, defaulting to 0.2 when unset.
// An explicit 0 spawns only 2s.
func (c *GameConfig) FourProbability() float64 {
	if c.SpawnFourProbability == nil {
		return DefaultSpawnFourProbability
	}
	return *c.SpawnFourProbability
}

// Probability returns a pointer to p, for setting GameConfig.SpawnFourProbability
func Probability(p float64) *float64 {
	return &p
}

// DefaultGameConfig returns the classic 4x4 game played to 2048
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:                 "Classic",
		Description:          "Classic 4x4 grid, reach the 2048 tile",
		GridSize:             DefaultGridSize,
		WinTarget:            DefaultWinTarget,
		SpawnFourProbability: Probability(DefaultSpawnFourProbability),
	}
	config.Messages.Welcome = "Slide the tiles and merge equal numbers. Reach 2048 to win!"
	config.Messages.CantMove = "Nothing moves in that direction"
	config.Messages.Victory = "You reached the %d tile!"
	config.Messages.GameOver = "No moves left. Game over!"
	config.Messages.ScoreStatus = "Highest tile: %d"
	return config
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		// If filename starts with "configs/", replace with CONFIG_DIR
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return ParseGameConfig(data)
}

// ParseGameConfig decodes and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a game configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	// Add .json extension if not present
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}

	return config, nil
}
