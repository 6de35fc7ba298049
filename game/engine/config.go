package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultMessages returns the texts used when a configuration leaves them out
func DefaultMessages() Messages {
	return Messages{
		Welcome:  "Welcome! Place the pair you are dealt and merge runs to grow your numbers.",
		Placed:   "Number placed.",
		Occupied: "That cell is occupied. Choose another one.",
		Merged:   "Merged into %d!",
		Victory:  "Congratulations! You reached %d!",
		Lost:     "The board is full. No more moves are possible.",
	}
}

// DefaultConfig returns the classic 7x7 game: reach 7 by merging runs of 3
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic",
		Description: "7x7 board, merge runs of three, reach 7 to win",
		Dimension:   7,
		TargetValue: 7,
		RunLength:   3,
		Messages:    DefaultMessages(),
	}
}

// ValidateRules checks the construction parameters of a board
func ValidateRules(dimension, targetValue, runLength int) error {
	if dimension < MinDimension {
		return fmt.Errorf("%w: dimension must be at least %d, got %d",
			ErrInvalidConfiguration, MinDimension, dimension)
	}
	if targetValue < MinTargetValue {
		return fmt.Errorf("%w: target_value must be at least %d, got %d",
			ErrInvalidConfiguration, MinTargetValue, targetValue)
	}
	if runLength < MinRunLength || runLength > dimension {
		return fmt.Errorf("%w: run_length must be between %d and dimension (%d), got %d",
			ErrInvalidConfiguration, MinRunLength, dimension, runLength)
	}
	return nil
}

func validateMessages(m Messages) error {
	if m.Merged != "" && !strings.Contains(m.Merged, "%d") {
		return fmt.Errorf("%w: messages.merged must contain %%d for the merged value", ErrInvalidConfiguration)
	}
	if m.Victory != "" && !strings.Contains(m.Victory, "%d") {
		return fmt.Errorf("%w: messages.victory must contain %%d for the target value", ErrInvalidConfiguration)
	}
	return nil
}

// ValidateGameConfig validates a game configuration file for correctness
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfiguration)
	}
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfiguration)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfiguration)
	}
	if config.Dimension > MaxDimension {
		return fmt.Errorf("%w: dimension must be at most %d, got %d",
			ErrInvalidConfiguration, MaxDimension, config.Dimension)
	}
	if err := ValidateRules(config.Dimension, config.TargetValue, config.RunLength); err != nil {
		return err
	}
	return validateMessages(config.Messages)
}

// withDefaults returns a copy of config with empty messages filled in
func withDefaults(config *GameConfig) *GameConfig {
	c := *config
	d := DefaultMessages()
	if c.Messages.Welcome == "" {
		c.Messages.Welcome = d.Welcome
	}
	if c.Messages.Placed == "" {
		c.Messages.Placed = d.Placed
	}
	if c.Messages.Occupied == "" {
		c.Messages.Occupied = d.Occupied
	}
	if c.Messages.Merged == "" {
		c.Messages.Merged = d.Merged
	}
	if c.Messages.Victory == "" {
		c.Messages.Victory = d.Victory
	}
	if c.Messages.Lost == "" {
		c.Messages.Lost = d.Lost
	}
	return &c
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigByName loads a configuration from the configs directory by name,
// with or without the .json extension
func LoadConfigByName(name string) (*GameConfig, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	config, err := LoadGameConfig(filepath.Join("configs", name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config '%s' not found", strings.TrimSuffix(name, ".json"))
		}
		return nil, err
	}
	return config, nil
}
