// Package config provides configuration management for the merge board game.
//
// The config package handles:
//   - Loading game configurations from JSON files
//   - Configuration validation through the engine rules
//   - Default configuration management
//   - Configuration discovery, listing and saving
//
// Configuration Format:
//
// Game configurations are stored as JSON files in the configs directory.
// Each configuration defines:
//   - Board dimension, target value and run length
//   - Whether loss is checked after placement or after resolution
//   - An optional seed for reproducible draws
//   - Game messages for various events
//
// Available Configurations:
//   - classic: 7x7 board, runs of 3, reach 7
//   - easy: 5x5 board, pairs merge, reach 5, deferred loss check
//   - quick: 3x3 board, pairs merge, reach 4
//   - challenge: 9x9 board, runs of 3, reach 9
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("easy")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// When no classic.json exists the first valid file becomes the default, and
// with no valid files at all engine.DefaultConfig is used.
package config
