// Command validate provides a small CLI that validates game configuration JSON
// files in the ../configs directory (or CONFIG_DIR). It checks:
//   - JSON structure, rejecting unknown fields
//   - The rules enforced by engine.ValidateGameConfig
//   - That a perfect game can reach the target before the board fills
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.fail("%v", err)
		return result
	}

	result.info("Board: %dx%d, target %d, run length %d",
		config.Dimension, config.Dimension, config.TargetValue, config.RunLength)

	if missing := missingMessages(config.Messages); len(missing) > 0 {
		result.info("Default messages used for: %s", strings.Join(missing, ", "))
	} else {
		result.info("All messages set")
	}

	winnable := validateWinnable(config.Dimension, config.TargetValue, config.RunLength, config.DeferLossCheck)
	if !winnable.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, winnable.Errors...)

	return result
}

func missingMessages(m engine.Messages) []string {
	var missing []string
	for _, f := range []struct {
		key, value string
	}{
		{"welcome", m.Welcome},
		{"placed", m.Placed},
		{"occupied", m.Occupied},
		{"merged", m.Merged},
		{"victory", m.Victory},
		{"lost", m.Lost},
	} {
		if f.value == "" {
			missing = append(missing, f.key)
		}
	}
	return missing
}

// validateWinnable checks that building the target one run at a time never
// needs more cells than the board has. Just before the final merge a perfect
// game holds runLength-1 tiles of every lower value plus the completing tile.
func validateWinnable(dimension, target, runLength int, deferLoss bool) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	cells := dimension * dimension
	peak := (runLength-1)*(target-1) + 1

	limit := cells - 1
	if deferLoss {
		limit = cells
	}

	if peak > limit {
		result.fail("Unwinnable: a perfect game needs %d cells but only %d can be used", peak, limit)
		return result
	}

	result.info("Winnable: a perfect game peaks at %d of %d cells", peak, cells)
	return result
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "../configs"
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
