// Command analyze prints quick, human-readable heuristics about configuration
// files in the project's configs directory, or only the configs named on the
// command line. For each board it summarizes the rules, how many 1s a perfect
// game must place to reach the target, and the peak number of cells such a
// game occupies.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

// Summary holds the analysis of one configuration.
type Summary struct {
	File        string
	Name        string
	Dimension   int
	TargetValue int
	RunLength   int
	DeferLoss   bool

	Cells int
	// OnesNeeded is the number of 1s placed when every merge is perfect
	// and no higher value is ever placed directly.
	OnesNeeded int
	// PeakCells is the most cells occupied at once while building the
	// target one run at a time.
	PeakCells int
	RunFits   bool
}

// Fits reports whether a perfect game can finish before a full board ends it.
// With the loss check deferred the final placement may fill the board.
func (s Summary) Fits() bool {
	if !s.RunFits {
		return false
	}
	if s.DeferLoss {
		return s.PeakCells <= s.Cells
	}
	return s.PeakCells < s.Cells
}

func main() {
	if names := os.Args[1:]; len(names) > 0 {
		for _, name := range names {
			fmt.Printf("\n=== Analyzing %s ===\n", name)
			summary, err := analyzeByName(name)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				continue
			}
			printSummary(os.Stdout, summary)
		}
		return
	}

	dir := os.Getenv("CONFIG_DIR")
	if dir == "" {
		dir = "configs"
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Printf("Error listing configs: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		summary, err := analyzeConfig(file)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		printSummary(os.Stdout, summary)
	}
}

// analyzeByName summarizes a config from the configs directory (or
// CONFIG_DIR) given its name, with or without the .json extension.
func analyzeByName(name string) (Summary, error) {
	config, err := engine.LoadConfigByName(name)
	if err != nil {
		return Summary{}, err
	}

	s := summarize(config)
	s.File = strings.TrimSuffix(name, ".json") + ".json"
	return s, nil
}

// analyzeConfig loads and validates path, then summarizes it.
func analyzeConfig(path string) (Summary, error) {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		return Summary{}, err
	}

	s := summarize(config)
	s.File = filepath.Base(path)
	return s, nil
}

func summarize(config *engine.GameConfig) Summary {
	return Summary{
		Name:        config.Name,
		Dimension:   config.Dimension,
		TargetValue: config.TargetValue,
		RunLength:   config.RunLength,
		DeferLoss:   config.DeferLossCheck,
		Cells:       config.Dimension * config.Dimension,
		OnesNeeded:  onesNeeded(config.RunLength, config.TargetValue),
		PeakCells:   peakCells(config.RunLength, config.TargetValue),
		RunFits:     config.RunLength <= config.Dimension,
	}
}

// onesNeeded returns runLength^(target-1), saturating at math.MaxInt.
func onesNeeded(runLength, target int) int {
	n := 1
	for i := 1; i < target; i++ {
		if n > math.MaxInt/runLength {
			return math.MaxInt
		}
		n *= runLength
	}
	return n
}

// peakCells is the occupancy just before the final merge: runLength-1 tiles
// of every value below the target plus the tile that completes the last run.
func peakCells(runLength, target int) int {
	return (runLength-1)*(target-1) + 1
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Name: %s\n", s.Name)
	fmt.Fprintf(w, "Board: %d x %d (%d cells)\n", s.Dimension, s.Dimension, s.Cells)
	fmt.Fprintf(w, "Target: %d | Run length: %d\n", s.TargetValue, s.RunLength)
	if s.DeferLoss {
		fmt.Fprintln(w, "Loss check: after merges")
	}

	if s.OnesNeeded == math.MaxInt {
		fmt.Fprintln(w, "Ones needed (perfect merges): too many to count")
	} else {
		fmt.Fprintf(w, "Ones needed (perfect merges): %d\n", s.OnesNeeded)
	}
	fmt.Fprintf(w, "Peak occupancy: %d of %d cells\n", s.PeakCells, s.Cells)

	switch {
	case !s.RunFits:
		fmt.Fprintf(w, "⚠️  CRITICAL: a run of %d cannot fit on a %d-wide board\n", s.RunLength, s.Dimension)
	case !s.Fits():
		fmt.Fprintln(w, "⚠️  WARNING: even a perfect game fills the board before reaching the target")
	default:
		fmt.Fprintln(w, "✅ A perfect game reaches the target with room to spare")
	}
}
