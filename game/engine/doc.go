// Package engine provides the core game logic for the Merge Board Game.
//
// The engine package implements the game mechanics including:
//   - A square grid of cells addressed by 1-based (row, col) coordinates
//   - The number pool: the growing set of values a player can be dealt
//   - Placement rules and consecutive-run detection on both axes
//   - Merge execution, pool growth and win/loss transitions
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Grid and NumberPool are the engine's leaves.
// GameState is a JSON snapshot of an engine, while GameConfig defines the
// rules loaded from JSON files.
//
// Usage:
//
//	gameEngine, err := engine.New(3, 4, 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	a, b := gameEngine.DrawPair()
//	gameEngine.Place(1, 1, a)
//	gameEngine.Place(1, 2, b)
//	gameEngine.ResolveRuns(1, 1)
//	gameEngine.ResolveRuns(1, 2)
//	status := gameEngine.Status()
//
// Game Rules:
//
// The pool starts as {1, 2}. Each turn the player is dealt two distinct pool
// values and places each on an empty cell. When run_length or more equal
// numbers line up with a placed number, horizontally or vertically and
// without gaps, they collapse into the placed cell as the next number up.
// A merged number larger than anything in the pool joins the pool. Producing
// target_value wins; filling the board loses.
//
// Loss is checked right after a placement, before runs are resolved, so a
// placement that fills the board loses even if it would have merged. Set
// GameConfig.DeferLossCheck to check after resolution instead.
//
// Resolution happens once per placement. A merge that lines up a new run
// does not trigger another merge until a number is placed there.
package engine
