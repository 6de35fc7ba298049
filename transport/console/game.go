// Package console plays a game in a terminal over plain text streams.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
	"github.com/wricardo/mcp-training/mergegame/game/render"
)

// ErrInputClosed is returned when the input ends before the game does
var ErrInputClosed = errors.New("input closed")

const menu = "Welcome to the merge board game\n" +
	"Choose an option:\n\n" +
	"1. Play\n" +
	"2. Quit\n\n" +
	"Your option: "

// Game runs the interactive loop for a single engine
type Game struct {
	engine  engine.Engine
	scanner *bufio.Scanner
	out     io.Writer
}

// NewGame creates a console game reading commands from in and writing to out
func NewGame(e engine.Engine, in io.Reader, out io.Writer) *Game {
	return &Game{
		engine:  e,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Run shows the menu and plays turns until the game ends, the player quits
// or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	fmt.Fprint(g.out, menu)

	for {
		line, err := g.readLine()
		if err != nil {
			return err
		}
		switch line {
		case "1":
			return g.play(ctx)
		case "2":
			fmt.Fprintln(g.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(g.out, "Invalid option")
		}
	}
}

func (g *Game) play(ctx context.Context) error {
	fmt.Fprintln(g.out, g.engine.GetState().Message)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		state := g.engine.GetState()
		fmt.Fprint(g.out, render.RenderGrid(state.Grid, state.TargetValue))

		first, second := g.engine.DrawPair()
		fmt.Fprintf(g.out, "\nPair in turn: %d & %d\n", first, second)

		var placed []engine.Position
		resolvedFirst := false
		for i, value := range []int{first, second} {
			pos, err := g.readPlacement(i, value)
			if err != nil {
				return err
			}
			placed = append(placed, pos)

			if g.engine.Status().IsTerminal() {
				break
			}
			// Deferred loss check: the first number filled the board, so it
			// must merge before the second can go anywhere.
			if i == 0 && !g.engine.HasAnyEmptyCell() {
				if _, err := g.engine.ResolveRuns(pos.Row, pos.Col); err != nil {
					return err
				}
				resolvedFirst = true
				if g.engine.Status().IsTerminal() {
					break
				}
			}
		}

		for i, pos := range placed {
			if i == 0 && resolvedFirst {
				continue
			}
			if _, err := g.engine.ResolveRuns(pos.Row, pos.Col); err != nil {
				return err
			}
		}

		switch g.engine.Status() {
		case engine.Won, engine.Lost:
			final := g.engine.GetState()
			fmt.Fprint(g.out, render.RenderGrid(final.Grid, final.TargetValue))
			fmt.Fprintln(g.out, final.Message)
			return nil
		}
	}
}

// readPlacement prompts until value lands on an empty cell
func (g *Game) readPlacement(index, value int) (engine.Position, error) {
	ordinal := "first"
	if index == 1 {
		ordinal = "second"
	}

	for {
		fmt.Fprintf(g.out, "Enter the cell for the %s number (%d): ", ordinal, value)
		line, err := g.readLine()
		if err != nil {
			return engine.Position{}, err
		}

		pos, ok := parsePosition(line)
		if !ok {
			fmt.Fprintln(g.out, "Please use the format row,col. Example: 1,2")
			continue
		}

		result, err := g.engine.Place(pos.Row, pos.Col, value)
		switch {
		case errors.Is(err, engine.ErrInvalidCoordinate):
			fmt.Fprintf(g.out, "That cell is outside the %dx%d board.\n", g.engine.Dimension(), g.engine.Dimension())
			continue
		case err != nil:
			return engine.Position{}, err
		case result == engine.Occupied:
			fmt.Fprintln(g.out, g.engine.GetConfig().Messages.Occupied)
			continue
		}
		return pos, nil
	}
}

func (g *Game) readLine() (string, error) {
	if !g.scanner.Scan() {
		if err := g.scanner.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(g.scanner.Text()), nil
}

func parsePosition(s string) (engine.Position, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return engine.Position{}, false
	}
	row, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return engine.Position{}, false
	}
	col, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return engine.Position{}, false
	}
	return engine.Position{Row: row, Col: col}, true
}
