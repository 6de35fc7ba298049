package console

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

func newTestEngine(t *testing.T, dimension, target, runLength int) *engine.GameEngine {
	t.Helper()
	config := &engine.GameConfig{
		Name:        "console",
		Description: "console test",
		Dimension:   dimension,
		TargetValue: target,
		RunLength:   runLength,
	}
	e, err := engine.NewEngineWithRand(config, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return e
}

func TestGame_Quit(t *testing.T) {
	var out bytes.Buffer
	game := NewGame(newTestEngine(t, 3, 4, 2), strings.NewReader("2\n"), &out)

	if err := game.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Errorf("Expected goodbye, got:\n%s", out.String())
	}
}

func TestGame_InputClosed(t *testing.T) {
	var out bytes.Buffer
	game := NewGame(newTestEngine(t, 3, 4, 2), strings.NewReader(""), &out)

	if err := game.Run(context.Background()); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Expected ErrInputClosed, got %v", err)
	}
}

func TestGame_PlayUntilLoss(t *testing.T) {
	// On a 2x2 board with pool {1,2} every pair is (1,2) or (2,1): the
	// diagonal never merges and the second turn fills the board.
	input := strings.Join([]string{
		"x",   // invalid option
		"3",   // invalid option
		"1",   // play
		"foo", // malformed
		"1,1",
		"1,1", // occupied
		"2,2",
		"9,9", // outside the board
		"1,2",
		"2,1",
	}, "\n") + "\n"

	var out bytes.Buffer
	e := newTestEngine(t, 2, 9, 2)
	game := NewGame(e, strings.NewReader(input), &out)

	if err := game.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v\n%s", err, out.String())
	}

	output := out.String()
	expected := []string{
		"Invalid option",
		"Pair in turn:",
		"Please use the format row,col",
		engine.DefaultMessages().Occupied,
		"outside the 2x2 board",
		engine.DefaultMessages().Lost,
	}
	for _, s := range expected {
		if !strings.Contains(output, s) {
			t.Errorf("Expected output to contain %q, got:\n%s", s, output)
		}
	}

	if e.Status() != engine.Lost {
		t.Errorf("Expected lost, got %s", e.Status())
	}
	if strings.Count(output, "Pair in turn:") != 2 {
		t.Errorf("Expected two turns, got:\n%s", output)
	}
}

func TestGame_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	game := NewGame(newTestEngine(t, 3, 4, 2), strings.NewReader("1\n"), &out)

	if err := game.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input string
		want  engine.Position
		ok    bool
	}{
		{"1,2", engine.Position{Row: 1, Col: 2}, true},
		{" 3 , 4 ", engine.Position{Row: 3, Col: 4}, true},
		{"1", engine.Position{}, false},
		{"1,2,3", engine.Position{}, false},
		{"a,b", engine.Position{}, false},
		{"", engine.Position{}, false},
	}

	for _, tt := range tests {
		got, ok := parsePosition(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parsePosition(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
