package render

import (
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

func TestRenderGrid(t *testing.T) {
	tests := []struct {
		name     string
		values   [][]int
		target   int
		expected string
	}{
		{
			name:   "single digit target",
			values: [][]int{{1, 0, 2}, {0, 0, 0}, {0, 3, 0}},
			target: 4,
			expected: "   1 2 3 \n" +
				"  -------\n" +
				"1 |1| |2|\n" +
				"2 | | | |\n" +
				"3 | |3| |\n" +
				"  -------\n",
		},
		{
			name:   "two digit target pads cells",
			values: [][]int{{10, 0}, {0, 9}},
			target: 12,
			expected: "   1  2  \n" +
				"  -------\n" +
				"1 |10|  |\n" +
				"2 |  | 9|\n" +
				"  -------\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderGrid(tt.values, tt.target)
			if got != tt.expected {
				t.Errorf("Unexpected rendering:\n%s\nexpected:\n%s", got, tt.expected)
			}
		})
	}
}

func TestRenderState(t *testing.T) {
	e, err := engine.New(3, 4, 2)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if _, err := e.Place(2, 2, 1); err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	out := RenderState(e.GetState())
	if !strings.Contains(out, "2 | |1| |") {
		t.Errorf("Expected placed value in rendering, got:\n%s", out)
	}
	if !strings.Contains(out, "Pool: 1, 2 | Target: 4 | Run: 2 | Status: playing") {
		t.Errorf("Expected summary line, got:\n%s", out)
	}

	if RenderState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}
