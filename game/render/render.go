// Package render draws boards as fixed-width text matrices.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/mcp-training/mergegame/game/engine"
)

// RenderGrid draws a row-major board. Every cell is as wide as the target
// value's digit count so boards stay aligned up to the winning number.
//
//	   1 2 3
//	  -------
//	1 |1| |2|
//	2 | | | |
//	3 | |3| |
//	  -------
func RenderGrid(values [][]int, targetValue int) string {
	width := len(strconv.Itoa(targetValue))
	dimension := len(values)

	var b strings.Builder

	b.WriteString("   ")
	for col := 1; col <= dimension; col++ {
		b.WriteString(strconv.Itoa(col))
		b.WriteString(strings.Repeat(" ", width))
	}
	b.WriteString("\n")

	border := "  " + strings.Repeat("-"+strings.Repeat("-", width), dimension) + "-\n"
	b.WriteString(border)

	for i, row := range values {
		fmt.Fprintf(&b, "%d |", i+1)
		for _, v := range row {
			if v == 0 {
				b.WriteString(strings.Repeat(" ", width))
			} else {
				fmt.Fprintf(&b, "%*d", width, v)
			}
			b.WriteString("|")
		}
		b.WriteString("\n")
	}

	b.WriteString(border)
	return b.String()
}

// RenderState draws the board of a game snapshot followed by its pool
func RenderState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	b.WriteString(RenderGrid(state.Grid, state.TargetValue))
	fmt.Fprintf(&b, "\nPool: %s | Target: %d | Run: %d | Status: %s\n",
		joinInts(state.Pool), state.TargetValue, state.RunLength, state.Status)
	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
