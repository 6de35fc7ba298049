package engine

import "fmt"

// ResolveRuns merges the runs that pass through (row, col).
//
// Both axes are evaluated against the pre-merge board and every qualifying
// run is applied: its cells are emptied except the origin, which becomes
// value+1. Runs created by the merge are not re-scanned. Once the game is
// over the board is left untouched.
func (e *GameEngine) ResolveRuns(row, col int) (MergeReport, error) {
	if err := e.grid.check(row, col); err != nil {
		return MergeReport{}, fmt.Errorf("%w: %w", ErrInvalidCoordinate, err)
	}

	report := MergeReport{
		Origin: Position{Row: row, Col: col},
		Status: e.status,
	}
	if e.status.IsTerminal() {
		report.Value = e.grid.cells[row-1][col-1].Value
		return report, nil
	}

	origin := e.grid.cells[row-1][col-1]
	report.Value = origin.Value
	if origin.IsEmpty() {
		e.checkDeferredLoss(&report)
		return report, nil
	}

	horizontal := e.collectRun(row, col, 0, 1)
	vertical := e.collectRun(row, col, 1, 0)

	if horizontal.Length >= e.config.RunLength {
		horizontal.Axis = "horizontal"
		report.Horizontal = &horizontal
	}
	if vertical.Length >= e.config.RunLength {
		vertical.Axis = "vertical"
		report.Vertical = &vertical
	}

	if report.Horizontal == nil && report.Vertical == nil {
		e.checkDeferredLoss(&report)
		return report, nil
	}

	for _, run := range []*Run{report.Horizontal, report.Vertical} {
		if run == nil {
			continue
		}
		for _, p := range run.Cleared {
			e.grid.cells[p.Row-1][p.Col-1] = Cell{}
		}
	}

	merged := origin.Value + 1
	e.grid.cells[row-1][col-1].Value = merged
	e.merges++
	report.Merged = true
	report.Value = merged
	e.message = fmt.Sprintf(e.config.Messages.Merged, merged)

	if merged == e.config.TargetValue {
		e.status = Won
		e.message = fmt.Sprintf(e.config.Messages.Victory, merged)
	} else if highest, err := e.pool.Max(); err == nil && merged > highest {
		if err := e.pool.Insert(merged); err != nil {
			return report, err
		}
		report.PoolGrew = true
	}

	// A merge always frees at least one cell, so no deferred loss check here.
	report.Status = e.status

	e.record(HistoryEntry{
		Kind:    "merge",
		Row:     row,
		Col:     col,
		Value:   merged,
		Result:  mergeResult(report),
		Cleared: report.ClearedCount(),
	})
	return report, nil
}

// checkDeferredLoss applies loss detection after resolution when the
// configuration postpones it past placement.
func (e *GameEngine) checkDeferredLoss(report *MergeReport) {
	if e.config.DeferLossCheck && e.status == Playing && !e.grid.HasAnyEmptyCell() {
		e.status = Lost
		e.message = e.config.Messages.Lost
		e.record(HistoryEntry{Kind: "loss"})
	}
	report.Status = e.status
}

// collectRun gathers the contiguous cells equal to the origin along the
// axis (dr, dc), scanning both directions. The origin is counted in Length
// but not listed in Cleared.
func (e *GameEngine) collectRun(row, col, dr, dc int) Run {
	value := e.grid.cells[row-1][col-1].Value
	run := Run{Length: 1, Cleared: []Position{}}

	for _, sign := range []int{1, -1} {
		r, c := row+sign*dr, col+sign*dc
		for e.grid.InBounds(r, c) {
			cell := e.grid.cells[r-1][c-1]
			if cell.IsEmpty() || cell.Value != value {
				break
			}
			run.Cleared = append(run.Cleared, Position{Row: r, Col: c})
			run.Length++
			r, c = r+sign*dr, c+sign*dc
		}
	}

	return run
}

func mergeResult(report MergeReport) string {
	switch {
	case report.Horizontal != nil && report.Vertical != nil:
		return "merged_both"
	case report.Horizontal != nil:
		return "merged_horizontal"
	default:
		return "merged_vertical"
	}
}
