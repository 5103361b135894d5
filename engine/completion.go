package engine

import "numbertrail/server/models"

// IsComplete reports whether every target on level is on the path at an
// index whose value equals its required number. A level without targets is
// never complete.
func IsComplete(level *models.Level, positions []models.GridPosition) bool {
	return isComplete(level, positions, Values(level, positions))
}

func isComplete(level *models.Level, positions []models.GridPosition, values []int) bool {
	targets := level.Targets()
	if len(targets) == 0 {
		return false
	}
	for _, t := range targets {
		if !targetMet(t, positions, values) {
			return false
		}
	}
	return true
}

// IsTargetMet reports whether the target tile at pos is satisfied. Non-target
// positions are never met.
func IsTargetMet(level *models.Level, positions []models.GridPosition, pos models.GridPosition) bool {
	t := level.TileAt(pos)
	if !t.IsTarget() {
		return false
	}
	return targetMet(t, positions, Values(level, positions))
}

func targetMet(t models.Tile, positions []models.GridPosition, values []int) bool {
	for i, p := range positions {
		if p == t.Position {
			return values[i] == t.TargetNumber
		}
	}
	return false
}
