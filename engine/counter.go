package engine

import "numbertrail/server/models"

// Values returns the number assigned to every index of positions.
//
// The walk keeps a counter (starting at 0 on the start tile) and a step
// (starting at 1). Plain and target cells add step; modifier cells apply
// their effect instead. A change_step cell advances with the old step and
// then installs its value as the new step for later plain cells.
func Values(level *models.Level, positions []models.GridPosition) []int {
	if len(positions) == 0 {
		return nil
	}
	values := make([]int, len(positions))
	counter, step := 0, 1
	for i := 1; i < len(positions); i++ {
		t := level.TileAt(positions[i])
		if t.IsModifier() {
			switch t.Modifier {
			case models.ModifierReset:
				counter = t.ModifierValue
			case models.ModifierAdd:
				counter += t.ModifierValue
			case models.ModifierSubtract:
				counter -= t.ModifierValue
			case models.ModifierMultiply:
				counter *= t.ModifierValue
			case models.ModifierChangeStep:
				counter += step
				step = t.ModifierValue
			}
		} else {
			counter += step
		}
		values[i] = counter
	}
	return values
}

// ValueAt returns the number at index i of positions.
func ValueAt(level *models.Level, positions []models.GridPosition, i int) (int, bool) {
	if i < 0 || i >= len(positions) {
		return 0, false
	}
	return Values(level, positions[:i+1])[i], true
}
