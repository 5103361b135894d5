package engine

import "numbertrail/server/models"

// Game binds one level to one path and caches the derived numbers and the
// solved flag. The cache is rebuilt after every mutation that changes the trail.
type Game struct {
	level    *models.Level
	path     *Path
	values   []int
	complete bool
}

// NewGame starts an idle game with an empty path on level.
func NewGame(level *models.Level) *Game {
	return &Game{level: level, path: NewPath(level)}
}

// LoadLevel switches to level and discards the current path.
func (g *Game) LoadLevel(level *models.Level) {
	g.level = level
	g.path = NewPath(level)
	g.refresh()
}

// Start handles a press on pos. See Path.Start.
func (g *Game) Start(pos models.GridPosition) bool {
	if !g.path.Start(pos) {
		return false
	}
	g.refresh()
	return true
}

// Extend handles the pointer moving onto pos. See Path.Extend.
func (g *Game) Extend(pos models.GridPosition) bool {
	if !g.path.Extend(pos) {
		return false
	}
	g.refresh()
	return true
}

// End handles the pointer being released.
func (g *Game) End() bool {
	return g.path.End()
}

// Reset clears the path, the drag and the solved flag.
func (g *Game) Reset() bool {
	changed := g.path.Reset()
	g.refresh()
	return changed
}

func (g *Game) refresh() {
	positions := g.path.positions
	g.values = Values(g.level, positions)
	g.complete = isComplete(g.level, positions, g.values)
}

func (g *Game) Level() *models.Level { return g.level }
func (g *Game) IsDragging() bool     { return g.path.IsDragging() }
func (g *Game) IsComplete() bool     { return g.complete }

// Path returns a copy of the trail.
func (g *Game) Path() []models.GridPosition { return g.path.Positions() }

// Values returns a copy of the number at every path index.
func (g *Game) Values() []int { return append([]int(nil), g.values...) }

// ValueAt returns the number at path index i.
func (g *Game) ValueAt(i int) (int, bool) {
	if i < 0 || i >= len(g.values) {
		return 0, false
	}
	return g.values[i], true
}

// InPath reports whether pos is on the trail.
func (g *Game) InPath(pos models.GridPosition) bool { return g.path.Contains(pos) }

// NumberAt returns the number shown on pos, if pos is on the trail.
func (g *Game) NumberAt(pos models.GridPosition) (int, bool) {
	i := g.path.IndexOf(pos)
	if i < 0 {
		return 0, false
	}
	return g.values[i], true
}

// IsTargetMet reports whether the target at pos currently holds its required number.
func (g *Game) IsTargetMet(pos models.GridPosition) bool {
	t := g.level.TileAt(pos)
	if !t.IsTarget() {
		return false
	}
	n, ok := g.NumberAt(pos)
	return ok && n == t.TargetNumber
}
