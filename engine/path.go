// Package engine holds the puzzle rules: how a path is drawn across a level,
// which number each path cell receives, and when the level is solved.
//
// Nothing here blocks or performs I/O. A Path or Game is not safe for
// concurrent use; callers serialize access.
package engine

import (
	"github.com/zyedidia/generic/mapset"

	"numbertrail/server/models"
)

// Path is the player's trail across a level together with the drag flag.
//
// Invariants held after every call:
//   - positions is empty or positions[0] is the level's start tile
//   - consecutive positions are grid-adjacent
//   - no position appears twice
//
// Rejected gestures never return errors; they leave the path unchanged and
// report changed == false.
type Path struct {
	level     *models.Level
	positions []models.GridPosition
	visited   mapset.Set[models.GridPosition]
	dragging  bool
}

// NewPath returns an empty, idle path on level.
func NewPath(level *models.Level) *Path {
	return &Path{
		level:   level,
		visited: mapset.New[models.GridPosition](),
	}
}

// Start begins a drag. Pressing the start tile restarts the path from it;
// pressing the current tail resumes the existing trail. Anything else, or a
// call while already dragging, is ignored.
func (p *Path) Start(pos models.GridPosition) bool {
	if p.dragging {
		return false
	}
	if p.level.TileAt(pos).IsStart() {
		p.clear()
		p.push(pos)
		p.dragging = true
		return true
	}
	if last, ok := p.Last(); ok && last == pos {
		p.dragging = true
		return true
	}
	return false
}

// Extend moves the drag onto pos. Returning to the second-to-last cell undoes
// one step; revisiting any other path cell, leaving the grid or jumping to a
// non-adjacent cell is ignored.
func (p *Path) Extend(pos models.GridPosition) bool {
	if !p.dragging || !p.level.IsWithinBounds(pos) {
		return false
	}
	n := len(p.positions)
	if n >= 2 && p.positions[n-2] == pos {
		p.pop()
		return true
	}
	if p.visited.Has(pos) {
		return false
	}
	last, ok := p.Last()
	if !ok || !last.IsAdjacentTo(pos) {
		return false
	}
	p.push(pos)
	return true
}

// End finishes the drag and keeps the trail. It reports whether a drag was active.
func (p *Path) End() bool {
	if !p.dragging {
		return false
	}
	p.dragging = false
	return true
}

// Reset clears the trail and stops dragging. It reports whether anything changed.
func (p *Path) Reset() bool {
	changed := p.dragging || len(p.positions) > 0
	p.clear()
	p.dragging = false
	return changed
}

func (p *Path) IsDragging() bool { return p.dragging }
func (p *Path) Len() int         { return len(p.positions) }

// Positions returns a copy of the trail in visiting order.
func (p *Path) Positions() []models.GridPosition {
	return append([]models.GridPosition(nil), p.positions...)
}

// Last returns the tail of the trail.
func (p *Path) Last() (models.GridPosition, bool) {
	if len(p.positions) == 0 {
		return models.GridPosition{}, false
	}
	return p.positions[len(p.positions)-1], true
}

// Contains reports whether pos is on the trail.
func (p *Path) Contains(pos models.GridPosition) bool {
	return p.visited.Has(pos)
}

// IndexOf returns the path index of pos, or -1.
func (p *Path) IndexOf(pos models.GridPosition) int {
	if !p.visited.Has(pos) {
		return -1
	}
	for i, q := range p.positions {
		if q == pos {
			return i
		}
	}
	return -1
}

func (p *Path) push(pos models.GridPosition) {
	p.positions = append(p.positions, pos)
	p.visited.Put(pos)
}

func (p *Path) pop() {
	last := p.positions[len(p.positions)-1]
	p.positions = p.positions[:len(p.positions)-1]
	p.visited.Remove(last)
}

func (p *Path) clear() {
	p.positions = p.positions[:0]
	p.visited = mapset.New[models.GridPosition]()
}
