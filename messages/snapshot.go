package messages

import (
	"numbertrail/server/engine"
	"numbertrail/server/models"
)

// Snapshot renders the game into a StateMessage. The caller must hold the
// session lock.
func Snapshot(g *engine.Game, changed bool) StateMessage {
	level := g.Level()
	size := level.GridSize()

	path := g.Path()
	values := g.Values()
	if path == nil {
		path = []models.GridPosition{}
	}
	if values == nil {
		values = []int{}
	}

	tiles := make([]TileView, 0, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			pos := models.Pos(row, col)
			t := level.TileAt(pos)
			v := TileView{
				Row:    row,
				Col:    col,
				Type:   t.Type,
				InPath: g.InPath(pos),
			}
			switch t.Type {
			case models.TileTarget:
				n := t.TargetNumber
				v.TargetNumber = &n
				v.TargetMet = g.IsTargetMet(pos)
			case models.TileModifier:
				n := t.ModifierValue
				v.Modifier = t.Modifier.String()
				v.ModifierValue = &n
			}
			if n, ok := g.NumberAt(pos); ok {
				v.Number = &n
			}
			tiles = append(tiles, v)
		}
	}

	return StateMessage{
		Changed:  changed,
		Level:    level.Name(),
		GridSize: size,
		Path:     path,
		Values:   values,
		Dragging: g.IsDragging(),
		Complete: g.IsComplete(),
		Tiles:    tiles,
	}
}
