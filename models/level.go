package models

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidLevel is wrapped by every level construction failure.
var ErrInvalidLevel = errors.New("invalid level")

// TargetConfig places a target tile that must be reached at RequiredNumber.
type TargetConfig struct {
	Position       GridPosition `json:"position" yaml:"position"`
	RequiredNumber int          `json:"required_number" yaml:"required_number"`
}

// ModifierConfig places a modifier tile. Value defaults to 0.
type ModifierConfig struct {
	Position GridPosition `json:"position" yaml:"position"`
	Type     ModifierType `json:"type" yaml:"type"`
	Value    int          `json:"value,omitempty" yaml:"value,omitempty"`
}

// LevelConfig is the authoring form of a level, as stored and shipped in packs.
type LevelConfig struct {
	Name      string           `json:"name" yaml:"name"`
	GridSize  int              `json:"grid_size" yaml:"grid_size"`
	Start     *GridPosition    `json:"start" yaml:"start"`
	Targets   []TargetConfig   `json:"targets" yaml:"targets"`
	Modifiers []ModifierConfig `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
}

// NewSimpleLevelConfig builds a config with the start tile in the centre.
func NewSimpleLevelConfig(name string, gridSize int, targets []TargetConfig) LevelConfig {
	start := Pos(gridSize/2, gridSize/2)
	return LevelConfig{
		Name:     name,
		GridSize: gridSize,
		Start:    &start,
		Targets:  targets,
	}
}

// DefaultLevelConfig is the 5x5 starter level: reach (1,3) at number 6.
func DefaultLevelConfig() LevelConfig {
	return NewSimpleLevelConfig("default", 5, []TargetConfig{
		{Position: Pos(1, 3), RequiredNumber: 6},
	})
}

// Clone returns a deep copy that shares no memory with c.
func (c LevelConfig) Clone() LevelConfig {
	out := c
	if c.Start != nil {
		start := *c.Start
		out.Start = &start
	}
	if c.Targets != nil {
		out.Targets = append([]TargetConfig(nil), c.Targets...)
	}
	if c.Modifiers != nil {
		out.Modifiers = append([]ModifierConfig(nil), c.Modifiers...)
	}
	return out
}

// Build validates the config and returns the immutable Level it describes.
func (c LevelConfig) Build() (*Level, error) {
	tiles := make(map[GridPosition]Tile, 1+len(c.Targets)+len(c.Modifiers))
	put := func(t Tile) error {
		if prev, taken := tiles[t.Position]; taken {
			return fmt.Errorf("%w: %s tile at %s overlaps %s tile", ErrInvalidLevel, t.Type, t.Position, prev.Type)
		}
		tiles[t.Position] = t
		return nil
	}

	if c.Start != nil {
		if err := put(Tile{Position: *c.Start, Type: TileStart}); err != nil {
			return nil, err
		}
	}
	for _, t := range c.Targets {
		if err := put(Tile{Position: t.Position, Type: TileTarget, TargetNumber: t.RequiredNumber}); err != nil {
			return nil, err
		}
	}
	for _, m := range c.Modifiers {
		if m.Type == 0 {
			return nil, fmt.Errorf("%w: modifier at %s has no type", ErrInvalidLevel, m.Position)
		}
		if _, ok := modifierTypeNames[m.Type]; !ok {
			return nil, fmt.Errorf("%w: unknown modifier type %d at %s", ErrInvalidLevel, int(m.Type), m.Position)
		}
		if err := put(Tile{Position: m.Position, Type: TileModifier, Modifier: m.Type, ModifierValue: m.Value}); err != nil {
			return nil, err
		}
	}

	return NewLevel(c.Name, c.GridSize, tiles)
}

// Level is a validated, immutable puzzle definition.
type Level struct {
	name      string
	gridSize  int
	start     GridPosition
	tiles     map[GridPosition]Tile
	targets   []Tile
	modifiers []Tile
}

// NewLevel validates tiles against gridSize. Exactly one start tile is
// required and every configured position must lie on the grid. Empty
// entries in tiles are ignored. The map is copied.
func NewLevel(name string, gridSize int, tiles map[GridPosition]Tile) (*Level, error) {
	if gridSize < 1 {
		return nil, fmt.Errorf("%w: grid size %d", ErrInvalidLevel, gridSize)
	}

	l := &Level{
		name:     name,
		gridSize: gridSize,
		tiles:    make(map[GridPosition]Tile, len(tiles)),
	}
	starts := 0
	for pos, t := range tiles {
		if t.Type == TileEmpty {
			continue
		}
		if !pos.IsWithinBounds(gridSize) {
			return nil, fmt.Errorf("%w: %s tile at %s outside %dx%d grid", ErrInvalidLevel, t.Type, pos, gridSize, gridSize)
		}
		t.Position = pos
		switch t.Type {
		case TileStart:
			starts++
			l.start = pos
		case TileTarget:
			l.targets = append(l.targets, t)
		case TileModifier:
			l.modifiers = append(l.modifiers, t)
		default:
			return nil, fmt.Errorf("%w: unknown tile type %d at %s", ErrInvalidLevel, int(t.Type), pos)
		}
		l.tiles[pos] = t
	}
	switch {
	case starts == 0:
		return nil, fmt.Errorf("%w: no start tile", ErrInvalidLevel)
	case starts > 1:
		return nil, fmt.Errorf("%w: %d start tiles", ErrInvalidLevel, starts)
	}

	sortRowMajor(l.targets)
	sortRowMajor(l.modifiers)
	return l, nil
}

func sortRowMajor(tiles []Tile) {
	sort.Slice(tiles, func(i, j int) bool {
		a, b := tiles[i].Position, tiles[j].Position
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
}

func (l *Level) Name() string                { return l.name }
func (l *Level) GridSize() int               { return l.gridSize }
func (l *Level) StartPosition() GridPosition { return l.start }

// IsWithinBounds reports whether pos is on this level's grid.
func (l *Level) IsWithinBounds(pos GridPosition) bool {
	return pos.IsWithinBounds(l.gridSize)
}

// TileAt returns the tile at pos; unconfigured and off-grid cells are empty.
func (l *Level) TileAt(pos GridPosition) Tile {
	if t, ok := l.tiles[pos]; ok {
		return t
	}
	return Tile{Position: pos, Type: TileEmpty}
}

// Targets returns the target tiles in row-major order.
func (l *Level) Targets() []Tile {
	return append([]Tile(nil), l.targets...)
}

// Modifiers returns the modifier tiles in row-major order.
func (l *Level) Modifiers() []Tile {
	return append([]Tile(nil), l.modifiers...)
}

// Config returns the authoring form of the level.
func (l *Level) Config() LevelConfig {
	start := l.start
	c := LevelConfig{
		Name:     l.name,
		GridSize: l.gridSize,
		Start:    &start,
		Targets:  make([]TargetConfig, 0, len(l.targets)),
	}
	for _, t := range l.targets {
		c.Targets = append(c.Targets, TargetConfig{Position: t.Position, RequiredNumber: t.TargetNumber})
	}
	for _, m := range l.modifiers {
		c.Modifiers = append(c.Modifiers, ModifierConfig{Position: m.Position, Type: m.Modifier, Value: m.ModifierValue})
	}
	return c
}
