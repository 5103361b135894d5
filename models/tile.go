package models

import (
	"fmt"
	"strings"
)

// TileType is the kind of a grid cell.
type TileType int

const (
	TileEmpty TileType = iota
	TileStart
	TileTarget
	TileModifier
)

var tileTypeNames = map[TileType]string{
	TileEmpty:    "empty",
	TileStart:    "start",
	TileTarget:   "target",
	TileModifier: "modifier",
}

func (t TileType) String() string {
	if name, ok := tileTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TileType(%d)", int(t))
}

func (t TileType) MarshalText() ([]byte, error) {
	name, ok := tileTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("unknown tile type %d", int(t))
	}
	return []byte(name), nil
}

func (t *TileType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for k, name := range tileTypeNames {
		if name == s {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("unknown tile type %q", s)
}

// ModifierType is the effect a modifier tile applies to the running counter.
// The zero value means no type was given and is never valid in a level.
type ModifierType int

const (
	ModifierReset ModifierType = iota + 1
	ModifierAdd
	ModifierSubtract
	ModifierMultiply
	ModifierChangeStep
)

var modifierTypeNames = map[ModifierType]string{
	ModifierReset:      "reset",
	ModifierAdd:        "add",
	ModifierSubtract:   "subtract",
	ModifierMultiply:   "multiply",
	ModifierChangeStep: "change_step",
}

func (m ModifierType) String() string {
	if name, ok := modifierTypeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("ModifierType(%d)", int(m))
}

func (m ModifierType) MarshalText() ([]byte, error) {
	name, ok := modifierTypeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown modifier type %d", int(m))
	}
	return []byte(name), nil
}

// UnmarshalText also accepts "set_increment" and "step" for ChangeStep.
func (m *ModifierType) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "set_increment", "step", "changestep":
		*m = ModifierChangeStep
		return nil
	}
	for k, name := range modifierTypeNames {
		if name == s {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown modifier type %q", s)
}

// Tile is the resolved content of one grid cell.
// TargetNumber is meaningful for TileTarget only; Modifier and ModifierValue
// for TileModifier only.
type Tile struct {
	Position      GridPosition
	Type          TileType
	TargetNumber  int
	Modifier      ModifierType
	ModifierValue int
}

func (t Tile) IsStart() bool    { return t.Type == TileStart }
func (t Tile) IsTarget() bool   { return t.Type == TileTarget }
func (t Tile) IsModifier() bool { return t.Type == TileModifier }
