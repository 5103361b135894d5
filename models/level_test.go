package models

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGridPositionAdjacency(t *testing.T) {
	tests := []struct {
		a, b GridPosition
		want bool
	}{
		{Pos(2, 2), Pos(2, 3), true},
		{Pos(2, 2), Pos(1, 2), true},
		{Pos(2, 2), Pos(3, 3), false}, // diagonal
		{Pos(2, 2), Pos(2, 2), false},
		{Pos(2, 2), Pos(2, 4), false},
	}
	for _, tc := range tests {
		if got := tc.a.IsAdjacentTo(tc.b); got != tc.want {
			t.Fatalf("%s.IsAdjacentTo(%s)=%v want=%v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestGridPositionBounds(t *testing.T) {
	if !Pos(0, 4).IsWithinBounds(5) {
		t.Fatalf("(0,4) should be inside a 5x5 grid")
	}
	for _, p := range []GridPosition{Pos(-1, 0), Pos(0, 5), Pos(5, 5)} {
		if p.IsWithinBounds(5) {
			t.Fatalf("%s should be outside a 5x5 grid", p)
		}
	}
}

func TestDefaultLevelBuilds(t *testing.T) {
	l, err := DefaultLevelConfig().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if l.GridSize() != 5 || l.StartPosition() != Pos(2, 2) {
		t.Fatalf("unexpected level: size=%d start=%s", l.GridSize(), l.StartPosition())
	}
	if !l.TileAt(Pos(2, 2)).IsStart() {
		t.Fatalf("start tile missing")
	}
	targets := l.Targets()
	if len(targets) != 1 || targets[0].Position != Pos(1, 3) || targets[0].TargetNumber != 6 {
		t.Fatalf("unexpected targets: %+v", targets)
	}
	if got := l.TileAt(Pos(0, 0)).Type; got != TileEmpty {
		t.Fatalf("unconfigured tile type=%s want empty", got)
	}
	if got := l.TileAt(Pos(9, 9)).Type; got != TileEmpty {
		t.Fatalf("off-grid tile type=%s want empty", got)
	}
}

func TestBuildRejectsInvalidLevels(t *testing.T) {
	start := Pos(2, 2)
	outside := Pos(5, 0)
	cases := []struct {
		name string
		cfg  LevelConfig
	}{
		{"no start", LevelConfig{GridSize: 5}},
		{"zero grid", LevelConfig{GridSize: 0, Start: &start}},
		{"start outside", LevelConfig{GridSize: 5, Start: &outside}},
		{"target outside", LevelConfig{GridSize: 5, Start: &start, Targets: []TargetConfig{{Position: Pos(0, -1), RequiredNumber: 1}}}},
		{"modifier outside", LevelConfig{GridSize: 3, Start: &start, Modifiers: []ModifierConfig{{Position: Pos(3, 3), Type: ModifierAdd, Value: 1}}}},
		{"overlap", LevelConfig{GridSize: 5, Start: &start, Targets: []TargetConfig{{Position: start, RequiredNumber: 0}}}},
		{"missing modifier type", LevelConfig{GridSize: 5, Start: &start, Modifiers: []ModifierConfig{{Position: Pos(0, 0), Value: 7}}}},
		{"unknown modifier", LevelConfig{GridSize: 5, Start: &start, Modifiers: []ModifierConfig{{Position: Pos(0, 0), Type: ModifierType(42)}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Build()
			if !errors.Is(err, ErrInvalidLevel) {
				t.Fatalf("Build err=%v want ErrInvalidLevel", err)
			}
		})
	}
}

func TestNewLevelRejectsMultipleStarts(t *testing.T) {
	tiles := map[GridPosition]Tile{
		Pos(0, 0): {Type: TileStart},
		Pos(1, 1): {Type: TileStart},
	}
	if _, err := NewLevel("two", 3, tiles); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("NewLevel err=%v want ErrInvalidLevel", err)
	}
}

func TestNewLevelCopiesTiles(t *testing.T) {
	tiles := map[GridPosition]Tile{Pos(0, 0): {Type: TileStart}}
	l, err := NewLevel("copy", 2, tiles)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	tiles[Pos(1, 1)] = Tile{Type: TileTarget, TargetNumber: 2}
	if len(l.Targets()) != 0 {
		t.Fatalf("level changed after caller mutated its map")
	}
}

func TestTargetsAndModifiersRowMajor(t *testing.T) {
	start := Pos(0, 0)
	cfg := LevelConfig{
		Name:     "order",
		GridSize: 4,
		Start:    &start,
		Targets: []TargetConfig{
			{Position: Pos(3, 1), RequiredNumber: 5},
			{Position: Pos(1, 2), RequiredNumber: 3},
			{Position: Pos(1, 0), RequiredNumber: 1},
		},
		Modifiers: []ModifierConfig{
			{Position: Pos(2, 2), Type: ModifierMultiply, Value: 2},
			{Position: Pos(0, 3), Type: ModifierReset},
		},
	}
	l, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []GridPosition{Pos(1, 0), Pos(1, 2), Pos(3, 1)}
	for i, tgt := range l.Targets() {
		if tgt.Position != want[i] {
			t.Fatalf("target %d at %s want %s", i, tgt.Position, want[i])
		}
	}
	mods := l.Modifiers()
	if mods[0].Position != Pos(0, 3) || mods[0].Modifier != ModifierReset {
		t.Fatalf("unexpected first modifier: %+v", mods[0])
	}
	if mods[1].ModifierValue != 2 {
		t.Fatalf("unexpected multiply value: %+v", mods[1])
	}
}

func TestConfigRoundTripsThroughBuild(t *testing.T) {
	start := Pos(1, 1)
	cfg := LevelConfig{
		Name:      "round",
		GridSize:  3,
		Start:     &start,
		Targets:   []TargetConfig{{Position: Pos(0, 2), RequiredNumber: 4}},
		Modifiers: []ModifierConfig{{Position: Pos(2, 0), Type: ModifierChangeStep, Value: 2}},
	}
	l, err := cfg.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	again, err := l.Config().Build()
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if again.TileAt(Pos(2, 0)) != l.TileAt(Pos(2, 0)) || again.StartPosition() != start {
		t.Fatalf("rebuilt level differs")
	}
}

func TestModifierTypeText(t *testing.T) {
	var cfg ModifierConfig
	if err := json.Unmarshal([]byte(`{"position":{"row":1,"col":2},"type":"change_step","value":3}`), &cfg); err != nil {
		t.Fatalf("json: %v", err)
	}
	if cfg.Type != ModifierChangeStep || cfg.Value != 3 {
		t.Fatalf("json decoded %+v", cfg)
	}

	var fromYAML []ModifierConfig
	doc := "- position: {row: 0, col: 0}\n  type: Multiply\n  value: 2\n- position: {row: 0, col: 1}\n  type: set_increment\n- position: {row: 0, col: 2}\n  type: reset\n"
	if err := yaml.Unmarshal([]byte(doc), &fromYAML); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if fromYAML[0].Type != ModifierMultiply || fromYAML[1].Type != ModifierChangeStep {
		t.Fatalf("yaml decoded %+v", fromYAML)
	}
	if fromYAML[2].Value != 0 {
		t.Fatalf("omitted value should default to 0, got %d", fromYAML[2].Value)
	}

	var bad ModifierType
	if err := bad.UnmarshalText([]byte("divide")); err == nil {
		t.Fatalf("expected error for unknown modifier")
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultLevelConfig()
	cfg.Modifiers = []ModifierConfig{{Position: Pos(0, 0), Type: ModifierAdd, Value: 2}}
	c := cfg.Clone()
	c.Start.Col = 0
	c.Targets[0].RequiredNumber = 1
	c.Modifiers[0].Value = 9
	if cfg.Start.Col != 2 || cfg.Targets[0].RequiredNumber != 6 || cfg.Modifiers[0].Value != 2 {
		t.Fatalf("clone shares memory with the original: %+v", cfg)
	}
}
