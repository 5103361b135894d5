package engine

import (
	"testing"

	"numbertrail/server/models"
)

func rowLevel(t *testing.T, mods ...models.ModifierConfig) *models.Level {
	t.Helper()
	start := models.Pos(0, 0)
	l, err := models.LevelConfig{
		Name:      "row",
		GridSize:  6,
		Start:     &start,
		Modifiers: mods,
	}.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return l
}

// firstRow is (0,0)..(0,n-1).
func firstRow(n int) []models.GridPosition {
	ps := make([]models.GridPosition, n)
	for i := range ps {
		ps[i] = models.Pos(0, i)
	}
	return ps
}

func sameInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestValuesPlainPathIsIndex(t *testing.T) {
	got := Values(rowLevel(t), firstRow(5))
	if want := []int{0, 1, 2, 3, 4}; !sameInts(got, want) {
		t.Fatalf("Values=%v want=%v", got, want)
	}
	if Values(rowLevel(t), nil) != nil {
		t.Fatalf("empty path should have no values")
	}
}

func TestValuesModifiers(t *testing.T) {
	at := func(col int, typ models.ModifierType, v int) models.ModifierConfig {
		return models.ModifierConfig{Position: models.Pos(0, col), Type: typ, Value: v}
	}
	tests := []struct {
		name string
		mods []models.ModifierConfig
		want []int
	}{
		{"multiply", []models.ModifierConfig{at(2, models.ModifierMultiply, 2)}, []int{0, 1, 2, 3, 4, 5}},
		{"multiply by three", []models.ModifierConfig{at(3, models.ModifierMultiply, 3)}, []int{0, 1, 2, 6, 7, 8}},
		{"reset", []models.ModifierConfig{at(2, models.ModifierReset, 5)}, []int{0, 1, 5, 6, 7, 8}},
		{"reset to zero", []models.ModifierConfig{at(4, models.ModifierReset, 0)}, []int{0, 1, 2, 3, 0, 1}},
		{"add", []models.ModifierConfig{at(1, models.ModifierAdd, 2)}, []int{0, 2, 3, 4, 5, 6}},
		{"subtract", []models.ModifierConfig{at(3, models.ModifierSubtract, 4)}, []int{0, 1, 2, -2, -1, 0}},
		{"change step", []models.ModifierConfig{at(2, models.ModifierChangeStep, 3)}, []int{0, 1, 2, 5, 8, 11}},
		{"step then multiply", []models.ModifierConfig{
			at(1, models.ModifierChangeStep, 2),
			at(3, models.ModifierMultiply, 2),
		}, []int{0, 1, 3, 6, 8, 10}},
		{"step zero freezes", []models.ModifierConfig{at(1, models.ModifierChangeStep, 0)}, []int{0, 1, 1, 1, 1, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Values(rowLevel(t, tc.mods...), firstRow(6))
			if !sameInts(got, tc.want) {
				t.Fatalf("Values=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestValuesDependOnTraversalOrder(t *testing.T) {
	start := models.Pos(1, 1)
	l, err := models.LevelConfig{
		GridSize: 3,
		Start:    &start,
		Modifiers: []models.ModifierConfig{
			{Position: models.Pos(0, 1), Type: models.ModifierAdd, Value: 10},
			{Position: models.Pos(1, 2), Type: models.ModifierMultiply, Value: 3},
		},
	}.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// add then multiply
	a := Values(l, []models.GridPosition{start, models.Pos(0, 1), models.Pos(0, 2), models.Pos(1, 2)})
	// multiply then add
	b := Values(l, []models.GridPosition{start, models.Pos(1, 2), models.Pos(0, 2), models.Pos(0, 1)})
	if !sameInts(a, []int{0, 10, 11, 33}) {
		t.Fatalf("add-first=%v", a)
	}
	if !sameInts(b, []int{0, 0, 1, 11}) {
		t.Fatalf("multiply-first=%v", b)
	}
}

func TestValueAtIsPure(t *testing.T) {
	l := rowLevel(t, models.ModifierConfig{Position: models.Pos(0, 2), Type: models.ModifierChangeStep, Value: 2})
	ps := firstRow(6)
	want := Values(l, ps)
	for round := 0; round < 3; round++ {
		for i := len(ps) - 1; i >= 0; i-- {
			got, ok := ValueAt(l, ps, i)
			if !ok || got != want[i] {
				t.Fatalf("round %d: ValueAt(%d)=%d,%v want %d", round, i, got, ok, want[i])
			}
		}
	}
	if _, ok := ValueAt(l, ps, len(ps)); ok {
		t.Fatalf("ValueAt past the end should fail")
	}
	if _, ok := ValueAt(l, ps, -1); ok {
		t.Fatalf("ValueAt(-1) should fail")
	}
}
