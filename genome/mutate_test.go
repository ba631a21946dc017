package genome

import (
	"math/rand"
	"strings"
	"testing"
)

func TestMutateRateZero(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(1)), 0, 0)

	genome := "[Cell][CanMove]"
	for i := 0; i < 100; i++ {
		if got := m.Mutate(genome); got != genome {
			t.Fatalf("rate 0 mutated genome: %q", got)
		}
	}
}

// With rate 1 every call rolls a mutation. A point mutation can pick
// the same character it replaces, so a small fraction of outputs still
// equal the input; over 200 trials the expected unchanged count is
// well under 10.
func TestMutateRateOneAlwaysRolls(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(42)), 1.0, 0)

	genome := "[Cell][CanMove]"
	changed := 0
	for i := 0; i < 200; i++ {
		if m.Mutate(genome) != genome {
			changed++
		}
	}
	if changed < 150 {
		t.Errorf("only %d/200 trials changed the genome", changed)
	}
}

func TestPointMutate(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(7)), 1.0, 0)

	genome := "[Cell]"
	got := m.pointMutate(genome)
	if len(got) != len(genome) {
		t.Errorf("point mutation changed length: %q -> %q", genome, got)
	}

	if got := m.pointMutate(""); got != "" {
		t.Errorf("point mutation on empty genome = %q", got)
	}
}

func TestInsertTrait(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(7)), 1.0, 0)

	genome := "[Cell]"
	got := m.insertTrait(genome)
	if !strings.HasPrefix(got, genome) {
		t.Fatalf("insert did not append: %q", got)
	}
	added := strings.TrimPrefix(got, genome)
	found := false
	for _, trait := range insertCatalog {
		if added == trait {
			found = true
		}
	}
	if !found {
		t.Errorf("inserted %q, not in catalog", added)
	}
}

func TestInsertTraitRespectsMaxLength(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(7)), 1.0, 10)

	genome := "[Cell]"
	if got := m.insertTrait(genome); got != genome {
		t.Errorf("insert exceeded max length: %q", got)
	}
}

func TestDeleteTrait(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(7)), 1.0, 0)

	tests := []struct {
		name   string
		genome string
		want   string
	}{
		{"single token no-op", "[Cell]", "[Cell]"},
		{"only cell tokens no-op", "[Cell][Cell]", "[Cell][Cell]"},
		{"one removable", "[Cell][CanMove]", "[Cell]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.deleteTrait(tt.genome); got != tt.want {
				t.Errorf("deleteTrait(%q) = %q, want %q", tt.genome, got, tt.want)
			}
		})
	}
}

func TestDeleteTraitNeverRemovesCell(t *testing.T) {
	m := NewMutator(rand.New(rand.NewSource(3)), 1.0, 0)

	for i := 0; i < 100; i++ {
		got := m.deleteTrait("[Cell][CanMove][CanEat][Color:Red]")
		if !strings.Contains(got, "[Cell]") {
			t.Fatalf("delete removed Cell token: %q", got)
		}
	}
}
