package genome

import (
	"math/rand"
	"strings"
)

// mutationAlphabet is the character pool for point mutations.
const mutationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz:[]"

// insertCatalog is the fixed set of traits an insert mutation can append.
var insertCatalog = []string{"[CanMove]", "[CanEat]", "[Color:Red]", "[Color:Blue]"}

// Mutator applies random genome mutations at a configured rate.
// Mutation can corrupt a genome beyond parsing; callers must re-Parse
// the result and treat failure as a non-viable offspring.
type Mutator struct {
	Rate      float64 // Probability a call mutates at all
	MaxLength int     // Insert mutations that would exceed this are no-ops (0 = unlimited)

	rng *rand.Rand
}

// NewMutator creates a mutator drawing randomness from rng.
func NewMutator(rng *rand.Rand, rate float64, maxLength int) *Mutator {
	return &Mutator{Rate: rate, MaxLength: maxLength, rng: rng}
}

// Mutate returns a mutated copy of genome, or genome unchanged with
// probability 1-Rate. The mutation kind is drawn with fixed weights:
// point 0.7, insert 0.2, delete 0.1.
func (m *Mutator) Mutate(genome string) string {
	if m.rng.Float64() > m.Rate {
		return genome
	}

	switch roll := m.rng.Float64(); {
	case roll < 0.7:
		return m.pointMutate(genome)
	case roll < 0.9:
		return m.insertTrait(genome)
	default:
		return m.deleteTrait(genome)
	}
}

// pointMutate replaces one uniformly chosen character with a random
// character from the mutation alphabet. No-op on an empty genome.
func (m *Mutator) pointMutate(genome string) string {
	if len(genome) == 0 {
		return genome
	}
	pos := m.rng.Intn(len(genome))
	c := mutationAlphabet[m.rng.Intn(len(mutationAlphabet))]
	return genome[:pos] + string(c) + genome[pos+1:]
}

// insertTrait appends one trait token chosen uniformly from the
// catalog. No-op if the result would exceed MaxLength.
func (m *Mutator) insertTrait(genome string) string {
	trait := insertCatalog[m.rng.Intn(len(insertCatalog))]
	if m.MaxLength > 0 && len(genome)+len(trait) > m.MaxLength {
		return genome
	}
	return genome + trait
}

// deleteTrait removes the first occurrence of a randomly chosen
// non-Cell token. No-op when fewer than two tokens exist or every
// token is Cell.
func (m *Mutator) deleteTrait(genome string) string {
	matches := tokenPattern.FindAllStringSubmatch(genome, -1)
	if len(matches) < 2 {
		return genome
	}

	removable := make([]string, 0, len(matches))
	for _, match := range matches {
		if match[1] != CellToken {
			removable = append(removable, match[1])
		}
	}
	if len(removable) == 0 {
		return genome
	}

	target := removable[m.rng.Intn(len(removable))]
	return strings.Replace(genome, "["+target+"]", "", 1)
}
