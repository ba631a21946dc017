// Package genome implements the bracket-token genome codec: parsing a
// genome string into traits and mutating genomes for reproduction.
package genome

import (
	"regexp"
	"strings"
)

// tokenPattern extracts bracket-delimited trait tokens. Anything
// between tokens is ignored, so a point-mutated genome can still parse
// as long as enough brackets survive.
var tokenPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// CellToken is the trait every viable genome must declare.
const CellToken = "Cell"

// Traits is the ordered list of tokens decoded from a genome.
// Duplicates are preserved.
type Traits []string

// Parse extracts all bracket-delimited tokens from a genome in
// left-to-right order. It reports false if no tokens are found or the
// literal Cell token is missing; such a genome is not viable.
func Parse(genome string) (Traits, bool) {
	matches := tokenPattern.FindAllStringSubmatch(genome, -1)
	if len(matches) == 0 {
		return nil, false
	}

	traits := make(Traits, 0, len(matches))
	hasCell := false
	for _, m := range matches {
		if m[1] == CellToken {
			hasCell = true
		}
		traits = append(traits, m[1])
	}
	if !hasCell {
		return nil, false
	}
	return traits, true
}

// Has reports whether the trait list contains the given token.
func (t Traits) Has(name string) bool {
	for _, trait := range t {
		if trait == name {
			return true
		}
	}
	return false
}

// Color returns the name from the first Color:<name> trait, or the
// default green.
func (t Traits) Color() string {
	for _, trait := range t {
		if name, ok := strings.CutPrefix(trait, "Color:"); ok {
			return name
		}
	}
	return "Green"
}

// Capability is a bitset of the behavioral traits the engine acts on.
// Decorative traits (colors) stay string-only.
type Capability uint8

const (
	CanMove Capability = 1 << iota // Cell walks the grid each tick
	CanEat                         // Cell forages and preys
)

// Has checks if a capability set contains a capability.
func (c Capability) Has(other Capability) bool {
	return c&other != 0
}

// Capability folds the behavioral traits into a bitset for cheap
// per-tick checks.
func (t Traits) Capability() Capability {
	var caps Capability
	for _, trait := range t {
		switch trait {
		case "CanMove":
			caps |= CanMove
		case "CanEat":
			caps |= CanEat
		}
	}
	return caps
}
