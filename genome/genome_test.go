package genome

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		genome string
		want   Traits
		wantOK bool
	}{
		{"cell only", "[Cell]", Traits{"Cell"}, true},
		{"cell and move", "[Cell][CanMove]", Traits{"Cell", "CanMove"}, true},
		{"order preserved", "[CanMove][Cell]", Traits{"CanMove", "Cell"}, true},
		{"duplicates preserved", "[Cell][CanMove][CanMove]", Traits{"Cell", "CanMove", "CanMove"}, true},
		{"junk between tokens", "xx[Cell]yy[CanEat]zz", Traits{"Cell", "CanEat"}, true},
		{"missing cell", "[CanMove]", nil, false},
		{"empty string", "", nil, false},
		{"no tokens", "CellCanMove", nil, false},
		{"unclosed bracket", "[Cell][CanMove", Traits{"Cell"}, true},
		{"color trait", "[Cell][Color:Red]", Traits{"Cell", "Color:Red"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.genome)
			if ok != tt.wantOK {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.genome, ok, tt.wantOK)
			}
			if tt.wantOK && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.genome, got, tt.want)
			}
		})
	}
}

func TestTraitsColor(t *testing.T) {
	tests := []struct {
		name   string
		genome string
		want   string
	}{
		{"default", "[Cell]", "Green"},
		{"red", "[Cell][Color:Red]", "Red"},
		{"first color wins", "[Cell][Color:Blue][Color:Red]", "Blue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traits, ok := Parse(tt.genome)
			if !ok {
				t.Fatalf("Parse(%q) failed", tt.genome)
			}
			if got := traits.Color(); got != tt.want {
				t.Errorf("Color() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTraitsCapability(t *testing.T) {
	traits, ok := Parse("[Cell][CanMove][Color:Red]")
	if !ok {
		t.Fatal("Parse failed")
	}

	caps := traits.Capability()
	if !caps.Has(CanMove) {
		t.Error("expected CanMove capability")
	}
	if caps.Has(CanEat) {
		t.Error("unexpected CanEat capability")
	}

	if !traits.Has("Color:Red") {
		t.Error("expected Color:Red trait")
	}
	if traits.Has("CanEat") {
		t.Error("unexpected CanEat trait")
	}
}
