package engine

import "fmt"

// Kind identifies a catalog shape
type Kind string

const (
	I     Kind = "I"
	O     Kind = "O"
	T     Kind = "T"
	S     Kind = "S"
	Z     Kind = "Z"
	L     Kind = "L"
	J     Kind = "J"
	Dot   Kind = "Dot"
	Desk  Kind = "Desk"
	Angle Kind = "Angle"
	W     Kind = "W"
	Bean  Kind = "Bean"
)

// Shape is an immutable catalog entry. Offsets exclude the origin cell,
// which every piece occupies.
type Shape struct {
	Kind    Kind
	Offsets []Offset
	Color   Color
	// Feature marks shapes outside the classic seven
	Feature bool
}

var catalog = map[Kind]Shape{
	I: {Kind: I, Color: "#00ffff", Offsets: []Offset{{0, 2}, {0, 1}, {0, -1}}},
	O: {Kind: O, Color: "#ffff00", Offsets: []Offset{{0, 1}, {1, 1}, {1, 0}}},
	T: {Kind: T, Color: "#6495ed", Offsets: []Offset{{-1, 0}, {0, 1}, {1, 0}}},
	S: {Kind: S, Color: "#ff0000", Offsets: []Offset{{1, 0}, {0, 1}, {1, -1}}},
	Z: {Kind: Z, Color: "#ecc544", Offsets: []Offset{{0, 1}, {-1, 0}, {-1, -1}}},
	L: {Kind: L, Color: "#ef6b81", Offsets: []Offset{{0, 1}, {0, -1}, {1, -1}}},
	J: {Kind: J, Color: "#00ff00", Offsets: []Offset{{0, 1}, {0, -1}, {-1, -1}}},

	Dot:   {Kind: Dot, Color: "#800080", Feature: true},
	Desk:  {Kind: Desk, Color: "#2060ee", Feature: true, Offsets: []Offset{{-1, 1}, {1, 1}, {1, 0}, {-1, 0}}},
	Angle: {Kind: Angle, Color: "#006040", Feature: true, Offsets: []Offset{{0, 1}, {1, 0}}},
	W:     {Kind: W, Color: "#2bdd14", Feature: true, Offsets: []Offset{{0, -1}, {1, 0}, {-1, -1}, {1, 1}}},
	Bean:  {Kind: Bean, Color: "#e87d0a", Feature: true, Offsets: []Offset{{0, 1}}},
}

// Kinds lists every catalog kind in declaration order
var Kinds = []Kind{I, O, T, S, Z, L, J, Dot, Desk, Angle, W, Bean}

// ClassicKinds lists the seven tetromino kinds
var ClassicKinds = []Kind{I, O, T, S, Z, L, J}

// Lookup returns the catalog entry for a kind
func Lookup(kind Kind) (Shape, bool) {
	s, ok := catalog[kind]
	return s, ok
}

// ParseKind resolves a kind name as written in the catalog
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown piece kind %q", name)
}

// KindsFor returns the draw pool for the feature-brick setting
func KindsFor(featureBricks bool) []Kind {
	if featureBricks {
		return Kinds
	}
	return ClassicKinds
}
