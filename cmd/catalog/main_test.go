package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/blockfall/game/engine"
)

func TestRotationsSquare(t *testing.T) {
	lines := rotations(engine.O, '#', '.')
	assert.Equal(t, []string{
		"##   ##   ##   ##",
		"##   ##   ##   ##",
	}, lines)
}

func TestRotationsBar(t *testing.T) {
	lines := rotations(engine.I, '#', '.')
	require.Len(t, lines, 4)
	assert.Equal(t, "#   ####   #   ####", lines[3])
	assert.Equal(t, "#          #       ", lines[0])
}

func TestRotationsAllKinds(t *testing.T) {
	for _, kind := range engine.Kinds {
		lines := rotations(kind, '#', '.')
		require.NotEmpty(t, lines, kind)

		shape, _ := engine.Lookup(kind)
		cells := 0
		for _, line := range lines {
			cells += strings.Count(line, "#")
		}
		assert.Equal(t, 4*(len(shape.Offsets)+1), cells, "kind %s", kind)
	}
}

func TestDescribeKind(t *testing.T) {
	out := describeKind(engine.O)
	assert.True(t, strings.HasPrefix(out, "=== O (#ffff00, classic, 4 cells) ===\n"), out)

	out = describeKind(engine.Bean)
	assert.Contains(t, out, "(#e87d0a, feature, 2 cells)")
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}
