package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
)

func writePreset(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidateConfig_Valid(t *testing.T) {
	path := writePreset(t, "small.json", `{
		"name": "small",
		"width": 6,
		"height": 8,
		"feature_bricks": true,
		"accelerate": true
	}`)

	result := validateConfig(path)
	require.True(t, result.Valid, "errors: %v", result.Errors)
	assert.Equal(t, "small.json", result.File)
	assert.Empty(t, result.Errors)
	assert.Contains(t, result.Notes, "Board: 6x8")
	assert.Contains(t, result.Notes, "Draw pool: 12 shapes")
	assert.Contains(t, result.Notes, "Gravity: accelerating, 50 frames down to 10")
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"bad json", "broken.json", `{"name": `, "failed to parse"},
		{"too narrow", "tiny.json", `{"name": "tiny", "width": 3, "height": 8}`, "width must be between"},
		{"missing name", "anon.json", `{"width": 8, "height": 8}`, "name is required"},
		{"name mismatch", "left.json", `{"name": "right", "width": 8, "height": 8}`, `does not match file name "left"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateConfig(writePreset(t, tt.file, tt.body))
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, strings.Join(result.Errors, "\n"), tt.wantErr)
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"File not found"}, result.Errors)
}

func TestFits(t *testing.T) {
	w, h, ok := fits(engine.I, 4, 4)
	assert.True(t, ok)
	assert.Equal(t, 4, w, "widest rotation")
	assert.Equal(t, 4, h, "tallest rotation")

	_, _, ok = fits(engine.I, 4, 3)
	assert.False(t, ok)

	w, h, ok = fits(engine.Dot, 4, 4)
	assert.True(t, ok)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestDescribeCadence(t *testing.T) {
	assert.Equal(t, "fixed, every 50 frames", describeCadence(loop.FixedCadence(50)))
	assert.Equal(t, "manual", describeCadence(loop.ManualCadence{}))
	assert.Equal(t, "accelerating, 50 frames down to 10", describeCadence(loop.DefaultScoreCadence))
}

func TestRepositoryPresets(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "configs", "*.json"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		result := validateConfig(file)
		assert.True(t, result.Valid, "%s: %v", result.File, result.Errors)
	}
}
