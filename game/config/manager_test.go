package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/blockfall/game/engine"
)

func writePreset(t *testing.T, dir, name string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".json"), data, 0644))
}

func testPreset(name string, width, height int) engine.Settings {
	return engine.Settings{Name: name, Description: name + " board", Width: width, Height: height}
}

func TestNewManager_MissingDir(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewManager_DefaultPrefersClassic(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "aaa", testPreset("aaa", 6, 6))
	writePreset(t, dir, "classic", testPreset("classic", 10, 20))

	m, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, "classic", m.GetDefault().Name)
}

func TestNewManager_DefaultFallsBackToFirstPreset(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "small", testPreset("small", 5, 5))

	m, err := NewManager(dir)
	require.NoError(t, err)
	assert.Equal(t, "small", m.GetDefault().Name)
}

func TestNewManager_BuiltinDefault(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)

	def := m.GetDefault()
	assert.Equal(t, "default", def.Name)
	assert.Equal(t, engine.DefaultWidth, def.Width)
	assert.Equal(t, engine.DefaultHeight, def.Height)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "wide", testPreset("wide", 16, 20))
	m, err := NewManager(dir)
	require.NoError(t, err)

	cfg, err := m.LoadConfig("wide")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Width)

	again, err := m.LoadConfig("wide.json")
	require.NoError(t, err)
	assert.Same(t, cfg, again, "served from cache")

	_, err = m.LoadConfig("missing")
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "tiny", testPreset("tiny", 2, 2))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	m, err := NewManager(dir)
	require.NoError(t, err)

	_, err = m.LoadConfig("tiny")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "width must be between")

	_, err = m.LoadConfig("broken")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestListConfigs(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "wide", testPreset("Wide", 16, 20))
	writePreset(t, dir, "classic", testPreset("Classic", 10, 20))
	writePreset(t, dir, "tiny", testPreset("Tiny", 1, 1))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0755))

	m, err := NewManager(dir)
	require.NoError(t, err)

	configs, err := m.ListConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 2, "invalid presets and non-json entries are skipped")

	assert.Equal(t, "classic", configs[0].ConfigID)
	assert.Equal(t, "Classic", configs[0].Name)
	assert.Equal(t, "classic.json", configs[0].Filename)
	assert.Equal(t, "wide", configs[1].ConfigID)
	assert.Equal(t, 16, configs[1].Width)
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	require.NoError(t, err)

	cfg := testPreset("tall", 8, 40)
	cfg.FeatureBricks = true
	require.NoError(t, m.SaveConfig("tall", &cfg))

	data, err := os.ReadFile(filepath.Join(dir, "tall.json"))
	require.NoError(t, err)
	var onDisk engine.Settings
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, cfg, onDisk)

	loaded, err := m.LoadConfig("tall")
	require.NoError(t, err)
	assert.Equal(t, 40, loaded.Height)

	bad := testPreset("bad", 100, 10)
	assert.ErrorIs(t, m.SaveConfig("bad", &bad), ErrInvalidConfig)
	assert.ErrorIs(t, m.SaveConfig("../escape", &cfg), ErrInvalidConfig)
}

func TestSetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "classic", testPreset("classic", 10, 20))
	writePreset(t, dir, "wide", testPreset("wide", 16, 20))
	m, err := NewManager(dir)
	require.NoError(t, err)

	require.NoError(t, m.SetDefault("wide"))
	assert.Equal(t, "wide", m.GetDefault().Name)
	assert.ErrorIs(t, m.SetDefault("nope"), ErrConfigNotFound)

	writePreset(t, dir, "classic", testPreset("classic", 12, 24))
	require.NoError(t, m.RefreshCache())
	assert.Equal(t, 12, m.GetDefault().Width)
}

func TestConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "classic", testPreset("classic", 10, 20))
	m, err := NewManager(dir)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cfg, err := m.LoadConfig("classic")
			assert.NoError(t, err)
			assert.Equal(t, 10, cfg.Width)
		}()
	}
	wg.Wait()
}

func TestRepositoryPresets(t *testing.T) {
	m, err := NewManager(filepath.Join("..", "..", "configs"))
	require.NoError(t, err)

	configs, err := m.ListConfigs()
	require.NoError(t, err)
	assert.NotEmpty(t, configs)
	assert.Equal(t, "classic", m.GetDefault().Name)
}
