package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// Manager handles preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.Settings
	configs       map[string]*engine.Settings
	mu            sync.RWMutex
}

// NewManager creates a new preset manager
func NewManager(configDir string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.Settings),
	}

	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a preset by name
func (m *Manager) LoadConfig(name string) (*engine.Settings, error) {
	name = strings.TrimSuffix(name, ".json")

	m.mu.RLock()
	if cfg, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return cfg, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if cfg, exists := m.configs[name]; exists {
		return cfg, nil
	}

	cfg, err := ReadPreset(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		return nil, err
	}

	m.configs[name] = cfg
	return cfg, nil
}

// ReadPreset reads and validates a single preset file
func ReadPreset(path string) (*engine.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg engine.Settings
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}

	if err := engine.ValidateSettings(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// ListConfigs returns information about all valid presets, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.ConfigInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		cfg, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid presets
			continue
		}

		configs = append(configs, &service.ConfigInfo{
			Filename:      entry.Name(),
			ConfigID:      name,
			Name:          cfg.Name,
			Description:   cfg.Description,
			Width:         cfg.Width,
			Height:        cfg.Height,
			FeatureBricks: cfg.FeatureBricks,
			Accelerate:    cfg.Accelerate,
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].ConfigID < configs[j].ConfigID
	})
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default preset by name
func (m *Manager) SetDefault(name string) error {
	cfg, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = cfg
	return nil
}

// RefreshCache drops cached presets and reloads the default
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.Settings)
	m.mu.Unlock()

	return m.loadDefaultConfig()
}

// loadDefaultConfig prefers classic.json, then the first valid preset,
// then the built-in settings
func (m *Manager) loadDefaultConfig() error {
	cfg, err := m.LoadConfig("classic")
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr != nil || len(configs) == 0 {
			cfg = builtinDefault()
		} else if cfg, err = m.LoadConfig(configs[0].ConfigID); err != nil {
			cfg = builtinDefault()
		}
	}

	m.mu.Lock()
	m.defaultConfig = cfg
	m.mu.Unlock()
	return nil
}

// SaveConfig validates a preset and writes it to disk
func (m *Manager) SaveConfig(name string, cfg *engine.Settings) error {
	if err := engine.ValidateSettings(*cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: invalid preset name %q", ErrInvalidConfig, name)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath.Join(m.configDir, name+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	m.mu.Lock()
	m.configs[name] = cfg
	m.mu.Unlock()

	return nil
}

func builtinDefault() *engine.Settings {
	s := engine.DefaultSettings()
	s.Name = "default"
	s.Description = "Built-in default settings"
	return &s
}
