// Package config persists the capture tool's user settings as a YAML file
// under the user's config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rectshot/rectshot/internal/logger"
)

// Region is a remembered selection rectangle in logical coordinates.
type Region struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// IsEmpty reports whether the region has no area.
func (r Region) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Settings is the persisted application configuration.
type Settings struct {
	// ReleaseToCapture commits a freshly drawn selection on button release.
	ReleaseToCapture bool `json:"release_to_capture" yaml:"release_to_capture"`
	// ShowMagnifier shows the loupe while resizing.
	ShowMagnifier bool `json:"show_magnifier" yaml:"show_magnifier"`
	// LightMask uses a light dimming mask over unselected areas instead of
	// the default dark one.
	LightMask bool `json:"light_mask" yaml:"light_mask"`
	// RememberRegion preseeds the next session with the last committed
	// region.
	RememberRegion bool   `json:"remember_region" yaml:"remember_region"`
	CropRegion     Region `json:"crop_region" yaml:"crop_region"`

	// DelayMS postpones the capture, sequenced strictly before the editor
	// becomes interactive.
	DelayMS int `json:"delay_ms" yaml:"delay_ms"`

	// OutputDir is where accepted captures are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	// CopyToClipboard also places the accepted image on the clipboard.
	CopyToClipboard bool `json:"copy_to_clipboard" yaml:"copy_to_clipboard"`

	// DPROverrides maps display names to device pixel ratios for backends
	// that cannot detect scaling themselves.
	DPROverrides map[string]float64 `json:"dpr_overrides" yaml:"dpr_overrides"`

	ServerPort int    `json:"server_port" yaml:"server_port"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
}

// Manager handles loading and saving settings.
type Manager struct {
	configPath string
	settings   *Settings
	mu         sync.RWMutex
}

// NewManager loads settings from configFile, or from the default path when
// empty, creating a default file when none exists.
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "rectshot")
	actualConfigPath := filepath.Join(configDir, "config.yaml")
	if configFile != "" {
		actualConfigPath = configFile
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{configPath: actualConfigPath}

	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			logger.WithComponent("config").Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			m.settings = defaults()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Msg("Config loaded")

	return m, nil
}

func defaults() *Settings {
	return &Settings{
		ReleaseToCapture: false,
		ShowMagnifier:    true,
		LightMask:        false,
		RememberRegion:   true,
		DelayMS:          0,
		OutputDir:        "",
		CopyToClipboard:  false,
		DPROverrides:     map[string]float64{},
		ServerPort:       8089,
		LogLevel:         "info",
	}
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if s.DPROverrides == nil {
		s.DPROverrides = map[string]float64{}
	}
	if s.ServerPort == 0 {
		s.ServerPort = defaults().ServerPort
	}
	if s.LogLevel == "" {
		s.LogLevel = defaults().LogLevel
	}

	m.mu.Lock()
	m.settings = &s
	m.mu.Unlock()
	return nil
}

// Save writes the current settings to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	data, err := yaml.Marshal(m.settings)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Get returns a copy of the current settings.
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.settings
}

// GetConfigPath returns the path the settings were loaded from.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetPort overrides the server port.
func (m *Manager) SetPort(port int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.ServerPort = port
}

// SetLogLevel overrides the log level.
func (m *Manager) SetLogLevel(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.LogLevel = level
}

// Update applies a mutation to the settings under the lock.
func (m *Manager) Update(fn func(*Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.settings)
}

// SetCropRegion records the last committed region for the next session.
func (m *Manager) SetCropRegion(r Region) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.CropRegion = r
}
