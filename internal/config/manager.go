package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/capdeco/capdeco/internal/logger"
	"gopkg.in/yaml.v3"
)

// Manager handles loading, validating, and persisting the configuration.
type Manager struct {
	configPath string
	config     *Config
	mu         sync.RWMutex
}

// NewManager creates a configuration manager backed by configFile, or the
// default path under ~/.config/capdeco when empty. A missing file is created
// with defaults; an invalid plugin section is reset to its default so one bad
// section never blocks startup.
func NewManager(configFile string) (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "capdeco")
	actualConfigPath := filepath.Join(configDir, "config.yaml")
	if configFile != "" {
		actualConfigPath = configFile
	}

	if err := os.MkdirAll(filepath.Dir(actualConfigPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	m := &Manager{configPath: actualConfigPath}

	if err := m.load(); err != nil {
		if os.IsNotExist(err) {
			logger.WithComponent("config").Info().
				Str("path", m.configPath).
				Msg("Config file not found, creating new config")
			m.config = Defaults()
			if err := m.Save(); err != nil {
				return nil, fmt.Errorf("failed to create default config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.WithComponent("config").Info().
		Str("path", m.configPath).
		Bool("border", m.config.Border.Enabled).
		Bool("sounds", m.config.Sounds.Enabled).
		Bool("hotbar", m.config.Hotbar.Enabled).
		Msg("Config loaded")

	return m, nil
}

// Defaults returns the stock configuration: a thin dark border with a soft
// shadow, capture/save sounds pointing at the bundled theme directory, and a
// bottom-centered hotbar.
func Defaults() *Config {
	soundsDir := "sounds"
	outputDir := "captures"
	if home, err := os.UserHomeDir(); err == nil {
		soundsDir = filepath.Join(home, ".config", "capdeco", "sounds")
		outputDir = filepath.Join(home, "Pictures", "capdeco")
	}

	return &Config{
		ServerPort: 8080,
		LogLevel:   "info",
		OutputDir:  outputDir,
		Border: BorderConfig{
			Enabled:      true,
			Style:        "solid",
			Size:         3,
			Color:        RGBA{60, 60, 60, 255},
			CornerRadius: 0,
			Shadow: &ShadowConfig{
				OffsetX:    5,
				OffsetY:    5,
				BlurRadius: 8,
				Color:      RGBA{0, 0, 0, 255},
				Opacity:    0.5,
			},
		},
		Sounds: SoundsConfig{
			Enabled:     true,
			Volume:      1.0,
			PostCapture: &SoundEntry{Path: filepath.Join(soundsDir, "capture.wav")},
			PostSave:    &SoundEntry{Path: filepath.Join(soundsDir, "save.wav"), Volume: floatPtr(0.8)},
			PostUpload:  &SoundEntry{Path: filepath.Join(soundsDir, "upload.wav")},
		},
		Hotbar: HotbarConfig{
			Enabled:  false,
			Position: "bottom",
			Buttons: []HotbarButton{
				{Action: "capture_screen", Label: "S", Tooltip: "Capture Screen"},
				{Action: "capture_window", Label: "W", Tooltip: "Capture Window"},
				{Action: "capture_region", Label: "R", Tooltip: "Capture Region"},
			},
			ButtonWidth:  36,
			ButtonHeight: 36,
			Spacing:      6,
			Padding:      10,
			CornerRadius: 8,
			Glass: GlassConfig{
				Enabled:    true,
				BlurAmount: 30,
				TintColor:  RGBA{30, 30, 30, 180},
			},
		},
	}
}

func floatPtr(v float64) *float64 { return &v }

// load reads and validates the configuration from disk.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	sanitize(&cfg)

	m.mu.Lock()
	m.config = &cfg
	m.mu.Unlock()
	return nil
}

// sanitize validates each section once at load so the compositing path can
// treat the configuration as pre-validated. Invalid sections fall back to
// defaults with a warning.
func sanitize(cfg *Config) {
	log := logger.WithComponent("config")
	defaults := Defaults()

	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		cfg.ServerPort = defaults.ServerPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaults.OutputDir
	}

	if _, err := cfg.Border.ToStyle(); err != nil {
		log.Warn().
			Err(err).
			Msg("Invalid border config, resetting section to defaults")
		cfg.Border = defaults.Border
	}

	if cfg.Sounds.Volume < 0 || cfg.Sounds.Volume > 2 {
		log.Warn().
			Float64("volume", cfg.Sounds.Volume).
			Msg("Master volume outside [0,2], clamping")
		if cfg.Sounds.Volume < 0 {
			cfg.Sounds.Volume = 0
		} else {
			cfg.Sounds.Volume = 2
		}
	}

	if cfg.Hotbar.ButtonWidth <= 0 || cfg.Hotbar.ButtonHeight <= 0 {
		cfg.Hotbar.ButtonWidth = defaults.Hotbar.ButtonWidth
		cfg.Hotbar.ButtonHeight = defaults.Hotbar.ButtonHeight
	}
	if cfg.Hotbar.Glass.BlurAmount < 0 {
		cfg.Hotbar.Glass.BlurAmount = 0
	}
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.config == nil {
		return Defaults()
	}
	cfg := *m.config
	return &cfg
}

// Update replaces the configuration and persists it. The replacement is
// sanitized the same way a loaded file is.
func (m *Manager) Update(cfg *Config) error {
	sanitize(cfg)
	m.mu.Lock()
	m.config = cfg
	m.mu.Unlock()
	return m.Save()
}

// UpdateBorder replaces only the border section.
func (m *Manager) UpdateBorder(border BorderConfig) error {
	if _, err := border.ToStyle(); err != nil {
		return err
	}
	m.mu.Lock()
	m.config.Border = border
	m.mu.Unlock()
	return m.Save()
}

// Save writes the current configuration to disk.
func (m *Manager) Save() error {
	m.mu.RLock()
	cfg := m.config
	m.mu.RUnlock()

	if cfg == nil {
		cfg = Defaults()
	}

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.WithComponent("config").Debug().
		Str("path", m.configPath).
		Msg("Config saved")
	return nil
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// SetPort sets the server port.
func (m *Manager) SetPort(port int) error {
	m.mu.Lock()
	m.config.ServerPort = port
	m.mu.Unlock()
	return m.Save()
}

// SetLogLevel sets the log level.
func (m *Manager) SetLogLevel(level string) error {
	m.mu.Lock()
	m.config.LogLevel = level
	m.mu.Unlock()
	return m.Save()
}
