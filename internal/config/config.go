package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName          = "agenda_tui"
	settingsFileName = "settings.yaml"
)

// Settings holds user preferences.
type Settings struct {
	DefaultDuration time.Duration
	SoundEnabled    bool
	DatabasePath    string
	LogPath         string
}

type yamlSettings struct {
	DefaultDurationMinutes int    `yaml:"default_duration_minutes"`
	SoundEnabled           *bool  `yaml:"sound_enabled"`
	DatabasePath           string `yaml:"database_path"`
	LogPath                string `yaml:"log_path"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		DefaultDuration: 25 * time.Minute,
		SoundEnabled:    true,
		DatabasePath:    "agenda_tui.db",
	}
}

// Load reads user preferences from YAML under the user config directory.
// A missing file yields defaults; invalid fields fall back one by one.
func Load() (Settings, error) {
	settings := DefaultSettings()
	path, err := resolveConfigPath()
	if err != nil {
		return settings, err
	}
	return loadFrom(path, settings)
}

func loadFrom(path string, settings Settings) (Settings, error) {
	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// Save writes user preferences to YAML.
func Save(settings Settings) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	return saveTo(path, settings)
}

func saveTo(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	soundEnabled := settings.SoundEnabled
	fileData := yamlSettings{
		DefaultDurationMinutes: int(settings.DefaultDuration / time.Minute),
		SoundEnabled:           &soundEnabled,
		DatabasePath:           settings.DatabasePath,
		LogPath:                settings.LogPath,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, settingsFileName), nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.DefaultDurationMinutes > 0 {
		settings.DefaultDuration = time.Duration(fileData.DefaultDurationMinutes) * time.Minute
	}
	if fileData.SoundEnabled != nil {
		settings.SoundEnabled = *fileData.SoundEnabled
	}
	if fileData.DatabasePath != "" {
		settings.DatabasePath = fileData.DatabasePath
	}
	if fileData.LogPath != "" {
		settings.LogPath = fileData.LogPath
	}
}
