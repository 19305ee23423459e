/*
Package config manages the TOML config for redrawd.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/redrawd/internal/utils"
	"github.com/charmbracelet/log"
)

const appDir = "redrawd"

// Config holds the entire config structure
type Config struct {
	UI        UIConfig        `toml:"ui"`
	Nvim      NvimConfig      `toml:"nvim"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Log       LogConfig       `toml:"log"`
}

// UIConfig sets the grid size and which UI elements the front-end draws
// itself instead of the editor.
type UIConfig struct {
	Width        int    `toml:"width"`
	Height       int    `toml:"height"`
	Font         string `toml:"font"`
	ExtPopupmenu bool   `toml:"ext_popupmenu"`
	ExtTabline   bool   `toml:"ext_tabline"`
	ExtCmdline   bool   `toml:"ext_cmdline"`
}

// NvimConfig locates the editor binary for embedded mode.
type NvimConfig struct {
	Path string   `toml:"path"`
	Args []string `toml:"args"`
}

type ClipboardConfig struct {
	// OSC52 mirrors clipboard writes to the host terminal.
	OSC52 bool `toml:"osc52"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	Caller    bool   `toml:"caller"`
}

// UIOptions returns the ext_* options passed when attaching the UI.
func (u UIConfig) UIOptions() map[string]any {
	return map[string]any{
		"rgb":           true,
		"ext_popupmenu": u.ExtPopupmenu,
		"ext_tabline":   u.ExtTabline,
		"ext_cmdline":   u.ExtCmdline,
	}
}

// ParseLevel returns the configured level, or warn when it is not one
// charmbracelet/log knows.
func (l LogConfig) ParseLevel() log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// GetConfigDir returns the config directory with fallback priority:
// 1. the user config dir (~/.config on Linux)
// 2. ~/.config, for macOS users who keep dotfiles there
// 3. the executable dir
func GetConfigDir() (string, error) {
	if base, err := os.UserConfigDir(); err == nil {
		dir := filepath.Join(base, appDir)
		if utils.CheckDir(dir).Writable {
			return dir, nil
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".config", appDir)
		if utils.CheckDir(dir).Writable {
			return dir, nil
		}
	}
	dir, err := utils.ExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from the -config flag
// 2. Default path: [UserConfigDir]/redrawd/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customPath string) (*Config, string, error) {
	if customPath != "" {
		if _, statErr := os.Stat(customPath); statErr == nil {
			config, err := LoadConfig(customPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customPath)
				return config, customPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Width:        80,
			Height:       24,
			Font:         "Monospace 11",
			ExtPopupmenu: true,
			ExtTabline:   true,
			ExtCmdline:   false,
		},
		Nvim: NvimConfig{
			Path: "nvim",
			Args: []string{},
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	if err := utils.EnsureDir(dir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", dir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that fails to decode as a whole
// is recovered section by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	config.UI.validate()
	return config, nil
}

// validate replaces grid sizes that are not positive with the defaults.
func (u *UIConfig) validate() {
	defaults := DefaultConfig().UI
	if u.Width <= 0 {
		log.Warnf("Invalid ui.width %d, using %d", u.Width, defaults.Width)
		u.Width = defaults.Width
	}
	if u.Height <= 0 {
		log.Warnf("Invalid ui.height %d, using %d", u.Height, defaults.Height)
		u.Height = defaults.Height
	}
}

// tryPartialParse keeps every key that has the right type and falls back
// to defaults for the rest.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	table, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(table, "ui"); ok {
		extractUIConfig(section, &config.UI)
	}
	if section, ok := utils.ExtractSection(table, "nvim"); ok {
		extractNvimConfig(section, &config.Nvim)
	}
	if section, ok := utils.ExtractSection(table, "clipboard"); ok {
		if val, ok := utils.ExtractBool(section, "osc52"); ok {
			config.Clipboard.OSC52 = val
		}
	}
	if section, ok := utils.ExtractSection(table, "log"); ok {
		extractLogConfig(section, &config.Log)
	}
	return config, nil
}

func extractUIConfig(data map[string]any, ui *UIConfig) {
	if val, ok := utils.ExtractInt(data, "width"); ok {
		ui.Width = val
	}
	if val, ok := utils.ExtractInt(data, "height"); ok {
		ui.Height = val
	}
	if val, ok := utils.ExtractString(data, "font"); ok {
		ui.Font = val
	}
	if val, ok := utils.ExtractBool(data, "ext_popupmenu"); ok {
		ui.ExtPopupmenu = val
	}
	if val, ok := utils.ExtractBool(data, "ext_tabline"); ok {
		ui.ExtTabline = val
	}
	if val, ok := utils.ExtractBool(data, "ext_cmdline"); ok {
		ui.ExtCmdline = val
	}
}

func extractNvimConfig(data map[string]any, nv *NvimConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		nv.Path = val
	}
	if val, ok := utils.ExtractStringSlice(data, "args"); ok {
		nv.Args = val
	}
}

func extractLogConfig(data map[string]any, l *LogConfig) {
	if val, ok := utils.ExtractString(data, "level"); ok {
		l.Level = val
	}
	if val, ok := utils.ExtractBool(data, "timestamp"); ok {
		l.Timestamp = val
	}
	if val, ok := utils.ExtractBool(data, "caller"); ok {
		l.Caller = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.AbsPath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
