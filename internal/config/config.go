// Package config reads the optional user configuration file. YAML is the
// native format; a JSON file parses as well.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/format"
	"pokecp/pokecp/internal/grid"
	"pokecp/pokecp/internal/session"
)

// FileNames are looked up in the home directory, in order, when no explicit
// path is given.
var FileNames = []string{".pokecp.yaml", ".pokecp.yml", ".pokecp.json"}

const DefaultDataDir = "output"

// DefaultStartCP is loaded on start unless default_cp says otherwise;
// default_cp: 0 starts at the empty CP prompt.
const DefaultStartCP = 520

var ErrInvalid = errors.New("invalid config")

type Colors struct {
	Perfect      string `yaml:"perfect,omitempty"`
	Great        string `yaml:"great,omitempty"`
	Good         string `yaml:"good,omitempty"`
	Zero         string `yaml:"zero,omitempty"`
	CollectedYes string `yaml:"collected_yes,omitempty"`
	CollectedNo  string `yaml:"collected_no,omitempty"`
	EvoTarget    string `yaml:"evo_target,omitempty"`
	EvoCP        string `yaml:"evo_cp,omitempty"`
	Arrow        string `yaml:"arrow,omitempty"`
	Shadow       string `yaml:"shadow,omitempty"`
	Purified     string `yaml:"purified,omitempty"`
}

type Config struct {
	Colors     Colors              `yaml:"colors,omitempty"`
	Hotkeys    map[string][]string `yaml:"hotkeys,omitempty"`
	DataDir    string              `yaml:"data_dir,omitempty"`
	PageLength int                 `yaml:"page_length,omitempty"`
	DefaultCP  int                 `yaml:"default_cp,omitempty"`
	Mode       string              `yaml:"mode,omitempty"`
	Watch      bool                `yaml:"watch,omitempty"`
	LogFile    string              `yaml:"log_file,omitempty"`

	path string
}

func Default() *Config {
	return &Config{
		DataDir:    DefaultDataDir,
		PageLength: grid.DefaultPageLength,
		DefaultCP:  DefaultStartCP,
		Mode:       session.ModeNormal.String(),
	}
}

// Load reads path. With an empty path the home directory candidates are
// tried and a missing file yields the defaults; an explicit path must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		found, ok := Find(home)
		if !ok {
			cfg := Default()
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.path = path
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Find returns the first config file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Parse decodes and validates a config document over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("POKECP_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if file := os.Getenv("POKECP_LOG_FILE"); file != "" {
		c.LogFile = file
	}
}

// Path is the file the config was read from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) Validate() error {
	if c.PageLength != 0 && !slices.Contains(grid.PageLengths, c.PageLength) {
		return fmt.Errorf("%w: page_length %d (want one of %v)", ErrInvalid, c.PageLength, grid.PageLengths)
	}
	if c.DefaultCP != 0 && (c.DefaultCP < dataset.MinCP || c.DefaultCP > dataset.MaxCP) {
		return fmt.Errorf("%w: default_cp %d out of range %d-%d", ErrInvalid, c.DefaultCP, dataset.MinCP, dataset.MaxCP)
	}
	if _, err := session.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Palette applies the configured colour overrides to the default palette.
func (c *Config) Palette() format.Palette {
	p := format.DefaultPalette()
	override := func(dst *lipgloss.Color, value string) {
		if value != "" {
			*dst = lipgloss.Color(value)
		}
	}
	override(&p.Perfect, c.Colors.Perfect)
	override(&p.Great, c.Colors.Great)
	override(&p.Good, c.Colors.Good)
	override(&p.Zero, c.Colors.Zero)
	override(&p.CollectedYes, c.Colors.CollectedYes)
	override(&p.CollectedNo, c.Colors.CollectedNo)
	override(&p.EvoTarget, c.Colors.EvoTarget)
	override(&p.EvoCP, c.Colors.EvoCP)
	override(&p.Arrow, c.Colors.Arrow)
	override(&p.Shadow, c.Colors.Shadow)
	override(&p.Purified, c.Colors.Purified)
	return p
}

// ApplyHotkeys merges the configured hotkeys over defaults. Action names
// match case-insensitively; an unknown action or an empty key list is an
// error.
func (c *Config) ApplyHotkeys(defaults map[string][]string) (map[string][]string, error) {
	hotkeys := make(map[string][]string, len(defaults))
	canonical := make(map[string]string, len(defaults))
	for k, v := range defaults {
		hotkeys[k] = slices.Clone(v)
		canonical[strings.ToLower(k)] = k
	}

	for name, keys := range c.Hotkeys {
		action, ok := canonical[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown hotkey action %q", ErrInvalid, name)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("%w: hotkey action %q has no keys", ErrInvalid, name)
		}
		hotkeys[action] = slices.Clone(keys)
	}
	return hotkeys, nil
}
