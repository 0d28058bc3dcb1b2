package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/franzer/glitchnav/internal/scramble"
	"github.com/franzer/glitchnav/internal/selector"
	"github.com/franzer/glitchnav/internal/types"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure reported by Resolve.
var ErrInvalidConfig = errors.New("invalid config")

// FileConfig is the on-disk YAML configuration shape for glitchnav.
type FileConfig struct {
	Alphabet *string  `yaml:"alphabet"`
	Interval *string  `yaml:"interval"`
	Step     *float64 `yaml:"step"`
	Seed     *uint64  `yaml:"seed"`
	// Glitch is a comma-separated list of link ID globs that get the effect.
	Glitch  *string      `yaml:"glitch"`
	NoColor *bool        `yaml:"no_color"`
	Links   []types.Link `yaml:"links"`
}

// Settings is a fully resolved configuration.
type Settings struct {
	Alphabet string
	Interval time.Duration
	Step     float64
	Seed     uint64
	Glitch   selector.Selector
	NoColor  bool
	Links    []types.Link
}

// Defaults returns the stock settings.
func Defaults() Settings {
	return Settings{
		Alphabet: scramble.DefaultAlphabet,
		Interval: scramble.DefaultInterval,
		Step:     scramble.DefaultStep,
		Links:    types.DefaultLinks(),
	}
}

// Engine converts the settings to a scramble engine configuration.
func (s Settings) Engine() scramble.Config {
	cfg := scramble.DefaultConfig()
	cfg.Alphabet = scramble.NewAlphabet(s.Alphabet)
	cfg.Interval = s.Interval
	cfg.Step = s.Step
	cfg.Seed = s.Seed
	return cfg
}

// Installed reports whether the glitch effect applies to l.
func (s Settings) Installed(l types.Link) bool {
	return l.Text != "" && s.Glitch.Match(l.ID)
}

// Resolve layers files over Defaults, later files taking precedence, and
// validates the result. A non-empty links list replaces the previous one.
func Resolve(files ...FileConfig) (Settings, error) {
	s := Defaults()
	for _, fc := range files {
		if fc.Alphabet != nil {
			s.Alphabet = *fc.Alphabet
		}
		if fc.Interval != nil {
			d, err := time.ParseDuration(*fc.Interval)
			if err != nil {
				return Settings{}, fmt.Errorf("%w: interval: %v", ErrInvalidConfig, err)
			}
			s.Interval = d
		}
		if fc.Step != nil {
			s.Step = *fc.Step
		}
		if fc.Seed != nil {
			s.Seed = *fc.Seed
		}
		if fc.Glitch != nil {
			sel, err := selector.Parse(*fc.Glitch)
			if err != nil {
				return Settings{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
			s.Glitch = sel
		}
		if fc.NoColor != nil {
			s.NoColor = *fc.NoColor
		}
		if len(fc.Links) > 0 {
			s.Links = append([]types.Link(nil), fc.Links...)
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks invariants the engine relies on.
func (s Settings) Validate() error {
	if s.Alphabet == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, scramble.ErrEmptyAlphabet)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %s", ErrInvalidConfig, s.Interval)
	}
	if !scramble.ValidStep(s.Step) {
		return fmt.Errorf("%w: step must be in (0, %d], got %v", ErrInvalidConfig, scramble.MaxStep, s.Step)
	}
	seen := make(map[string]bool, len(s.Links))
	for i, l := range s.Links {
		if l.ID == "" {
			return fmt.Errorf("%w: links[%d] has no id", ErrInvalidConfig, i)
		}
		if seen[l.ID] {
			return fmt.Errorf("%w: duplicate link id %q", ErrInvalidConfig, l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a project-local config file in the given root.
// It supports .glitchnav.yml/.yaml and glitchnav.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".glitchnav.yml", ".glitchnav.yaml", "glitchnav.yml", "glitchnav.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "glitchnav", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Template returns a FileConfig spelling out every default, suitable for
// writing a starter file.
func Template() FileConfig {
	d := Defaults()
	interval := d.Interval.String()
	glitch := "nav/*"
	noColor := false
	return FileConfig{
		Alphabet: &d.Alphabet,
		Interval: &interval,
		Step:     &d.Step,
		Glitch:   &glitch,
		NoColor:  &noColor,
		Links:    d.Links,
	}
}
