// Package config loads the bus-region stage configuration from YAML or TOML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid")

// OnError - что делать с разбиением, которое упало
type OnError string

const (
	OnErrorAbort OnError = "abort"
	OnErrorSkip  OnError = "skip"
)

func ParseOnError(s string) (OnError, error) {
	switch OnError(strings.ToLower(strings.TrimSpace(s))) {
	case OnErrorAbort, "":
		return OnErrorAbort, nil
	case OnErrorSkip:
		return OnErrorSkip, nil
	}
	return "", fmt.Errorf("%w: on_error %q, want abort or skip", ErrInvalidConfig, s)
}

type Config struct {
	Countries      []string `yaml:"countries" toml:"countries"`
	States         []string `yaml:"states" toml:"states"`
	UseStateShapes bool     `yaml:"use_state_shapes" toml:"use_state_shapes"`
	Interconnect   string   `yaml:"interconnect" toml:"interconnect"`

	Input   Input   `yaml:"input" toml:"input"`
	Output  Output  `yaml:"output" toml:"output"`
	Regions Regions `yaml:"regions" toml:"regions"`
	Logging Logging `yaml:"logging" toml:"logging"`
}

type Input struct {
	Buses          string `yaml:"buses" toml:"buses"`
	CountryShapes  string `yaml:"country_shapes" toml:"country_shapes"`
	StateShapes    string `yaml:"state_shapes" toml:"state_shapes"`
	OffshoreShapes string `yaml:"offshore_shapes" toml:"offshore_shapes"`
}

type Output struct {
	RegionsOnshore  string `yaml:"regions_onshore" toml:"regions_onshore"`
	RegionsOffshore string `yaml:"regions_offshore" toml:"regions_offshore"`
	// необязательно: шины с обновлённой колонкой country
	Buses string `yaml:"buses" toml:"buses"`
}

// Regions - параметры этапа построения регионов. Передаётся по значению.
type Regions struct {
	Countries      []string `yaml:"-" toml:"-"`
	States         []string `yaml:"-" toml:"-"`
	UseStateShapes bool     `yaml:"-" toml:"-"`

	OffshoreMinArea float64 `yaml:"offshore_min_area" toml:"offshore_min_area"`
	FrameFactor     float64 `yaml:"frame_factor" toml:"frame_factor"`
	Workers         int     `yaml:"workers" toml:"workers"`
	OnError         OnError `yaml:"on_error" toml:"on_error"`
}

type Logging struct {
	Level string `yaml:"level" toml:"level"`
	Color bool   `yaml:"color" toml:"color"`
}

// Default - значения, которые подставляются до чтения файла.
func Default() Config {
	return Config{
		Countries: []string{"US"},
		Output: Output{
			RegionsOnshore:  "resources/regions_onshore.geojson",
			RegionsOffshore: "resources/regions_offshore.geojson",
		},
		Regions: Regions{
			OffshoreMinArea: 1e-2,
			FrameFactor:     3,
			Workers:         1,
			OnError:         OnErrorAbort,
		},
		Logging: Logging{Level: "info"},
	}
}

// Load читает .yaml/.yml или .toml поверх Default и проверяет результат.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := decode(path, data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, v any) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("config: decode %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return fmt.Errorf("config: decode %s: %w", path, err)
		}
	default:
		return fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
	return nil
}

func (c *Config) Validate() error {
	on, err := ParseOnError(string(c.Regions.OnError))
	if err != nil {
		return err
	}
	c.Regions.OnError = on

	if c.Regions.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Regions.Workers)
	}
	if c.Regions.Workers == 0 {
		c.Regions.Workers = 1
	}
	if c.Regions.OffshoreMinArea < 0 {
		return fmt.Errorf("%w: offshore_min_area must be >= 0", ErrInvalidConfig)
	}
	if c.Regions.FrameFactor <= 0 {
		return fmt.Errorf("%w: frame_factor must be > 0", ErrInvalidConfig)
	}

	if c.UseStateShapes {
		if len(c.States) == 0 {
			return fmt.Errorf("%w: use_state_shapes needs states", ErrInvalidConfig)
		}
		if c.Input.StateShapes == "" {
			return fmt.Errorf("%w: use_state_shapes needs input.state_shapes", ErrInvalidConfig)
		}
	} else {
		if len(c.Countries) == 0 {
			return fmt.Errorf("%w: no countries", ErrInvalidConfig)
		}
		if c.Input.CountryShapes == "" {
			return fmt.Errorf("%w: input.country_shapes is required", ErrInvalidConfig)
		}
	}
	if c.Input.Buses == "" {
		return fmt.Errorf("%w: input.buses is required", ErrInvalidConfig)
	}
	if c.Output.RegionsOnshore == "" || c.Output.RegionsOffshore == "" {
		return fmt.Errorf("%w: output regions paths are required", ErrInvalidConfig)
	}
	return nil
}

// RegionsStage собирает параметры этапа регионов.
func (c Config) RegionsStage() Regions {
	r := c.Regions
	r.Countries = append([]string(nil), c.Countries...)
	r.States = append([]string(nil), c.States...)
	r.UseStateShapes = c.UseStateShapes
	return r
}
