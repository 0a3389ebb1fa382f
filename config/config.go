// Package config loads the host simulator settings and story scripts from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jornada-elemental/jornada/matrix"
	"github.com/jornada-elemental/jornada/story"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Matrix and button drivers understood by the simulator.
const (
	MatrixTerminal = "terminal"
	MatrixSPI      = "spi"
	ButtonsStdin   = "stdin"
	ButtonsGPIO    = "gpio"
)

type Config struct {
	Matrix  Matrix  `yaml:"matrix"`
	Buttons Buttons `yaml:"buttons"`
	// Speed scales every hold, note and gap. 2 plays twice as fast.
	Speed float64 `yaml:"speed"`
	// Script is a story file; empty tells the built-in chapter.
	Script string `yaml:"script"`
}

type Matrix struct {
	Driver  string `yaml:"driver"`
	SPIPort string `yaml:"spi_port"`
	Order   string `yaml:"order"`
}

// Buttons selects where answers come from. Chip, Accept and Deny name a
// GPIO character device and its line offsets.
type Buttons struct {
	Driver string `yaml:"driver"`
	Chip   string `yaml:"chip"`
	Accept int    `yaml:"accept"`
	Deny   int    `yaml:"deny"`
}

// Default returns the settings used for keys missing from a file.
func Default() Config {
	return Config{
		Matrix: Matrix{
			Driver: MatrixTerminal,
			Order:  matrix.OrderGRB.String(),
		},
		Buttons: Buttons{
			Driver: ButtonsStdin,
			Chip:   "gpiochip0",
			Accept: 5,
			Deny:   6,
		},
		Speed: 1,
	}
}

// Load reads path over Default. An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := Parse(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes b into cfg, keeping the values of keys b does not set, and
// validates the result.
func Parse(b []byte, cfg *Config) error {
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	switch c.Matrix.Driver {
	case MatrixTerminal:
	case MatrixSPI:
		// periph picks the first bus when the port is empty.
	default:
		return fmt.Errorf("%w: matrix driver %q", ErrInvalid, c.Matrix.Driver)
	}
	if _, ok := matrix.ParseChannelOrder(c.Matrix.Order); !ok {
		return fmt.Errorf("%w: matrix order %q", ErrInvalid, c.Matrix.Order)
	}
	switch c.Buttons.Driver {
	case ButtonsStdin:
	case ButtonsGPIO:
		if c.Buttons.Chip == "" {
			return fmt.Errorf("%w: gpio buttons need a chip", ErrInvalid)
		}
		if c.Buttons.Accept < 0 || c.Buttons.Deny < 0 || c.Buttons.Accept == c.Buttons.Deny {
			return fmt.Errorf("%w: button lines %d and %d", ErrInvalid, c.Buttons.Accept, c.Buttons.Deny)
		}
	default:
		return fmt.Errorf("%w: buttons driver %q", ErrInvalid, c.Buttons.Driver)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("%w: speed %v", ErrInvalid, c.Speed)
	}
	return nil
}

// Order returns the parsed matrix channel order.
func (c Config) Order() matrix.ChannelOrder {
	order, _ := matrix.ParseChannelOrder(c.Matrix.Order)
	return order
}

// LoadScript reads a story script from path over story.DefaultScript. An
// empty path returns the default script.
func LoadScript(path string) (story.Script, error) {
	s := story.DefaultScript()
	if path == "" {
		return s, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := ParseScript(b, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes b into s and validates the result.
func ParseScript(b []byte, s *story.Script) error {
	if err := yaml.Unmarshal(b, s); err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}
