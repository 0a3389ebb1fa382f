//go:build !linux

package sim

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/jornada-elemental/jornada/story"
)

var errNoGPIO = errors.New("sim: gpio buttons need linux")

type GPIOButtons struct{}

func NewGPIOButtons(chip string, accept, deny int, log zerolog.Logger) (*GPIOButtons, error) {
	return nil, errNoGPIO
}

func (b *GPIOButtons) Pressed(btn story.Button) bool { return false }

func (b *GPIOButtons) Close() error { return nil }
