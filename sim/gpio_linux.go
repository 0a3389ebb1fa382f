//go:build linux

package sim

import (
	"github.com/rs/zerolog"
	"github.com/warthog618/go-gpiocdev"

	"github.com/jornada-elemental/jornada/story"
)

// GPIOButtons reads two push buttons wired to ground on a GPIO character
// device, with the internal pull-ups enabled.
type GPIOButtons struct {
	lines  *gpiocdev.Lines
	values []int
	log    zerolog.Logger
	failed bool
}

// NewGPIOButtons requests the accept and deny line offsets on chip.
func NewGPIOButtons(chip string, accept, deny int, log zerolog.Logger) (*GPIOButtons, error) {
	lines, err := gpiocdev.RequestLines(chip, []int{accept, deny},
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.AsActiveLow,
		gpiocdev.WithConsumer("jornada"),
	)
	if err != nil {
		return nil, err
	}
	log.Info().Str("chip", chip).Int("accept", accept).Int("deny", deny).Msg("gpio buttons")
	return &GPIOButtons{lines: lines, values: make([]int, 2), log: log}, nil
}

func (b *GPIOButtons) Pressed(btn story.Button) bool {
	if err := b.lines.Values(b.values); err != nil {
		if !b.failed {
			b.log.Error().Err(err).Msg("reading buttons")
			b.failed = true
		}
		return false
	}
	if btn == story.Deny {
		return b.values[1] == 1
	}
	return b.values[0] == 1
}

func (b *GPIOButtons) Close() error { return b.lines.Close() }
