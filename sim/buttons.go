package sim

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/jornada-elemental/jornada/story"
)

// LineButtons reads answers from text lines: "a" or "5" presses accept,
// "r" or "6" presses deny. The first answer latches and reading stops. End
// of input latches deny so an unattended run still finishes.
type LineButtons struct {
	log     zerolog.Logger
	pressed atomic.Uint32
}

// NewLineButtons starts reading r in the background.
func NewLineButtons(r io.Reader, log zerolog.Logger) *LineButtons {
	b := &LineButtons{log: log}
	go b.scan(r)
	return b
}

func (b *LineButtons) Pressed(btn story.Button) bool {
	return b.pressed.Load()&(1<<btn) != 0
}

func (b *LineButtons) scan(r io.Reader) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		in := strings.ToLower(strings.TrimSpace(sc.Text()))
		if btn, ok := parseAnswer(in); ok {
			b.press(btn)
			return
		}
		if in != "" {
			b.log.Warn().Str("input", in).Msg("unknown answer, type a or r")
		}
	}
	if err := sc.Err(); err != nil {
		b.log.Error().Err(err).Msg("reading answers")
	}
	b.log.Info().Msg("input closed, declining")
	b.press(story.Deny)
}

func (b *LineButtons) press(btn story.Button) {
	b.log.Debug().Stringer("button", btn).Msg("pressed")
	b.pressed.Store(1 << btn)
}

func parseAnswer(s string) (story.Button, bool) {
	switch s {
	case "a", "5", "accept", "aceitar", "s", "sim":
		return story.Accept, true
	case "r", "6", "deny", "recusar", "n", "nao":
		return story.Deny, true
	}
	return 0, false
}
