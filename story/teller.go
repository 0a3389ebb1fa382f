// Package story tells a single-chapter interactive story on a small display,
// a buzzer, a status lamp and an LED matrix, and branches on a yes/no answer
// read from two buttons.
//
// Every call blocks: frames are held with sleeps, notes play to completion
// and the answer is awaited in a busy loop without timeout.
package story

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/jornada-elemental/jornada/matrix"
)

// Button identifies one of the two answer buttons.
type Button uint8

const (
	Accept Button = iota
	Deny
)

func (b Button) String() string {
	if b == Deny {
		return "deny"
	}
	return "accept"
}

// Choice is the reader's answer to the prompt.
type Choice uint8

const (
	Accepted Choice = iota + 1
	Declined
)

func (c Choice) String() string {
	switch c {
	case Accepted:
		return "accepted"
	case Declined:
		return "declined"
	}
	return "none"
}

// Display is a text surface. Clear and DrawText change a framebuffer;
// Flush sends it to the panel.
type Display interface {
	Clear()
	DrawText(x, y int16, text string)
	Flush() error
}

// Speaker plays a tone of freq Hz for d and returns when it ends.
type Speaker interface {
	Play(freq uint32, d time.Duration)
}

// Buttons reports whether a button is held down right now.
type Buttons interface {
	Pressed(b Button) bool
}

// Lamp is an RGB status LED with on/off channels.
type Lamp interface {
	Set(r, g, b bool)
}

// Matrix renders a glyph in a colour. *matrix.Driver implements it.
type Matrix interface {
	Render(g matrix.Glyph, c matrix.Color) error
}

// Teller tells scripts on a set of peripherals. Display, Speaker and Buttons
// are required; Lamp and Matrix may be nil when the board lacks them.
type Teller struct {
	Display Display
	Speaker Speaker
	Buttons Buttons
	Lamp    Lamp
	Matrix  Matrix
	Log     zerolog.Logger
	// Sleep holds frames and separates notes. Defaults to time.Sleep.
	Sleep func(time.Duration)
	// Yield runs between button polls. Defaults to runtime.Gosched.
	Yield func()
}

// Tell runs s from the first intro frame to the ending that matches the
// reader's answer, and returns the answer.
func (t *Teller) Tell(s Script) (Choice, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	t.Log.Info().Str("title", s.Title).Int("frames", len(s.Intro)).Msg("story started")

	for i, f := range s.Intro {
		if err := t.Show(f); err != nil {
			return 0, fmt.Errorf("story: intro frame %d: %w", i, err)
		}
		t.sleep(f.Hold)
	}

	if err := t.Show(s.Prompt); err != nil {
		return 0, fmt.Errorf("story: prompt: %w", err)
	}
	if t.Matrix != nil && s.Glyph != nil {
		if err := t.Matrix.Render(s.Glyph, s.GlyphColor); err != nil {
			return 0, fmt.Errorf("story: glyph: %w", err)
		}
	}
	if t.Lamp != nil {
		t.Lamp.Set(false, false, true)
	}
	t.PlayTune(s.Tune, s.NoteGap)

	t.Log.Info().Msg("waiting for answer")
	choice := t.WaitChoice()
	t.Log.Info().Stringer("choice", choice).Msg("answer received")

	ending := s.Accepted
	if choice == Declined {
		ending = s.Declined
	}
	if err := t.Show(ending); err != nil {
		return choice, fmt.Errorf("story: ending: %w", err)
	}
	return choice, nil
}

// Show clears the display, draws every line of f and flushes.
func (t *Teller) Show(f Frame) error {
	t.Display.Clear()
	for _, l := range f.Lines {
		t.Display.DrawText(l.X, l.Y, l.Text)
	}
	t.Log.Debug().Int("lines", len(f.Lines)).Dur("hold", f.Hold).Msg("frame")
	return t.Display.Flush()
}

// PlayTune plays notes in order with gap of silence between them.
func (t *Teller) PlayTune(notes []Note, gap time.Duration) {
	for i, n := range notes {
		if i > 0 {
			t.sleep(gap)
		}
		t.Log.Debug().Uint32("freq", n.Freq).Dur("duration", n.Duration).Msg("note")
		if n.Freq == 0 {
			t.sleep(n.Duration)
			continue
		}
		t.Speaker.Play(n.Freq, n.Duration)
	}
}

// WaitChoice spins until a button is pressed. Accept wins when both are held.
func (t *Teller) WaitChoice() Choice {
	for {
		if t.Buttons.Pressed(Accept) {
			return Accepted
		}
		if t.Buttons.Pressed(Deny) {
			return Declined
		}
		t.yield()
	}
}

func (t *Teller) sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	if t.Sleep != nil {
		t.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (t *Teller) yield() {
	if t.Yield != nil {
		t.Yield()
		return
	}
	runtime.Gosched()
}
