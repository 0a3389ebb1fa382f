package story_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornada-elemental/jornada/matrix"
	"github.com/jornada-elemental/jornada/story"
)

// event is one observable peripheral action, in the order it happened.
type event struct {
	kind string
	text string
	n    int64
}

type board struct {
	events   []event
	lines    []string
	flushErr error
	// pollsBeforePress is how many Pressed calls return false before
	// pressed starts being reported.
	pollsBeforePress int
	pressed          map[story.Button]bool
	polls            int
	renderErr        error
}

func (b *board) Clear() {
	b.lines = b.lines[:0]
	b.events = append(b.events, event{kind: "clear"})
}

func (b *board) DrawText(x, y int16, text string) {
	b.lines = append(b.lines, text)
	b.events = append(b.events, event{kind: "text", text: text, n: int64(y)})
}

func (b *board) Flush() error {
	b.events = append(b.events, event{kind: "flush"})
	return b.flushErr
}

func (b *board) Play(freq uint32, d time.Duration) {
	b.events = append(b.events, event{kind: "note", n: int64(freq)})
}

func (b *board) Pressed(btn story.Button) bool {
	b.polls++
	if b.polls <= b.pollsBeforePress {
		return false
	}
	return b.pressed[btn]
}

func (b *board) Set(r, g, bl bool) {
	b.events = append(b.events, event{kind: "lamp", n: boolBits(r, g, bl)})
}

func (b *board) Render(g matrix.Glyph, c matrix.Color) error {
	b.events = append(b.events, event{kind: "glyph", n: int64(len(g))})
	return b.renderErr
}

func boolBits(r, g, b bool) int64 {
	var n int64
	if r {
		n |= 4
	}
	if g {
		n |= 2
	}
	if b {
		n |= 1
	}
	return n
}

func newTeller(b *board, slept *[]time.Duration) *story.Teller {
	return &story.Teller{
		Display: b,
		Speaker: b,
		Buttons: b,
		Lamp:    b,
		Matrix:  b,
		Log:     zerolog.Nop(),
		Sleep:   func(d time.Duration) { *slept = append(*slept, d) },
		Yield:   func() {},
	}
}

func kinds(events []event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.kind)
	}
	return out
}

func TestTellAccepted(t *testing.T) {
	b := &board{pressed: map[story.Button]bool{story.Accept: true}, pollsBeforePress: 6}
	var slept []time.Duration
	choice, err := newTeller(b, &slept).Tell(story.DefaultScript())
	require.NoError(t, err)
	assert.Equal(t, story.Accepted, choice)

	assert.Equal(t, []string{"Chamado Aceito!", "Iniciando aventura..."}, b.lines)
	// Two intro holds, then three gaps between four notes.
	assert.Equal(t, []time.Duration{
		7 * time.Second, 7 * time.Second,
		50 * time.Millisecond, 50 * time.Millisecond, 50 * time.Millisecond,
	}, slept)
	assert.Equal(t, 7, b.polls)
}

func TestTellDeclined(t *testing.T) {
	b := &board{pressed: map[story.Button]bool{story.Deny: true}}
	var slept []time.Duration
	choice, err := newTeller(b, &slept).Tell(story.DefaultScript())
	require.NoError(t, err)
	assert.Equal(t, story.Declined, choice)
	assert.Equal(t, []string{"Chamado Recusado!", "Fim da jornada."}, b.lines)
}

func TestTellAcceptWinsWhenBothPressed(t *testing.T) {
	b := &board{pressed: map[story.Button]bool{story.Accept: true, story.Deny: true}}
	var slept []time.Duration
	choice, err := newTeller(b, &slept).Tell(story.DefaultScript())
	require.NoError(t, err)
	assert.Equal(t, story.Accepted, choice)
}

func TestTellOrder(t *testing.T) {
	b := &board{pressed: map[story.Button]bool{story.Accept: true}}
	var slept []time.Duration
	_, err := newTeller(b, &slept).Tell(story.DefaultScript())
	require.NoError(t, err)

	want := []string{
		"clear", "text", "text", "text", "text", "flush",
		"clear", "text", "text", "text", "text", "flush",
		"clear", "text", "text", "text", "flush",
		"glyph", "lamp",
		"note", "note", "note", "note",
		"clear", "text", "text", "flush",
	}
	assert.Equal(t, want, kinds(b.events))

	var notes []int64
	for _, e := range b.events {
		switch e.kind {
		case "note":
			notes = append(notes, e.n)
		case "lamp":
			assert.Equal(t, int64(1), e.n, "lamp must be blue")
		case "glyph":
			assert.Equal(t, int64(matrix.Cells), e.n)
		}
	}
	assert.Equal(t, []int64{story.C4, story.D4, story.E4, story.C4}, notes)
}

func TestTellOptionalPeripherals(t *testing.T) {
	b := &board{pressed: map[story.Button]bool{story.Deny: true}}
	var slept []time.Duration
	tl := newTeller(b, &slept)
	tl.Lamp = nil
	tl.Matrix = nil
	choice, err := tl.Tell(story.DefaultScript())
	require.NoError(t, err)
	assert.Equal(t, story.Declined, choice)
	assert.NotContains(t, kinds(b.events), "glyph")
	assert.NotContains(t, kinds(b.events), "lamp")
}

func TestTellErrors(t *testing.T) {
	var slept []time.Duration

	errFlush := errors.New("i2c nack")
	b := &board{flushErr: errFlush, pressed: map[story.Button]bool{story.Accept: true}}
	_, err := newTeller(b, &slept).Tell(story.DefaultScript())
	require.ErrorIs(t, err, errFlush)
	assert.Contains(t, err.Error(), "intro frame 0")

	errRender := errors.New("no state machine")
	b = &board{renderErr: errRender, pressed: map[story.Button]bool{story.Accept: true}}
	_, err = newTeller(b, &slept).Tell(story.DefaultScript())
	require.ErrorIs(t, err, errRender)
	assert.Zero(t, b.polls, "must not wait for an answer after a failed render")

	s := story.DefaultScript()
	s.Prompt.Lines = nil
	b = &board{}
	_, err = newTeller(b, &slept).Tell(s)
	require.Error(t, err)
	assert.Empty(t, b.events)
}

func TestPlayTuneRest(t *testing.T) {
	b := &board{}
	var slept []time.Duration
	tl := newTeller(b, &slept)
	tl.PlayTune([]story.Note{
		{Freq: story.E4, Duration: time.Second},
		{Freq: 0, Duration: 200 * time.Millisecond},
		{Freq: story.C4, Duration: time.Second},
	}, 10*time.Millisecond)

	assert.Equal(t, []string{"note", "note"}, kinds(b.events))
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond, 200 * time.Millisecond, 10 * time.Millisecond,
	}, slept)
}

func TestValidate(t *testing.T) {
	require.NoError(t, story.DefaultScript().Validate())

	s := story.DefaultScript()
	s.Glyph = s.Glyph[:24]
	assert.Error(t, s.Validate())

	s = story.DefaultScript()
	s.Glyph = nil
	assert.NoError(t, s.Validate())

	s = story.DefaultScript()
	s.Tune = append(s.Tune, story.Note{Freq: story.C4, Duration: -time.Second})
	assert.Error(t, s.Validate())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "accept", story.Accept.String())
	assert.Equal(t, "deny", story.Deny.String())
	assert.Equal(t, "accepted", story.Accepted.String())
	assert.Equal(t, "declined", story.Declined.String())
	assert.Equal(t, "none", story.Choice(0).String())
}
