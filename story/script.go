package story

import (
	"errors"
	"fmt"
	"time"

	"github.com/jornada-elemental/jornada/matrix"
)

// Line is a line of text drawn with its top-left corner at X, Y on a 128x64 display.
type Line struct {
	Text string `yaml:"text"`
	X    int16  `yaml:"x"`
	Y    int16  `yaml:"y"`
}

// Frame is one screen of the story. Hold is how long the frame stays up
// before the story moves on; prompt and ending frames ignore it.
type Frame struct {
	Lines []Line        `yaml:"lines"`
	Hold  time.Duration `yaml:"hold"`
}

// Note is a tone of Freq Hz played for Duration. A zero Freq is a rest.
type Note struct {
	Freq     uint32        `yaml:"freq"`
	Duration time.Duration `yaml:"duration"`
}

// Script is a single chapter: intro frames, a yes/no prompt with a glyph and
// a tune, and one ending frame per answer.
type Script struct {
	Title      string        `yaml:"title"`
	Intro      []Frame       `yaml:"intro"`
	Prompt     Frame         `yaml:"prompt"`
	Glyph      matrix.Glyph  `yaml:"glyph"`
	GlyphColor matrix.Color  `yaml:"glyph_color"`
	Tune       []Note        `yaml:"tune"`
	NoteGap    time.Duration `yaml:"note_gap"`
	Accepted   Frame         `yaml:"accepted"`
	Declined   Frame         `yaml:"declined"`
}

var errEmptyPrompt = errors.New("story: prompt frame has no lines")

// Validate checks the script can be told.
func (s Script) Validate() error {
	if len(s.Prompt.Lines) == 0 {
		return errEmptyPrompt
	}
	if s.Glyph != nil && len(s.Glyph) != matrix.Cells {
		return fmt.Errorf("story: glyph has %d cells, want %d", len(s.Glyph), matrix.Cells)
	}
	for i, n := range s.Tune {
		if n.Duration < 0 {
			return fmt.Errorf("story: note %d has negative duration", i)
		}
	}
	return nil
}

// Sigil is the glyph shown while the story waits for an answer.
var Sigil = matrix.Glyph{
	0.0, 0.3, 0.0, 0.3, 0.0,
	0.3, 0.0, 0.3, 0.0, 0.3,
	0.0, 0.3, 0.3, 0.3, 0.0,
	0.3, 0.0, 0.3, 0.0, 0.3,
	0.0, 0.3, 0.0, 0.3, 0.0,
}

// Note frequencies in Hz.
const (
	C4 = 262
	D4 = 294
	E4 = 330
)

// DefaultScript returns chapter one, "O Chamado do Destino".
func DefaultScript() Script {
	const hold = 7 * time.Second
	const beat = 500 * time.Millisecond
	return Script{
		Title: "Capitulo 1: O Chamado do Destino",
		Intro: []Frame{
			{
				Lines: []Line{
					{Text: "O Chamado do", X: 8, Y: 0},
					{Text: "Destino", X: 8, Y: 10},
					{Text: "Em uma noite", X: 8, Y: 20},
					{Text: "calma,", X: 8, Y: 30},
				},
				Hold: hold,
			},
			{
				Lines: []Line{
					{Text: "uma visao", X: 8, Y: 0},
					{Text: "misteriosa", X: 8, Y: 10},
					{Text: "revela um", X: 8, Y: 20},
					{Text: "segredo antigo", X: 8, Y: 30},
				},
				Hold: hold,
			},
		},
		Prompt: Frame{
			Lines: []Line{
				{Text: "Aceita aventura?", X: 8, Y: 10},
				{Text: "Aceitar: Botao 5", X: 8, Y: 30},
				{Text: "Recusar: Botao 6", X: 8, Y: 40},
			},
		},
		Glyph:      Sigil,
		GlyphColor: matrix.Orange,
		Tune: []Note{
			{Freq: C4, Duration: beat},
			{Freq: D4, Duration: beat},
			{Freq: E4, Duration: beat},
			{Freq: C4, Duration: beat},
		},
		NoteGap: 50 * time.Millisecond,
		Accepted: Frame{
			Lines: []Line{
				{Text: "Chamado Aceito!", X: 0, Y: 20},
				{Text: "Iniciando aventura...", X: 0, Y: 40},
			},
		},
		Declined: Frame{
			Lines: []Line{
				{Text: "Chamado Recusado!", X: 20, Y: 20},
				{Text: "Fim da jornada.", X: 20, Y: 40},
			},
		},
	}
}
