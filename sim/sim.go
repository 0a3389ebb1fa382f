// Package sim runs the story on a development host: the panel and matrix
// are drawn on a terminal, notes and lamp changes are logged, and answers
// come from standard input or Linux GPIO lines. The matrix can also drive a
// real WS2812 strip over SPI.
package sim

import (
	"time"

	"github.com/rs/zerolog"
)

// Speaker logs each note and waits out its duration.
type Speaker struct {
	Log zerolog.Logger
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

func (s *Speaker) Play(freq uint32, d time.Duration) {
	s.Log.Info().Uint32("freq", freq).Dur("duration", d).Msg("tone")
	if s.Sleep != nil {
		s.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Lamp logs changes of the status LED.
type Lamp struct {
	Log zerolog.Logger
}

func (l *Lamp) Set(r, g, b bool) {
	l.Log.Info().Bool("r", r).Bool("g", g).Bool("b", b).Msg("lamp")
}
