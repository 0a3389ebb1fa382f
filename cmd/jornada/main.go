//go:build rp2040

// Command jornada is the BitDogLab firmware. Flash it with:
//
//	tinygo flash -target=pico ./cmd/jornada
//
// Progress is logged as JSON lines on the USB serial port.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jornada-elemental/jornada/board"
	"github.com/jornada-elemental/jornada/story"
)

func main() {
	log := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	// Give the host time to open the serial port.
	time.Sleep(2 * time.Second)

	teller, err := setup(log)
	if err != nil {
		log.Error().Err(err).Msg("start-up failed")
		halt()
	}
	choice, err := teller.Tell(story.DefaultScript())
	if err != nil {
		log.Error().Err(err).Msg("story aborted")
		halt()
	}
	log.Info().Stringer("choice", choice).Msg("chapter finished")
	halt()
}

func setup(log zerolog.Logger) (*story.Teller, error) {
	display, err := board.NewDisplay()
	if err != nil {
		return nil, err
	}
	m, err := board.NewMatrix()
	if err != nil {
		return nil, err
	}
	speaker, err := board.NewSpeaker()
	if err != nil {
		return nil, err
	}
	return &story.Teller{
		Display: display,
		Speaker: speaker,
		Buttons: board.NewButtons(),
		Lamp:    board.NewLamp(),
		Matrix:  m,
		Log:     log,
	}, nil
}

func halt() {
	select {}
}
