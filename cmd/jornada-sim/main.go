// Command jornada-sim tells the story on a development host. The OLED panel
// and the LED matrix are drawn on the terminal; answers are typed ("a" to
// accept, "r" to decline) or read from GPIO buttons.
package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jornada-elemental/jornada/board"
	"github.com/jornada-elemental/jornada/config"
	"github.com/jornada-elemental/jornada/matrix"
	"github.com/jornada-elemental/jornada/sim"
	"github.com/jornada-elemental/jornada/story"
)

// pollInterval paces the wait for an answer so the host does not spin a core.
const pollInterval = 10 * time.Millisecond

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML settings file")
		scriptPath = flag.String("script", "", "path to a YAML story; overrides the settings file")
		speed      = flag.Float64("speed", 0, "time scale, 2 runs twice as fast; overrides the settings file")
		debug      = flag.Bool("debug", false, "log frames and notes")
	)
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading settings")
	}
	if *scriptPath != "" {
		cfg.Script = *scriptPath
	}
	if *speed > 0 {
		cfg.Speed = *speed
	}
	script, err := config.LoadScript(cfg.Script)
	if err != nil {
		log.Fatal().Err(err).Msg("loading story")
	}

	sleep := scaledSleep(cfg.Speed)
	p, closeMatrix := peripheral(cfg, os.Stdout)
	defer closeMatrix()
	m, err := matrix.New(p, board.PinMatrix, matrix.WithOrder(cfg.Order()))
	if err != nil {
		log.Fatal().Err(err).Msg("matrix")
	}
	buttons, closeButtons := answerSource(cfg)
	defer closeButtons()

	teller := &story.Teller{
		Display: sim.NewTerminal(os.Stdout),
		Speaker: &sim.Speaker{Log: log.Logger, Sleep: sleep},
		Buttons: buttons,
		Lamp:    &sim.Lamp{Log: log.Logger},
		Matrix:  m,
		Log:     log.Logger,
		Sleep:   sleep,
		Yield:   func() { time.Sleep(pollInterval) },
	}
	choice, err := teller.Tell(script)
	if err != nil {
		log.Error().Err(err).Msg("story aborted")
		return
	}
	log.Info().Stringer("choice", choice).Msg("chapter finished")
}

func peripheral(cfg config.Config, w io.Writer) (matrix.Peripheral, func()) {
	if cfg.Matrix.Driver == config.MatrixSPI {
		p := &sim.SPIMatrix{Port: cfg.Matrix.SPIPort, Order: cfg.Order(), Log: log.Logger}
		return p, func() {
			if err := p.Close(); err != nil {
				log.Warn().Err(err).Msg("closing spi port")
			}
		}
	}
	return sim.TerminalMatrix{W: w, Order: cfg.Order(), Log: log.Logger}, func() {}
}

func answerSource(cfg config.Config) (story.Buttons, func()) {
	if cfg.Buttons.Driver == config.ButtonsGPIO {
		b, err := sim.NewGPIOButtons(cfg.Buttons.Chip, cfg.Buttons.Accept, cfg.Buttons.Deny, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("gpio buttons")
		}
		return b, func() { b.Close() }
	}
	log.Info().Msg("type a to accept or r to decline")
	return sim.NewLineButtons(os.Stdin, log.Logger), func() {}
}

func scaledSleep(speed float64) func(time.Duration) {
	return func(d time.Duration) {
		time.Sleep(time.Duration(float64(d) / speed))
	}
}
