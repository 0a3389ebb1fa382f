package sim

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/jornada-elemental/jornada/matrix"
)

var errNoWriter = errors.New("sim: matrix has no writer")

// frameTx is a Transmitter that gathers one word per cell and hands each
// complete frame to flush. It never reports a full FIFO.
type frameTx struct {
	words [matrix.Cells]uint32
	n     int
	flush func(words []uint32) error
	log   zerolog.Logger
}

func (f *frameTx) IsTxFIFOFull() bool { return false }

func (f *frameTx) TxPut(word uint32) {
	f.words[f.n] = word & 0xFFFFFF
	f.n++
	if f.n < len(f.words) {
		return
	}
	f.n = 0
	if err := f.flush(f.words[:]); err != nil {
		f.log.Error().Err(err).Msg("matrix frame")
	}
}

// TerminalMatrix paints each frame as a 5x5 block of ANSI truecolor cells.
// It implements matrix.Peripheral.
type TerminalMatrix struct {
	W     io.Writer
	Order matrix.ChannelOrder
	Log   zerolog.Logger
}

func (m TerminalMatrix) Claim(pin uint8) (matrix.Transmitter, error) {
	if m.W == nil {
		return nil, errNoWriter
	}
	m.Log.Debug().Uint8("pin", pin).Msg("terminal matrix")
	return &frameTx{
		flush: func(words []uint32) error {
			_, err := io.WriteString(m.W, paint(words, m.Order))
			return err
		},
		log: m.Log,
	}, nil
}

func paint(words []uint32, order matrix.ChannelOrder) string {
	var sb strings.Builder
	for i, w := range words {
		r, g, b := matrix.Unpack(order, w)
		fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm  ", r, g, b)
		if i%matrix.Width == matrix.Width-1 {
			sb.WriteString("\x1b[0m\n")
		}
	}
	return sb.String()
}

// stripFreq is the SPI clock for nrzled, three SPI bits per WS2812 bit.
const stripFreq = 2500 * physic.KiloHertz

// NewStrip drives a WS2812 strip of matrix.Cells pixels on an SPI port.
// Words are decoded with order before nrzled reorders them for the wire.
func NewStrip(p spi.Port, order matrix.ChannelOrder, log zerolog.Logger) (matrix.Transmitter, error) {
	dev, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: matrix.Cells,
		Channels:  3,
		Freq:      stripFreq,
	})
	if err != nil {
		return nil, err
	}
	pixels := make([]byte, 3*matrix.Cells)
	return &frameTx{
		flush: func(words []uint32) error {
			for i, w := range words {
				pixels[3*i], pixels[3*i+1], pixels[3*i+2] = matrix.Unpack(order, w)
			}
			_, err := dev.Write(pixels)
			return err
		},
		log: log,
	}, nil
}

// SPIMatrix drives a real strip on a host SPI port through periph.io. The
// claim pin is ignored: data leaves on the port's MOSI line. It implements
// matrix.Peripheral.
type SPIMatrix struct {
	Port  string
	Order matrix.ChannelOrder
	Log   zerolog.Logger

	closer spi.PortCloser
}

func (m *SPIMatrix) Claim(pin uint8) (matrix.Transmitter, error) {
	if _, err := host.Init(); err != nil {
		return nil, err
	}
	p, err := spireg.Open(m.Port)
	if err != nil {
		return nil, err
	}
	tx, err := NewStrip(p, m.Order, m.Log)
	if err != nil {
		p.Close()
		return nil, err
	}
	m.closer = p
	m.Log.Info().Str("port", p.String()).Msg("spi matrix")
	return tx, nil
}

// Close releases the SPI port.
func (m *SPIMatrix) Close() error {
	if m.closer == nil {
		return nil
	}
	return m.closer.Close()
}
