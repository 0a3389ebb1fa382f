//go:build rp2040

package board

import (
	"fmt"
	"image/color"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"github.com/jornada-elemental/jornada/matrix"
	pio "github.com/jornada-elemental/jornada/rp2-pio"
	"github.com/jornada-elemental/jornada/rp2-pio/piolib"
	"github.com/jornada-elemental/jornada/story"
)

var white = color.RGBA{255, 255, 255, 255}

// Display is the OLED panel on I2C1.
type Display struct {
	dev ssd1306.Device
}

// NewDisplay configures I2C1 and the panel, and blanks it.
func NewDisplay() (*Display, error) {
	err := machine.I2C1.Configure(machine.I2CConfig{
		Frequency: I2CFreqHz,
		SDA:       PinSDA,
		SCL:       PinSCL,
	})
	if err != nil {
		return nil, err
	}
	d := &Display{dev: ssd1306.NewI2C(machine.I2C1)}
	d.dev.Configure(ssd1306.Config{
		Address:  PanelAddr,
		Width:    PanelWidth,
		Height:   PanelHeight,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	d.dev.ClearDisplay()
	return d, nil
}

func (d *Display) Clear() { d.dev.ClearBuffer() }

// DrawText writes text with its top-left corner at x, y.
func (d *Display) DrawText(x, y int16, text string) {
	tinyfont.WriteLine(&d.dev, &proggy.TinySZ8pt7b, x, y+baseline, text, white)
}

func (d *Display) Flush() error { return d.dev.Display() }

// Speaker is the passive buzzer, driven by a PIO square-wave generator.
type Speaker struct {
	tone  *piolib.Tone
	sleep func(time.Duration)
}

// NewSpeaker claims a PIO0 state machine for the buzzer and leaves it silent.
func NewSpeaker() (*Speaker, error) {
	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		return nil, err
	}
	tone, err := piolib.NewTone(sm, PinBuzzer)
	if err != nil {
		sm.Unclaim()
		return nil, fmt.Errorf("board: buzzer on GPIO%d: %w", PinBuzzer, err)
	}
	return &Speaker{tone: tone, sleep: time.Sleep}, nil
}

// Play sounds freq Hz at 50% duty for d and returns when it ends. A zero
// freq, or one the generator cannot reach, is silent for d.
func (s *Speaker) Play(freq uint32, d time.Duration) {
	if freq != 0 {
		if err := s.tone.Play(freq, d); err != nil {
			s.tone.Stop()
		}
	}
	s.sleep(d)
}

// Buttons are the accept and deny keys, pulled up and active low.
type Buttons struct {
	accept, deny machine.Pin
}

func NewButtons() *Buttons {
	b := &Buttons{accept: PinAccept, deny: PinDeny}
	b.accept.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	b.deny.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return b
}

func (b *Buttons) Pressed(btn story.Button) bool {
	if btn == story.Deny {
		return !b.deny.Get()
	}
	return !b.accept.Get()
}

// Lamp is the RGB status LED.
type Lamp struct {
	r, g, b machine.Pin
}

func NewLamp() *Lamp {
	l := &Lamp{r: PinLampR, g: PinLampG, b: PinLampB}
	for _, p := range []machine.Pin{l.r, l.g, l.b} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Low()
	}
	return l
}

func (l *Lamp) Set(r, g, b bool) {
	l.r.Set(r)
	l.g.Set(g)
	l.b.Set(b)
}

// NewMatrix claims a PIO0 state machine for the WS2812 matrix on GPIO7.
func NewMatrix(opts ...matrix.Option) (*matrix.Driver, error) {
	d, err := matrix.New(piolib.Matrix{PIO: pio.PIO0}, PinMatrix, opts...)
	if err != nil {
		return nil, fmt.Errorf("board: matrix on GPIO%d: %w", PinMatrix, err)
	}
	return d, nil
}
