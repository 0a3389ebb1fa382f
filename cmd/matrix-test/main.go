//go:build rp2040

// Command matrix-test lights the BitDogLab 5x5 matrix with a fixed colour
// cycle, to check wiring and channel order before flashing the story.
package main

import (
	"time"

	"github.com/jornada-elemental/jornada/board"
	"github.com/jornada-elemental/jornada/matrix"
	"github.com/jornada-elemental/jornada/story"
)

func main() {
	m, err := board.NewMatrix()
	if err != nil {
		panic(err.Error())
	}
	full := make(matrix.Glyph, matrix.Cells)
	for i := range full {
		full[i] = 0.1
	}
	amber := matrix.Color{R: 1, G: 0.75}

	// The first pixel alone shows whether red and green are swapped.
	first := make(matrix.Glyph, matrix.Cells)
	first[0] = 0.2
	println("first pixel red")
	mustRender(m, first, matrix.Red)
	time.Sleep(3 * time.Second)

	for {
		println("red")
		mustRender(m, full, matrix.Red)
		time.Sleep(2 * time.Second)

		for i := 0; i < 2; i++ {
			const semiSleep = time.Second / 2
			mustRender(m, full, amber)
			time.Sleep(semiSleep)
			mustRender(m, full, matrix.Red)
			time.Sleep(semiSleep)
		}
		println("green")
		mustRender(m, full, matrix.Green)
		time.Sleep(2 * time.Second)

		println("blue")
		mustRender(m, full, matrix.Blue)
		time.Sleep(2 * time.Second)

		println("sigil")
		mustRender(m, story.Sigil, matrix.Orange)
		time.Sleep(4 * time.Second)

		mustRender(m, full, matrix.Off)
		time.Sleep(time.Second)
	}
}

func mustRender(m *matrix.Driver, g matrix.Glyph, c matrix.Color) {
	if err := m.Render(g, c); err != nil {
		panic(err.Error())
	}
}
