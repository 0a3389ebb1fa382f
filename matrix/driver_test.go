package matrix_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornada-elemental/jornada/matrix"
)

// recorder is a Transmitter that keeps every word and reports a full queue
// for the next busyPolls calls to IsTxFIFOFull.
type recorder struct {
	words     []uint32
	busyPolls int
	polls     int
}

func (r *recorder) IsTxFIFOFull() bool {
	r.polls++
	if r.busyPolls > 0 {
		r.busyPolls--
		return true
	}
	return false
}

func (r *recorder) TxPut(word uint32) { r.words = append(r.words, word) }

type peripheral struct {
	tx     *recorder
	err    error
	pins   []uint8
	claims int
}

func (p *peripheral) Claim(pin uint8) (matrix.Transmitter, error) {
	p.claims++
	p.pins = append(p.pins, pin)
	if p.err != nil {
		return nil, p.err
	}
	return p.tx, nil
}

func newDriver(t *testing.T, opts ...matrix.Option) (*matrix.Driver, *recorder) {
	t.Helper()
	rec := &recorder{}
	d, err := matrix.New(&peripheral{tx: rec}, 7, opts...)
	require.NoError(t, err)
	return d, rec
}

func fill(v float64) matrix.Glyph {
	g := make(matrix.Glyph, matrix.Cells)
	for i := range g {
		g[i] = v
	}
	return g
}

func TestRenderEmitsOneWordPerCell(t *testing.T) {
	d, rec := newDriver(t)
	g := make(matrix.Glyph, matrix.Cells)
	for i := range g {
		g[i] = float64(i) / 24
	}
	require.NoError(t, d.Render(g, matrix.White))
	require.Len(t, rec.words, matrix.Cells)
	for i, w := range rec.words {
		lvl := matrix.Level(1, g[i])
		assert.Equal(t, matrix.Pack(matrix.OrderGRB, lvl, lvl, lvl), w, "cell %d", i)
	}
}

func TestRenderScenarios(t *testing.T) {
	tests := []struct {
		name  string
		glyph matrix.Glyph
		color matrix.Color
		order matrix.ChannelOrder
		want  uint32
	}{
		{"all off with white", fill(0), matrix.White, matrix.OrderGRB, 0x000000},
		{"zero intensity ignores colour", fill(0), matrix.Color{R: 1, G: 0.4, B: 0.9}, matrix.OrderGRB, 0x000000},
		{"full white", fill(1), matrix.White, matrix.OrderGRB, 0xFFFFFF},
		{"pure red GRB", fill(1), matrix.Red, matrix.OrderGRB, 0x00FF00},
		{"pure red RGB", fill(1), matrix.Red, matrix.OrderRGB, 0xFF0000},
		{"pure green GRB", fill(1), matrix.Green, matrix.OrderGRB, 0xFF0000},
		{"pure blue", fill(1), matrix.Blue, matrix.OrderGRB, 0x0000FF},
		{"orange GRB", fill(1), matrix.Orange, matrix.OrderGRB, 0x80FF00},
		{"half intensity rounds half up", fill(0.5), matrix.White, matrix.OrderGRB, 0x808080},
		{"channel above one clamps", fill(1), matrix.Color{R: 1.5, G: 1.5, B: 1.5}, matrix.OrderGRB, 0xFFFFFF},
		{"negative values clamp", fill(-0.3), matrix.White, matrix.OrderGRB, 0x000000},
		{"intensity above one clamps", fill(7), matrix.Blue, matrix.OrderGRB, 0x0000FF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := newDriver(t, matrix.WithOrder(tt.order))
			require.NoError(t, d.Render(tt.glyph, tt.color))
			require.Len(t, rec.words, matrix.Cells)
			for i, w := range rec.words {
				assert.Equalf(t, tt.want, w, "cell %d: %#06x", i, w)
			}
		})
	}
}

func TestRenderClampMatchesUnitChannel(t *testing.T) {
	g := fill(0.3)
	a, recA := newDriver(t)
	b, recB := newDriver(t)
	require.NoError(t, a.Render(g, matrix.Color{R: 1.5, G: 0.2}))
	require.NoError(t, b.Render(g, matrix.Color{R: 1.0, G: 0.2}))
	assert.Equal(t, recB.words, recA.words)
}

func TestRenderIsIdempotent(t *testing.T) {
	d, rec := newDriver(t)
	g := fill(0.3)
	require.NoError(t, d.Render(g, matrix.Orange))
	first := append([]uint32(nil), rec.words...)
	require.NoError(t, d.Render(g, matrix.Orange))
	require.Len(t, rec.words, 2*matrix.Cells)
	assert.Equal(t, first, rec.words[matrix.Cells:])
	assert.Equal(t, matrix.Orange, d.Color())
}

func TestRenderRejectsWrongGlyphLength(t *testing.T) {
	for _, n := range []int{0, 24, 26} {
		d, rec := newDriver(t)
		err := d.Render(make(matrix.Glyph, n), matrix.White)
		assert.ErrorIs(t, err, matrix.ErrContractViolation, "length %d", n)
		assert.Empty(t, rec.words, "length %d must not transmit", n)
	}
}

func TestRenderBeforeInit(t *testing.T) {
	var d matrix.Driver
	assert.Equal(t, matrix.Uninitialized, d.State())
	err := d.Render(fill(1), matrix.White)
	assert.ErrorIs(t, err, matrix.ErrContractViolation)
}

func TestInitLifecycle(t *testing.T) {
	var d matrix.Driver
	p := &peripheral{tx: &recorder{}}
	require.NoError(t, d.Init(p, 7))
	assert.Equal(t, matrix.Ready, d.State())
	assert.Equal(t, []uint8{7}, p.pins)

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Render(fill(1), matrix.Red))
	}

	err := d.Init(p, 7)
	assert.ErrorIs(t, err, matrix.ErrContractViolation)
	assert.Equal(t, 1, p.claims, "second Init must not claim another transmitter")
	assert.Equal(t, matrix.Ready, d.State())
}

func TestInitResourceUnavailable(t *testing.T) {
	claimErr := errors.New("pio: no free state machine")
	p := &peripheral{err: claimErr}
	d, err := matrix.New(p, 7)
	assert.Nil(t, d)
	assert.ErrorIs(t, err, matrix.ErrResourceUnavailable)
	assert.Contains(t, err.Error(), claimErr.Error())

	var zero matrix.Driver
	assert.ErrorIs(t, zero.Init(nil, 7), matrix.ErrResourceUnavailable)
	assert.Equal(t, matrix.Uninitialized, zero.State())
	assert.ErrorIs(t, zero.Render(fill(1), matrix.White), matrix.ErrContractViolation)
}

func TestRenderWaitsWhileQueueFull(t *testing.T) {
	d, rec := newDriver(t)
	rec.busyPolls = 10
	require.NoError(t, d.Render(fill(1), matrix.White))
	assert.Len(t, rec.words, matrix.Cells)
	assert.Equal(t, matrix.Cells+10, rec.polls)
}

func TestLevel(t *testing.T) {
	assert.Equal(t, uint8(0), matrix.Level(1, 0))
	assert.Equal(t, uint8(255), matrix.Level(1, 1))
	assert.Equal(t, uint8(128), matrix.Level(0.5, 1))
	assert.Equal(t, uint8(128), matrix.Level(1, 0.5))
	assert.Equal(t, uint8(64), matrix.Level(0.5, 0.5))
	assert.Equal(t, uint8(255), matrix.Level(2, 2))
	assert.Equal(t, uint8(0), matrix.Level(math.NaN(), 1))
	assert.Equal(t, uint8(0), matrix.Level(1, math.NaN()))
	assert.Equal(t, uint8(255), matrix.Level(math.Inf(1), 1))
}

func TestPackUnpack(t *testing.T) {
	assert.Equal(t, uint32(0x223311), matrix.Pack(matrix.OrderGRB, 0x33, 0x22, 0x11))
	assert.Equal(t, uint32(0x332211), matrix.Pack(matrix.OrderRGB, 0x33, 0x22, 0x11))
	for _, order := range []matrix.ChannelOrder{matrix.OrderGRB, matrix.OrderRGB} {
		r, g, b := matrix.Unpack(order, matrix.Pack(order, 0xAB, 0xCD, 0xEF))
		assert.Equal(t, [3]uint8{0xAB, 0xCD, 0xEF}, [3]uint8{r, g, b}, order.String())
	}
}

func TestEncodeAppends(t *testing.T) {
	dst := []uint32{0xdeadbe}
	out, err := matrix.Encode(fill(1), matrix.White, matrix.OrderGRB, dst)
	require.NoError(t, err)
	require.Len(t, out, 1+matrix.Cells)
	assert.Equal(t, uint32(0xdeadbe), out[0])

	out, err = matrix.Encode(fill(1)[:24], matrix.White, matrix.OrderGRB, dst)
	assert.ErrorIs(t, err, matrix.ErrContractViolation)
	assert.Equal(t, dst, out)
}

func TestParseChannelOrder(t *testing.T) {
	o, ok := matrix.ParseChannelOrder("RGB")
	assert.True(t, ok)
	assert.Equal(t, matrix.OrderRGB, o)
	_, ok = matrix.ParseChannelOrder("BRG")
	assert.False(t, ok)
}

func TestGlyphAt(t *testing.T) {
	g := make(matrix.Glyph, matrix.Cells)
	g[2*matrix.Width+3] = 0.7
	assert.Equal(t, 0.7, g.At(3, 2))
}
