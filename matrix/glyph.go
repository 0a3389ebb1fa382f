package matrix

import "math"

// Matrix geometry.
const (
	Width  = 5
	Height = 5
	Cells  = Width * Height
)

// Glyph is a row-major brightness map of the 5x5 matrix. Each value is a
// cell intensity in [0, 1]; values outside are clamped when rendered.
// A Glyph must hold exactly Cells values.
type Glyph []float64

// At returns the intensity of the cell at column x, row y.
func (g Glyph) At(x, y int) float64 {
	return g[y*Width+x]
}

// Color is an RGB colour with channels in [0, 1]. One colour applies to every
// lit cell of a glyph; a cell's intensity scales it.
type Color struct {
	R, G, B float64
}

// Named colours.
var (
	Off    = Color{}
	White  = Color{R: 1, G: 1, B: 1}
	Red    = Color{R: 1}
	Green  = Color{G: 1}
	Blue   = Color{B: 1}
	Orange = Color{R: 1, G: 0.5}
)

// Level returns the 8-bit output level of one channel for a cell:
// round(channel * intensity * 255), with both inputs clamped to [0, 1]
// and halves rounded up.
func Level(channel, intensity float64) uint8 {
	v := clamp(channel) * clamp(intensity) * 255
	return uint8(math.Floor(v + 0.5))
}

// clamp limits v to [0, 1]. NaN maps to 0.
func clamp(v float64) float64 {
	switch {
	case !(v > 0):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ChannelOrder is the order in which an LED part expects its three channels,
// most significant first.
type ChannelOrder uint8

const (
	// OrderGRB is the WS2812 wire order and the default.
	OrderGRB ChannelOrder = iota
	OrderRGB
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderGRB:
		return "GRB"
	case OrderRGB:
		return "RGB"
	}
	return "ChannelOrder(?)"
}

// ParseChannelOrder parses "GRB" or "RGB".
func ParseChannelOrder(s string) (ChannelOrder, bool) {
	switch s {
	case "GRB", "grb":
		return OrderGRB, true
	case "RGB", "rgb":
		return OrderRGB, true
	}
	return OrderGRB, false
}

// Pack packs three channel levels into a 24-bit word in the given order,
// first channel in bits 23..16.
func Pack(order ChannelOrder, r, g, b uint8) uint32 {
	if order == OrderRGB {
		return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	}
	return uint32(g)<<16 | uint32(r)<<8 | uint32(b)
}

// Unpack is the inverse of Pack.
func Unpack(order ChannelOrder, word uint32) (r, g, b uint8) {
	hi, mid, lo := uint8(word>>16), uint8(word>>8), uint8(word)
	if order == OrderRGB {
		return hi, mid, lo
	}
	return mid, hi, lo
}
