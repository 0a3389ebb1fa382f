// Package piolib holds PIO programs and the drivers that run them: a WS2812
// LED chain transmitter and a square-wave tone generator.
//
// Programs are assembled at package init with pio.Assembler, so the
// instruction words and state machine configurations can be tested off the
// target.
package piolib

import (
	"errors"
	"runtime"
)

var errNotInitialized = errors.New("piolib: WS2812 not initialized")

func gosched() {
	runtime.Gosched()
}
