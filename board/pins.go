// Package board binds the story to the BitDogLab RP2040 board: an SSD1306
// OLED, a buzzer, two push buttons, an RGB status LED and a 5x5 WS2812
// matrix.
package board

// BitDogLab GPIO numbers.
const (
	PinSDA      = 14
	PinSCL      = 15
	PinLampR    = 13
	PinLampG    = 11
	PinLampB    = 12
	PinBuzzer   = 10
	PinAccept   = 5
	PinDeny     = 6
	PinMatrix   = 7
	PanelWidth  = 128
	PanelHeight = 64
	PanelAddr   = 0x3C
	I2CFreqHz   = 100_000
)

// Text lines are addressed by their top-left corner; tinyfont draws from the
// baseline, which sits this many pixels below the top of the proggy font.
const baseline = 7
