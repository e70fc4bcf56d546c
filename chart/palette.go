package chart

import (
	"fmt"
	"image/color"
)

const skyBlueHex = "#87ceeb"

var skyBlue = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}

// plasmaStops samples the plasma colour map at 0, 0.1, ... 1.
var plasmaStops = []color.RGBA{
	{0x0d, 0x08, 0x87, 0xff},
	{0x41, 0x04, 0x9d, 0xff},
	{0x6a, 0x00, 0xa8, 0xff},
	{0x8f, 0x0d, 0xa4, 0xff},
	{0xb1, 0x2a, 0x90, 0xff},
	{0xcc, 0x47, 0x78, 0xff},
	{0xe1, 0x64, 0x62, 0xff},
	{0xf2, 0x84, 0x4b, 0xff},
	{0xfc, 0xa6, 0x36, 0xff},
	{0xfc, 0xce, 0x25, 0xff},
	{0xf0, 0xf9, 0x21, 0xff},
}

// plasma returns the colour at t in [0, 1].
func plasma(t float64) color.RGBA {
	if t <= 0 {
		return plasmaStops[0]
	}
	last := len(plasmaStops) - 1
	if t >= 1 {
		return plasmaStops[last]
	}
	pos := t * float64(last)
	i := int(pos)
	f := pos - float64(i)
	a, b := plasmaStops[i], plasmaStops[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(float64(x) + f*(float64(y)-float64(x)) + 0.5) }
	return color.RGBA{lerp(a.R, b.R), lerp(a.G, b.G), lerp(a.B, b.B), 0xff}
}

// ReversedPlasma spreads n colours evenly over plasma and returns them
// bright end first.
func ReversedPlasma(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := 0; i < n; i++ {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[n-1-i] = plasma(t)
	}
	return out
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
