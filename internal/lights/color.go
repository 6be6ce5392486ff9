package lights

import (
	"fmt"
	"strconv"
	"strings"
)

// RGBToBrightness maps a packed 0xRRGGBB color to a perceptual luma in
// [0,255] using 8-bit fixed point weights. Bits above 23 are ignored.
func RGBToBrightness(color uint32) uint32 {
	r := (color >> 16) & 0xff
	g := (color >> 8) & 0xff
	b := color & 0xff
	return (77*r + 150*g + 29*b) >> 8
}

// ScaleBrightness scales a luma in [0,255] into a device range of [0,max],
// rounding half up.
func ScaleBrightness(luma, max uint32) uint32 {
	return uint32((uint64(luma)*uint64(max) + 127) / 255)
}

// ParseColor parses "0xRRGGBB", "#RRGGBB" or a decimal integer.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}

	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}
