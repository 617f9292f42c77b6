package render

import "image/color"

var ansi16 = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, {0x80, 0x00, 0x00, 0xff}, {0x00, 0x80, 0x00, 0xff}, {0x80, 0x80, 0x00, 0xff},
	{0x00, 0x00, 0x80, 0xff}, {0x80, 0x00, 0x80, 0xff}, {0x00, 0x80, 0x80, 0xff}, {0xc0, 0xc0, 0xc0, 0xff},
	{0x80, 0x80, 0x80, 0xff}, {0xff, 0x00, 0x00, 0xff}, {0x00, 0xff, 0x00, 0xff}, {0xff, 0xff, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff}, {0xff, 0x00, 0xff, 0xff}, {0x00, 0xff, 0xff, 0xff}, {0xff, 0xff, 0xff, 0xff},
}

var cubeLevels = [6]uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

// RGBA returns the xterm 256 color palette value of c, or fallback for
// ColorDefault and out of range colors.
func (c Color) RGBA(fallback color.RGBA) color.RGBA {
	idx, ok := c.Index()
	switch {
	case !ok || idx < 0 || idx > 255:
		return fallback
	case idx < 16:
		return ansi16[idx]
	case idx < 232:
		idx -= 16
		return color.RGBA{cubeLevels[idx/36], cubeLevels[idx/6%6], cubeLevels[idx%6], 0xff}
	default:
		v := uint8(8 + 10*(idx-232))
		return color.RGBA{v, v, v, 0xff}
	}
}
