package studio

import (
	"fmt"
	"image"
	"strings"
)

// =============================================================================
// Color grid sampling
// =============================================================================

// Vision models name colors unreliably, so reconstruction feeds them a small
// grid of exact pixel values alongside the image. The grid samples the target
// at cell centers and skips near-white and near-black cells, which are almost
// always background or outline rather than subject color.

const samplerGrid = 8

// sampleColors renders an N by N sample of the image as one line per kept
// cell: "(x%, y%): #rrggbb". Returns "" when nothing survives the filter.
func sampleColors(img image.Image) string {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	var sb strings.Builder
	for row := 0; row < samplerGrid; row++ {
		for col := 0; col < samplerGrid; col++ {
			px := b.Min.X + b.Dx()*(2*col+1)/(2*samplerGrid)
			py := b.Min.Y + b.Dy()*(2*row+1)/(2*samplerGrid)
			r, g, bl, _ := img.At(px, py).RGBA()
			r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			if nearExtreme(r8, g8, b8) {
				continue
			}
			fmt.Fprintf(&sb, "(%d%%, %d%%): #%02x%02x%02x\n",
				(2*col+1)*100/(2*samplerGrid),
				(2*row+1)*100/(2*samplerGrid),
				r8, g8, b8)
		}
	}
	return sb.String()
}

// nearExtreme reports whether a color sits close enough to pure white or
// pure black that naming it would add noise rather than signal.
func nearExtreme(r, g, b uint8) bool {
	const margin = 16
	if r >= 255-margin && g >= 255-margin && b >= 255-margin {
		return true
	}
	return r <= margin && g <= margin && b <= margin
}
