package raster

import (
	"bytes"
	"fmt"
	"os/exec"
)

// RsvgEngine rasterizes by shelling out to rsvg-convert. It handles SVG
// features the in-process engine does not (filters, text shaping) and also
// provides PDF export, at the cost of requiring librsvg on the host.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RsvgEngine struct{}

// Rasterize converts SVG bytes to PNG at the given scale factor.
func (RsvgEngine) Rasterize(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// ToPDF converts SVG bytes to PDF. PDF is a vector passthrough, not a
// raster format, so there is no scale parameter.
func (RsvgEngine) ToPDF(svg []byte) ([]byte, error) {
	return rsvgConvert(svg, "pdf")
}

// Available reports whether rsvg-convert is on PATH.
func (RsvgEngine) Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
