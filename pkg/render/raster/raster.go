// Package raster converts the intermediate vector representation (SVG
// bytes) into PNG pixels.
//
// The conversion sits behind the narrow [Rasterizer] interface so the
// engine is replaceable: any deterministic vector-to-raster engine
// satisfies it. Determinism — identical SVG plus scale produces
// byte-for-byte identical PNG — matters because raster output feeds the
// reconstruction critique loop and stored thumbnails.
package raster

// Rasterizer turns SVG bytes into PNG-encoded pixels at the given scale
// factor (1 for editing previews, higher for exports).
type Rasterizer interface {
	Rasterize(svg []byte, scale float64) ([]byte, error)
}

// Default returns the in-process engine.
func Default() Rasterizer {
	return Engine{}
}
