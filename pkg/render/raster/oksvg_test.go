package raster

import (
	"bytes"
	"image/png"
	"testing"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50" width="100" height="50">
<rect x="0" y="0" width="100" height="50" fill="#336699"/>
<rect x="10" y="10" width="30" height="30" fill="#ffffff"/>
</svg>`

func TestEngineRasterize(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		w, h  int
	}{
		{"unit scale", 1, 100, 50},
		{"double scale", 2, 200, 100},
		{"half scale", 0.5, 50, 25},
		{"non-positive defaults to one", 0, 100, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Engine{}.Rasterize([]byte(testSVG), tt.scale)
			if err != nil {
				t.Fatalf("Rasterize: %v", err)
			}
			img, err := png.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
				t.Errorf("dimensions = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.w, tt.h)
			}
		})
	}
}

func TestEngineDeterministic(t *testing.T) {
	first, err := Engine{}.Rasterize([]byte(testSVG), 1)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	again, err := Engine{}.Rasterize([]byte(testSVG), 1)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if !bytes.Equal(first, again) {
		t.Error("identical input should produce identical PNG bytes")
	}
}

func TestEngineRejectsGarbage(t *testing.T) {
	if _, err := (Engine{}).Rasterize([]byte("not svg at all"), 1); err == nil {
		t.Error("garbage input should fail to parse")
	}
}

func TestDefaultIsEngine(t *testing.T) {
	if _, ok := Default().(Engine); !ok {
		t.Errorf("Default() = %T, want Engine", Default())
	}
}
