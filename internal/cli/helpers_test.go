package cli

import (
	"testing"

	"github.com/inkwell-studio/inkwell/pkg/render/export"
)

func TestSanitizeBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunset Over Water", "sunset-over-water"},
		{"Card #3 (draft)", "card-3-draft"},
		{"already-clean", "already-clean"},
		{"under_scored", "under-scored"},
		{"!!!", "scene"},
		{"", "scene"},
	}
	for _, tt := range tests {
		if got := sanitizeBase(tt.in); got != tt.want {
			t.Errorf("sanitizeBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithExt(t *testing.T) {
	tests := []struct {
		base, ext string
		want      string
	}{
		{"out", "svg", "out.svg"},
		{"out.png", "svg", "out.svg"},
		{"dir/scene.json", "png", "dir/scene.png"},
	}
	for _, tt := range tests {
		if got := withExt(tt.base, tt.ext); got != tt.want {
			t.Errorf("withExt(%q, %q) = %q, want %q", tt.base, tt.ext, got, tt.want)
		}
	}
}

func TestTrimExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo"},
		{"dir/sub/photo.png", "photo"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := trimExtension(tt.in); got != tt.want {
			t.Errorf("trimExtension(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []export.Format
		wantErr bool
	}{
		{"", []export.Format{export.FormatSVG}, false},
		{"png", []export.Format{export.FormatPNG}, false},
		{"svg, png ,pdf", []export.Format{export.FormatSVG, export.FormatPNG, export.FormatPDF}, false},
		{"svg,webp", nil, true},
	}
	for _, tt := range tests {
		got, err := parseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
