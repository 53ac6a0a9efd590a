package structure

import (
	"strings"
	"testing"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

func fp(v float64) *float64 { return &v }
func sp(v string) *string   { return &v }

func structureFixture() *scene.Document {
	d := scene.New(320, 240, "#ffffff")
	d.Elements["bg"] = scene.Element{Type: scene.TypeRect, X: fp(0), Y: fp(0), Width: fp(320), Height: fp(240)}
	d.Elements["caption"] = scene.Element{Type: scene.TypeText, X: fp(10), Y: fp(20), Content: sp("a very long caption that keeps going")}
	d.Elements["grp"] = scene.Element{Type: scene.TypeGroup, Children: []string{"caption", "ghost"}}
	d.Order = []string{"bg", "caption", "grp"}
	return d
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(structureFixture(), Options{})

	fragments := []string{
		"digraph scene {",
		`"canvas" [label="canvas\n320×240"`,
		`"canvas" -> "bg";`,
		`"canvas" -> "grp";`,
		`"grp" -> "caption" [style=dashed];`,
		`"ghost" [label="ghost\n(missing)"`,
		`"grp" -> "ghost" [style=dashed];`,
	}
	for _, frag := range fragments {
		if !strings.Contains(dot, frag) {
			t.Errorf("DOT missing %q:\n%s", frag, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT should be a closed digraph")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(structureFixture(), Options{Detailed: true})

	if !strings.Contains(dot, "0,0 320x240") {
		t.Error("detailed rect label missing geometry")
	}
	if !strings.Contains(dot, "2 children") {
		t.Error("detailed group label missing child count")
	}
	// Long text content is truncated in labels.
	if strings.Contains(dot, "keeps going") {
		t.Error("text content should be truncated")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	doc := structureFixture()
	first := ToDOT(doc, Options{Detailed: true})
	for i := 0; i < 3; i++ {
		if ToDOT(doc, Options{Detailed: true}) != first {
			t.Fatal("repeated DOT conversions differ")
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 20, "short"},
		{"exactly-ten", 11, "exactly-ten"},
		{"much longer than allowed", 10, "much long…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
