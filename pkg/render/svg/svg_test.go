package svg

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

// fixtureDoc exercises gradients, effects, groups and every primitive the
// compiler emits defs for.
func fixtureDoc() *scene.Document {
	d := scene.New(400, 300, "#f0f0f0")
	d.Elements["bg"] = scene.Element{
		Type: scene.TypeRect, X: f(0), Y: f(0), Width: f(400), Height: f(300),
		Fill: &scene.Paint{Gradient: &scene.Gradient{
			Kind: scene.GradientLinear, Angle: 90,
			Stops: []scene.GradientStop{{Offset: 0, Color: "#ffffff"}, {Offset: 1, Color: "#000000"}},
		}},
	}
	d.Elements["sun"] = scene.Element{
		Type: scene.TypeEllipse, CX: f(300), CY: f(60), RX: f(30), RY: f(30),
		Fill: &scene.Paint{Color: "#ffcc00"},
		Glow: &scene.Glow{Radius: 8, Color: "#ffee88"},
	}
	d.Elements["card"] = scene.Element{
		Type: scene.TypeRect, X: f(40), Y: f(100), Width: f(120), Height: f(80), RX: f(8),
		Fill:   &scene.Paint{Color: "#ffffff"},
		Shadow: &scene.Shadow{DX: 2, DY: 4, Blur: 6, Color: "#00000040"},
	}
	d.Elements["label"] = scene.Element{
		Type: scene.TypeText, X: f(50), Y: f(130), Content: s("hello & <world>"),
	}
	d.Elements["pin"] = scene.Element{
		Type: scene.TypeIcon, Name: s("star"), X: f(200), Y: f(200), Size: f(48),
		Fill: &scene.Paint{Color: "#ff4400"},
	}
	d.Elements["grp"] = scene.Element{
		Type: scene.TypeGroup, X: f(10), Y: f(20), Children: []string{"label", "pin"},
	}
	d.Order = []string{"bg", "sun", "card", "label", "pin", "grp"}
	return d
}

func TestRenderDeterministic(t *testing.T) {
	doc := fixtureDoc()
	first, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Render(doc)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("repeated renders of the same document differ")
		}
	}
}

func TestRenderStructure(t *testing.T) {
	out, err := Render(fixtureDoc())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	svg := string(out)

	fragments := []string{
		`viewBox="0 0 400 300"`,
		`<rect x="0" y="0" width="400" height="300" fill="#f0f0f0"/>`,
		`<linearGradient id="grad-bg"`,
		`fill="url(#grad-bg)"`,
		`<filter id="fx-sun"`,
		`<filter id="fx-card"`,
		`<feDropShadow`,
		`filter="url(#fx-card)"`,
		`rx="8"`,
		`hello &amp; &lt;world&gt;`,
		`<g transform="translate(200 200) scale(2)">`,
		`<g transform="translate(10 20)">`,
	}
	for _, frag := range fragments {
		if !strings.Contains(svg, frag) {
			t.Errorf("output missing %q", frag)
		}
	}

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Error("output does not start with an svg root")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("output does not end with the svg close tag")
	}

	// Defs come before the background, background before elements.
	defsAt := strings.Index(svg, "<defs>")
	bgAt := strings.Index(svg, `fill="#f0f0f0"`)
	if defsAt < 0 || bgAt < 0 || defsAt > bgAt {
		t.Error("defs must precede the background rect")
	}
}

func TestRenderDefsFollowZOrder(t *testing.T) {
	out, err := Render(fixtureDoc())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	svg := string(out)

	sunAt := strings.Index(svg, `<filter id="fx-sun"`)
	cardAt := strings.Index(svg, `<filter id="fx-card"`)
	if sunAt < 0 || cardAt < 0 || sunAt > cardAt {
		t.Error("filters should be emitted in z-order")
	}
}

func TestRenderInvalidCanvas(t *testing.T) {
	doc := scene.New(0, 100, "")
	if _, err := Render(doc); err == nil {
		t.Error("Render should fail on non-positive canvas dimensions")
	}
}

func TestRenderDegradation(t *testing.T) {
	tests := []struct {
		name    string
		el      scene.Element
		comment string
	}{
		{
			name:    "unknown type",
			el:      scene.Element{Type: "sprite"},
			comment: `unknown type "sprite"`,
		},
		{
			name:    "missing fields",
			el:      scene.Element{Type: scene.TypeRect, X: f(0)},
			comment: `missing y,width,height`,
		},
		{
			name:    "unknown icon",
			el:      scene.Element{Type: scene.TypeIcon, Name: s("rocket"), X: f(0), Y: f(0), Size: f(24)},
			comment: `unknown icon "rocket"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := scene.New(100, 100, "")
			doc.Elements["e"] = tt.el
			doc.Order = []string{"e"}

			out, err := Render(doc)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if !strings.Contains(string(out), tt.comment) {
				t.Errorf("output missing comment %q:\n%s", tt.comment, out)
			}
		})
	}
}

func TestRenderGroupCycle(t *testing.T) {
	doc := scene.New(100, 100, "")
	doc.Elements["g1"] = scene.Element{Type: scene.TypeGroup, Children: []string{"g2"}}
	doc.Elements["g2"] = scene.Element{Type: scene.TypeGroup, Children: []string{"g1"}}
	doc.Order = []string{"g1", "g2"}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "reference cycle") {
		t.Error("cyclic groups should degrade to a comment")
	}
}

func TestRenderGroupUnresolvedChild(t *testing.T) {
	doc := scene.New(100, 100, "")
	doc.Elements["g"] = scene.Element{Type: scene.TypeGroup, Children: []string{"ghost"}}
	doc.Order = []string{"g"}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<g>") || !strings.Contains(string(out), "</g>") {
		t.Errorf("group with unresolved child should still emit its container:\n%s", out)
	}
}

func TestRenderGradientChildFallsBackToFirstStop(t *testing.T) {
	// A gradient on a group child is never pre-scanned; it resolves to its
	// first stop color at emission time.
	doc := scene.New(100, 100, "")
	doc.Elements["child"] = scene.Element{
		Type: scene.TypeRect, X: f(0), Y: f(0), Width: f(10), Height: f(10),
		Fill: &scene.Paint{Gradient: &scene.Gradient{
			Kind:  scene.GradientLinear,
			Stops: []scene.GradientStop{{Offset: 0, Color: "#aabbcc"}},
		}},
	}
	doc.Elements["g"] = scene.Element{Type: scene.TypeGroup, Children: []string{"child"}}
	doc.Order = []string{"child", "g"}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// The top-level occurrence gets a def; the in-group occurrence shares it.
	if !strings.Contains(string(out), `fill="url(#grad-child)"`) {
		t.Errorf("expected gradient reference in output:\n%s", out)
	}
}

func TestRenderGradientBackground(t *testing.T) {
	doc := scene.New(100, 100, "")
	doc.Canvas.Background = scene.Paint{Gradient: &scene.Gradient{
		Kind:  scene.GradientRadial,
		Stops: []scene.GradientStop{{Offset: 0, Color: "#fff"}, {Offset: 1, Color: "#000"}},
	}}

	out, err := Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	svg := string(out)
	if !strings.Contains(svg, `<radialGradient id="grad-canvas"`) {
		t.Error("background gradient def missing")
	}
	if !strings.Contains(svg, `fill="url(#grad-canvas)"`) {
		t.Error("background rect should reference the gradient")
	}
}

func TestGradientEndpoints(t *testing.T) {
	tests := []struct {
		angle          float64
		x1, y1, x2, y2 float64
	}{
		{0, 0.5, 1, 0.5, 0},   // up
		{90, 0, 0.5, 1, 0.5},  // right
		{180, 0.5, 0, 0.5, 1}, // down
	}
	const eps = 1e-9
	for _, tt := range tests {
		x1, y1, x2, y2 := gradientEndpoints(tt.angle)
		for _, d := range []float64{x1 - tt.x1, y1 - tt.y1, x2 - tt.x2, y2 - tt.y2} {
			if d > eps || d < -eps {
				t.Errorf("angle %v: endpoints (%v %v %v %v), want (%v %v %v %v)",
					tt.angle, x1, y1, x2, y2, tt.x1, tt.y1, tt.x2, tt.y2)
				break
			}
		}
	}
}

func TestIconNamesSorted(t *testing.T) {
	names := IconNames()
	if len(names) == 0 {
		t.Fatal("no builtin icons")
	}
	if !slices.IsSorted(names) {
		t.Errorf("IconNames() = %v, want sorted", names)
	}
	if !slices.Contains(names, "star") {
		t.Error("builtin set should contain star")
	}
}

func TestEscape(t *testing.T) {
	got := escape(`a & b < c > "d"`)
	want := "a &amp; b &lt; c &gt; &quot;d&quot;"
	if got != want {
		t.Errorf("escape = %q, want %q", got, want)
	}
}
