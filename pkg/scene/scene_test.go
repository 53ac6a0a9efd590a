package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func rect(x, y, w, h float64) Element {
	return Element{Type: TypeRect, X: f(x), Y: f(y), Width: f(w), Height: f(h)}
}

func TestNewDefaults(t *testing.T) {
	d := New(800, 600, "")
	if d.Canvas.Width != 800 || d.Canvas.Height != 600 {
		t.Errorf("canvas = %dx%d, want 800x600", d.Canvas.Width, d.Canvas.Height)
	}
	if d.Canvas.Background.Color != "#ffffff" {
		t.Errorf("background = %q, want white default", d.Canvas.Background.Color)
	}
	if d.Elements == nil || d.Order == nil {
		t.Error("New should initialize Elements and Order")
	}
	if err := d.Validate(); err != nil {
		t.Errorf("empty document should validate: %v", err)
	}
}

func TestCanvasValidate(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		wantErr bool
	}{
		{"valid", 100, 100, false},
		{"zero width", 0, 100, true},
		{"negative height", 100, -1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Canvas{Width: tt.w, Height: tt.h}
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Document)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(d *Document) {},
		},
		{
			name: "order references missing element",
			mutate: func(d *Document) {
				d.Order = append(d.Order, "ghost")
			},
			wantErr: "missing element",
		},
		{
			name: "element missing from order",
			mutate: func(d *Document) {
				d.Elements["orphan"] = rect(0, 0, 1, 1)
			},
			wantErr: "missing from order",
		},
		{
			name: "duplicate id in order",
			mutate: func(d *Document) {
				d.Order = append(d.Order, "a")
			},
			wantErr: "duplicate",
		},
		{
			name: "reserved id as element key",
			mutate: func(d *Document) {
				d.Elements[ReservedCanvasID] = rect(0, 0, 1, 1)
				d.Order = append(d.Order, ReservedCanvasID)
			},
			wantErr: "reserved",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(100, 100, "")
			d.Elements["a"] = rect(0, 0, 10, 10)
			d.Order = []string{"a"}
			tt.mutate(d)

			err := d.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	d := New(100, 100, "#000000")
	d.Elements["a"] = Element{
		Type: TypeGroup, X: f(5), Children: []string{"b"},
		Fill: &Paint{Gradient: &Gradient{Kind: GradientLinear, Stops: []GradientStop{{0, "#fff"}, {1, "#000"}}}},
	}
	d.Elements["b"] = rect(0, 0, 10, 10)
	d.Order = []string{"a", "b"}

	c := d.Clone()
	if !d.Equal(c) {
		t.Fatal("clone should equal the original")
	}

	// Mutations of the clone must not leak back.
	el := c.Elements["a"]
	*el.X = 99
	el.Children[0] = "z"
	el.Fill.Gradient.Stops[0].Color = "#123456"
	c.Elements["a"] = el
	c.Order[0] = "b"

	if *d.Elements["a"].X != 5 {
		t.Error("clone shares geometry pointer with original")
	}
	if d.Elements["a"].Children[0] != "b" {
		t.Error("clone shares children slice with original")
	}
	if d.Elements["a"].Fill.Gradient.Stops[0].Color != "#fff" {
		t.Error("clone shares gradient stops with original")
	}
	if d.Order[0] != "a" {
		t.Error("clone shares order slice with original")
	}
}

func TestPaintJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want func(Paint) bool
	}{
		{
			name: "solid color string",
			in:   `"#ff8800"`,
			want: func(p Paint) bool { return p.Color == "#ff8800" && !p.IsGradient() },
		},
		{
			name: "linear gradient object",
			in:   `{"kind":"linear","angle":90,"stops":[{"offset":0,"color":"#fff"},{"offset":1,"color":"#000"}]}`,
			want: func(p Paint) bool {
				return p.IsGradient() && p.Gradient.Kind == GradientLinear &&
					p.Gradient.Angle == 90 && len(p.Gradient.Stops) == 2
			},
		},
		{
			name: "radial gradient object",
			in:   `{"kind":"radial","stops":[{"offset":0,"color":"#abc"}]}`,
			want: func(p Paint) bool { return p.IsGradient() && p.Gradient.Kind == GradientRadial },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Paint
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if !tt.want(p) {
				t.Errorf("parsed paint %+v does not match", p)
			}

			out, err := json.Marshal(p)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var p2 Paint
			if err := json.Unmarshal(out, &p2); err != nil {
				t.Fatalf("re-Unmarshal: %v", err)
			}
			if !tt.want(p2) {
				t.Errorf("paint did not survive a round trip: %s", out)
			}
		})
	}
}

func TestPaintUnmarshalSwitchesVariant(t *testing.T) {
	var p Paint
	if err := json.Unmarshal([]byte(`{"kind":"linear","stops":[]}`), &p); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"#112233"`), &p); err != nil {
		t.Fatal(err)
	}
	if p.IsGradient() {
		t.Error("unmarshal of a string should clear a previous gradient")
	}
}

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		name    string
		el      Element
		missing []string
		wantErr bool
	}{
		{"complete rect", rect(0, 0, 10, 10), nil, false},
		{
			"rect missing extent",
			Element{Type: TypeRect, X: f(0), Y: f(0)},
			[]string{"width", "height"}, true,
		},
		{
			"text missing content",
			Element{Type: TypeText, X: f(0), Y: f(0)},
			[]string{"content"}, true,
		},
		{
			"icon complete",
			Element{Type: TypeIcon, Name: s("star"), X: f(0), Y: f(0), Size: f(24)},
			nil, false,
		},
		{
			"group with empty children present",
			Element{Type: TypeGroup, Children: []string{}},
			nil, false,
		},
		{"unknown type", Element{Type: "blob"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.el.MissingFields()
			if len(got) != len(tt.missing) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.missing)
			}
			for i := range tt.missing {
				if i < len(got) && got[i] != tt.missing[i] {
					t.Errorf("MissingFields() = %v, want %v", got, tt.missing)
					break
				}
			}
			if err := tt.el.CheckSchema(); (err != nil) != tt.wantErr {
				t.Errorf("CheckSchema() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadNormalizesAndValidates(t *testing.T) {
	doc, err := Read(strings.NewReader(`{"canvas":{"width":10,"height":10,"background":"#fff"}}`))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if doc.Elements == nil || doc.Order == nil {
		t.Error("Read should normalize nil maps and slices")
	}

	_, err = Read(strings.NewReader(`{"canvas":{"width":0,"height":10,"background":"#fff"}}`))
	if err == nil {
		t.Error("Read should reject an invalid canvas")
	}

	_, err = Read(strings.NewReader(`not json`))
	if err == nil {
		t.Error("Read should reject malformed JSON")
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	d := New(640, 480, "#336699")
	d.Elements["sun"] = Element{Type: TypeEllipse, CX: f(100), CY: f(80), RX: f(40), RY: f(40), Fill: &Paint{Color: "#ffcc00"}}
	d.Elements["label"] = Element{Type: TypeText, X: f(10), Y: f(20), Content: s("morning")}
	d.Order = []string{"sun", "label"}

	data, err := d.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !d.Equal(back) {
		t.Error("document did not survive a wire round trip")
	}
}

func ExampleNew() {
	doc := New(200, 100, "")
	data, _ := doc.Marshal()
	fmt.Println(string(data))
	// Output:
	// {"canvas":{"width":200,"height":100,"background":"#ffffff"},"elements":{},"order":[]}
}
