package studio

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/inkwell-studio/inkwell/pkg/scene"
)

// The guide is the only vocabulary the provider ever sees, so every field
// name it teaches must be a real wire name. A misspelled name would be
// merged and then dropped by the decoder without a rejection.
func TestElementGuideUsesWireFieldNames(t *testing.T) {
	wireNames := map[string]bool{}
	et := reflect.TypeOf(scene.Element{})
	for i := 0; i < et.NumField(); i++ {
		tag := et.Field(i).Tag.Get("json")
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			wireNames[name] = true
		}
	}

	for _, name := range []string{
		"strokeWidth", "fontSize", "fontFamily", "fontWeight", "textAnchor",
		"fill", "stroke", "opacity", "rotation", "shadow", "blur", "glow",
		"children", "content", "href",
	} {
		if !wireNames[name] {
			t.Fatalf("test expectation stale: %q is not an element wire name", name)
		}
		if !strings.Contains(elementGuide, name) {
			t.Errorf("guide does not mention wire field %q", name)
		}
	}

	for _, stale := range []string{
		"stroke_width", "font_size", "font_family", "font_weight", "text_anchor",
	} {
		if strings.Contains(elementGuide, stale) {
			t.Errorf("guide teaches %q, which is not a wire name", stale)
		}
	}
}

func TestSubmitPatchesSchemaRequiresPatches(t *testing.T) {
	var schema struct {
		Properties struct {
			Patches struct {
				MinItems int `json:"minItems"`
			} `json:"patches"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(submitPatchesSchema, &schema); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if schema.Properties.Patches.MinItems != 1 {
		t.Errorf("patches minItems = %d, want 1", schema.Properties.Patches.MinItems)
	}
	found := false
	for _, r := range schema.Required {
		if r == "patches" {
			found = true
		}
	}
	if !found {
		t.Error("patches should be a required property")
	}
	if strings.Contains(editSystem, "empty patch list") {
		t.Error("edit prompt should not invite empty submissions")
	}
}
