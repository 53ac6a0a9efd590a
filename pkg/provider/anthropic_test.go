package provider

import (
	"testing"
	"time"

	"github.com/inkwell-studio/inkwell/pkg/errors"
)

func TestNewAnthropic(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewAnthropic(Config{})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want INVALID_INPUT", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		a, err := NewAnthropic(Config{APIKey: "sk-test"})
		if err != nil {
			t.Fatalf("NewAnthropic: %v", err)
		}
		if a.model != DefaultModel {
			t.Errorf("model = %q, want %q", a.model, DefaultModel)
		}
		if a.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want 3", a.maxRetries)
		}
		if a.retryDelay != time.Second {
			t.Errorf("retryDelay = %v, want 1s", a.retryDelay)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		a, err := NewAnthropic(Config{
			APIKey:     "sk-test",
			Model:      "claude-opus-4-20250514",
			MaxRetries: 5,
			RetryDelay: 200 * time.Millisecond,
		})
		if err != nil {
			t.Fatalf("NewAnthropic: %v", err)
		}
		if a.model != "claude-opus-4-20250514" || a.maxRetries != 5 || a.retryDelay != 200*time.Millisecond {
			t.Errorf("config not applied: %+v", a)
		}
	})
}

func TestBuildParams(t *testing.T) {
	a, err := NewAnthropic(Config{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("NewAnthropic: %v", err)
	}

	t.Run("blocks and system", func(t *testing.T) {
		params, err := a.buildParams(Request{
			System: "be terse",
			Blocks: []Block{TextBlock("hello"), ImageBlock([]byte{1, 2, 3})},
		})
		if err != nil {
			t.Fatalf("buildParams: %v", err)
		}
		if len(params.Messages) != 1 || len(params.Messages[0].Content) != 2 {
			t.Errorf("messages = %+v", params.Messages)
		}
		if len(params.System) != 1 || params.System[0].Text != "be terse" {
			t.Errorf("system = %+v", params.System)
		}
		if params.MaxTokens != defaultMaxTokens {
			t.Errorf("maxTokens = %d, want the default", params.MaxTokens)
		}
	})

	t.Run("forced tool", func(t *testing.T) {
		params, err := a.buildParams(Request{
			Blocks: []Block{TextBlock("go")},
			Tool: &ToolSpec{
				Name:        "submit_patches",
				Description: "submit a patch batch",
				InputSchema: []byte(`{"type":"object","properties":{"patches":{"type":"array"}}}`),
			},
		})
		if err != nil {
			t.Fatalf("buildParams: %v", err)
		}
		if len(params.Tools) != 1 {
			t.Fatalf("tools = %+v", params.Tools)
		}
		if params.ToolChoice.OfTool == nil || params.ToolChoice.OfTool.Name != "submit_patches" {
			t.Errorf("tool choice = %+v", params.ToolChoice)
		}
	})

	t.Run("invalid tool schema", func(t *testing.T) {
		_, err := a.buildParams(Request{
			Tool: &ToolSpec{Name: "broken", InputSchema: []byte(`not json`)},
		})
		if !errors.Is(err, errors.ErrCodeInternal) {
			t.Errorf("err = %v, want INTERNAL_ERROR", err)
		}
	})
}

func TestBlockHelpers(t *testing.T) {
	if b := TextBlock("hi"); b.Text != "hi" || b.ImagePNG != nil {
		t.Errorf("TextBlock = %+v", b)
	}
	if b := ImageBlock([]byte{9}); len(b.ImagePNG) != 1 || b.Text != "" {
		t.Errorf("ImageBlock = %+v", b)
	}
}
