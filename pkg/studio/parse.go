package studio

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/inkwell-studio/inkwell/pkg/errors"
	"github.com/inkwell-studio/inkwell/pkg/provider"
)

// =============================================================================
// Structured output parsing
// =============================================================================

// Models are asked for structured output through a forced tool, but some
// still answer in prose with a fenced JSON block. Parsing therefore prefers
// the tool input and falls back to digging JSON out of the text.

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n```")

// extractJSON pulls the most plausible JSON object out of free-form text.
// It tries a fenced code block first, then the outermost brace pair.
func extractJSON(text string) (string, bool) {
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1], true
	}
	return "", false
}

// decodeStructured unmarshals the structured payload of a provider response
// into v, preferring the tool input over text extraction.
func decodeStructured(resp *provider.Response, v any) error {
	if resp.ToolInput != nil {
		if err := json.Unmarshal(resp.ToolInput, v); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedOutput, err, "tool input is not valid JSON for the expected shape")
		}
		return nil
	}
	raw, ok := extractJSON(resp.Text)
	if !ok {
		return errors.New(errors.ErrCodeMalformedOutput, "response contains no JSON payload")
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedOutput, err, "extracted JSON does not match the expected shape")
	}
	return nil
}
