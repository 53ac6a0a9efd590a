// Package provider defines the generative edit provider boundary.
//
// The rest of the system treats the language model as a black-box function:
// system instructions plus an ordered sequence of text and image blocks go
// in, and either free text or a structured tool call comes out. The
// [Client] interface is that function; [Anthropic] is the production
// implementation. Nothing inside the document model, patch engine, or
// renderer ever sees a provider response — the studio parses responses at
// this boundary and hands already-typed values downstream.
package provider

import (
	"context"
	"encoding/json"
)

// Block is one content block in a request: text, or a PNG image.
type Block struct {
	Text     string
	ImagePNG []byte
}

// TextBlock returns a text content block.
func TextBlock(text string) Block { return Block{Text: text} }

// ImageBlock returns a PNG image content block.
func ImageBlock(png []byte) Block { return Block{ImagePNG: png} }

// ToolSpec constrains the response to a single forced tool call whose
// input must satisfy the given JSON schema.
type ToolSpec struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Request is one completion request.
type Request struct {
	System    string
	Blocks    []Block
	Tool      *ToolSpec // nil means free-text output
	MaxTokens int
}

// Response is the provider's answer. Exactly one of Text or ToolInput is
// populated, matching whether the request forced a tool.
type Response struct {
	Text         string
	ToolInput    json.RawMessage
	InputTokens  int
	OutputTokens int
	Truncated    bool
}

// Client is the generative edit provider.
type Client interface {
	// Complete performs one model turn. Implementations retry transient
	// transport failures internally; a returned error is terminal for the
	// calling phase.
	Complete(ctx context.Context, req Request) (*Response, error)
}
