package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/inkwell-studio/inkwell/pkg/errors"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "claude-sonnet-4-20250514"

const defaultMaxTokens = 8192

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey is the Anthropic API authentication key (required).
	APIKey string

	// BaseURL overrides the default API base URL (optional).
	BaseURL string

	// Model selects the model for every request (optional).
	Model string

	// MaxRetries sets retry attempts for transient failures (default 3).
	MaxRetries int

	// RetryDelay is the base delay between retries (default 1s); actual
	// delay backs off exponentially.
	RetryDelay time.Duration
}

// Anthropic implements [Client] on the Anthropic messages API.
// It is safe for concurrent use.
type Anthropic struct {
	client     anthropic.Client
	model      string
	maxRetries int
	retryDelay time.Duration
}

// NewAnthropic creates a provider client from cfg.
func NewAnthropic(cfg Config) (*Anthropic, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "anthropic API key is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = 3
	}
	retryDelay := cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = time.Second
	}
	return &Anthropic{
		client:     anthropic.NewClient(opts...),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// Complete performs one model turn with retry on transport failure.
func (a *Anthropic) Complete(ctx context.Context, req Request) (*Response, error) {
	params, err := a.buildParams(req)
	if err != nil {
		return nil, err
	}

	var msg *anthropic.Message
	delay := a.retryDelay
	for attempt := 0; ; attempt++ {
		msg, err = a.client.Messages.New(ctx, params)
		if err == nil {
			break
		}
		if attempt >= a.maxRetries || ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeProvider, err, "anthropic request failed after %d attempts", attempt+1)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}

	return a.parseMessage(msg, req.Tool != nil)
}

func (a *Anthropic) buildParams(req Request) (anthropic.MessageNewParams, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	content := make([]anthropic.ContentBlockParamUnion, 0, len(req.Blocks))
	for _, b := range req.Blocks {
		if b.ImagePNG != nil {
			content = append(content, anthropic.NewImageBlockBase64(
				"image/png", base64.StdEncoding.EncodeToString(b.ImagePNG)))
			continue
		}
		content = append(content, anthropic.NewTextBlock(b.Text))
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(maxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(content...)},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	if req.Tool != nil {
		var schema anthropic.ToolInputSchemaParam
		if err := json.Unmarshal(req.Tool.InputSchema, &schema); err != nil {
			return params, errors.Wrap(errors.ErrCodeInternal, err, "invalid tool schema for %s", req.Tool.Name)
		}
		tool := anthropic.ToolUnionParamOfTool(schema, req.Tool.Name)
		if tool.OfTool != nil {
			tool.OfTool.Description = anthropic.String(req.Tool.Description)
		}
		params.Tools = []anthropic.ToolUnionParam{tool}
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfTool: &anthropic.ToolChoiceToolParam{Name: req.Tool.Name},
		}
	}

	return params, nil
}

func (a *Anthropic) parseMessage(msg *anthropic.Message, wantTool bool) (*Response, error) {
	resp := &Response{
		InputTokens:  int(msg.Usage.InputTokens),
		OutputTokens: int(msg.Usage.OutputTokens),
		Truncated:    msg.StopReason == anthropic.StopReasonMaxTokens,
	}

	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Text += b.Text
		case anthropic.ToolUseBlock:
			resp.ToolInput = json.RawMessage(b.JSON.Input.Raw())
		}
	}

	if wantTool && resp.ToolInput == nil {
		return nil, errors.New(errors.ErrCodeMalformedOutput, "provider returned no tool call")
	}
	return resp, nil
}
