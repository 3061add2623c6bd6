package llm

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/pkg/errors"

	"github.com/suykerbuyk/examnotes/internal/logger"
	"github.com/suykerbuyk/examnotes/internal/notes"
)

// Response formats understood by Config.ResponseFormat.
const (
	FormatNone       = "none"
	FormatJSONObject = "json_object"
	FormatJSONSchema = "json_schema"
)

// ErrEmptyResponse means the endpoint answered but carried no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// Config holds what the client needs to reach an OpenAI-compatible
// chat-completions endpoint.
type Config struct {
	Model          string
	BaseURL        string
	APIKey         string
	Timeout        time.Duration // 0 keeps the transport default
	ResponseFormat string
	Temperature    *float64
	MaxTokens      int
}

// Client sends notes prompts to a chat-completions endpoint.
type Client struct {
	openai openai.Client
	cfg    Config
	log    *logger.Logger
}

// New creates a Client. An empty API key is allowed; the endpoint decides.
func New(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// One outbound call per attempt; retries belong to the pipeline.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Client{
		openai: openai.NewClient(opts...),
		cfg:    cfg,
		log:    log,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.cfg.Model
}

// Complete sends the system and user messages and returns the assistant's
// text content.
func (c *Client) Complete(ctx context.Context, prompt notes.Prompt) (string, error) {
	params := c.params(prompt)

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}

	c.log.Debug("chat completion finished",
		"model", c.cfg.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	if len(resp.Choices) == 0 {
		return "", errors.Wrap(ErrEmptyResponse, "no choices")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.Wrapf(ErrEmptyResponse, "finish reason %q", resp.Choices[0].FinishReason)
	}
	return content, nil
}

func (c *Client) params(prompt notes.Prompt) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(prompt.System),
			openai.UserMessage(prompt.User),
		},
	}
	if c.cfg.Temperature != nil {
		params.Temperature = openai.Float(*c.cfg.Temperature)
	}
	if c.cfg.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(c.cfg.MaxTokens))
	}

	switch c.cfg.ResponseFormat {
	case FormatJSONObject:
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	case FormatJSONSchema:
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        notes.SchemaName,
					Description: openai.String("Structured exam notes"),
					Schema:      notes.JSONSchema(),
					Strict:      openai.Bool(true),
				},
			},
		}
	}
	return params
}

// IsAPIError reports whether err carries an HTTP error reply from the
// endpoint, and its status code.
func IsAPIError(err error) (int, bool) {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}
