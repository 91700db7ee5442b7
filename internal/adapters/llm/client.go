package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/rs/zerolog"

	"github.com/Indranil-Chatterjee2021/jira-ai-assitant/internal/config"
)

// Usage carries token counts reported by the provider. Zero values mean the
// provider did not report and callers should estimate.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Client is a thin chat-completion wrapper. The base URL is configurable so
// any OpenAI-compatible endpoint works; the default config points it at
// Gemini's compatibility layer.
type Client struct {
	key     string
	model   string
	cli     openai.Client
	log     zerolog.Logger
	timeout time.Duration
}

func NewClient(cfg config.Config, log zerolog.Logger) *Client {
	model := cfg.LLMModel
	if strings.TrimSpace(model) == "" { model = "gemini-2.5-flash" }
	opts := []option.RequestOption{option.WithAPIKey(cfg.LLMAPIKey)}
	if cfg.LLMBaseURL != "" { opts = append(opts, option.WithBaseURL(cfg.LLMBaseURL)) }
	cli := openai.NewClient(opts...)
	return &Client{key: cfg.LLMAPIKey, model: model, cli: cli, log: log, timeout: cfg.LLMTimeout}
}

func (c *Client) Configured() bool { return strings.TrimSpace(c.key) != "" }

// Complete sends system+user messages and returns the generated text. Low
// temperature keeps query generation consistent.
func (c *Client) Complete(ctx context.Context, system, user string) (string, Usage, error) {
	if !c.Configured() { return "", Usage{}, errors.New("llm: missing api key") }
	if c.timeout > 0 {
		ctx2, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		ctx = ctx2
	}
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" { msgs = append(msgs, openai.SystemMessage(system)) }
	msgs = append(msgs, openai.UserMessage(user))
	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(c.model),
		Messages:    msgs,
		Temperature: openai.Float(0.1),
	}
	resp, err := c.cli.Chat.Completions.New(ctx, params)
	if err != nil { return "", Usage{}, err }
	if len(resp.Choices) == 0 { return "", Usage{}, errors.New("llm: no choices") }
	u := Usage{InputTokens: resp.Usage.PromptTokens, OutputTokens: resp.Usage.CompletionTokens}
	return resp.Choices[0].Message.Content, u, nil
}
