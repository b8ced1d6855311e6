package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"eduflow/internal/prompt"
)

// OpenAIBackend calls the OpenAI Chat Completions API.
type OpenAIBackend struct {
	model  openai.ChatModel
	client *openai.Client
}

const (
	defaultChatTimeout     = 30 * time.Second
	defaultChatTemperature = 0.2
)

// NewOpenAIBackend builds a backend with defaults against api.openai.com.
func NewOpenAIBackend(apiKey string, model openai.ChatModel) (*OpenAIBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIBackend{
		model:  model,
		client: &cli,
	}, nil
}

func (b *OpenAIBackend) Name() string { return "openai:" + string(b.model) }

// Generate maps the payload onto a system/user message pair and returns the
// first choice's content untouched.
func (b *OpenAIBackend) Generate(ctx context.Context, p prompt.Payload) (string, error) {
	if b == nil || b.client == nil {
		return "", &BackendError{Provider: "openai", Err: errors.New("nil openai client")}
	}
	reqCtx, cancel := context.WithTimeout(ctx, defaultChatTimeout)
	defer cancel()

	resp, err := b.client.Chat.Completions.New(reqCtx, openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(p.System),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(p.User),
					},
				},
			},
		},
		Temperature: openai.Float(defaultChatTemperature),
	})
	if err != nil {
		return "", &BackendError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &BackendError{Provider: "openai", Err: errors.New("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}
