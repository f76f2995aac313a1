// Package provider calls the upstream text-generation API.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/oggyb/sportly/internal/config"
	svcErr "github.com/oggyb/sportly/internal/errors"
)

// DefaultMaxTokens is sent upstream when the caller sets no limit.
const DefaultMaxTokens = 500

// Completion is one generated answer.
type Completion struct {
	Content    string
	TokensUsed int64
}

// Generator produces a completion for a single user prompt.
type Generator interface {
	Configured() bool
	Generate(ctx context.Context, model, prompt string, maxTokens int) (Completion, error)
}

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewOpenAI(cfg *config.Config) *OpenAI {
	return &OpenAI{
		apiURL: cfg.AI.APIURL,
		apiKey: cfg.AI.APIKey,
		client: &http.Client{Timeout: cfg.AI.Timeout},
	}
}

func (o *OpenAI) Configured() bool { return o.apiKey != "" }

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int64 `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends prompt as a single user message.
//
// Errors:
//   - no API key → ErrUnconfigured with a remediation hint
//   - transport failure, non-200 status or undecodable body → ErrUpstream
//     carrying the provider's message
func (o *OpenAI) Generate(ctx context.Context, model, prompt string, maxTokens int) (Completion, error) {
	if !o.Configured() {
		return Completion{}, svcErr.Unconfigured("AI provider", "set OPENAI_API_KEY")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return Completion{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return Completion{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return Completion{}, ctx.Err()
		}
		return Completion{}, svcErr.Upstream("openai", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, svcErr.Upstream("openai", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if decodeErr == nil && out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return Completion{}, svcErr.Upstream("openai", fmt.Errorf("status %d: %s", resp.StatusCode, msg))
	}
	if decodeErr != nil {
		return Completion{}, svcErr.Upstream("openai", fmt.Errorf("decode response: %w", decodeErr))
	}

	c := Completion{TokensUsed: out.Usage.TotalTokens}
	if len(out.Choices) > 0 {
		c.Content = out.Choices[0].Message.Content
	}
	return c, nil
}
