// Package perplexity is a thin client for OpenAI-compatible chat completion
// APIs. It performs exactly one request per call and leaves retries to the caller.
package perplexity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	openai "github.com/sashabaranov/go-openai"
)

const (
	serviceName = "perplexity"

	DefaultBaseURL = "https://api.perplexity.ai"
	DefaultModel   = "sonar-pro"
)

// ClientInterface defines the completion operation used by the pipeline.
type ClientInterface interface {
	Complete(ctx context.Context, req types.CompletionRequest) (string, error)
}

type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient builds a client for the API rooted at baseURL. Requests go to
// {baseURL}/chat/completions with a bearer token.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimRight(baseURL, "/")
	cfg.HTTPClient = &http.Client{}

	return &Client{
		api:     openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

// Complete sends one chat completion request and returns the first choice's
// message content verbatim.
func (c *Client) Complete(ctx context.Context, req types.CompletionRequest) (string, error) {
	log := logger.GetLogger()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	log.Debugw("Sending completion request",
		"model", model,
		"temperature", req.Temperature,
		"maxTokens", req.MaxTokens,
		"promptLength", len(req.UserPrompt))

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.UserPrompt},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", classifyError(ctx, err)
	}

	if len(resp.Choices) == 0 {
		log.Warnw("Completion response carried no choices", "id", resp.ID)
		return "", apperrors.Upstream(serviceName, http.StatusOK, "response contained no choices")
	}

	content := resp.Choices[0].Message.Content
	trimmed := strings.TrimSpace(content)
	log.Infow("Completion response received",
		"latency", time.Since(start),
		"length", len(content),
		"finishReason", resp.Choices[0].FinishReason,
		"startsWithBracket", strings.HasPrefix(trimmed, "["),
		"endsWithBracket", strings.HasSuffix(trimmed, "]"))

	return content, nil
}

func classifyError(ctx context.Context, err error) error {
	log := logger.GetLogger()

	if isTimeout(ctx, err) {
		log.Warnw("Completion request timed out", "error", err)
		return apperrors.Timeout(serviceName, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		log.Warnw("Completion API returned an error", "status", apiErr.HTTPStatusCode, "message", apiErr.Message)
		appErr := apperrors.Upstream(serviceName, apiErr.HTTPStatusCode, apiErr.Message)
		appErr.Raw = err
		return appErr
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		log.Warnw("Completion request failed", "status", reqErr.HTTPStatusCode, "error", reqErr.Err)
		appErr := apperrors.Upstream(serviceName, reqErr.HTTPStatusCode, logger.Truncate(string(reqErr.Body), 300))
		appErr.Raw = err
		return appErr
	}

	log.Warnw("Completion transport failure", "error", err)
	return apperrors.UpstreamFailure(serviceName, err)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
