package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/redraft/internal/domain"
	"github.com/kailas-cloud/redraft/internal/metrics"
)

const systemPrompt = `You are a technical writing editor. Rewrite the given sentence to fix the described issue.
Ground the rewrite in the provided style guide excerpts when they apply.
Respond with the rewritten sentence on the first line. Optionally add one line starting with "Explanation: " after it.
Do not add quotes, preamble, or commentary.`

// Rewriter generates sentence rewrites via the chat completions API.
type Rewriter struct {
	client      *openai.Client
	model       string
	temperature float32
	provider    string
	timeout     time.Duration
	logger      *zap.Logger
}

// RewriterConfig holds the generation provider settings.
type RewriterConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Provider    string
	Logger      *zap.Logger
}

// NewRewriter creates an OpenAI-compatible rewrite provider.
func NewRewriter(cfg *RewriterConfig) *Rewriter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Rewriter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		provider:    provider,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
}

// Rewrite implements domain.Rewriter.
func (r *Rewriter) Rewrite(ctx context.Context, req domain.RewriteRequest) (domain.RewriteResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
	})
	if err != nil {
		metrics.RewriteRequestsTotal.WithLabelValues(r.provider, r.model, "error").Inc()
		return domain.RewriteResult{}, parseRewriteError(err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.RewriteRequestsTotal.WithLabelValues(r.provider, r.model, "error").Inc()
		return domain.RewriteResult{}, fmt.Errorf("empty completion response: %w", domain.ErrRewriteProviderError)
	}

	metrics.RewriteRequestsTotal.WithLabelValues(r.provider, r.model, "success").Inc()
	return parseCompletion(resp.Choices[0].Message.Content), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (r *Rewriter) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func buildPrompt(req domain.RewriteRequest) string {
	var b strings.Builder
	b.WriteString("Issue: ")
	b.WriteString(req.Issue)
	b.WriteString("\nSentence: ")
	b.WriteString(req.Sentence)

	if len(req.Context) > 0 {
		b.WriteString("\n\nStyle guide excerpts:\n")
		for i, c := range req.Context {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c)
		}
	}
	return b.String()
}

// parseCompletion splits a completion into the rewritten sentence and an
// optional explanation line.
func parseCompletion(content string) domain.RewriteResult {
	lines := strings.Split(strings.TrimSpace(content), "\n")

	result := domain.RewriteResult{Suggestion: strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if rest, ok := strings.CutPrefix(line, "Explanation:"); ok {
			result.Explanation = strings.TrimSpace(rest)
			break
		}
	}
	return result
}

func parseRewriteError(err error) error {
	wrap := domain.ErrRewriteProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("rewrite API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("rewrite API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("rewrite API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("rewrite request failed: %w", wrap)
}
