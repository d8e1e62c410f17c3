package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/pfplabs/croaker/utils"
)

const (
	geminiMaxRetries  = 3
	geminiBackoffBase = 2 * time.Second
	geminiBackoffMax  = 30 * time.Second
)

// Gemini wraps the hosted LLM used for both generation and the critic pass.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGemini builds a client for the Gemini API backend.
func NewGemini(ctx context.Context, apiKey, model string, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, timeout: timeout}, nil
}

// Generate produces one completion for the system/user prompt pair. Transient
// failures (rate limits, 5xx, timeouts) are retried with exponential backoff;
// other API errors return immediately.
func (g *Gemini) Generate(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error) {
	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
		Temperature:     genai.Ptr(float32(temperature)),
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	var lastErr error
	for attempt := 0; attempt < geminiMaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		resp, err := g.client.Models.GenerateContent(callCtx, g.model, contents, cfg)
		cancel()
		if err == nil {
			text := strings.TrimSpace(resp.Text())
			if text == "" {
				lastErr = fmt.Errorf("%w: empty completion", ErrService)
				continue
			}
			return text, nil
		}

		lastErr = classifyGeminiErr(err)
		if !errors.Is(lastErr, ErrRateLimited) && !errors.Is(lastErr, ErrService) {
			return "", lastErr
		}
		if attempt < geminiMaxRetries-1 {
			select {
			case <-time.After(utils.BackoffDelay(attempt, geminiBackoffBase, geminiBackoffMax)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	return "", fmt.Errorf("gemini generate exhausted retries: %w", lastErr)
}

func classifyGeminiErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrService, err)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", ErrService, err)
		default:
			return err
		}
	}
	// network level errors are treated as transient
	return fmt.Errorf("%w: %v", ErrService, err)
}
