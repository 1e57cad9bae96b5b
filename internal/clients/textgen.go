package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/tonicwater/backend/internal/logger"
	"github.com/tonicwater/backend/internal/utils"
)

// TextGenerator produces long-form article copy from a topic.
type TextGenerator interface {
	GenerateArticle(ctx context.Context, topic string, relatedKeywords []string) (string, error)
}

type anthropicClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

// NewTextGenClient builds the Anthropic messages client from the
// environment. The API key is required; everything else has defaults.
func NewTextGenClient(log *logger.Logger) (TextGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing ANTHROPIC_API_KEY")
	}

	baseURL := os.Getenv("ANTHROPIC_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	model := os.Getenv("ANTHROPIC_MODEL")
	if model == "" {
		model = "claude-sonnet-4-5"
	}

	// Article generation routinely takes minutes.
	timeoutSec := utils.GetEnvAsInt("TEXTGEN_TIMEOUT_SECONDS", 300, log)
	if timeoutSec <= 0 {
		timeoutSec = 300
	}
	maxRetries := utils.GetEnvAsInt("TEXTGEN_MAX_RETRIES", 3, log)
	if maxRetries < 0 {
		maxRetries = 3
	}

	return &anthropicClient{
		log:        log.With("client", "TextGenClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

const articleSystemPrompt = `You are an SEO content writer for TonicWater.io, a gin and tonic pairing guide.
Respond with a single JSON object and nothing else. The object must have these fields:
"title" (string), "metaDescription" (string, 150-160 characters),
"content" (string, markdown, 1500-2000 words, H2/H3 headings, ending with an FAQ section),
"primaryKeyword" (string), "secondaryKeywords" (array of strings),
"schemaMarkup" (JSON-LD Article object).`

func articleUserPrompt(topic string, relatedKeywords []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a comprehensive SEO article for the topic: %q.\n", topic)
	if len(relatedKeywords) > 0 {
		fmt.Fprintf(&b, "Work in these related keywords where natural: %s.\n", strings.Join(relatedKeywords, ", "))
	}
	b.WriteString("Target an enthusiast audience, keep claims practical, and include an FAQ with at least three questions.")
	return b.String()
}

type textgenHTTPError struct {
	StatusCode int
	Body       string
}

func (e *textgenHTTPError) Error() string {
	return fmt.Sprintf("textgen http %d: %s", e.StatusCode, e.Body)
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || (code >= 500 && code <= 599)
}

func retryableErr(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var httpErr *textgenHTTPError
	if errors.As(err, &httpErr) {
		return retryableStatus(httpErr.StatusCode)
	}
	return false
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delta := 0.2 * base.Seconds()
	v := base.Seconds() - delta + rand.Float64()*2*delta
	return time.Duration(v * float64(time.Second))
}

// GenerateArticle requests the article as a single JSON object and returns
// the raw model text for the caller to parse.
func (c *anthropicClient) GenerateArticle(ctx context.Context, topic string, relatedKeywords []string) (string, error) {
	payload := map[string]any{
		"model":      c.model,
		"max_tokens": 8192,
		"system":     articleSystemPrompt,
		"messages": []map[string]any{
			{"role": "user", "content": articleUserPrompt(topic, relatedKeywords)},
		},
	}

	var lastErr error
	backoff := 2 * time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(jitter(backoff)):
			}
			backoff *= 2
		}

		text, err := c.doOnce(ctx, payload)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !retryableErr(err) {
			return "", err
		}
		c.log.Warn("Text generation attempt failed, retrying", "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("text generation failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *anthropicClient) doOnce(ctx context.Context, payload any) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &textgenHTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var parsed struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("textgen decode: %w", err)
	}
	var b strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("textgen response contained no text")
	}
	return b.String(), nil
}
