package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tonicwater/backend/internal/logger"
)

// ImageGenerator produces a hero image for an article. The returned URL is a
// base64 data URL, so it survives the snapshot store without extra plumbing.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, title, primaryKeyword string) (url, alt string, err error)
}

type imagenClient struct {
	log     *logger.Logger
	baseURL string
	apiKey  string
	model   string
	inner   *retryablehttp.Client
}

// NewImagenClient reads GEMINI_API_KEY from the environment and errors when
// it is absent.
func NewImagenClient(log *logger.Logger) (ImageGenerator, error) {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(os.Getenv("IMAGEN_MODEL"))
	if model == "" {
		model = "imagen-3.0-generate-002"
	}

	r := retryablehttp.NewClient()
	r.RetryMax = 2
	r.HTTPClient.Timeout = 120 * time.Second
	r.Logger = nil

	return &imagenClient{
		log:     log.With("client", "ImagenClient"),
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		inner:   r,
	}, nil
}

func imagePrompt(title, primaryKeyword string) string {
	subject := primaryKeyword
	if subject == "" {
		subject = title
	}
	return fmt.Sprintf("Professional editorial photograph for an article titled %q. "+
		"A beautifully garnished gin and tonic in a copa glass on a marble bar top, "+
		"themed around %s. Soft natural lighting, shallow depth of field, no text, no people.",
		title, subject)
}

// GenerateImage calls the Imagen predict endpoint and returns the first
// generated image as a data URL plus derived alt text.
func (c *imagenClient) GenerateImage(ctx context.Context, title, primaryKeyword string) (string, string, error) {
	payload := map[string]any{
		"instances": []map[string]any{
			{"prompt": imagePrompt(title, primaryKeyword)},
		},
		"parameters": map[string]any{
			"sampleCount":      1,
			"aspectRatio":      "16:9",
			"personGeneration": "dont_allow",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	url := fmt.Sprintf("%s/models/%s:predict", c.baseURL, c.model)
	req, err := retryablehttp.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.inner.StandardClient().Do(req.Request)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("imagen http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MimeType           string `json:"mimeType"`
		} `json:"predictions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", "", fmt.Errorf("imagen decode: %w", err)
	}
	if len(parsed.Predictions) == 0 || parsed.Predictions[0].BytesBase64Encoded == "" {
		return "", "", fmt.Errorf("imagen returned no image data")
	}

	mime := parsed.Predictions[0].MimeType
	if mime == "" {
		mime = "image/png"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mime, parsed.Predictions[0].BytesBase64Encoded)
	alt := title + " - Premium Gin and Tonic Guide"
	return dataURL, alt, nil
}
