package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tonicwater/backend/internal/logger"
)

// ErrKeywordsNotConfigured signals that no DataForSEO credentials are
// present; callers fall back to built-in defaults.
var ErrKeywordsNotConfigured = errors.New("dataforseo credentials not configured")

// KeywordMetrics are supplementary, purely informational figures for a topic.
type KeywordMetrics struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int     `json:"searchVolume"`
	Competition  float64 `json:"competition"`
	CPC          float64 `json:"cpc"`
}

// KeywordClient talks to the keyword-intelligence service.
type KeywordClient interface {
	TrendingTopics(ctx context.Context) ([]string, error)
	KeywordMetrics(ctx context.Context, keyword string) (*KeywordMetrics, error)
	RelatedKeywords(ctx context.Context, keyword string, limit int) ([]string, error)
}

type dataForSEOClient struct {
	log      *logger.Logger
	baseURL  string
	login    string
	password string
	inner    *retryablehttp.Client
}

// NewDataForSEOClient reads DATAFORSEO_LOGIN / DATAFORSEO_PASSWORD from the
// environment and returns ErrKeywordsNotConfigured when either is absent.
func NewDataForSEOClient(log *logger.Logger) (KeywordClient, error) {
	login := strings.TrimSpace(os.Getenv("DATAFORSEO_LOGIN"))
	password := strings.TrimSpace(os.Getenv("DATAFORSEO_PASSWORD"))
	if login == "" || password == "" {
		return nil, ErrKeywordsNotConfigured
	}

	baseURL := strings.TrimSpace(os.Getenv("DATAFORSEO_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.dataforseo.com/v3"
	}

	r := retryablehttp.NewClient()
	r.RetryMax = 2
	r.HTTPClient.Timeout = 30 * time.Second
	r.Logger = nil

	return &dataForSEOClient{
		log:      log.With("client", "DataForSEOClient"),
		baseURL:  baseURL,
		login:    login,
		password: password,
		inner:    r,
	}, nil
}

type dfsResponse struct {
	Tasks []struct {
		Result []json.RawMessage `json:"result"`
	} `json:"tasks"`
}

func (c *dataForSEOClient) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal([]any{payload})
	if err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.login, c.password)

	resp, err := c.inner.StandardClient().Do(req.Request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataforseo http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed dfsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("dataforseo decode: %w", err)
	}
	if len(parsed.Tasks) == 0 || len(parsed.Tasks[0].Result) == 0 {
		return nil, fmt.Errorf("dataforseo empty result for %s", path)
	}
	return parsed.Tasks[0].Result[0], nil
}

// TrendingTopics returns gin-and-tonic keyword suggestions ranked by search
// volume.
func (c *dataForSEOClient) TrendingTopics(ctx context.Context) ([]string, error) {
	result, err := c.post(ctx, "/dataforseo_labs/google/keyword_suggestions/live", map[string]any{
		"keyword":       "gin and tonic",
		"location_code": 2840,
		"language_code": "en",
		"limit":         20,
		"filters":       []any{[]any{"keyword_info.search_volume", ">", 100}},
		"order_by":      []string{"keyword_info.search_volume,desc"},
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			Keyword string `json:"keyword"`
		} `json:"items"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("dataforseo suggestions decode: %w", err)
	}
	topics := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if kw := strings.TrimSpace(item.Keyword); kw != "" {
			topics = append(topics, kw)
		}
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("dataforseo returned no topics")
	}
	return topics, nil
}

// KeywordMetrics fetches search volume, competition and CPC for one keyword.
func (c *dataForSEOClient) KeywordMetrics(ctx context.Context, keyword string) (*KeywordMetrics, error) {
	result, err := c.post(ctx, "/keywords_data/google_ads/search_volume/live", map[string]any{
		"keywords":      []string{keyword},
		"location_code": 2840,
		"language_code": "en",
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Keyword      string  `json:"keyword"`
		SearchVolume int     `json:"search_volume"`
		Competition  float64 `json:"competition"`
		CPC          float64 `json:"cpc"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("dataforseo volume decode: %w", err)
	}
	return &KeywordMetrics{
		Keyword:      keyword,
		SearchVolume: parsed.SearchVolume,
		Competition:  parsed.Competition,
		CPC:          parsed.CPC,
	}, nil
}

// RelatedKeywords fetches keyword variations for a seed keyword.
func (c *dataForSEOClient) RelatedKeywords(ctx context.Context, keyword string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	result, err := c.post(ctx, "/dataforseo_labs/google/related_keywords/live", map[string]any{
		"keyword":       keyword,
		"location_code": 2840,
		"language_code": "en",
		"limit":         limit,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Items []struct {
			KeywordData struct {
				Keyword string `json:"keyword"`
			} `json:"keyword_data"`
		} `json:"items"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return nil, fmt.Errorf("dataforseo related decode: %w", err)
	}
	keywords := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if kw := strings.TrimSpace(item.KeywordData.Keyword); kw != "" {
			keywords = append(keywords, kw)
		}
		if len(keywords) >= limit {
			break
		}
	}
	return keywords, nil
}
