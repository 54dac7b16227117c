package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/projects/domain"
)

// ErrMissingCredential is returned by NewGeminiClient when no API key is configured.
var ErrMissingCredential = errors.New("provider credential not configured")

// GeminiClient calls the Generative Language generateContent endpoint.
type GeminiClient struct {
	BaseURL   string
	Model     string
	HTTP      *http.Client
	apiKey    string
	limiter   *rate.Limiter
	threshold float64
}

var _ Provider = (*GeminiClient)(nil)

// Option configures a GeminiClient.
type Option func(*GeminiClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(g *GeminiClient) { g.HTTP = c }
}

// WithAdvisoryThreshold sets the threshold quoted in the advisory prompt.
func WithAdvisoryThreshold(t float64) Option {
	return func(g *GeminiClient) { g.threshold = t }
}

// NewGeminiClient builds a client from cfg. It fails without an API key.
func NewGeminiClient(cfg config.ProviderConfig, opts ...Option) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingCredential
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid provider base url: %w", err)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	g := &GeminiClient{
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		Model:     cfg.Model,
		HTTP:      &http.Client{Timeout: cfg.Timeout},
		apiKey:    cfg.APIKey,
		limiter:   rate.NewLimiter(limit, burst),
		threshold: 70,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Scores asks the model for the five scores of p.
func (g *GeminiClient) Scores(ctx context.Context, p domain.Project) (domain.Scores, error) {
	text, err := g.generate(ctx, ScoresPrompt(p))
	if err != nil {
		return domain.Scores{}, err
	}
	s, err := ParseScores(text)
	if err != nil {
		return domain.Scores{}, err
	}
	logging.NewLogger(ctx).LogDebugf("provider_scores", "provider scores for %s: total risk %.1f%%", p.ID, s.TotalRisk)
	return s, nil
}

// Advisories asks the model for recommendations on the weak categories of s.
func (g *GeminiClient) Advisories(ctx context.Context, p domain.Project, s domain.Scores) (map[domain.Category]string, error) {
	text, err := g.generate(ctx, AdvisoriesPrompt(p, s, g.threshold))
	if err != nil {
		return nil, err
	}
	recs := ParseAdvisories(text)
	logging.NewLogger(ctx).LogDebugf("provider_advisories", "provider returned %d recommendations for %s", len(recs), p.ID)
	return recs, nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("gemini rate limit: %w", err)
	}

	b, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.2},
	})
	if err != nil {
		return "", fmt.Errorf("gemini encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.BaseURL, url.PathEscape(g.Model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	start := time.Now()
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("gemini read: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("gemini decode (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || out.Error != nil {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("gemini error (status %d): %s", resp.StatusCode, msg)
	}

	var text strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			text.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errors.New("gemini returned no content")
	}

	logging.NewLogger(ctx).LogDebugf("provider_call", "gemini %s answered in %s", g.Model, time.Since(start))
	return text.String(), nil
}
