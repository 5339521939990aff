// Package analyzer provides clients for the external narrative symptom
// analyzer that produces the base severity score: an HTTP client for the
// hosted model endpoint, a keyword rule-based client for offline or
// degraded deployments, and a resilience wrapper that adds a circuit
// breaker and read-through caching to either.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/vitals-triage-server/internal/domain"
)

// HTTPClient calls the hosted symptom-analysis endpoint. Requests are
// rate-limited client-side and bounded by the configured timeout; there
// are no retries here, that is the resilience wrapper's concern.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a new analyzer API client.
func NewHTTPClient(config domain.AnalyzerConfig) *HTTPClient {
	rateLimit := config.RateLimit
	if rateLimit <= 0 {
		rateLimit = 10
	}
	return &HTTPClient{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		model:   config.Model,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
	}
}

// analyzeRequest is the wire request to the analysis endpoint.
type analyzeRequest struct {
	SymptomText string `json:"symptomText"`
	Model       string `json:"model,omitempty"`
}

// analyzeResponse is the wire response from the analysis endpoint.
type analyzeResponse struct {
	BaseScore   float64  `json:"baseScore"`
	KeySymptoms []string `json:"keySymptoms"`
	Narrative   string   `json:"narrative"`
	Model       string   `json:"model"`
}

// Analyze submits the symptom text and returns the analyzer's scoring.
func (c *HTTPClient) Analyze(ctx context.Context, symptomText string) (*domain.SymptomAnalysis, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("analyzer rate limit wait: %w", err)
	}

	payload, err := json.Marshal(analyzeRequest{
		SymptomText: symptomText,
		Model:       c.model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute analyze request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read analyze response: %w", err)
	}

	var wire analyzeResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("failed to parse analyze response: %w", err)
	}

	// Contract validation (base score range) is the orchestrator's call so
	// that a bad score is reported as a contract violation rather than an
	// availability failure.
	return &domain.SymptomAnalysis{
		BaseScore:   wire.BaseScore,
		KeySymptoms: wire.KeySymptoms,
		Narrative:   wire.Narrative,
		Model:       wire.Model,
	}, nil
}
