package analyzer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/vitals-triage-server/internal/domain"
)

// AnalysisCache is the read-through cache the resilient client consults
// before and instead of the upstream analyzer. Implementations must treat
// misses and cache-layer failures as (nil, false, err) so the caller can
// fall through to the analyzer.
type AnalysisCache interface {
	Get(ctx context.Context, symptomText string) (*domain.SymptomAnalysis, bool, error)
	Set(ctx context.Context, symptomText string, analysis *domain.SymptomAnalysis) error
}

// ResilientClient wraps an analyzer with a circuit breaker and caching.
// Identical narratives are served from cache without touching the
// upstream; when the breaker is open, cached results are the only ones
// available and anything else fails fast.
type ResilientClient struct {
	inner   domain.SymptomAnalyzer
	cache   AnalysisCache
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

// NewResilientClient creates the resilience wrapper. The cache is
// optional; passing nil disables caching and leaves only the breaker.
func NewResilientClient(logger *logrus.Logger, inner domain.SymptomAnalyzer, cache AnalysisCache) *ResilientClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "SymptomAnalyzer",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ResilientClient{
		inner:   inner,
		cache:   cache,
		breaker: breaker,
		logger:  logger,
	}
}

// Analyze serves from cache when possible, otherwise calls the upstream
// analyzer through the circuit breaker and caches the result.
func (r *ResilientClient) Analyze(ctx context.Context, symptomText string) (*domain.SymptomAnalysis, error) {
	if r.cache != nil {
		if cached, found, err := r.cache.Get(ctx, symptomText); err == nil && found {
			return cached, nil
		}
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.Analyze(ctx, symptomText)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("symptom analyzer unavailable (circuit breaker open)")
		}
		return nil, fmt.Errorf("symptom analysis failed: %w", err)
	}

	analysis := result.(*domain.SymptomAnalysis)

	if r.cache != nil {
		if cacheErr := r.cache.Set(ctx, symptomText, analysis); cacheErr != nil {
			// A cache write failure never fails the assessment.
			r.logger.WithError(cacheErr).Debug("Failed to cache analysis result")
		}
	}

	return analysis, nil
}

// BreakerCounts exposes breaker statistics for the health endpoint.
func (r *ResilientClient) BreakerCounts() gobreaker.Counts {
	return r.breaker.Counts()
}

// BreakerState exposes the current breaker state for the health endpoint.
func (r *ResilientClient) BreakerState() gobreaker.State {
	return r.breaker.State()
}
