// Package ai implements the analytics and forecasting engine: time-bucketed
// aggregation, linear trend forecasts, reorder recommendations, profitability
// insights and expense classification. All operations are pure computations
// over in-memory ledger/catalog snapshots supplied by the caller; the package
// never touches storage.
package ai

import (
	"math/rand"
	"sync"
	"time"
)

// Granularity selects the period size for time-bucketed aggregation.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
)

// ParseGranularity normalizes a query-string value, defaulting to weekly.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return Granularity(s)
	default:
		return GranularityWeekly
	}
}

// Confidence tiers summarizing forecast reliability.
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
	ConfidenceHigh   = "High"
)

// Service is the analytics engine. The classifier is trained once at
// construction and read-only afterwards, so a single Service is safe for
// concurrent use across requests. The jitter source feeds the cosmetic
// seasonal overlay only; a Service built without one produces fully
// deterministic output.
type Service struct {
	classifier *ExpenseClassifier

	mu  sync.Mutex // guards rng, which is not safe for concurrent use
	rng *rand.Rand
}

// NewService builds a Service with a time-seeded jitter source.
func NewService() *Service {
	return NewServiceWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewServiceWithSource builds a Service drawing seasonal jitter from src.
// A nil src disables jitter entirely.
func NewServiceWithSource(src rand.Source) *Service {
	s := &Service{classifier: NewExpenseClassifier()}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// jitter returns a pseudo-random value in [-0.5, 0.5), or 0 when the
// Service has no jitter source.
func (s *Service) jitter() float64 {
	if s.rng == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() - 0.5
}
