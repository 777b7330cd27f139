package service

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/application/port"
	"github.com/procuredesk/order-reconciliation/internal/domain/workflow"
)

// Stats summarizes the reconciliation backlog for the dashboard.
type Stats struct {
	Total           int            `json:"total"`
	Open            int            `json:"open"`
	InReview        int            `json:"in_review"`
	Approved        int            `json:"approved"`
	Rejected        int            `json:"rejected"`
	WithDeviations  int            `json:"with_deviations"`
	Critical        int            `json:"critical"`
	WithinTolerance int            `json:"within_tolerance"`
	DeviationTypes  map[string]int `json:"deviation_types"`

	// Mean absolute percent deviation over all results that carry one,
	// quantity and price pooled.
	AvgDeviationPercent float64 `json:"avg_deviation_percent"`
}

// StatsService aggregates reconciliation results into dashboard numbers.
type StatsService interface {
	Overview(ctx context.Context) (*Stats, error)
}

type statsServiceImpl struct {
	store  port.RecordStore
	logger *zap.Logger
}

// NewStatsService creates a new StatsService
func NewStatsService(store port.RecordStore, logger *zap.Logger) StatsService {
	return &statsServiceImpl{store: store, logger: logger}
}

// Overview computes the dashboard aggregates from all stored results.
func (s *statsServiceImpl) Overview(ctx context.Context) (*Stats, error) {
	results, err := s.store.ListResults(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	stats := &Stats{
		Total:          len(results),
		DeviationTypes: make(map[string]int),
	}

	var pctSum float64
	var pctCount int

	for _, r := range results {
		switch workflow.State(r.Status) {
		case workflow.StateOpen:
			stats.Open++
		case workflow.StateInReview:
			stats.InReview++
		case workflow.StateApproved:
			stats.Approved++
		case workflow.StateRejected:
			stats.Rejected++
		}

		if r.DeviationsPresent {
			stats.WithDeviations++
		}
		if r.Critical() {
			stats.Critical++
		}
		if r.WithinQuantityTolerance && r.WithinPriceTolerance {
			stats.WithinTolerance++
		}

		for _, t := range r.DeviationTypes {
			stats.DeviationTypes[string(t)]++
		}

		for _, pct := range []*float64{r.QuantityDeviationPercent, r.PriceDeviationPercent} {
			if pct != nil {
				pctSum += math.Abs(*pct)
				pctCount++
			}
		}
	}

	if pctCount > 0 {
		stats.AvgDeviationPercent = pctSum / float64(pctCount)
	}

	return stats, nil
}
