package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/application/port"
	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
	"github.com/procuredesk/order-reconciliation/internal/domain/workflow"
)

// ReviewService applies reviewer decisions to reconciliation results and
// drives the release workflow.
type ReviewService interface {
	ApplyDecision(ctx context.Context, resultID string, decision *entity.ReviewDecision) (*entity.ReconciliationResult, error)
	ListDecisions(ctx context.Context, resultID string) ([]*entity.ReviewDecision, error)
}

type reviewServiceImpl struct {
	store        port.RecordStore
	resultRepo   port.ResultRepository
	decisionRepo port.DecisionRepository
	logger       *zap.Logger

	// Serializes decisions so two reviewers cannot race the same
	// transition.
	mu sync.Mutex
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	store port.RecordStore,
	resultRepo port.ResultRepository,
	decisionRepo port.DecisionRepository,
	logger *zap.Logger,
) ReviewService {
	return &reviewServiceImpl{
		store:        store,
		resultRepo:   resultRepo,
		decisionRepo: decisionRepo,
		logger:       logger,
	}
}

// ApplyDecision validates the decision against the workflow, persists the
// new status and records the decision. Nothing is persisted when the
// transition is rejected.
func (s *reviewServiceImpl) ApplyDecision(ctx context.Context, resultID string, decision *entity.ReviewDecision) (*entity.ReconciliationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.store.GetResult(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("fetch result: %w", err)
	}

	next, err := workflow.Transition(workflow.State(result.Status), decision.Decision, decision.FollowUpRequired)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateResultStatus(ctx, resultID, next.String()); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	decision.ResultID = resultID
	if decision.ReviewDate == nil {
		now := time.Now()
		decision.ReviewDate = &now
	}

	decisionID, err := s.store.CreateDecision(ctx, decision)
	if err != nil {
		// Status already moved; the caller must know the decision record
		// is missing.
		s.logger.Error("Status updated but decision record failed",
			zap.String("result_id", resultID),
			zap.Error(err))
		return nil, fmt.Errorf("record decision: %w", err)
	}
	decision.ID = decisionID

	result.Status = next.String()

	if err := s.resultRepo.UpdateStatus(ctx, resultID, next.String()); err != nil {
		s.logger.Warn("Audit status update failed", zap.String("result_id", resultID), zap.Error(err))
	}
	if err := s.decisionRepo.Create(ctx, decision); err != nil {
		s.logger.Warn("Audit decision write failed", zap.String("decision_id", decisionID), zap.Error(err))
	}

	s.logger.Info("Decision applied",
		zap.String("result_id", resultID),
		zap.String("decision", decision.Decision),
		zap.String("status", next.String()))

	return result, nil
}

// ListDecisions returns all decisions recorded for one result.
func (s *reviewServiceImpl) ListDecisions(ctx context.Context, resultID string) ([]*entity.ReviewDecision, error) {
	decisions, err := s.store.ListDecisions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}

	filtered := make([]*entity.ReviewDecision, 0, len(decisions))
	for _, d := range decisions {
		if d.ResultID == resultID {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}
