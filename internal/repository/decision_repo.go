package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/procuredesk/order-reconciliation/internal/domain/entity"
)

// DecisionRepository mirrors review decisions into the audit database.
type DecisionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDecisionRepository creates a new decision repository
func NewDecisionRepository(db *sql.DB, logger *zap.Logger) *DecisionRepository {
	return &DecisionRepository{db: db, logger: logger}
}

// Create inserts one decision audit row.
func (r *DecisionRepository) Create(ctx context.Context, decision *entity.ReviewDecision) error {
	query := `
		INSERT INTO review_decisions (
			id, result_id, reviewer_first_name, reviewer_last_name,
			review_date, decision, comment, corrective_action,
			follow_up_required, follow_up_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		decision.ID,
		decision.ResultID,
		decision.ReviewerFirstName,
		decision.ReviewerLastName,
		decision.ReviewDate,
		decision.Decision,
		decision.Comment,
		decision.CorrectiveAction,
		decision.FollowUpRequired,
		decision.FollowUpDate,
	)
	if err != nil {
		r.logger.Error("Failed to create decision", zap.String("id", decision.ID), zap.Error(err))
		return fmt.Errorf("failed to create decision: %w", err)
	}
	return nil
}

// ListByResult returns all decisions recorded for one result, oldest first.
func (r *DecisionRepository) ListByResult(ctx context.Context, resultID string) ([]*entity.ReviewDecision, error) {
	query := `
		SELECT id, result_id, reviewer_first_name, reviewer_last_name,
			review_date, decision, comment, corrective_action,
			follow_up_required, follow_up_date
		FROM review_decisions
		WHERE result_id = ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, resultID)
	if err != nil {
		r.logger.Error("Failed to list decisions", zap.String("result_id", resultID), zap.Error(err))
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*entity.ReviewDecision
	for rows.Next() {
		var d entity.ReviewDecision
		var reviewDate, followUpDate sql.NullTime

		err := rows.Scan(
			&d.ID,
			&d.ResultID,
			&d.ReviewerFirstName,
			&d.ReviewerLastName,
			&reviewDate,
			&d.Decision,
			&d.Comment,
			&d.CorrectiveAction,
			&d.FollowUpRequired,
			&followUpDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}

		if reviewDate.Valid {
			d.ReviewDate = &reviewDate.Time
		}
		if followUpDate.Valid {
			d.FollowUpDate = &followUpDate.Time
		}
		decisions = append(decisions, &d)
	}
	return decisions, rows.Err()
}
