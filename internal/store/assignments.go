package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
)

func (s *gormStore) CreateAssignment(ctx context.Context, a *model.Assignment) error {
	return wrapWrite(s.db.WithContext(ctx).Create(a).Error, "create assignment")
}

// ActiveAssignment returns the live assignment of a request or a NotFound error.
func (s *gormStore) ActiveAssignment(ctx context.Context, requestID int64) (*model.Assignment, error) {
	var a model.Assignment
	err := s.db.WithContext(ctx).
		Where("request_id = ? AND active = ?", requestID, true).
		Order("id DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("request %d has no active assignment", requestID)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load assignment", err)
	}
	return &a, nil
}

func (s *gormStore) ConfirmAssignment(ctx context.Context, id int64, at time.Time) error {
	return s.compareAndSet(ctx, &model.Assignment{}, id, map[string]any{"confirmed_at": at},
		"assignment", "active = ?", true)
}

func (s *gormStore) ReleaseAssignment(ctx context.Context, id int64, at time.Time) error {
	return s.compareAndSet(ctx, &model.Assignment{}, id, map[string]any{"active": false, "released_at": at},
		"assignment", "active = ?", true)
}

// CountActiveAssignments returns, per technician, how many live requests they hold.
func (s *gormStore) CountActiveAssignments(ctx context.Context) (map[int64]int, error) {
	type row struct {
		TechnicianID int64
		N            int
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&model.Assignment{}).
		Select("assignments.technician_id AS technician_id, COUNT(*) AS n").
		Joins("JOIN maintenance_requests r ON r.id = assignments.request_id").
		Where("assignments.active = ? AND r.status NOT IN ?", true, model.TerminalRequestStatuses).
		Group("assignments.technician_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal("failed to count active assignments", err)
	}
	counts := make(map[int64]int, len(rows))
	for _, r := range rows {
		counts[r.TechnicianID] = r.N
	}
	return counts, nil
}
