package store

import (
	"context"

	"maintenance-orchestrator/internal/model"
)

func (s *gormStore) CreateRequest(ctx context.Context, req *model.MaintenanceRequest) error {
	return wrapWrite(s.db.WithContext(ctx).Create(req).Error, "create maintenance request")
}

func (s *gormStore) GetRequest(ctx context.Context, id int64) (*model.MaintenanceRequest, error) {
	var req model.MaintenanceRequest
	if err := s.first(ctx, &req, "request", id); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequestIDsByStatus returns matching request ids oldest first.
func (s *gormStore) ListRequestIDsByStatus(ctx context.Context, status model.RequestStatus) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&model.MaintenanceRequest{}).
		Where("status = ?", status).
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error
	return ids, wrapWrite(err, "list requests")
}

// TransitionRequest moves a request from one (status, stage) to another.
func (s *gormStore) TransitionRequest(ctx context.Context, id int64, from, to StateChange) error {
	updates := map[string]any{
		"status":     to.Status,
		"stage":      to.Stage,
		"updated_by": to.Actor,
	}
	switch to.Status {
	case model.RequestCompleted:
		updates["completed_at"] = to.At
	case model.RequestCancelled:
		updates["cancelled_at"] = to.At
	}
	return s.compareAndSet(ctx, &model.MaintenanceRequest{}, id, updates, "request",
		"status = ? AND stage = ?", from.Status, from.Stage)
}
