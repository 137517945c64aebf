package store

import (
	"context"

	"maintenance-orchestrator/internal/model"
)

// ListDueSchedules returns PENDING schedules whose date is on or before day.
func (s *gormStore) ListDueSchedules(ctx context.Context, day string) ([]model.MaintenanceSchedule, error) {
	var schedules []model.MaintenanceSchedule
	err := s.db.WithContext(ctx).
		Where("status = ? AND scheduled_date <= ?", model.SchedulePending, day).
		Order("scheduled_date, id").
		Find(&schedules).Error
	return schedules, wrapWrite(err, "list due schedules")
}

func (s *gormStore) GetSchedule(ctx context.Context, id int64) (*model.MaintenanceSchedule, error) {
	var sched model.MaintenanceSchedule
	if err := s.first(ctx, &sched, "schedule", id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// MarkScheduleRequestCreated promotes a PENDING schedule exactly once.
func (s *gormStore) MarkScheduleRequestCreated(ctx context.Context, id, requestID int64) error {
	return s.compareAndSet(ctx, &model.MaintenanceSchedule{}, id,
		map[string]any{"status": model.ScheduleRequestCreated, "request_id": requestID},
		"schedule", "status = ?", model.SchedulePending)
}

func (s *gormStore) CompleteSchedule(ctx context.Context, id int64) error {
	return s.compareAndSet(ctx, &model.MaintenanceSchedule{}, id,
		map[string]any{"status": model.ScheduleCompleted},
		"schedule", "status = ?", model.ScheduleRequestCreated)
}
