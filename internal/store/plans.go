package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
)

func (s *gormStore) CreateSurvey(ctx context.Context, sv *model.Survey) error {
	return wrapWrite(s.db.WithContext(ctx).Create(sv).Error, "create survey")
}

func (s *gormStore) GetSurvey(ctx context.Context, requestID int64) (*model.Survey, error) {
	var sv model.Survey
	err := s.db.WithContext(ctx).Where("request_id = ?", requestID).First(&sv).Error
	if err := translate(err, "survey for request", requestID); err != nil {
		return nil, err
	}
	return &sv, nil
}

// CreatePlan inserts a plan revision together with its tasks.
func (s *gormStore) CreatePlan(ctx context.Context, p *model.MaintenancePlan) error {
	return wrapWrite(s.db.WithContext(ctx).Create(p).Error, "create maintenance plan")
}

func (s *gormStore) GetPlan(ctx context.Context, id int64) (*model.MaintenancePlan, error) {
	var p model.MaintenancePlan
	err := s.db.WithContext(ctx).Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	}).First(&p, id).Error
	if err := translate(err, "plan", id); err != nil {
		return nil, err
	}
	return &p, nil
}

// LockPlan loads a plan row without its tasks and holds a row lock on it
// until the surrounding transaction ends. Drivers without row locks ignore it.
func (s *gormStore) LockPlan(ctx context.Context, id int64) (*model.MaintenancePlan, error) {
	var p model.MaintenancePlan
	err := s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	if err := translate(err, "plan", id); err != nil {
		return nil, err
	}
	return &p, nil
}

// LatestPlan returns the highest revision for a request, or NotFound.
func (s *gormStore) LatestPlan(ctx context.Context, requestID int64) (*model.MaintenancePlan, error) {
	var p model.MaintenancePlan
	err := s.db.WithContext(ctx).Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq")
	}).Where("request_id = ?", requestID).Order("revision DESC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("request %d has no plan", requestID)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load plan", err)
	}
	return &p, nil
}

func (s *gormStore) SetPlanStatus(ctx context.Context, id int64, from, to model.PlanStatus, decidedBy *int64, at time.Time) error {
	updates := map[string]any{"status": to}
	if decidedBy != nil {
		updates["decided_by"] = *decidedBy
		updates["decided_at"] = at
	}
	return s.compareAndSet(ctx, &model.MaintenancePlan{}, id, updates, "plan", "status = ?", from)
}

func (s *gormStore) GetTask(ctx context.Context, id int64) (*model.ExecutionTask, error) {
	var task model.ExecutionTask
	if err := s.first(ctx, &task, "task", id); err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *gormStore) UpdateTask(ctx context.Context, task *model.ExecutionTask) error {
	err := s.db.WithContext(ctx).Model(task).
		Select("done", "note", "attachments", "completed_at").
		Updates(task).Error
	return wrapWrite(err, "update task")
}

// CountOpenTasks counts the tasks of a plan that are not done yet.
func (s *gormStore) CountOpenTasks(ctx context.Context, planID int64) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.ExecutionTask{}).
		Where("plan_id = ? AND done = ?", planID, false).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Internal("failed to count open tasks", err)
	}
	return n, nil
}

// ReopenTasks marks every task of a plan as not done, keeping notes and attachments.
func (s *gormStore) ReopenTasks(ctx context.Context, planID int64) error {
	err := s.db.WithContext(ctx).Model(&model.ExecutionTask{}).
		Where("plan_id = ?", planID).
		Updates(map[string]any{"done": false, "completed_at": nil}).Error
	return wrapWrite(err, "reopen tasks")
}
