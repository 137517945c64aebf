package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/model"
)

// Store defines the ledger operations used by the orchestrator core.
// Status-changing methods are conditional: they only apply when the row is
// still in the expected prior state and return a Conflict error otherwise.
type Store interface {
	// Tx runs fn inside a transaction; fn must only use the Store it is given.
	Tx(ctx context.Context, fn func(Store) error) error

	// Directories
	GetDevice(ctx context.Context, id int64) (*model.Device, error)
	ListDevices(ctx context.Context) ([]model.Device, error)
	GetIssue(ctx context.Context, id int64) (*model.Issue, error)
	EmployeeExists(ctx context.Context, id int64) (bool, error)
	CustomerExists(ctx context.Context, id int64) (bool, error)
	GetTechnician(ctx context.Context, id int64) (*model.Technician, error)
	ListTechnicians(ctx context.Context) ([]model.Technician, error)
	GetShiftTemplate(ctx context.Context, id int64) (*model.ShiftTemplate, error)

	// Requests
	CreateRequest(ctx context.Context, req *model.MaintenanceRequest) error
	GetRequest(ctx context.Context, id int64) (*model.MaintenanceRequest, error)
	ListRequestIDsByStatus(ctx context.Context, status model.RequestStatus) ([]int64, error)
	TransitionRequest(ctx context.Context, id int64, from, to StateChange) error

	// Assignments
	CreateAssignment(ctx context.Context, a *model.Assignment) error
	ActiveAssignment(ctx context.Context, requestID int64) (*model.Assignment, error)
	ConfirmAssignment(ctx context.Context, id int64, at time.Time) error
	ReleaseAssignment(ctx context.Context, id int64, at time.Time) error
	CountActiveAssignments(ctx context.Context) (map[int64]int, error)

	// Availability
	CreateAvailability(ctx context.Context, slots []model.TechnicianAvailability) error
	ListAvailability(ctx context.Context, technicianID int64, fromDate, toDate string) ([]model.TechnicianAvailability, error)
	ListSlots(ctx context.Context, fromDate, toDate string) ([]model.TechnicianAvailability, error)
	GetSlot(ctx context.Context, id int64) (*model.TechnicianAvailability, error)
	SetSlotStatus(ctx context.Context, id int64, from, to model.AvailabilityStatus) error

	// Survey, plans and execution
	CreateSurvey(ctx context.Context, s *model.Survey) error
	GetSurvey(ctx context.Context, requestID int64) (*model.Survey, error)
	CreatePlan(ctx context.Context, p *model.MaintenancePlan) error
	GetPlan(ctx context.Context, id int64) (*model.MaintenancePlan, error)
	LockPlan(ctx context.Context, id int64) (*model.MaintenancePlan, error)
	LatestPlan(ctx context.Context, requestID int64) (*model.MaintenancePlan, error)
	SetPlanStatus(ctx context.Context, id int64, from, to model.PlanStatus, decidedBy *int64, at time.Time) error
	GetTask(ctx context.Context, id int64) (*model.ExecutionTask, error)
	UpdateTask(ctx context.Context, task *model.ExecutionTask) error
	CountOpenTasks(ctx context.Context, planID int64) (int64, error)
	ReopenTasks(ctx context.Context, planID int64) error

	// Rejections
	AppendRejection(ctx context.Context, r *model.RejectionRecord) error
	ListRejections(ctx context.Context, subject model.SubjectType, subjectID int64) ([]model.RejectionRecord, error)
	ListRequestRejections(ctx context.Context, requestID int64) ([]model.RejectionRecord, error)

	// Schedules
	ListDueSchedules(ctx context.Context, day string) ([]model.MaintenanceSchedule, error)
	GetSchedule(ctx context.Context, id int64) (*model.MaintenanceSchedule, error)
	MarkScheduleRequestCreated(ctx context.Context, id, requestID int64) error
	CompleteSchedule(ctx context.Context, id int64) error

	// Push subscriptions
	ListSubscriptions(ctx context.Context, technicianID int64) ([]model.PushSubscription, error)
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// StateChange is a request's (status, stage) pair plus the audit fields
// written alongside it.
type StateChange struct {
	Status model.RequestStatus
	Stage  model.MaintenanceStage
	Actor  int64
	At     time.Time
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// Tx runs fn in a database transaction bound to a transactional store.
func (s *gormStore) Tx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// compareAndSet applies updates to the row with the given id only when
// where still matches. Zero affected rows is reported as a Conflict.
func (s *gormStore) compareAndSet(ctx context.Context, m any, id int64, updates map[string]any, what string, where string, args ...any) error {
	res := s.db.WithContext(ctx).Model(m).
		Where("id = ?", id).
		Where(where, args...).
		Updates(updates)
	if res.Error != nil {
		return apperr.Internal(fmt.Sprintf("failed to update %s %d", what, id), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("%s %d was changed concurrently", what, id)
	}
	return nil
}

// first loads one row by id, translating a miss into NotFound.
func (s *gormStore) first(ctx context.Context, dest any, what string, id int64) error {
	err := s.db.WithContext(ctx).First(dest, id).Error
	return translate(err, what, id)
}

func translate(err error, what string, id any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s %v not found", what, id)
	}
	return apperr.Internal(fmt.Sprintf("failed to load %s %v", what, id), err)
}

func wrapWrite(err error, action string) error {
	if err == nil {
		return nil
	}
	return apperr.Internal("failed to "+action, err)
}
