package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/db"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/notification"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

var clock = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	notices []notification.Notice
}

func (r *recorder) Dispatch(n notification.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, n := range r.notices {
		out = append(out, n.Event)
	}
	return out
}

type fixture struct {
	db         *gorm.DB
	store      store.Store
	orch       *Orchestrator
	notices    *recorder
	device     *model.Device
	employee   *model.Employee
	technician *model.Technician
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	f := &fixture{db: gormDB, store: store.NewGormStore(gormDB), notices: &recorder{}}
	f.orch = New(f.store, Options{
		Location:      time.UTC,
		LookaheadDays: 7,
		Notifier:      f.notices,
		Now:           func() time.Time { return clock },
	})

	f.device = &model.Device{Code: "AHU-01", Name: "Air handler", Location: "Tầng 3"}
	f.employee = &model.Employee{Name: "Lan"}
	f.technician = &model.Technician{Name: "Minh", Type: model.TechnicianInternal, Active: true}
	require.NoError(t, gormDB.Create(f.device).Error)
	require.NoError(t, gormDB.Create(f.employee).Error)
	require.NoError(t, gormDB.Create(f.technician).Error)
	return f
}

func (f *fixture) slot(t *testing.T, date string) model.TechnicianAvailability {
	t.Helper()
	slots := []model.TechnicianAvailability{{
		TechnicianID: f.technician.ID, WorkDate: date, StartMinute: 480, EndMinute: 720, Status: model.SlotAvailable,
	}}
	require.NoError(t, f.store.CreateAvailability(context.Background(), slots))
	return slots[0]
}

func (f *fixture) newRequest(t *testing.T) *model.MaintenanceRequest {
	t.Helper()
	req, err := f.orch.CreateInternalRequest(context.Background(), 1, CreateRequestInput{
		DeviceID:            f.device.ID,
		CreatedByEmployeeID: &f.employee.ID,
		Priority:            model.PriorityHigh,
		Kind:                model.KindRepair,
		Attachments:         []string{"photo1.jpg"},
		TargetDate:          "2024-01-01",
	})
	require.NoError(t, err)
	return req
}

func ptr[T any](v T) *T { return &v }

func TestCreateInternalRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.newRequest(t)
	assert.Equal(t, model.RequestAwaitingAssignment, req.Status)
	assert.Equal(t, "Tầng 3", req.Location)
	assert.Equal(t, []string{"photo1.jpg"}, req.Attachments)
	assert.Equal(t, int64(1), req.CreatedBy)

	stored, err := f.store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"photo1.jpg"}, stored.Attachments)
}

func TestCreateInternalRequest_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customerID := int64(77)

	base := func() CreateRequestInput {
		return CreateRequestInput{
			DeviceID:            f.device.ID,
			CreatedByEmployeeID: &f.employee.ID,
			Priority:            model.PriorityLow,
			Kind:                model.KindAdHoc,
		}
	}

	testCases := []struct {
		name   string
		mutate func(in *CreateRequestInput)
		kind   apperr.Kind
		field  string
	}{
		{name: "no creator", mutate: func(in *CreateRequestInput) { in.CreatedByEmployeeID = nil }, kind: apperr.KindValidation, field: "createdByEmployeeId"},
		{name: "both creators", mutate: func(in *CreateRequestInput) { in.CreatedByCustomerID = &customerID }, kind: apperr.KindValidation, field: "createdByEmployeeId"},
		{name: "four attachments", mutate: func(in *CreateRequestInput) { in.Attachments = []string{"a", "b", "c", "d"} }, kind: apperr.KindValidation, field: "attachments"},
		{name: "unknown priority", mutate: func(in *CreateRequestInput) { in.Priority = "URGENT" }, kind: apperr.KindValidation, field: "priority"},
		{name: "bad target date", mutate: func(in *CreateRequestInput) { in.TargetDate = "01/02/2024" }, kind: apperr.KindValidation, field: "targetDate"},
		{name: "missing device", mutate: func(in *CreateRequestInput) { in.DeviceID = 999 }, kind: apperr.KindNotFound},
		{name: "missing customer", mutate: func(in *CreateRequestInput) { in.CreatedByEmployeeID = nil; in.CreatedByCustomerID = &customerID }, kind: apperr.KindNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in := base()
			tc.mutate(&in)
			_, err := f.orch.CreateInternalRequest(ctx, 1, in)
			require.Error(t, err)
			assert.Equal(t, tc.kind, apperr.GetKind(err))
			if tc.field != "" {
				assert.Contains(t, err.Error(), tc.field)
			}
		})
	}
}

func TestFullLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, "2024-01-01")
	req := f.newRequest(t)

	a, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, f.technician.ID, a.TechnicianID)

	confirmed, err := f.orch.ConfirmAssignment(ctx, req.ID, f.technician.ID)
	require.NoError(t, err)
	assert.NotNil(t, confirmed.ConfirmedAt)

	started, err := f.orch.StartMaintenance(ctx, req.ID, f.technician.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageAwaitingSurvey, started.Stage)

	survey, err := f.orch.SubmitSurvey(ctx, req.ID, f.technician.ID, SurveyInput{
		SurveyDate:  "2024-01-01",
		Cause:       "Belt worn out",
		DamageLevel: model.DamageModerate,
		ActualKind:  model.KindRepair,
	})
	require.NoError(t, err)
	assert.Equal(t, f.technician.ID, survey.TechnicianID)

	plan, err := f.orch.SubmitPlan(ctx, req.ID, f.technician.ID, PlanInput{
		Solution: "Replace belt", UsesMaterials: true, Tasks: []string{"Order belt", "Fit belt"},
	})
	require.NoError(t, err)

	_, err = f.orch.RejectPlan(ctx, plan.ID, 3, RejectInput{Reason: "vật tư không đủ"})
	require.NoError(t, err)

	plan, err = f.orch.SubmitPlan(ctx, req.ID, f.technician.ID, PlanInput{
		Solution: "Replace belt with spare", Tasks: []string{"Fit spare belt", "Test run"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Revision)

	_, err = f.orch.ApprovePlan(ctx, plan.ID, 3)
	require.NoError(t, err)

	detail, err := f.orch.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Plan)
	require.Len(t, detail.Plan.Tasks, 2)
	assert.Equal(t, model.StagePlanApproved, detail.Request.Stage)

	first, second := detail.Plan.Tasks[0], detail.Plan.Tasks[1]
	_, err = f.orch.UpdateExecutionTask(ctx, first.ID, f.technician.ID, TaskUpdateInput{Done: ptr(true), Note: ptr("fitted")})
	require.NoError(t, err)

	mid, err := f.store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageExecuting, mid.Stage)

	_, err = f.orch.UpdateExecutionTask(ctx, second.ID, f.technician.ID, TaskUpdateInput{Done: ptr(true)})
	require.NoError(t, err)

	ready, err := f.store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageAwaitingAcceptance, ready.Stage)

	// Tasks are frozen while acceptance is pending.
	_, err = f.orch.UpdateExecutionTask(ctx, second.ID, f.technician.ID, TaskUpdateInput{Done: ptr(false)})
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	done, err := f.orch.AcceptRequest(ctx, req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RequestCompleted, done.Status)
	assert.Equal(t, model.StageAccepted, done.Stage)
	assert.NotNil(t, done.CompletedAt)

	// The slot stays consumed by the completed work.
	got, err := f.store.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotBusy, got.Status)

	history, err := f.orch.ListRequestRejections(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.SubjectPlan, history[0].SubjectType)

	final, err := f.orch.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, final.AllowedEvents)

	assert.Contains(t, f.notices.events(), string(workflow.EventProposeAssignment))
	assert.Contains(t, f.notices.events(), string(workflow.EventAccept))
}

func TestRejectAssignment_ReleasesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, "2024-01-01")
	req := f.newRequest(t)

	a, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.ConfirmAssignment(ctx, req.ID, f.technician.ID)
	require.NoError(t, err)

	_, err = f.orch.RejectAssignment(ctx, req.ID, 2, RejectInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	back, err := f.orch.RejectAssignment(ctx, req.ID, 2, RejectInput{Reason: "technician sick"})
	require.NoError(t, err)
	assert.Equal(t, model.RequestAwaitingAssignment, back.Status)

	got, err := f.store.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotAvailable, got.Status)

	_, err = f.store.ActiveAssignment(ctx, req.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	records, err := f.orch.ListRejections(ctx, model.SubjectAssignment, a.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "technician sick", records[0].Reason)

	// The freed slot can be claimed again.
	again, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, slot.ID, again.AvailabilityID)
}

func TestCancelRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	slot := f.slot(t, "2024-01-01")
	req := f.newRequest(t)
	_, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)

	cancelled, err := f.orch.CancelRequest(ctx, req.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RequestCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	got, err := f.store.GetSlot(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SlotAvailable, got.Status)

	_, err = f.orch.CancelRequest(ctx, req.ID, 1)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	// Without an assignment there is nothing to release.
	other := f.newRequest(t)
	_, err = f.orch.CancelRequest(ctx, other.ID, 1)
	assert.NoError(t, err)
}

func TestCancelRequest_WithdrawsPendingPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.slot(t, "2024-01-01")
	req := f.newRequest(t)

	_, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.ConfirmAssignment(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.SubmitSurvey(ctx, req.ID, 2, SurveyInput{
		SurveyDate: "2024-01-01", Cause: "leak", DamageLevel: model.DamageMinor, ActualKind: model.KindRepair,
	})
	require.NoError(t, err)
	plan, err := f.orch.SubmitPlan(ctx, req.ID, 2, PlanInput{Solution: "Seal", Tasks: []string{"Seal joint"}})
	require.NoError(t, err)
	require.Equal(t, model.PlanPendingApproval, plan.Status)

	_, err = f.orch.CancelRequest(ctx, req.ID, 1)
	require.NoError(t, err)

	withdrawn, err := f.store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanRejected, withdrawn.Status)
	require.NotNil(t, withdrawn.DecidedBy)
	assert.Equal(t, int64(1), *withdrawn.DecidedBy)

	records, err := f.store.ListRejections(ctx, model.SubjectPlan, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = f.orch.ApprovePlan(ctx, plan.ID, 3)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}

func TestUpdateExecutionTask_CountsOpenTasksFromLedger(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.slot(t, "2024-01-01")
	req := f.newRequest(t)

	_, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.ConfirmAssignment(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.SubmitSurvey(ctx, req.ID, 2, SurveyInput{
		SurveyDate: "2024-01-01", Cause: "leak", DamageLevel: model.DamageMinor, ActualKind: model.KindRepair,
	})
	require.NoError(t, err)
	plan, err := f.orch.SubmitPlan(ctx, req.ID, 2, PlanInput{Solution: "Seal", Tasks: []string{"Drain", "Seal joint"}})
	require.NoError(t, err)
	_, err = f.orch.ApprovePlan(ctx, plan.ID, 3)
	require.NoError(t, err)

	stored, err := f.store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, stored.Tasks, 2)
	first, second := stored.Tasks[0], stored.Tasks[1]

	_, err = f.orch.UpdateExecutionTask(ctx, first.ID, 2, TaskUpdateInput{Note: ptr("draining")})
	require.NoError(t, err)

	// Another writer finishes the first task after it was last read here.
	first.Done = true
	first.Note = "drained"
	require.NoError(t, f.store.UpdateTask(ctx, &first))

	updated, err := f.orch.UpdateExecutionTask(ctx, second.ID, 2, TaskUpdateInput{Done: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Done)

	got, err := f.store.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageAwaitingAcceptance, got.Stage)

	kept, err := f.store.GetTask(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, kept.Done)
	assert.Equal(t, "drained", kept.Note)
}

func TestRejectAcceptance_ReopensTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.slot(t, "2024-01-01")
	req := f.newRequest(t)

	_, err := f.orch.AssignOne(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.ConfirmAssignment(ctx, req.ID, 2)
	require.NoError(t, err)
	_, err = f.orch.SubmitSurvey(ctx, req.ID, 2, SurveyInput{
		SurveyDate: "2024-01-01", Cause: "leak", DamageLevel: model.DamageMinor, ActualKind: model.KindRepair,
	})
	require.NoError(t, err)
	plan, err := f.orch.SubmitPlan(ctx, req.ID, 2, PlanInput{Solution: "Seal", Tasks: []string{"Seal joint"}})
	require.NoError(t, err)
	_, err = f.orch.ApprovePlan(ctx, plan.ID, 3)
	require.NoError(t, err)

	stored, err := f.store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	task := stored.Tasks[0]
	_, err = f.orch.UpdateExecutionTask(ctx, task.ID, 2, TaskUpdateInput{Done: ptr(true), Attachments: []string{"after.jpg"}})
	require.NoError(t, err)

	back, err := f.orch.RejectAcceptance(ctx, req.ID, 1, RejectInput{Reason: "still leaking"})
	require.NoError(t, err)
	assert.Equal(t, model.RequestInMaintenance, back.Status)
	assert.Equal(t, model.StageExecuting, back.Stage)

	reopened, err := f.store.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, reopened.Done)
	assert.Nil(t, reopened.CompletedAt)
	assert.Equal(t, []string{"after.jpg"}, reopened.Attachments)

	records, err := f.orch.ListRejections(ctx, model.SubjectAcceptance, req.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAcceptRequest_CompletesSchedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.slot(t, "2024-01-01")
	sched := &model.MaintenanceSchedule{DeviceID: f.device.ID, ScheduledDate: "2024-01-01", Status: model.SchedulePending}
	require.NoError(t, f.db.Create(sched).Error)

	promotion, err := f.orch.GenerateDueRequests(ctx)
	require.NoError(t, err)
	require.Len(t, promotion.Created, 1)
	reqID := promotion.Created[0].ID

	res, err := f.orch.AutoAssignAll(ctx)
	require.NoError(t, err)
	require.Len(t, res.Assigned, 1)

	_, err = f.orch.ConfirmAssignment(ctx, reqID, 2)
	require.NoError(t, err)
	_, err = f.orch.SubmitSurvey(ctx, reqID, 2, SurveyInput{
		SurveyDate: "2024-01-01", Cause: "routine", DamageLevel: model.DamageMinor, ActualKind: model.KindPeriodic,
	})
	require.NoError(t, err)
	plan, err := f.orch.SubmitPlan(ctx, reqID, 2, PlanInput{Solution: "Clean filters", Tasks: []string{"Clean"}})
	require.NoError(t, err)
	_, err = f.orch.ApprovePlan(ctx, plan.ID, 3)
	require.NoError(t, err)
	stored, err := f.store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	_, err = f.orch.UpdateExecutionTask(ctx, stored.Tasks[0].ID, 2, TaskUpdateInput{Done: ptr(true)})
	require.NoError(t, err)

	_, err = f.orch.AcceptRequest(ctx, reqID, 1)
	require.NoError(t, err)

	got, err := f.store.GetSchedule(ctx, sched.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ScheduleCompleted, got.Status)
}

func TestUpdateExecutionTask_RequiresApprovedPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := &model.MaintenanceRequest{DeviceID: f.device.ID, Priority: model.PriorityLow, Kind: model.KindRepair,
		Status: model.RequestInMaintenance, Stage: model.StageSurveyed}
	require.NoError(t, f.store.CreateRequest(ctx, req))
	plan, err := f.orch.SubmitPlan(ctx, req.ID, 2, PlanInput{Solution: "x", Tasks: []string{"y"}})
	require.NoError(t, err)
	stored, err := f.store.GetPlan(ctx, plan.ID)
	require.NoError(t, err)

	_, err = f.orch.UpdateExecutionTask(ctx, stored.Tasks[0].ID, 2, TaskUpdateInput{Done: ptr(true)})
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	_, err = f.orch.UpdateExecutionTask(ctx, stored.Tasks[0].ID, 2, TaskUpdateInput{})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestExpandAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := ExpandAvailabilityInput{
		From:     "2024-01-01", // Monday
		To:       "2024-01-14",
		Weekdays: "T2,T4",
		Start:    "08:00",
		End:      "12:00",
	}

	slots, err := f.orch.ExpandAvailability(ctx, f.technician.ID, 1, in)
	require.NoError(t, err)
	var dates []string
	for _, s := range slots {
		dates = append(dates, s.WorkDate)
		assert.Equal(t, 480, s.StartMinute)
		assert.Equal(t, 720, s.EndMinute)
		assert.Equal(t, model.SlotAvailable, s.Status)
	}
	assert.Equal(t, []string{"2024-01-01", "2024-01-03", "2024-01-08", "2024-01-10"}, dates)

	again, err := f.orch.ExpandAvailability(ctx, f.technician.ID, 1, in)
	require.NoError(t, err)
	assert.Empty(t, again)

	tpl := &model.ShiftTemplate{Name: "Chiều", StartMinute: 780, EndMinute: 1020}
	require.NoError(t, f.db.Create(tpl).Error)
	afternoon, err := f.orch.ExpandAvailability(ctx, f.technician.ID, 1, ExpandAvailabilityInput{
		From: "2024-01-01", To: "2024-01-01", ShiftTemplateID: &tpl.ID,
	})
	require.NoError(t, err)
	require.Len(t, afternoon, 1)
	assert.Equal(t, 780, afternoon[0].StartMinute)
}

func TestExpandAvailability_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	testCases := []struct {
		name string
		in   ExpandAvailabilityInput
		kind apperr.Kind
	}{
		{"reversed range", ExpandAvailabilityInput{From: "2024-02-01", To: "2024-01-01", Start: "08:00", End: "12:00"}, apperr.KindValidation},
		{"bad weekday", ExpandAvailabilityInput{From: "2024-01-01", To: "2024-01-02", Weekdays: "T9", Start: "08:00", End: "12:00"}, apperr.KindValidation},
		{"end before start", ExpandAvailabilityInput{From: "2024-01-01", To: "2024-01-02", Start: "12:00", End: "08:00"}, apperr.KindValidation},
		{"no window", ExpandAvailabilityInput{From: "2024-01-01", To: "2024-01-02"}, apperr.KindValidation},
		{"too long", ExpandAvailabilityInput{From: "2024-01-01", To: "2025-06-01", Start: "08:00", End: "12:00"}, apperr.KindValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orch.ExpandAvailability(ctx, f.technician.ID, 1, tc.in)
			assert.Equal(t, tc.kind, apperr.GetKind(err))
		})
	}

	_, err := f.orch.ExpandAvailability(ctx, 999, 1, ExpandAvailabilityInput{From: "2024-01-01", To: "2024-01-01", Start: "08:00", End: "09:00"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListRejections_UnknownSubject(t *testing.T) {
	f := newFixture(t)
	_, err := f.orch.ListRejections(context.Background(), "INVOICE", 1)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSubscriptions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := SubscriptionInput{Endpoint: "https://push.example.com/abc", P256DH: "key", Auth: "secret"}

	_, err := f.orch.SaveSubscription(ctx, 999, in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.orch.SaveSubscription(ctx, f.technician.ID, SubscriptionInput{Endpoint: "not a url", P256DH: "k", Auth: "a"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	sub, err := f.orch.SaveSubscription(ctx, f.technician.ID, in)
	require.NoError(t, err)
	assert.Equal(t, f.technician.ID, sub.TechnicianID)

	in.Auth = "rotated"
	_, err = f.orch.SaveSubscription(ctx, f.technician.ID, in)
	require.NoError(t, err)

	got, err := f.orch.GetSubscription(ctx, f.technician.ID, in.Endpoint)
	require.NoError(t, err)
	assert.Equal(t, "rotated", got.Auth)

	_, err = f.orch.GetSubscription(ctx, f.technician.ID+1, in.Endpoint)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.orch.DeleteSubscription(ctx, f.technician.ID, in.Endpoint))
	_, err = f.orch.GetSubscription(ctx, f.technician.ID, in.Endpoint)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
