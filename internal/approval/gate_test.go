package approval

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"maintenance-orchestrator/internal/apperr"
	"maintenance-orchestrator/internal/db"
	"maintenance-orchestrator/internal/model"
	"maintenance-orchestrator/internal/store"
	"maintenance-orchestrator/internal/workflow"
)

func newGate(t *testing.T) (*Gate, store.Store) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	st := store.NewGormStore(gormDB)
	return NewGate(st, workflow.NewMachine()), st
}

func surveyedRequest(t *testing.T, st store.Store) *model.MaintenanceRequest {
	t.Helper()
	req := &model.MaintenanceRequest{
		DeviceID: 1,
		Priority: model.PriorityHigh,
		Kind:     model.KindRepair,
		Status:   model.RequestInMaintenance,
		Stage:    model.StageSurveyed,
	}
	require.NoError(t, st.CreateRequest(context.Background(), req))
	return req
}

var draft = Draft{
	Solution:      "Replace compressor",
	UsesMaterials: true,
	Tasks:         []string{"Drain coolant", "Swap compressor", "Pressure test"},
}

func TestSubmit_CreatesPendingRevision(t *testing.T) {
	gate, st := newGate(t)
	ctx := context.Background()
	req := surveyedRequest(t, st)

	plan, err := gate.Submit(ctx, req.ID, 3, draft)
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Revision)
	assert.Equal(t, model.PlanPendingApproval, plan.Status)

	stored, err := st.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPendingApproval, stored.Status)
	require.Len(t, stored.Tasks, 3)
	assert.Equal(t, "Drain coolant", stored.Tasks[0].Title)
	assert.Equal(t, 3, stored.Tasks[2].Seq)
	assert.Equal(t, req.ID, stored.Tasks[1].RequestID)

	got, err := st.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StagePlanned, got.Stage)
}

func TestSubmit_Validation(t *testing.T) {
	gate, st := newGate(t)
	req := surveyedRequest(t, st)

	_, err := gate.Submit(context.Background(), req.ID, 3, Draft{Solution: " ", Tasks: []string{"x"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = gate.Submit(context.Background(), req.ID, 3, Draft{Solution: "fix"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestReject_MaterialsShortage(t *testing.T) {
	gate, st := newGate(t)
	ctx := context.Background()
	req := surveyedRequest(t, st)
	plan, err := gate.Submit(ctx, req.ID, 3, draft)
	require.NoError(t, err)

	rejected, err := gate.Reject(ctx, plan.ID, 9, "vật tư không đủ", "chờ nhập kho")
	require.NoError(t, err)
	assert.Equal(t, model.PlanRejected, rejected.Status)
	require.NotNil(t, rejected.DecidedBy)
	assert.Equal(t, int64(9), *rejected.DecidedBy)

	records, err := st.ListRejections(ctx, model.SubjectPlan, plan.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "vật tư không đủ", records[0].Reason)
	assert.Equal(t, "chờ nhập kho", records[0].Note)

	got, err := st.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestInMaintenance, got.Status)
	assert.Equal(t, model.StagePlanRejected, got.Stage)

	// A new revision can be submitted straight away.
	next, err := gate.Submit(ctx, req.ID, 3, draft)
	require.NoError(t, err)
	assert.Equal(t, 2, next.Revision)
	assert.Equal(t, model.PlanPendingApproval, next.Status)

	old, err := st.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanRejected, old.Status)
}

func TestReject_RequiresReason(t *testing.T) {
	gate, st := newGate(t)
	ctx := context.Background()
	plan, err := gate.Submit(ctx, surveyedRequest(t, st).ID, 3, draft)
	require.NoError(t, err)

	_, err = gate.Reject(ctx, plan.ID, 9, "   ", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, err := st.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanPendingApproval, stored.Status)
}

func TestApprove_OnlyOnce(t *testing.T) {
	gate, st := newGate(t)
	ctx := context.Background()
	req := surveyedRequest(t, st)
	plan, err := gate.Submit(ctx, req.ID, 3, draft)
	require.NoError(t, err)

	approved, err := gate.Approve(ctx, plan.ID, 9)
	require.NoError(t, err)
	assert.Equal(t, model.PlanApproved, approved.Status)

	got, err := st.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StagePlanApproved, got.Stage)

	_, err = gate.Approve(ctx, plan.ID, 9)
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	_, err = gate.Reject(ctx, plan.ID, 9, "too late", "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidTransition))

	records, err := st.ListRequestRejections(ctx, req.ID)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestApprove_UnknownPlan(t *testing.T) {
	gate, _ := newGate(t)
	_, err := gate.Approve(context.Background(), 404, 1)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
