package model

// RequestStatus is the top-level lifecycle status of a maintenance request.
type RequestStatus string

const (
	RequestAwaitingAssignment RequestStatus = "CHO_PHAN_CONG"
	RequestAssigning          RequestStatus = "DANG_PHAN_CONG"
	RequestConfirmed          RequestStatus = "DA_XAC_NHAN"
	RequestInMaintenance      RequestStatus = "DANG_BAO_TRI"
	RequestCompleted          RequestStatus = "DA_HOAN_THANH"
	RequestCancelled          RequestStatus = "HUY"
)

// RequestStatuses lists every request status in forward order, terminal states last.
var RequestStatuses = []RequestStatus{
	RequestAwaitingAssignment,
	RequestAssigning,
	RequestConfirmed,
	RequestInMaintenance,
	RequestCompleted,
	RequestCancelled,
}

// Terminal reports whether no further transition can leave s.
func (s RequestStatus) Terminal() bool {
	return s == RequestCompleted || s == RequestCancelled
}

// TerminalRequestStatuses is used by queries that count live work.
var TerminalRequestStatuses = []RequestStatus{RequestCompleted, RequestCancelled}

// MaintenanceStage is the sub-state of a request while it is DANG_BAO_TRI.
// It is empty before maintenance starts.
type MaintenanceStage string

const (
	StageNone               MaintenanceStage = ""
	StageAwaitingSurvey     MaintenanceStage = "CHO_KHAO_SAT"
	StageSurveyed           MaintenanceStage = "DA_KHAO_SAT"
	StagePlanned            MaintenanceStage = "DA_LAP_KE_HOACH"
	StagePlanApproved       MaintenanceStage = "DA_PHE_DUYET"
	StagePlanRejected       MaintenanceStage = "TU_CHOI_PHE_DUYET"
	StageExecuting          MaintenanceStage = "DANG_THI_CONG"
	StageAwaitingAcceptance MaintenanceStage = "CHO_NGHIEM_THU"
	StageAccepted           MaintenanceStage = "DA_NGHIEM_THU"
)

// MaintenanceStages lists every stage, including StageNone.
var MaintenanceStages = []MaintenanceStage{
	StageNone,
	StageAwaitingSurvey,
	StageSurveyed,
	StagePlanned,
	StagePlanApproved,
	StagePlanRejected,
	StageExecuting,
	StageAwaitingAcceptance,
	StageAccepted,
}

// Priority is one of four ordered urgency levels.
type Priority string

const (
	PriorityLow    Priority = "THAP"
	PriorityMedium Priority = "TRUNG_BINH"
	PriorityHigh   Priority = "CAO"
	PriorityUrgent Priority = "KHAN_CAP"
)

// Rank orders priorities from 1 (low) to 4 (urgent); unknown values rank 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	}
	return 0
}

// MaintenanceKind distinguishes ad-hoc, periodic and repair work.
type MaintenanceKind string

const (
	KindAdHoc    MaintenanceKind = "DOT_XUAT"
	KindPeriodic MaintenanceKind = "DINH_KY"
	KindRepair   MaintenanceKind = "SUA_CHUA"
)

// ScheduleStatus tracks whether a recurring schedule has spawned its request.
type ScheduleStatus string

const (
	SchedulePending        ScheduleStatus = "PENDING"
	ScheduleRequestCreated ScheduleStatus = "REQUEST_CREATED"
	ScheduleCompleted      ScheduleStatus = "COMPLETED"
)

// PlanStatus is the approval status of one plan revision.
type PlanStatus string

const (
	PlanDraft           PlanStatus = "DRAFT"
	PlanPendingApproval PlanStatus = "PENDING_APPROVAL"
	PlanApproved        PlanStatus = "APPROVED"
	PlanRejected        PlanStatus = "REJECTED"
)

// AvailabilityStatus is the status of one technician availability slot.
type AvailabilityStatus string

const (
	SlotAvailable AvailabilityStatus = "AVAILABLE"
	SlotBusy      AvailabilityStatus = "BUSY"
	SlotOffline   AvailabilityStatus = "OFFLINE"
	SlotOnLeave   AvailabilityStatus = "ON_LEAVE"
)

// SubjectType tags what a rejection record refers to.
type SubjectType string

const (
	SubjectAssignment SubjectType = "ASSIGNMENT"
	SubjectPlan       SubjectType = "PLAN"
	SubjectAcceptance SubjectType = "ACCEPTANCE"
)

// TechnicianType separates in-house staff from hired contractors.
type TechnicianType string

const (
	TechnicianInternal   TechnicianType = "INTERNAL"
	TechnicianOutsourced TechnicianType = "OUTSOURCED"
)

// DamageLevel is the surveyed severity of a fault.
type DamageLevel string

const (
	DamageMinor    DamageLevel = "NHE"
	DamageModerate DamageLevel = "TRUNG_BINH"
	DamageSevere   DamageLevel = "NANG"
)
