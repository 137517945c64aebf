package orchestrator

import "maintenance-orchestrator/internal/model"

// CreateRequestInput raises an internal maintenance request. Exactly one of
// the employee or customer creator ids must be set.
type CreateRequestInput struct {
	DeviceID            int64                 `json:"deviceId" validate:"required,gt=0"`
	IssueID             *int64                `json:"issueId" validate:"omitempty,gt=0"`
	CreatedByEmployeeID *int64                `json:"createdByEmployeeId" validate:"required_without=CreatedByCustomerID,excluded_with=CreatedByCustomerID,omitempty,gt=0"`
	CreatedByCustomerID *int64                `json:"createdByCustomerId" validate:"required_without=CreatedByEmployeeID,excluded_with=CreatedByEmployeeID,omitempty,gt=0"`
	Priority            model.Priority        `json:"priority" validate:"required,oneof=THAP TRUNG_BINH CAO KHAN_CAP"`
	Kind                model.MaintenanceKind `json:"kind" validate:"required,oneof=DOT_XUAT DINH_KY SUA_CHUA"`
	Location            string                `json:"location" validate:"max=255"`
	Note                string                `json:"note" validate:"max=2000"`
	Attachments         []string              `json:"attachments" validate:"max=3,dive,required,max=255"`
	TargetDate          string                `json:"targetDate" validate:"omitempty,datetime=2006-01-02"`
}

// RejectInput carries the reason for any backward transition.
type RejectInput struct {
	Reason string `json:"reason" validate:"required,max=255"`
	Note   string `json:"note" validate:"max=2000"`
}

// SurveyInput is the on-site inspection result. TechnicianID defaults to the
// assigned technician.
type SurveyInput struct {
	TechnicianID int64                 `json:"technicianId" validate:"omitempty,gt=0"`
	SurveyDate   string                `json:"surveyDate" validate:"required,datetime=2006-01-02"`
	Cause        string                `json:"cause" validate:"required,max=2000"`
	DamageLevel  model.DamageLevel     `json:"damageLevel" validate:"required,oneof=NHE TRUNG_BINH NANG"`
	ActualKind   model.MaintenanceKind `json:"actualKind" validate:"required,oneof=DOT_XUAT DINH_KY SUA_CHUA"`
	Description  string                `json:"description" validate:"max=4000"`
	Attachments  []string              `json:"attachments" validate:"max=3,dive,required,max=255"`
}

// PlanInput is a new plan revision.
type PlanInput struct {
	Solution      string   `json:"solution" validate:"required,max=4000"`
	UsesMaterials bool     `json:"usesMaterials"`
	Note          string   `json:"note" validate:"max=2000"`
	Tasks         []string `json:"tasks" validate:"required,min=1,max=50,dive,required,max=255"`
}

// TaskUpdateInput changes an execution task. Nil fields are left as they are;
// a non-nil Attachments replaces the list.
type TaskUpdateInput struct {
	Done        *bool    `json:"done"`
	Note        *string  `json:"note" validate:"omitempty,max=2000"`
	Attachments []string `json:"attachments" validate:"omitempty,max=3,dive,required,max=255"`
}

// ExpandAvailabilityInput declares a technician's working window across a
// date range. The window comes from a shift template or from Start/End
// ("08:00"); Weekdays ("T2,T4,CN" or "mon,wed") restricts the dates, empty
// meaning every day.
type ExpandAvailabilityInput struct {
	From            string `json:"from" validate:"required,datetime=2006-01-02"`
	To              string `json:"to" validate:"required,datetime=2006-01-02"`
	Weekdays        string `json:"weekdays" validate:"max=64"`
	ShiftTemplateID *int64 `json:"shiftTemplateId" validate:"omitempty,gt=0"`
	Start           string `json:"start" validate:"required_without=ShiftTemplateID,excluded_with=ShiftTemplateID"`
	End             string `json:"end" validate:"required_without=ShiftTemplateID,excluded_with=ShiftTemplateID"`
	Special         bool   `json:"special"`
	Note            string `json:"note" validate:"max=2000"`
}
