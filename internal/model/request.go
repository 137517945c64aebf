package model

import "time"

// MaintenanceRequest is a single maintenance work order tracked end-to-end.
// Rows are never deleted; HUY is terminal but retained for audit.
type MaintenanceRequest struct {
	ID                  int64            `gorm:"primaryKey" json:"id"`
	DeviceID            int64            `gorm:"index;not null" json:"deviceId"`
	IssueID             *int64           `gorm:"index" json:"issueId,omitempty"`
	CreatedByEmployeeID *int64           `json:"createdByEmployeeId,omitempty"`
	CreatedByCustomerID *int64           `json:"createdByCustomerId,omitempty"`
	Priority            Priority         `gorm:"size:16;not null" json:"priority"`
	Kind                MaintenanceKind  `gorm:"size:16;not null" json:"kind"`
	Status              RequestStatus    `gorm:"size:24;not null;index" json:"status"`
	Stage               MaintenanceStage `gorm:"size:24;not null" json:"stage"`
	Location            string           `gorm:"size:255" json:"location"`
	Attachments         []string         `gorm:"type:text;serializer:json" json:"attachments"`
	Note                string           `gorm:"type:text" json:"note"`
	TargetDate          string           `gorm:"size:10;index" json:"targetDate,omitempty"` // YYYY-MM-DD
	ScheduleID          *int64           `gorm:"index" json:"scheduleId,omitempty"`
	CreatedBy           int64            `json:"createdBy"`
	UpdatedBy           int64            `json:"updatedBy"`
	CompletedAt         *time.Time       `json:"completedAt,omitempty"`
	CancelledAt         *time.Time       `json:"cancelledAt,omitempty"`
	CreatedAt           time.Time        `gorm:"not null;index" json:"createdAt"`
	UpdatedAt           time.Time        `gorm:"not null" json:"updatedAt"`
}

// Assignment binds one technician (through one availability slot) to one request.
// At most one active assignment exists per request.
type Assignment struct {
	ID             int64      `gorm:"primaryKey" json:"id"`
	RequestID      int64      `gorm:"index;not null" json:"requestId"`
	TechnicianID   int64      `gorm:"index;not null" json:"technicianId"`
	AvailabilityID int64      `gorm:"index;not null" json:"availabilityId"`
	AssignedBy     int64      `json:"assignedBy"`
	AssignedAt     time.Time  `gorm:"not null" json:"assignedAt"`
	ConfirmedAt    *time.Time `json:"confirmedAt,omitempty"`
	Active         bool       `gorm:"index;not null" json:"active"`
	ReleasedAt     *time.Time `json:"releasedAt,omitempty"`
}

// Survey is the on-site inspection result recorded at the start of maintenance.
type Survey struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	RequestID    int64           `gorm:"uniqueIndex;not null" json:"requestId"`
	TechnicianID int64           `gorm:"not null" json:"technicianId"`
	SurveyDate   string          `gorm:"size:10;not null" json:"surveyDate"`
	Cause        string          `gorm:"type:text" json:"cause"`
	DamageLevel  DamageLevel     `gorm:"size:16" json:"damageLevel"`
	ActualKind   MaintenanceKind `gorm:"size:16" json:"actualKind"`
	Description  string          `gorm:"type:text" json:"description"`
	Attachments  []string        `gorm:"type:text;serializer:json" json:"attachments"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// MaintenancePlan is one revision of the remediation proposal for a request.
// Only the highest revision is current; rejected revisions stay for audit.
type MaintenancePlan struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	RequestID     int64      `gorm:"index;not null" json:"requestId"`
	Revision      int        `gorm:"not null" json:"revision"`
	Solution      string     `gorm:"type:text;not null" json:"solution"`
	UsesMaterials bool       `json:"usesMaterials"`
	CreatedBy     int64      `json:"createdBy"`
	Note          string     `gorm:"type:text" json:"note"`
	Status        PlanStatus `gorm:"size:20;not null;index" json:"status"`
	DecidedBy     *int64     `json:"decidedBy,omitempty"`
	DecidedAt     *time.Time `json:"decidedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Associations
	Tasks []ExecutionTask `gorm:"foreignKey:PlanID" json:"tasks,omitempty"`
}

// ExecutionTask is one step of an approved plan.
type ExecutionTask struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	PlanID      int64      `gorm:"index;not null" json:"planId"`
	RequestID   int64      `gorm:"index;not null" json:"requestId"`
	Seq         int        `gorm:"not null" json:"seq"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Done        bool       `gorm:"not null" json:"done"`
	Note        string     `gorm:"type:text" json:"note"`
	Attachments []string   `gorm:"type:text;serializer:json" json:"attachments"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RejectionRecord is an append-only audit entry justifying a backward transition.
type RejectionRecord struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	RequestID   int64       `gorm:"index;not null" json:"requestId"`
	SubjectType SubjectType `gorm:"size:16;not null;index:idx_rejection_subject,priority:1" json:"subjectType"`
	SubjectID   int64       `gorm:"not null;index:idx_rejection_subject,priority:2" json:"subjectId"`
	Reason      string      `gorm:"size:255;not null" json:"reason"`
	Note        string      `gorm:"type:text" json:"note"`
	RejectedBy  int64       `json:"rejectedBy"`
	RejectedAt  time.Time   `gorm:"not null" json:"rejectedAt"`
}
