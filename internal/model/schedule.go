package model

import "time"

// MaintenanceSchedule is a recurring-maintenance due date that spawns a request.
type MaintenanceSchedule struct {
	ID            int64          `gorm:"primaryKey" json:"id"`
	DeviceID      int64          `gorm:"index;not null" json:"deviceId"`
	ScheduledDate string         `gorm:"size:10;not null;index" json:"scheduledDate"` // YYYY-MM-DD
	UnderWarranty bool           `json:"underWarranty"`
	Note          string         `gorm:"type:text" json:"note"`
	Status        ScheduleStatus `gorm:"size:20;not null;index" json:"status"`
	RequestID     *int64         `gorm:"index" json:"requestId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
