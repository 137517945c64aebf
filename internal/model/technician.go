package model

import "time"

// Technician is a maintenance worker, either staff or a hired contractor.
type Technician struct {
	ID       int64          `gorm:"primaryKey" json:"id"`
	Name     string         `gorm:"size:128;not null" json:"name"`
	Type     TechnicianType `gorm:"size:16;not null" json:"type"`
	HireCost *float64       `json:"hireCost,omitempty"` // outsourced only
	Active   bool           `gorm:"not null" json:"active"`

	// Associations
	Skills []Skill `gorm:"many2many:technician_skills;" json:"skills,omitempty"`
}

// SkillCodes returns the codes of the technician's skills.
func (t Technician) SkillCodes() []string {
	codes := make([]string, 0, len(t.Skills))
	for _, s := range t.Skills {
		codes = append(codes, s.Code)
	}
	return codes
}

// Skill is a capability a technician has or an issue requires.
type Skill struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Code string `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name string `gorm:"size:128" json:"name"`
}

// ShiftTemplate is a named working window reused when declaring availability.
type ShiftTemplate struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:64;not null" json:"name"`
	StartMinute int    `gorm:"not null" json:"startMinute"`
	EndMinute   int    `gorm:"not null" json:"endMinute"`
}

// TechnicianAvailability is a technician's declared working window on one date.
// Times are minutes since midnight in the scheduler timezone.
type TechnicianAvailability struct {
	ID              int64              `gorm:"primaryKey" json:"id"`
	TechnicianID    int64              `gorm:"index:idx_availability_tech_date,priority:1;not null" json:"technicianId"`
	WorkDate        string             `gorm:"size:10;index:idx_availability_tech_date,priority:2;not null" json:"workDate"` // YYYY-MM-DD
	ShiftTemplateID *int64             `json:"shiftTemplateId,omitempty"`
	StartMinute     int                `gorm:"not null" json:"startMinute"`
	EndMinute       int                `gorm:"not null" json:"endMinute"`
	Status          AvailabilityStatus `gorm:"size:16;not null;index" json:"status"`
	Special         bool               `json:"special"`
	Note            string             `gorm:"type:text" json:"note"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`

	// Associations
	Technician *Technician `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
}

// Overlaps reports whether two windows on the same date intersect.
func (a TechnicianAvailability) Overlaps(b TechnicianAvailability) bool {
	return a.WorkDate == b.WorkDate && a.StartMinute < b.EndMinute && b.StartMinute < a.EndMinute
}
