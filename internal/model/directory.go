package model

import (
	"time"

	"gorm.io/gorm"
)

// Device is a maintained asset. Soft-deleted devices no longer exist for lookups.
type Device struct {
	ID        int64          `gorm:"primaryKey" json:"id"`
	Code      string         `gorm:"uniqueIndex;size:64;not null" json:"code"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Location  string         `gorm:"size:255" json:"location"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Issue is a catalogued fault type; its skills restrict who may be assigned.
type Issue struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	// Associations
	Skills []Skill `gorm:"many2many:issue_skills;" json:"skills,omitempty"`
}

// Employee is an internal user who may raise requests.
type Employee struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
}

// Customer is an external party who may raise requests.
type Customer struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:128;not null" json:"name"`
}
