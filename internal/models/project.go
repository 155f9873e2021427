package models

import "time"

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on-hold"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectActive, ProjectCompleted, ProjectOnHold:
		return true
	}
	return false
}

// Project is a cost-tracking grouping transactions may attach to.
// Mutation is restricted to the owner unless the caller is an admin.
type Project struct {
	ID          string        `gorm:"type:varchar(26);primaryKey" json:"id"`
	Name        string        `gorm:"size:100;not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	StartDate   time.Time     `gorm:"index;not null" json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	Status      ProjectStatus `gorm:"size:16;index;default:'active'" json:"status"`
	OwnerID     string        `gorm:"type:varchar(26);index;not null" json:"owner_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
