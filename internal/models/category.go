package models

import "time"

// Category classifies transactions and is typed as expense or income.
// Categories are shared reference data, not owned rows; CreatedBy is
// kept for audit purposes only.
type Category struct {
	ID        string `gorm:"type:varchar(26);primaryKey" json:"id"`
	Name      string `gorm:"size:64;not null" json:"name"`
	Type      Kind   `gorm:"size:16;index;not null" json:"type"`
	IsActive  bool   `gorm:"default:true" json:"is_active"`
	CreatedBy string `gorm:"type:varchar(26);index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subcategory belongs to one category. CategoryID becomes nil when the
// parent category is deleted; the subcategory itself survives.
type Subcategory struct {
	ID         string  `gorm:"type:varchar(26);primaryKey" json:"id"`
	Name       string  `gorm:"size:64;not null" json:"name"`
	CategoryID *string `gorm:"type:varchar(26);index" json:"category_id"`
	IsActive   bool    `gorm:"default:true" json:"is_active"`
	CreatedBy  string  `gorm:"type:varchar(26);index" json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
}
