package models

import "time"

// Kind distinguishes the two transaction families. Categories carry the
// same value as their type.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindExpense, KindIncome:
		return true
	}
	return false
}

// Transaction is a single expense or income record. Amounts are stored
// in cents to avoid float error, e.g. 42.50 = 4250.
type Transaction struct {
	ID     string `gorm:"type:varchar(26);primaryKey" json:"id"`
	Kind   Kind   `gorm:"size:16;index;not null" json:"kind"`
	UserID string `gorm:"type:varchar(26);index;not null" json:"user_id"`

	Date          time.Time `gorm:"index;not null" json:"date"`
	CategoryID    *string   `gorm:"type:varchar(26);index" json:"category_id"`
	SubcategoryID *string   `gorm:"type:varchar(26);index" json:"subcategory_id"`
	ProjectID     *string   `gorm:"type:varchar(26);index" json:"project_id"`
	AmountCents   int64     `gorm:"not null" json:"amount_cents"`
	Remarks       string    `gorm:"size:255" json:"remarks"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User        User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category    *Category    `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"-"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID;constraint:OnDelete:SET NULL" json:"-"`
	Project     *Project     `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"-"`
}
