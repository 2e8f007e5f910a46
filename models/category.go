package models

import "time"

// Category is a shared classification label. Names are globally unique;
// categories are created lazily on first reference and never deleted.
type Category struct {
	ID          uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name        string    `json:"name" db:"name" gorm:"size:50;uniqueIndex;not null"`
	Description string    `json:"description,omitempty" db:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}
