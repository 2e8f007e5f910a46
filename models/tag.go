package models

import "time"

// Tag is a shared label with a globally unique name.
type Tag struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name" gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Tag) TableName() string {
	return "tags"
}
