package models

import (
	"time"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CategoryID  uint64     `gorm:"not null" json:"category_id"`

	// Relations
	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
}

// UpdatableColumns lists the columns a sparse update may write. created_at is
// never among them.
var UpdatableColumns = []string{"title", "description", "due_date", "completed", "category_id"}
