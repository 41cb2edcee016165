package models

// Category groups tasks. Name is stored title-cased and is unique.
type Category struct {
	ID   uint64 `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`

	// Relations
	Tasks []Task `gorm:"foreignKey:CategoryID" json:"tasks,omitempty"`
}
