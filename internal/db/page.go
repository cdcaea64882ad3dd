package db

import "time"

// Page represents a standalone markdown page such as the home-page biography.
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title     string    `gorm:"not null" json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
