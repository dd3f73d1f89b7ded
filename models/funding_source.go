package models

import "time"

type FundingSource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:80;not null;uniqueIndex" json:"name"` // dedupe case-insensitive di controller
	Agency    *string   `gorm:"size:80" json:"agency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
