package models

import "time"

type ReportType string

const (
	ReportIncome  ReportType = "INCOME"
	ReportExpense ReportType = "EXPENSE"
	ReportBalance ReportType = "BALANCE"
)

// FinancialReport: ringkasan bulanan hasil agregasi ledger, unik per
// (type, period). Regenerate = overwrite, tidak ada versioning.
type FinancialReport struct {
	ID      uint       `gorm:"primaryKey" json:"id"`
	Type    ReportType `gorm:"size:10;not null;uniqueIndex:idx_report_type_period" json:"type"`
	Period  string     `gorm:"size:7;not null;uniqueIndex:idx_report_type_period" json:"period"` // "YYYY-MM"
	Title   string     `gorm:"size:180;not null" json:"title"`
	Summary string     `gorm:"type:text" json:"summary"` // baris ringkasan ter-serialize JSON

	FileURL  string `gorm:"size:255" json:"file_url"`
	FileName string `gorm:"size:180" json:"file_name"`
	Size     int64  `json:"size"`

	CreatedByID uint `gorm:"not null" json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
