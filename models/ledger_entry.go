package models

import "time"

type EntryType string

const (
	EntryIncome  EntryType = "INCOME"
	EntryExpense EntryType = "EXPENSE"
)

// LedgerEntry append-only; saldo = Σ INCOME - Σ EXPENSE.
type LedgerEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Type        EntryType `gorm:"size:10;not null;index" json:"type"`
	Amount      int64     `gorm:"not null" json:"amount"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Description *string   `gorm:"size:200" json:"description"`

	FundingSourceID *uint `json:"funding_source_id"` // income
	RkabItemID      *uint `json:"rkab_item_id"`      // expense
	RecordedByID    uint  `gorm:"not null" json:"recorded_by_id"`

	FundingSource *FundingSource `json:"funding_source,omitempty"`
	RkabItem      *RkabItem      `json:"rkab_item,omitempty"`
	RecordedBy    *User          `gorm:"foreignKey:RecordedByID" json:"recorded_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
