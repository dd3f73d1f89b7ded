package models

import "time"

type RkabStatus string

const (
	RkabDraft     RkabStatus = "DRAFT"
	RkabSubmitted RkabStatus = "SUBMITTED"
	RkabApproved  RkabStatus = "APPROVED"
	RkabRejected  RkabStatus = "REJECTED"
)

var rkabTransitions = map[RkabStatus][]RkabStatus{
	RkabDraft:     {RkabSubmitted},
	RkabSubmitted: {RkabApproved, RkabRejected},
	RkabApproved:  {},
	RkabRejected:  {},
}

func (s RkabStatus) CanTransition(next RkabStatus) bool {
	for _, t := range rkabTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Rkab adalah rencana anggaran tahunan (RKAS) yang mengelompokkan
// pengajuan APPROVED ke dalam alokasi per tahun fiskal.
type Rkab struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Code         string     `gorm:"uniqueIndex;size:40" json:"code"` // RKAS-<tahun>-<seq>
	FiscalYear   int        `gorm:"not null;index" json:"fiscal_year"`
	Status       RkabStatus `gorm:"size:12;index" json:"status"`
	ApprovalNote *string    `gorm:"size:500" json:"approval_note"`

	CreatedByID  uint  `gorm:"not null" json:"created_by_id"`
	ApprovedByID *uint `json:"approved_by_id"`

	SubmittedAt *time.Time `json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at"`

	CreatedBy  *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	ApprovedBy *User      `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	Items      []RkabItem `json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RkabItem mengikat tepat satu BudgetRequest APPROVED ke satu Rkab.
// usedAmount naik saat pencairan dan tidak boleh melewati amountAllocated.
type RkabItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	RkabID          uint    `gorm:"index;not null" json:"rkab_id"`
	BudgetRequestID uint    `gorm:"uniqueIndex;not null" json:"budget_request_id"` // 1:1
	AmountAllocated int64   `gorm:"not null" json:"amount_allocated"`
	UsedAmount      int64   `gorm:"not null;default:0" json:"used_amount"`
	Note            *string `gorm:"size:200" json:"note"`

	BudgetRequest *BudgetRequest `json:"budget_request,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
