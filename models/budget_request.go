package models

import "time"

type BudgetRequestStatus string

const (
	RequestDraft     BudgetRequestStatus = "DRAFT"
	RequestSubmitted BudgetRequestStatus = "SUBMITTED"
	RequestApproved  BudgetRequestStatus = "APPROVED"
	RequestRejected  BudgetRequestStatus = "REJECTED"
	RequestDisbursed BudgetRequestStatus = "DISBURSED"
	RequestCompleted BudgetRequestStatus = "COMPLETED"
	RequestCancelled BudgetRequestStatus = "CANCELLED"
)

// requestTransitions is the whole lifecycle. CANCELLED punya konstanta
// tapi belum ada jalur masuk.
var requestTransitions = map[BudgetRequestStatus][]BudgetRequestStatus{
	RequestDraft:     {RequestSubmitted},
	RequestSubmitted: {RequestApproved, RequestRejected},
	RequestApproved:  {RequestDisbursed},
	RequestDisbursed: {RequestCompleted},
	RequestRejected:  {},
	RequestCompleted: {},
	RequestCancelled: {},
}

// CanTransition reports whether next is directly reachable from s.
func (s BudgetRequestStatus) CanTransition(next BudgetRequestStatus) bool {
	for _, t := range requestTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Editable: konten masih boleh diubah pemilik.
func (s BudgetRequestStatus) Editable() bool {
	return s == RequestDraft || s == RequestSubmitted
}

// Transition moves the request to next, stamping the matching timestamp.
// Returns ErrInvalidState when the graph does not allow the move.
func (r *BudgetRequest) Transition(next BudgetRequestStatus, now time.Time) error {
	if !r.Status.CanTransition(next) {
		return ErrInvalidState
	}
	switch next {
	case RequestSubmitted:
		r.SubmittedAt = &now
	case RequestApproved, RequestRejected:
		r.ApprovedAt = &now
	case RequestDisbursed:
		r.DisbursedAt = &now
	}
	r.Status = next
	return nil
}

type BudgetRequest struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	Title           string              `gorm:"size:180;not null" json:"title"`
	Description     *string             `gorm:"size:2000" json:"description"`
	AmountRequested int64               `gorm:"not null" json:"amount_requested"` // rupiah, bulat
	Status          BudgetRequestStatus `gorm:"size:12;index" json:"status"`
	NeededBy        *time.Time          `json:"needed_by"`
	ApprovalNote    *string             `gorm:"size:500" json:"approval_note"`

	SubmittedByID uint  `gorm:"index;not null" json:"submitted_by_id"`
	ApprovedByID  *uint `json:"approved_by_id"`
	DisbursedByID *uint `json:"disbursed_by_id"`

	SubmittedAt *time.Time `json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	DisbursedAt *time.Time `json:"disbursed_at"`

	SubmittedBy *User          `gorm:"foreignKey:SubmittedByID" json:"submitted_by,omitempty"`
	ApprovedBy  *User          `gorm:"foreignKey:ApprovedByID" json:"approved_by,omitempty"`
	RkabItem    *RkabItem      `json:"rkab_item,omitempty"`
	Proofs      []RequestProof `gorm:"foreignKey:RequestID" json:"proofs,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
