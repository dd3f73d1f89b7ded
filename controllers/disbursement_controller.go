package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /disbursements?tab=ready|done — pengajuan siap cair / sudah cair.
func ListDisbursements(c *gin.Context) {
	tab := c.DefaultQuery("tab", "ready")
	if tab != "ready" && tab != "done" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tab tidak dikenal"})
		return
	}

	var readyCount, doneCount int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestApproved).
		Count(&readyCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestDisbursed).
		Count(&doneCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	status := models.RequestApproved
	order := "approved_at DESC"
	if tab == "done" {
		status = models.RequestDisbursed
		order = "disbursed_at DESC"
	}

	var rows []models.BudgetRequest
	if err := config.DB.
		Where("status = ?", status).
		Order(order).Limit(50).
		Preload("SubmittedBy").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, x := range rows {
		pemohon := ""
		if x.SubmittedBy != nil {
			pemohon = x.SubmittedBy.Name
		}
		date := x.CreatedAt
		if x.SubmittedAt != nil {
			date = *x.SubmittedAt
		}
		if x.ApprovedAt != nil {
			date = *x.ApprovedAt
		}
		badge := "Disetujui"
		if x.Status == models.RequestDisbursed {
			badge = "Dicairkan"
		}
		items = append(items, gin.H{
			"id":      x.ID,
			"title":   x.Title,
			"pemohon": pemohon,
			"amount":  x.AmountRequested,
			"date":    date,
			"badge":   badge,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"tab":    tab,
		"counts": gin.H{"ready": readyCount, "done": doneCount},
		"items":  items,
	})
}

// GET /disbursements/:id
func DisbursementDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var r models.BudgetRequest
	if err := config.DB.
		Preload("SubmittedBy").
		Preload("Proofs", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at DESC").Limit(5)
		}).
		First(&r, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
		return
	}

	pemohon := ""
	if r.SubmittedBy != nil {
		pemohon = r.SubmittedBy.Name
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           r.ID,
		"title":        r.Title,
		"description":  r.Description,
		"amount":       r.AmountRequested,
		"status":       r.Status,
		"pemohon":      pemohon,
		"submitted_at": r.SubmittedAt,
		"approved_at":  r.ApprovedAt,
		"disbursed_at": r.DisbursedAt,
		"proofs":       r.Proofs,
		"has_proof":    len(r.Proofs) > 0,
	})
}

// PATCH /disbursements/:id — APPROVED -> DISBURSED.
// Flip status, insert ledger EXPENSE, dan update usedAmount RkabItem jalan
// dalam satu transaksi; guard idempotensi adalah re-read status di dalam
// transaksi yang sama.
func Disburse(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	bendaharaID := currentUserID(c)
	now := time.Now()

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var r models.BudgetRequest
		if err := tx.Preload("RkabItem").First(&r, id).Error; err != nil {
			return err
		}
		if !r.Status.CanTransition(models.RequestDisbursed) {
			return models.ErrInvalidState
		}

		// over-budget dicek sebelum mutasi apa pun
		if r.RkabItem != nil {
			newUsed := r.RkabItem.UsedAmount + r.AmountRequested
			if newUsed > r.RkabItem.AmountAllocated {
				return models.ErrOverBudget
			}
			if err := tx.Model(&models.RkabItem{}).
				Where("id = ?", r.RkabItem.ID).
				Update("used_amount", newUsed).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&models.BudgetRequest{}).
			Where("id = ?", r.ID).
			Updates(map[string]any{
				"status":          models.RequestDisbursed,
				"disbursed_at":    now,
				"disbursed_by_id": bendaharaID,
			}).Error; err != nil {
			return err
		}

		desc := "Pencairan: " + r.Title
		entry := models.LedgerEntry{
			Type:         models.EntryExpense,
			Amount:       r.AmountRequested,
			Date:         now,
			Description:  &desc,
			RecordedByID: bendaharaID,
		}
		if r.RkabItem != nil {
			entry.RkabItemID = &r.RkabItem.ID
		}
		return tx.Create(&entry).Error
	})

	switch {
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
	case errors.Is(txErr, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pengajuan tidak dalam status APPROVED"})
	case errors.Is(txErr, models.ErrOverBudget):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pencairan melebihi alokasi RKAS"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mencairkan dana"})
	default:
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// PATCH /disbursements/:id/validate — bendahara menyelesaikan manual,
// syaratnya sudah ada minimal satu bukti.
func ValidateDisbursement(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var updated models.BudgetRequest
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var r models.BudgetRequest
		if err := tx.First(&r, id).Error; err != nil {
			return err
		}
		if r.Status != models.RequestDisbursed {
			return models.ErrInvalidState
		}
		var proofCount int64
		if err := tx.Model(&models.RequestProof{}).
			Where("request_id = ?", r.ID).Count(&proofCount).Error; err != nil {
			return err
		}
		if proofCount == 0 {
			return errNoProof
		}
		if err := r.Transition(models.RequestCompleted, time.Now()); err != nil {
			return err
		}
		if err := tx.Save(&r).Error; err != nil {
			return err
		}
		updated = r
		return nil
	})

	switch {
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
	case errors.Is(txErr, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pengajuan tidak dalam status DISBURSED"})
	case errors.Is(txErr, errNoProof):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Belum ada bukti yang diunggah"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memvalidasi"})
	default:
		c.JSON(http.StatusOK, gin.H{"id": updated.ID, "status": updated.Status, "updated_at": updated.UpdatedAt})
	}
}

var errNoProof = errors.New("belum ada bukti")
