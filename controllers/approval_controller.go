package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /kepsek/approvals?tab=requests|rkabs — antrean persetujuan.
func PendingApprovals(c *gin.Context) {
	tab := c.DefaultQuery("tab", "requests")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "10"))
	if page < 1 {
		page = 1
	}
	if take < 1 || take > 50 {
		take = 10
	}
	skip := (page - 1) * take

	var requestCount, rkabCount int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestSubmitted).
		Count(&requestCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	if err := config.DB.Model(&models.Rkab{}).
		Where("status = ?", models.RkabSubmitted).
		Count(&rkabCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	if tab == "rkabs" {
		var rkabs []models.Rkab
		if err := config.DB.
			Where("status = ?", models.RkabSubmitted).
			Order("created_at DESC").
			Offset(skip).Limit(take).
			Preload("CreatedBy").
			Find(&rkabs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
			return
		}
		items := make([]gin.H, 0, len(rkabs))
		for _, x := range rkabs {
			createdBy := ""
			if x.CreatedBy != nil {
				createdBy = x.CreatedBy.Name
			}
			items = append(items, gin.H{
				"id":           x.ID,
				"title":        "RKAS " + strconv.Itoa(x.FiscalYear),
				"code":         x.Code,
				"created_by":   createdBy,
				"status_label": "Menunggu",
				"created_at":   x.CreatedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"counts": gin.H{"requests": requestCount, "rkabs": rkabCount},
			"tab":    tab, "page": page, "take": take, "total": rkabCount,
			"items": items,
		})
		return
	}

	var reqs []models.BudgetRequest
	if err := config.DB.
		Where("status = ?", models.RequestSubmitted).
		Order("created_at DESC").
		Offset(skip).Limit(take).
		Preload("SubmittedBy").
		Find(&reqs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	items := make([]gin.H, 0, len(reqs))
	for _, r := range reqs {
		pengaju := ""
		if r.SubmittedBy != nil {
			pengaju = r.SubmittedBy.Name
		}
		items = append(items, gin.H{
			"id":               r.ID,
			"title":            r.Title,
			"pengaju":          pengaju,
			"amount_requested": r.AmountRequested,
			"status_label":     "Menunggu",
			"created_at":       r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"counts": gin.H{"requests": requestCount, "rkabs": rkabCount},
		"tab":    "requests", "page": page, "take": take, "total": requestCount,
		"items": items,
	})
}

// GET /kepsek/requests/:id
func ApprovalRequestDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var r models.BudgetRequest
	if err := config.DB.Preload("SubmittedBy").First(&r, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
		return
	}

	pengaju := ""
	if r.SubmittedBy != nil {
		pengaju = r.SubmittedBy.Name
	}
	diajukan := r.CreatedAt
	if r.SubmittedAt != nil {
		diajukan = *r.SubmittedAt
	}
	desc := ""
	if r.Description != nil {
		desc = *r.Description
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":               r.ID,
		"title":            r.Title,
		"pengaju":          pengaju,
		"amount_requested": r.AmountRequested,
		"diajukan_at":      diajukan,
		"description":      desc,
		"status":           r.Status,
	}})
}

type DecisionInput struct {
	Action string  `json:"action" binding:"required"` // "approve" | "reject"
	Note   *string `json:"note"`
}

func (in DecisionInput) target() (models.BudgetRequestStatus, bool) {
	switch in.Action {
	case "approve":
		return models.RequestApproved, true
	case "reject":
		return models.RequestRejected, true
	}
	return "", false
}

// PATCH /kepsek/requests/:id/decision — SUBMITTED -> APPROVED/REJECTED.
// Penolakan wajib menyertakan alasan.
func DecideRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var in DecisionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	target, ok := in.target()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action tidak dikenal"})
		return
	}
	if target == models.RequestRejected && (in.Note == nil || strings.TrimSpace(*in.Note) == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alasan penolakan wajib diisi"})
		return
	}

	kepsekID := currentUserID(c)
	var updated models.BudgetRequest
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var r models.BudgetRequest
		if err := tx.First(&r, id).Error; err != nil {
			return err
		}
		if err := r.Transition(target, time.Now()); err != nil {
			return err
		}
		r.ApprovedByID = &kepsekID
		if in.Note != nil {
			note := strings.TrimSpace(*in.Note)
			if note != "" {
				r.ApprovalNote = &note
			}
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
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pengajuan tidak dalam status SUBMITTED"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memproses keputusan"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true, "data": gin.H{
			"id":            updated.ID,
			"status":        updated.Status,
			"approved_at":   updated.ApprovedAt,
			"approval_note": updated.ApprovalNote,
		}})
	}
}
