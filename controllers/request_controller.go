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

type CreateRequestInput struct {
	Title           string  `json:"title" binding:"required"`
	Description     *string `json:"description"`
	AmountRequested int64   `json:"amount_requested" binding:"required"`
	NeededBy        *string `json:"needed_by"` // "YYYY-MM-DD"
	Draft           bool    `json:"draft"`
}

func validateRequestContent(title string, description *string, amount int64, neededBy *string) (*time.Time, string) {
	if len(strings.TrimSpace(title)) < 3 {
		return nil, "Judul minimal 3 karakter"
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		if d != "" && len(d) < 10 {
			return nil, "Deskripsi minimal 10 karakter (atau kosongkan)"
		}
	}
	if amount <= 0 {
		return nil, "Jumlah dana harus > 0"
	}
	if neededBy == nil || *neededBy == "" {
		return nil, ""
	}
	t, err := time.ParseInLocation("2006-01-02", *neededBy, time.UTC)
	if err != nil {
		return nil, "Format tanggal harus YYYY-MM-DD"
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if t.Before(today) {
		return nil, "Tanggal dibutuhkan tidak boleh di masa lalu"
	}
	return &t, ""
}

// POST /requests — civitas membuat pengajuan (langsung SUBMITTED, atau DRAFT).
func CreateRequest(c *gin.Context) {
	var in CreateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	neededBy, msg := validateRequestContent(in.Title, in.Description, in.AmountRequested, in.NeededBy)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	req := models.BudgetRequest{
		Title:           strings.TrimSpace(in.Title),
		AmountRequested: in.AmountRequested,
		NeededBy:        neededBy,
		Status:          models.RequestDraft,
		SubmittedByID:   currentUserID(c),
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		d := strings.TrimSpace(*in.Description)
		req.Description = &d
	}
	if !in.Draft {
		if err := req.Transition(models.RequestSubmitted, time.Now()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	if err := config.DB.Create(&req).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat pengajuan"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":               req.ID,
		"title":            req.Title,
		"description":      req.Description,
		"amount_requested": req.AmountRequested,
		"needed_by":        req.NeededBy,
		"status":           req.Status,
		"submitted_at":     req.SubmittedAt,
		"created_at":       req.CreatedAt,
	})
}

func statusesForFilter(filter string) []models.BudgetRequestStatus {
	switch filter {
	case "draft":
		return []models.BudgetRequestStatus{models.RequestDraft}
	case "menunggu":
		return []models.BudgetRequestStatus{models.RequestSubmitted}
	case "disetujui":
		return []models.BudgetRequestStatus{models.RequestApproved}
	case "ditolak":
		return []models.BudgetRequestStatus{models.RequestRejected}
	default:
		// "semua": DRAFT disembunyikan dari riwayat
		return []models.BudgetRequestStatus{
			models.RequestSubmitted, models.RequestApproved, models.RequestRejected,
			models.RequestDisbursed, models.RequestCompleted,
		}
	}
}

func statusLabel(s models.BudgetRequestStatus) string {
	switch s {
	case models.RequestSubmitted:
		return "Menunggu"
	case models.RequestApproved:
		return "Disetujui"
	case models.RequestRejected:
		return "Ditolak"
	case models.RequestDisbursed:
		return "Dicairkan"
	case models.RequestCompleted:
		return "Selesai"
	case models.RequestCancelled:
		return "Dibatalkan"
	default:
		return string(s)
	}
}

// GET /requests — riwayat pengajuan milik civitas.
func ListMyRequests(c *gin.Context) {
	userID := currentUserID(c)

	q := strings.TrimSpace(c.Query("q"))
	filter := strings.ToLower(c.DefaultQuery("filter", "semua"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}

	base := config.DB.Model(&models.BudgetRequest{}).
		Where("submitted_by_id = ?", userID).
		Where("status IN ?", statusesForFilter(filter))
	if q != "" {
		base = base.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var rows []models.BudgetRequest
	if err := base.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		date := r.CreatedAt
		if r.SubmittedAt != nil {
			date = *r.SubmittedAt
		}
		items = append(items, gin.H{
			"id":           r.ID,
			"judul":        r.Title,
			"jumlah":       r.AmountRequested,
			"status":       r.Status,
			"status_label": statusLabel(r.Status),
			"tanggal":      date,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data": items,
		"meta": gin.H{"page": page, "limit": limit, "total": total},
	})
}

// GET /requests/:id — detail + timeline untuk pemilik.
func MyRequestDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var r models.BudgetRequest
	if err := config.DB.
		Where("id = ? AND submitted_by_id = ?", id, currentUserID(c)).
		First(&r).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
		return
	}

	created := r.CreatedAt
	if r.SubmittedAt != nil {
		created = *r.SubmittedAt
	}
	timeline := []gin.H{
		{"key": "created", "title": "Pengajuan Dibuat", "at": created},
	}
	if r.ApprovedAt != nil {
		switch r.Status {
		case models.RequestRejected:
			timeline = append(timeline, gin.H{"key": "rejected", "title": "Ditolak", "at": *r.ApprovedAt, "note": r.ApprovalNote})
		default:
			timeline = append(timeline, gin.H{"key": "approved", "title": "Disetujui", "at": *r.ApprovedAt, "note": r.ApprovalNote})
		}
	}
	if r.DisbursedAt != nil {
		timeline = append(timeline, gin.H{"key": "disbursed", "title": "Dicairkan", "at": *r.DisbursedAt})
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":           r.ID,
		"judul":        r.Title,
		"jumlah":       r.AmountRequested,
		"status":       r.Status,
		"status_label": statusLabel(r.Status),
		"deskripsi":    r.Description,
		"needed_by":    r.NeededBy,
		"diajukan_at":  created,
		"timeline":     timeline,
	}})
}

type UpdateRequestInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	AmountRequested *int64  `json:"amount_requested"`
	NeededBy        *string `json:"needed_by"`
}

// PUT /requests/:id — edit konten selama DRAFT/SUBMITTED, hanya pemilik.
func UpdateRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var in UpdateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var r models.BudgetRequest
	if err := config.DB.
		Where("id = ? AND submitted_by_id = ?", id, currentUserID(c)).
		First(&r).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
		return
	}
	if !r.Status.Editable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pengajuan sudah diproses, tidak bisa diubah"})
		return
	}

	title := r.Title
	if in.Title != nil {
		title = *in.Title
	}
	amount := r.AmountRequested
	if in.AmountRequested != nil {
		amount = *in.AmountRequested
	}
	desc := in.Description
	if desc == nil {
		desc = r.Description
	}
	neededBy, msg := validateRequestContent(title, desc, amount, in.NeededBy)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	r.Title = strings.TrimSpace(title)
	r.AmountRequested = amount
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
	if in.NeededBy != nil {
		r.NeededBy = neededBy
	}

	if err := config.DB.Save(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan perubahan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pengajuan diperbarui", "data": r})
}

// DELETE /requests/:id — hanya DRAFT milik sendiri.
func DeleteRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var r models.BudgetRequest
	if err := config.DB.
		Where("id = ? AND submitted_by_id = ?", id, currentUserID(c)).
		First(&r).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
		return
	}
	if r.Status != models.RequestDraft {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hanya draft yang bisa dihapus"})
		return
	}

	if err := config.DB.Delete(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Draft dihapus"})
}

// PATCH /requests/:id/submit — DRAFT -> SUBMITTED.
func SubmitRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var r models.BudgetRequest
		if err := tx.
			Where("id = ? AND submitted_by_id = ?", id, currentUserID(c)).
			First(&r).Error; err != nil {
			return err
		}
		if err := r.Transition(models.RequestSubmitted, time.Now()); err != nil {
			return err
		}
		return tx.Save(&r).Error
	})
	switch {
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
	case errors.Is(txErr, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pengajuan bukan draft"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengajukan"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Pengajuan diajukan"})
	}
}

// GET /requests/eligible-for-proof — pengajuan DISBURSED milik civitas.
func EligibleForProof(c *gin.Context) {
	var rows []models.BudgetRequest
	if err := config.DB.
		Where("submitted_by_id = ? AND status = ?", currentUserID(c), models.RequestDisbursed).
		Order("disbursed_at DESC").
		Preload("Proofs").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		items = append(items, gin.H{
			"id":           r.ID,
			"judul":        r.Title,
			"jumlah":       r.AmountRequested,
			"status":       r.Status,
			"dicairkan_at": r.DisbursedAt,
			"has_proof":    len(r.Proofs) > 0,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
