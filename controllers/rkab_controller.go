package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/service"
	"github.com/eufratt/EduLedger/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateRkabInput struct {
	FiscalYear int `json:"fiscal_year" binding:"required,min=2000,max=2100"`
}

// POST /rkab — bendahara membuka RKAS DRAFT untuk satu tahun fiskal.
// Kode dihitung dari jumlah RKAS tahun itu; dua pembuatan bersamaan bisa
// menghasilkan kode yang sama.
func CreateRkab(c *gin.Context) {
	var in CreateRkabInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var countYear int64
	if err := config.DB.Model(&models.Rkab{}).
		Where("fiscal_year = ?", in.FiscalYear).
		Count(&countYear).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat RKAS"})
		return
	}

	rkab := models.Rkab{
		Code:        utils.GenRkabCode(in.FiscalYear, countYear+1),
		FiscalYear:  in.FiscalYear,
		Status:      models.RkabDraft,
		CreatedByID: currentUserID(c),
	}
	if err := config.DB.Create(&rkab).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat RKAS"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":          rkab.ID,
		"code":        rkab.Code,
		"fiscal_year": rkab.FiscalYear,
		"status":      rkab.Status,
		"created_at":  rkab.CreatedAt,
	})
}

type RkabItemInput struct {
	BudgetRequestID uint    `json:"budget_request_id" binding:"required"`
	AmountAllocated int64   `json:"amount_allocated" binding:"required"`
	Note            *string `json:"note" binding:"omitempty,max=200"`
}

type AddRkabItemsInput struct {
	Items []RkabItemInput `json:"items" binding:"required,min=1"`
}

// POST /rkab/:id/items — hanya saat DRAFT; request harus APPROVED, belum
// dialokasikan di RKAS mana pun, dan alokasi >= jumlah yang diminta.
func AddRkabItems(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var in AddRkabItemsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var created int
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var rkab models.Rkab
		if err := tx.First(&rkab, id).Error; err != nil {
			return err
		}
		if rkab.Status != models.RkabDraft {
			return models.ErrInvalidState
		}

		for _, it := range in.Items {
			var br models.BudgetRequest
			if err := tx.Preload("RkabItem").First(&br, it.BudgetRequestID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: pengajuan %d tidak ditemukan", errBadItem, it.BudgetRequestID)
				}
				return err
			}
			if br.Status != models.RequestApproved {
				return fmt.Errorf("%w: pengajuan %d belum APPROVED", errBadItem, br.ID)
			}
			if br.RkabItem != nil {
				return fmt.Errorf("%w: pengajuan %d sudah masuk RKAS", errBadItem, br.ID)
			}
			if it.AmountAllocated < br.AmountRequested {
				return fmt.Errorf("%w: alokasi pengajuan %d di bawah jumlah yang diminta", errBadItem, br.ID)
			}

			item := models.RkabItem{
				RkabID:          rkab.ID,
				BudgetRequestID: br.ID,
				AmountAllocated: it.AmountAllocated,
				Note:            it.Note,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})

	switch {
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "RKAS tidak ditemukan"})
	case errors.Is(txErr, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "RKAS bukan DRAFT"})
	case errors.Is(txErr, errBadItem):
		c.JSON(http.StatusBadRequest, gin.H{"error": txErr.Error()})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menambah item"})
	default:
		c.JSON(http.StatusCreated, gin.H{"created": created})
	}
}

var errBadItem = errors.New("item tidak valid")

// GET /rkab/candidates — pengajuan APPROVED yang belum dialokasikan.
func RkabCandidates(c *gin.Context) {
	var rows []models.BudgetRequest
	if err := config.DB.
		Joins("LEFT JOIN rkab_items ON rkab_items.budget_request_id = budget_requests.id").
		Where("budget_requests.status = ? AND rkab_items.id IS NULL", models.RequestApproved).
		Order("budget_requests.approved_at DESC").
		Limit(50).
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
		items = append(items, gin.H{
			"id":               x.ID,
			"title":            x.Title,
			"amount_requested": x.AmountRequested,
			"pemohon":          pemohon,
			"approved_at":      x.ApprovedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GET /rkab/:id — detail + total alokasi/terpakai + realisasi tahun itu.
func RkabDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var rkab models.Rkab
	if err := config.DB.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.BudgetRequest.SubmittedBy").
		Preload("CreatedBy").
		Preload("ApprovedBy").
		First(&rkab, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "RKAS tidak ditemukan"})
		return
	}

	var totalAllocated, totalUsed int64
	items := make([]gin.H, 0, len(rkab.Items))
	for _, it := range rkab.Items {
		totalAllocated += it.AmountAllocated
		totalUsed += it.UsedAmount
		row := gin.H{
			"id":               it.ID,
			"amount_allocated": it.AmountAllocated,
			"used_amount":      it.UsedAmount,
			"note":             it.Note,
		}
		if it.BudgetRequest != nil {
			pemohon := ""
			if it.BudgetRequest.SubmittedBy != nil {
				pemohon = it.BudgetRequest.SubmittedBy.Name
			}
			row["request"] = gin.H{
				"id":               it.BudgetRequest.ID,
				"title":            it.BudgetRequest.Title,
				"pemohon":          pemohon,
				"amount_requested": it.BudgetRequest.AmountRequested,
			}
		}
		items = append(items, row)
	}

	svc := service.NewService(config.DB)
	realisasi, err := svc.RealisasiPercent(c.Request.Context(), rkab.FiscalYear)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghitung realisasi"})
		return
	}

	resp := gin.H{
		"id":                rkab.ID,
		"code":              rkab.Code,
		"fiscal_year":       rkab.FiscalYear,
		"status":            rkab.Status,
		"submitted_at":      rkab.SubmittedAt,
		"approved_at":       rkab.ApprovedAt,
		"approval_note":     rkab.ApprovalNote,
		"total_allocated":   totalAllocated,
		"total_used":        totalUsed,
		"realisasi_percent": realisasi,
		"items":             items,
	}
	if rkab.CreatedBy != nil {
		resp["created_by"] = gin.H{"id": rkab.CreatedBy.ID, "name": rkab.CreatedBy.Name}
	}
	if rkab.ApprovedBy != nil {
		resp["approved_by"] = gin.H{"id": rkab.ApprovedBy.ID, "name": rkab.ApprovedBy.Name}
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /rkab/:id/submit — DRAFT -> SUBMITTED.
func SubmitRkab(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var rkab models.Rkab
		if err := tx.First(&rkab, id).Error; err != nil {
			return err
		}
		if !rkab.Status.CanTransition(models.RkabSubmitted) {
			return models.ErrInvalidState
		}
		now := time.Now()
		rkab.Status = models.RkabSubmitted
		rkab.SubmittedAt = &now
		return tx.Save(&rkab).Error
	})
	switch {
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "RKAS tidak ditemukan"})
	case errors.Is(txErr, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "RKAS bukan DRAFT"})
	case txErr != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengajukan RKAS"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "RKAS diajukan"})
	}
}

// GET /kepsek/rkabs?status=submitted|all
func ListRkabsForKepsek(c *gin.Context) {
	status := c.DefaultQuery("status", "submitted")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "10"))
	if page < 1 {
		page = 1
	}
	if take < 1 || take > 50 {
		take = 10
	}

	q := config.DB.Model(&models.Rkab{})
	if status == "submitted" {
		q = q.Where("status = ?", models.RkabSubmitted)
	}

	var total, submittedCount int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	if err := config.DB.Model(&models.Rkab{}).
		Where("status = ?", models.RkabSubmitted).
		Count(&submittedCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var rkabs []models.Rkab
	if err := q.Order("created_at DESC").
		Offset((page - 1) * take).Limit(take).
		Preload("CreatedBy").
		Preload("Items").
		Find(&rkabs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(rkabs))
	for _, x := range rkabs {
		var totalAnggaran int64
		for _, it := range x.Items {
			totalAnggaran += it.AmountAllocated
		}
		pengaju := ""
		if x.CreatedBy != nil {
			pengaju = x.CreatedBy.Name
		}
		label := string(x.Status)
		if x.Status == models.RkabSubmitted {
			label = "Menunggu"
		}
		diajukan := x.CreatedAt
		if x.SubmittedAt != nil {
			diajukan = *x.SubmittedAt
		}
		items = append(items, gin.H{
			"id":             x.ID,
			"title":          fmt.Sprintf("RKAS Tahun %d/%d", x.FiscalYear, x.FiscalYear+1),
			"code":           x.Code,
			"pengaju":        pengaju,
			"total_anggaran": totalAnggaran,
			"status":         x.Status,
			"status_label":   label,
			"diajukan_at":    diajukan,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"counts": gin.H{"rkabs_submitted": submittedCount},
		"page":   page, "take": take, "total": total,
		"items": items,
	})
}

// PATCH /kepsek/rkabs/:id/decision — SUBMITTED -> APPROVED/REJECTED.
func DecideRkab(c *gin.Context) {
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
	var target models.RkabStatus
	switch in.Action {
	case "approve":
		target = models.RkabApproved
	case "reject":
		target = models.RkabRejected
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Action tidak dikenal"})
		return
	}
	if target == models.RkabRejected && (in.Note == nil || strings.TrimSpace(*in.Note) == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Alasan penolakan wajib diisi"})
		return
	}

	kepsekID := currentUserID(c)
	var updated models.Rkab
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var rkab models.Rkab
		if err := tx.First(&rkab, id).Error; err != nil {
			return err
		}
		if !rkab.Status.CanTransition(target) {
			return models.ErrInvalidState
		}
		now := time.Now()
		rkab.Status = target
		rkab.ApprovedByID = &kepsekID
		rkab.ApprovedAt = &now
		if in.Note != nil {
			note := strings.TrimSpace(*in.Note)
			if note != "" {
				rkab.ApprovalNote = &note
			}
		}
		if err := tx.Save(&rkab).Error; err != nil {
			return err
		}
		updated = rkab
		return nil
	})

	switch {
	case errors.Is(txErr, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "RKAS tidak ditemukan"})
	case errors.Is(txErr, models.ErrInvalidState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "RKAS tidak dalam status SUBMITTED"})
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
