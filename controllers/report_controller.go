package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/service"
	"github.com/eufratt/EduLedger/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GenerateReportInput struct {
	Type   models.ReportType `json:"type" binding:"required"`
	Period string            `json:"period" binding:"required"` // "YYYY-MM"
}

// POST /kepsek/reports/generate — agregasi ledger satu bulan, upsert per
// (type, period). Regenerate menimpa ringkasan lama, tanpa riwayat.
func GenerateReport(c *gin.Context) {
	var in GenerateReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	switch in.Type {
	case models.ReportIncome, models.ReportExpense, models.ReportBalance:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type harus INCOME, EXPENSE, atau BALANCE"})
		return
	}
	start, end, err := utils.MonthRange(in.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := service.NewService(config.DB)
	title, rows, err := svc.MonthlySummary(c.Request.Context(), in.Type, start, end, in.Period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyusun laporan"})
		return
	}
	summaryJSON, err := json.Marshal(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyusun laporan"})
		return
	}

	fileName := fmt.Sprintf("laporan_%s_%s.pdf", strings.ToLower(string(in.Type)), in.Period)
	fileURL := "/reports/" + fileName

	userID := currentUserID(c)
	var saved models.FinancialReport
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.FinancialReport
		err := tx.Where("type = ? AND period = ?", in.Type, in.Period).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			saved = models.FinancialReport{
				Type:        in.Type,
				Period:      in.Period,
				Title:       title,
				Summary:     string(summaryJSON),
				FileURL:     fileURL,
				FileName:    fileName,
				CreatedByID: userID,
			}
			return tx.Create(&saved).Error
		case err != nil:
			return err
		default:
			existing.Title = title
			existing.Summary = string(summaryJSON)
			existing.FileURL = fileURL
			existing.FileName = fileName
			existing.CreatedByID = userID
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			saved = existing
			return nil
		}
	})
	if txErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan laporan"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":      saved.ID,
		"type":    saved.Type,
		"period":  saved.Period,
		"title":   saved.Title,
		"summary": rows,
	}})
}

// GET /kepsek/reports?period=&type=&page=&take=
func ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	take, _ := strconv.Atoi(c.DefaultQuery("take", "10"))
	if page < 1 {
		page = 1
	}
	if take < 1 || take > 50 {
		take = 10
	}

	q := config.DB.Model(&models.FinancialReport{})
	if period := c.Query("period"); period != "" {
		q = q.Where("period = ?", period)
	}
	if typ := c.Query("type"); typ != "" {
		q = q.Where("type = ?", typ)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var reports []models.FinancialReport
	if err := q.Order("period DESC, created_at DESC").
		Offset((page - 1) * take).Limit(take).
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		items = append(items, gin.H{
			"id":        r.ID,
			"title":     r.Title,
			"type":      r.Type,
			"period":    r.Period,
			"dibuat_at": r.CreatedAt,
			"size":      r.Size,
		})
	}
	c.JSON(http.StatusOK, gin.H{"page": page, "take": take, "total": total, "items": items})
}

// GET /kepsek/reports/:id
func ReportDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var r models.FinancialReport
	if err := config.DB.First(&r, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Laporan tidak ditemukan"})
		return
	}

	var rows []service.SummaryRow
	if r.Summary != "" {
		_ = json.Unmarshal([]byte(r.Summary), &rows)
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":        r.ID,
		"type":      r.Type,
		"period":    r.Period,
		"title":     r.Title,
		"summary":   rows,
		"file_url":  r.FileURL,
		"file_name": r.FileName,
		"dibuat_at": r.CreatedAt,
	}})
}
