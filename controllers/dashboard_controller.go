package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/service"
	"github.com/eufratt/EduLedger/utils"

	"github.com/gin-gonic/gin"
)

// GET /civitas/dashboard
func CivitasDashboard(c *gin.Context) {
	userID := currentUserID(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit_activities", "5"))
	if limit < 1 || limit > 20 {
		limit = 5
	}

	var pengajuanAktif, disetujui int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("submitted_by_id = ? AND status = ?", userID, models.RequestSubmitted).
		Count(&pengajuanAktif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("submitted_by_id = ? AND status = ?", userID, models.RequestApproved).
		Count(&disetujui).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var totalDana int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("submitted_by_id = ? AND status = ?", userID, models.RequestApproved).
		Select("COALESCE(SUM(amount_requested), 0)").Scan(&totalDana).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var recent []models.BudgetRequest
	if err := config.DB.Where("submitted_by_id = ?", userID).
		Order("created_at DESC").Limit(limit).
		Find(&recent).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	aktivitas := make([]gin.H, 0, len(recent))
	for _, x := range recent {
		aktivitas = append(aktivitas, gin.H{
			"id":         x.ID,
			"judul":      x.Title,
			"jumlah":     x.AmountRequested,
			"status":     x.Status,
			"created_at": x.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": userID, "name": currentUserName(c)},
		"summary": gin.H{
			"pengajuan_aktif": pengajuanAktif,
			"disetujui":       disetujui,
			"total_dana":      totalDana,
		},
		"aktivitas_terbaru": aktivitas,
	})
}

// GET /bendahara/dashboard — saldo sepanjang waktu + kartu masuk/keluar
// 12 bulan berjalan. Badge notifikasi dihitung dari tindakan yang
// menunggu, belum ada entitas Notification.
func BendaharaDashboard(c *gin.Context) {
	svc := service.NewService(config.DB)
	start12M, end := utils.Rolling12Months(time.Now())

	allTime, err := svc.Totals(c.Request.Context(), time.Time{}, time.Time{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghitung saldo"})
		return
	}
	rolling, err := svc.Totals(c.Request.Context(), start12M, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghitung saldo"})
		return
	}

	var readyCount, readyTotal int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestApproved).
		Count(&readyCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestApproved).
		Select("COALESCE(SUM(amount_requested), 0)").Scan(&readyTotal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var missingProof int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestDisbursed).
		Where("NOT EXISTS (SELECT 1 FROM request_proofs WHERE request_proofs.request_id = budget_requests.id)").
		Count(&missingProof).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"period": gin.H{"rolling_12m": gin.H{"start": start12M, "end": end}},
		"header": gin.H{
			"greeting_name": currentUserName(c),
			"notifications": gin.H{"unread_count": readyCount + missingProof},
		},
		"summary": gin.H{
			"total_saldo": allTime.Balance,
			"dana_masuk":  rolling.Income,
			"dana_keluar": rolling.Expense,
		},
		"actions_required": []gin.H{
			{
				"key":      "ready_disbursement",
				"title":    fmt.Sprintf("%d Pengajuan Siap Dicairkan", readyCount),
				"subtitle": fmt.Sprintf("Total: Rp %d", readyTotal),
			},
			{
				"key":      "missing_proof",
				"title":    fmt.Sprintf("%d Pengajuan Belum Ada Bukti", missingProof),
				"subtitle": "Cek & minta upload bukti",
			},
		},
	})
}

// GET /kepsek/dashboard
func KepsekDashboard(c *gin.Context) {
	var pendingRequests, pendingRkabs int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestSubmitted).
		Count(&pendingRequests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	if err := config.DB.Model(&models.Rkab{}).
		Where("status = ?", models.RkabSubmitted).
		Count(&pendingRkabs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	var pendingTotal int64
	if err := config.DB.Model(&models.BudgetRequest{}).
		Where("status = ?", models.RequestSubmitted).
		Select("COALESCE(SUM(amount_requested), 0)").Scan(&pendingTotal).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": currentUserID(c), "name": currentUserName(c)},
		"summary": gin.H{
			"pengajuan_menunggu": pendingRequests,
			"rkas_menunggu":      pendingRkabs,
			"total_diajukan":     pendingTotal,
		},
		"notifications": gin.H{"unread_count": pendingRequests + pendingRkabs},
	})
}
