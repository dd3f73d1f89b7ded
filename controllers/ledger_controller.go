package controllers

import (
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

type CreateLedgerEntryInput struct {
	Type            models.EntryType `json:"type" binding:"required"`
	Amount          int64            `json:"amount" binding:"required"`
	Date            string           `json:"date" binding:"required"` // "YYYY-MM-DD"
	Description     *string          `json:"description" binding:"omitempty,max=200"`
	FundingSourceID *uint            `json:"funding_source_id"`
	RkabItemID      *uint            `json:"rkab_item_id"`
}

// POST /ledger-entries — bendahara mencatat pemasukan/pengeluaran manual.
func CreateLedgerEntry(c *gin.Context) {
	var in CreateLedgerEntryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.Type != models.EntryIncome && in.Type != models.EntryExpense {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type harus INCOME atau EXPENSE"})
		return
	}
	if in.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Jumlah harus > 0"})
		return
	}
	date, err := time.ParseInLocation("2006-01-02", in.Date, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Format tanggal harus YYYY-MM-DD"})
		return
	}

	if in.FundingSourceID != nil {
		if in.Type != models.EntryIncome {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sumber dana hanya untuk pemasukan"})
			return
		}
		var fs models.FundingSource
		if err := config.DB.First(&fs, *in.FundingSourceID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sumber dana tidak ditemukan"})
			return
		}
	}
	if in.RkabItemID != nil {
		if in.Type != models.EntryExpense {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item RKAS hanya untuk pengeluaran"})
			return
		}
		var item models.RkabItem
		if err := config.DB.First(&item, *in.RkabItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Item RKAS tidak ditemukan"})
			return
		}
	}

	entry := models.LedgerEntry{
		Type:            in.Type,
		Amount:          in.Amount,
		Date:            date,
		FundingSourceID: in.FundingSourceID,
		RkabItemID:      in.RkabItemID,
		RecordedByID:    currentUserID(c),
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d != "" {
			entry.Description = &d
		}
	}

	if err := config.DB.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mencatat transaksi"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": entry})
}

func ledgerSearch(q *gorm.DB, term string) *gorm.DB {
	like := "%" + strings.ToLower(term) + "%"
	return q.
		Joins("LEFT JOIN funding_sources ON funding_sources.id = ledger_entries.funding_source_id").
		Joins("LEFT JOIN rkab_items ON rkab_items.id = ledger_entries.rkab_item_id").
		Joins("LEFT JOIN budget_requests ON budget_requests.id = rkab_items.budget_request_id").
		Where("LOWER(ledger_entries.description) LIKE ? OR LOWER(funding_sources.name) LIKE ? OR LOWER(budget_requests.title) LIKE ?",
			like, like, like)
}

func ledgerItemJSON(x models.LedgerEntry) gin.H {
	title := ""
	if x.Description != nil {
		title = *x.Description
	}
	if title == "" {
		if x.Type == models.EntryIncome {
			title = "Penerimaan"
			if x.FundingSource != nil {
				title = x.FundingSource.Name
			}
		} else {
			title = "Pengeluaran"
			if x.RkabItem != nil && x.RkabItem.BudgetRequest != nil {
				title = x.RkabItem.BudgetRequest.Title
			}
		}
	}
	item := gin.H{
		"id":     x.ID,
		"type":   x.Type,
		"title":  title,
		"amount": x.Amount,
		"date":   x.Date,
	}
	if x.FundingSource != nil {
		item["funding_source"] = gin.H{"id": x.FundingSource.ID, "name": x.FundingSource.Name, "agency": x.FundingSource.Agency}
	}
	if x.RkabItem != nil && x.RkabItem.BudgetRequest != nil {
		item["budget_request"] = gin.H{"id": x.RkabItem.BudgetRequest.ID, "title": x.RkabItem.BudgetRequest.Title}
	}
	return item
}

// GET /ledger-entries?period=YYYY-MM&type=&q=&cursor=&take=
// Saldo periode selalu dihitung dari semua tipe dan default 0.
func ListLedgerEntries(c *gin.Context) {
	svc := service.NewService(config.DB)

	var start, end time.Time
	if period := c.Query("period"); period != "" {
		var err error
		start, end, err = utils.MonthRange(period)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	totals, err := svc.Totals(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghitung saldo"})
		return
	}

	q := config.DB.Model(&models.LedgerEntry{})
	if !start.IsZero() {
		q = q.Where("ledger_entries.date >= ? AND ledger_entries.date < ?", start, end)
	}
	if typ := c.Query("type"); typ != "" {
		if typ != string(models.EntryIncome) && typ != string(models.EntryExpense) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Type harus INCOME atau EXPENSE"})
			return
		}
		q = q.Where("ledger_entries.type = ?", typ)
	}
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		q = ledgerSearch(q, term)
	}
	take, _ := strconv.Atoi(c.DefaultQuery("take", "20"))
	if take < 1 || take > 50 {
		take = 20
	}
	if cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64); cursor > 0 {
		q = q.Where("ledger_entries.id < ?", cursor)
	}

	var rows []models.LedgerEntry
	if err := q.Select("ledger_entries.*").
		Order("ledger_entries.date DESC, ledger_entries.id DESC").
		Limit(take).
		Preload("FundingSource").
		Preload("RkabItem.BudgetRequest").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, x := range rows {
		items = append(items, ledgerItemJSON(x))
	}
	var nextCursor *uint
	if len(rows) == take {
		nextCursor = &rows[len(rows)-1].ID
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":     gin.H{"income": totals.Income, "expense": totals.Expense, "balance": totals.Balance},
		"items":       items,
		"next_cursor": nextCursor,
	})
}

// GET /transactions — kartu masuk/keluar/saldo 12 bulan berjalan + feed
// dengan pencarian bebas (deskripsi, nama sumber dana, judul pengajuan).
func ListTransactions(c *gin.Context) {
	svc := service.NewService(config.DB)
	start, end := utils.Rolling12Months(time.Now())

	// summary tetap semua tipe, apa pun filter feed-nya
	totals, err := svc.Totals(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghitung ringkasan"})
		return
	}

	q := config.DB.Model(&models.LedgerEntry{}).
		Where("ledger_entries.date >= ? AND ledger_entries.date < ?", start, end)
	switch c.DefaultQuery("filter", "all") {
	case "income":
		q = q.Where("ledger_entries.type = ?", models.EntryIncome)
	case "expense":
		q = q.Where("ledger_entries.type = ?", models.EntryExpense)
	case "all":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Filter tidak dikenal"})
		return
	}
	if term := strings.TrimSpace(c.Query("q")); term != "" {
		q = ledgerSearch(q, term)
	}

	take, _ := strconv.Atoi(c.DefaultQuery("take", "20"))
	if take < 1 || take > 50 {
		take = 20
	}
	if cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64); cursor > 0 {
		q = q.Where("ledger_entries.id < ?", cursor)
	}

	var rows []models.LedgerEntry
	if err := q.Select("ledger_entries.*").
		Order("ledger_entries.date DESC, ledger_entries.id DESC").
		Limit(take).
		Preload("FundingSource").
		Preload("RkabItem.BudgetRequest").
		Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	items := make([]gin.H, 0, len(rows))
	for _, x := range rows {
		items = append(items, ledgerItemJSON(x))
	}
	var nextCursor *uint
	if len(rows) == take {
		nextCursor = &rows[len(rows)-1].ID
	}

	c.JSON(http.StatusOK, gin.H{
		"period":      gin.H{"start": start, "end": end},
		"summary":     gin.H{"income": totals.Income, "expense": totals.Expense, "balance": totals.Balance},
		"items":       items,
		"next_cursor": nextCursor,
	})
}
