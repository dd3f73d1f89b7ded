package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/eufratt/EduLedger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ===== DTO umum =====

type SummaryRow struct {
	Label   string `json:"label"`
	Amount  int64  `json:"amount"`
	IsTotal bool   `json:"is_total,omitempty"`
}

type LedgerTotals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// ===== Service =====

type Service interface {
	// Ringkasan laporan satu bulan kalender: per sumber dana (INCOME),
	// per judul pengajuan (EXPENSE), atau neraca (BALANCE).
	MonthlySummary(ctx context.Context, typ models.ReportType, start, end time.Time, period string) (title string, rows []SummaryRow, err error)

	// Total income/expense/saldo pada rentang [start, end); rentang nol = sepanjang waktu.
	Totals(ctx context.Context, start, end time.Time) (LedgerTotals, error)

	// Persen realisasi RKAS APPROVED satu tahun fiskal; 0 kalau belum ada alokasi.
	RealisasiPercent(ctx context.Context, fiscalYear int) (int64, error)
}

type service struct{ db *gorm.DB }

func NewService(db *gorm.DB) Service { return &service{db: db} }

// ===== Implementations =====

func (s *service) Totals(ctx context.Context, start, end time.Time) (LedgerTotals, error) {
	var t LedgerTotals
	q := func(typ models.EntryType) *gorm.DB {
		q := s.db.WithContext(ctx).
			Model(&models.LedgerEntry{}).
			Where("type = ?", typ)
		if !start.IsZero() {
			q = q.Where("date >= ? AND date < ?", start, end)
		}
		return q
	}
	// COALESCE supaya agregat kosong tetap 0, bukan NULL
	if err := q(models.EntryIncome).
		Select("COALESCE(SUM(amount), 0)").Scan(&t.Income).Error; err != nil {
		return t, err
	}
	if err := q(models.EntryExpense).
		Select("COALESCE(SUM(amount), 0)").Scan(&t.Expense).Error; err != nil {
		return t, err
	}
	t.Balance = t.Income - t.Expense
	return t, nil
}

func (s *service) MonthlySummary(ctx context.Context, typ models.ReportType, start, end time.Time, period string) (string, []SummaryRow, error) {
	q := s.db.WithContext(ctx).
		Model(&models.LedgerEntry{}).
		Where("date >= ? AND date < ?", start, end).
		Preload("FundingSource").
		Preload("RkabItem.BudgetRequest")
	switch typ {
	case models.ReportIncome:
		q = q.Where("type = ?", models.EntryIncome)
	case models.ReportExpense:
		q = q.Where("type = ?", models.EntryExpense)
	}

	var entries []models.LedgerEntry
	if err := q.Find(&entries).Error; err != nil {
		return "", nil, err
	}

	switch typ {
	case models.ReportIncome:
		title := fmt.Sprintf("Laporan Penerimaan Dana (%s)", period)
		rows := groupRows(entries, func(e models.LedgerEntry) string {
			if e.FundingSource != nil {
				return e.FundingSource.Name
			}
			return "Lainnya"
		}, "Total Penerimaan")
		return title, rows, nil

	case models.ReportExpense:
		title := fmt.Sprintf("Laporan Pengeluaran Dana (%s)", period)
		rows := groupRows(entries, func(e models.LedgerEntry) string {
			if e.RkabItem != nil && e.RkabItem.BudgetRequest != nil {
				return e.RkabItem.BudgetRequest.Title
			}
			return "Pengeluaran Lainnya"
		}, "Total Pengeluaran")
		return title, rows, nil

	default: // BALANCE
		title := fmt.Sprintf("Laporan Neraca Sederhana (%s)", period)
		var income, expense int64
		for _, e := range entries {
			if e.Type == models.EntryIncome {
				income += e.Amount
			} else {
				expense += e.Amount
			}
		}
		rows := []SummaryRow{
			{Label: "Total Penerimaan", Amount: income},
			{Label: "Total Pengeluaran", Amount: expense},
			{Label: "Saldo", Amount: income - expense, IsTotal: true},
		}
		return title, rows, nil
	}
}

func groupRows(entries []models.LedgerEntry, label func(models.LedgerEntry) string, totalLabel string) []SummaryRow {
	byLabel := map[string]int64{}
	for _, e := range entries {
		byLabel[label(e)] += e.Amount
	}
	rows := make([]SummaryRow, 0, len(byLabel)+1)
	var total int64
	for l, amt := range byLabel {
		rows = append(rows, SummaryRow{Label: l, Amount: amt})
		total += amt
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Label < rows[j].Label
	})
	rows = append(rows, SummaryRow{Label: totalLabel, Amount: total, IsTotal: true})
	return rows
}

func (s *service) RealisasiPercent(ctx context.Context, fiscalYear int) (int64, error) {
	type agg struct {
		Used      int64
		Allocated int64
	}
	var a agg
	err := s.db.WithContext(ctx).
		Model(&models.RkabItem{}).
		Select("COALESCE(SUM(rkab_items.used_amount), 0) AS used, COALESCE(SUM(rkab_items.amount_allocated), 0) AS allocated").
		Joins("INNER JOIN rkabs ON rkabs.id = rkab_items.rkab_id").
		Where("rkabs.fiscal_year = ? AND rkabs.status = ?", fiscalYear, models.RkabApproved).
		Scan(&a).Error
	if err != nil {
		return 0, err
	}
	if a.Allocated == 0 {
		return 0, nil
	}
	pct := decimal.NewFromInt(a.Used).
		Div(decimal.NewFromInt(a.Allocated)).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	return pct.IntPart(), nil
}
