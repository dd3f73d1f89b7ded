package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/eufratt/EduLedger/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIncomeReportGroupsByFundingSource(t *testing.T) {
	env := newTestEnv(t)
	kTok := env.token(t, env.kepsek)

	bosID := env.createFundingSource(t, "Dana BOS")
	komiteID := env.createFundingSource(t, "Komite Sekolah")
	env.createEntry(t, "INCOME", 7000000, "2026-08-01", &bosID)
	env.createEntry(t, "INCOME", 1000000, "2026-08-05", &bosID)
	env.createEntry(t, "INCOME", 2000000, "2026-08-07", &komiteID)
	env.createEntry(t, "EXPENSE", 999999, "2026-08-08", nil) // tidak ikut laporan INCOME

	w := env.do(t, http.MethodPost, "/api/kepsek/reports/generate", kTok, gin.H{
		"type": "INCOME", "period": "2026-08",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "Laporan Penerimaan Dana (2026-08)", data["title"])

	rows := data["summary"].([]any)
	require.Len(t, rows, 3) // dua sumber + baris total
	first := rows[0].(map[string]any)
	assert.Equal(t, "Dana BOS", first["label"])
	assert.Equal(t, float64(8000000), first["amount"])
	last := rows[2].(map[string]any)
	assert.Equal(t, "Total Penerimaan", last["label"])
	assert.Equal(t, float64(10000000), last["amount"])
	assert.Equal(t, true, last["is_total"])
}

func TestGenerateReportUpsertsPerTypeAndPeriod(t *testing.T) {
	env := newTestEnv(t)
	kTok := env.token(t, env.kepsek)
	fsID := env.createFundingSource(t, "Dana BOS")

	env.createEntry(t, "INCOME", 5000000, "2026-07-10", &fsID)

	gen := func() map[string]any {
		w := env.do(t, http.MethodPost, "/api/kepsek/reports/generate", kTok, gin.H{
			"type": "BALANCE", "period": "2026-07",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return decodeBody(t, w)["data"].(map[string]any)
	}

	first := gen()

	// data baru masuk, regenerate menimpa baris yang sama
	env.createEntry(t, "EXPENSE", 1500000, "2026-07-20", nil)
	second := gen()
	assert.Equal(t, first["id"], second["id"])

	var cnt int64
	env.db.Model(&models.FinancialReport{}).
		Where("type = ? AND period = ?", models.ReportBalance, "2026-07").
		Count(&cnt)
	assert.Equal(t, int64(1), cnt)

	rows := second["summary"].([]any)
	require.Len(t, rows, 3)
	saldo := rows[2].(map[string]any)
	assert.Equal(t, "Saldo", saldo["label"])
	assert.Equal(t, float64(3500000), saldo["amount"])

	// tipe lain di periode sama dapat baris sendiri
	w := env.do(t, http.MethodPost, "/api/kepsek/reports/generate", kTok, gin.H{
		"type": "INCOME", "period": "2026-07",
	})
	require.Equal(t, http.StatusOK, w.Code)
	env.db.Model(&models.FinancialReport{}).Where("period = ?", "2026-07").Count(&cnt)
	assert.Equal(t, int64(2), cnt)
}

func TestGenerateReportValidation(t *testing.T) {
	env := newTestEnv(t)
	kTok := env.token(t, env.kepsek)

	w := env.do(t, http.MethodPost, "/api/kepsek/reports/generate", kTok, gin.H{
		"type": "RINGKASAN", "period": "2026-08",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/kepsek/reports/generate", kTok, gin.H{
		"type": "INCOME", "period": "08-2026",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAndDetailReports(t *testing.T) {
	env := newTestEnv(t)
	kTok := env.token(t, env.kepsek)
	fsID := env.createFundingSource(t, "Dana BOS")
	env.createEntry(t, "INCOME", 4000000, "2026-06-02", &fsID)

	w := env.do(t, http.MethodPost, "/api/kepsek/reports/generate", kTok, gin.H{
		"type": "INCOME", "period": "2026-06",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reportID := uint(decodeBody(t, w)["data"].(map[string]any)["id"].(float64))

	w = env.do(t, http.MethodGet, "/api/kepsek/reports?period=2026-06", kTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])
	require.Len(t, body["items"].([]any), 1)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/kepsek/reports/%d", reportID), kTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "laporan_income_2026-06.pdf", data["file_name"])
	rows := data["summary"].([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "Dana BOS", rows[0].(map[string]any)["label"])
}
