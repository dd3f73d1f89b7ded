package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/eufratt/EduLedger/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createFundingSource(t *testing.T, name string) uint {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/funding-sources", e.token(t, e.bendahara),
		gin.H{"name": name})
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, w.Code, w.Body.String())
	return uint(decodeBody(t, w)["id"].(float64))
}

func (e *testEnv) createEntry(t *testing.T, typ string, amount int64, date string, fsID *uint) {
	t.Helper()
	body := gin.H{"type": typ, "amount": amount, "date": date}
	if fsID != nil {
		body["funding_source_id"] = *fsID
	}
	w := e.do(t, http.MethodPost, "/api/ledger-entries", e.token(t, e.bendahara), body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestFundingSourceDedupeCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	bTok := env.token(t, env.bendahara)

	w := env.do(t, http.MethodPost, "/api/funding-sources", bTok, gin.H{"name": "BOS"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	firstID := decodeBody(t, w)["id"].(float64)

	// huruf beda, sumber sama
	w = env.do(t, http.MethodPost, "/api/funding-sources", bTok, gin.H{"name": "bos"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, firstID, decodeBody(t, w)["id"].(float64))

	var cnt int64
	env.db.Model(&models.FundingSource{}).Count(&cnt)
	assert.Equal(t, int64(1), cnt)
}

func TestFundingSourceLookupFailureIsNotTreatedAsMissing(t *testing.T) {
	env := newTestEnv(t)

	// query yang gagal bukan berarti sumber belum ada; jangan sampai create
	require.NoError(t, env.db.Migrator().DropTable(&models.FundingSource{}))

	w := env.do(t, http.MethodPost, "/api/funding-sources",
		env.token(t, env.bendahara), gin.H{"name": "Dana BOS"})
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
}

func TestFundingSourceSearch(t *testing.T) {
	env := newTestEnv(t)
	bTok := env.token(t, env.bendahara)

	env.createFundingSource(t, "Dana BOS Reguler")
	env.createFundingSource(t, "Komite Sekolah")

	w := env.do(t, http.MethodGet, "/api/funding-sources?q=bos", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decodeBody(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Dana BOS Reguler", items[0].(map[string]any)["name"])
}

func TestCreateLedgerEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	bTok := env.token(t, env.bendahara)
	fsID := env.createFundingSource(t, "Dana BOS")

	cases := []struct {
		name string
		body gin.H
	}{
		{"type tidak dikenal", gin.H{"type": "TRANSFER", "amount": 1000, "date": "2026-08-01"}},
		{"jumlah negatif", gin.H{"type": "INCOME", "amount": -1, "date": "2026-08-01"}},
		{"tanggal rusak", gin.H{"type": "INCOME", "amount": 1000, "date": "01-08-2026"}},
		{"sumber dana di pengeluaran", gin.H{"type": "EXPENSE", "amount": 1000, "date": "2026-08-01", "funding_source_id": fsID}},
		{"sumber dana tidak ada", gin.H{"type": "INCOME", "amount": 1000, "date": "2026-08-01", "funding_source_id": 9999}},
		{"item rkas di pemasukan", gin.H{"type": "INCOME", "amount": 1000, "date": "2026-08-01", "rkab_item_id": 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/ledger-entries", bTok, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestLedgerSummaryByPeriod(t *testing.T) {
	env := newTestEnv(t)
	bTok := env.token(t, env.bendahara)
	fsID := env.createFundingSource(t, "Dana BOS")

	env.createEntry(t, "INCOME", 10000000, "2026-07-05", &fsID)
	env.createEntry(t, "INCOME", 2000000, "2026-08-03", &fsID)
	env.createEntry(t, "EXPENSE", 500000, "2026-08-10", nil)

	w := env.do(t, http.MethodGet, "/api/ledger-entries?period=2026-08", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(2000000), summary["income"])
	assert.Equal(t, float64(500000), summary["expense"])
	assert.Equal(t, float64(1500000), summary["balance"])
	assert.Len(t, body["items"].([]any), 2)

	// bulan kosong: nol, bukan error
	w = env.do(t, http.MethodGet, "/api/ledger-entries?period=2026-01", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary = decodeBody(t, w)["summary"].(map[string]any)
	assert.Equal(t, float64(0), summary["income"])
	assert.Equal(t, float64(0), summary["expense"])
	assert.Equal(t, float64(0), summary["balance"])
}

func TestLedgerTypeFilterAndSearch(t *testing.T) {
	env := newTestEnv(t)
	bTok := env.token(t, env.bendahara)
	fsID := env.createFundingSource(t, "Komite Sekolah")

	env.createEntry(t, "INCOME", 3000000, "2026-08-01", &fsID)
	env.createEntry(t, "EXPENSE", 750000, "2026-08-02", nil)

	w := env.do(t, http.MethodGet, "/api/ledger-entries?period=2026-08&type=INCOME", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	items := decodeBody(t, w)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "INCOME", items[0].(map[string]any)["type"])

	// cari lewat nama sumber dana
	w = env.do(t, http.MethodGet, "/api/ledger-entries?period=2026-08&q=komite", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decodeBody(t, w)["items"].([]any), 1)
}

func TestTransactionsRolling12Months(t *testing.T) {
	env := newTestEnv(t)
	bTok := env.token(t, env.bendahara)
	fsID := env.createFundingSource(t, "Dana BOS")

	inWindow := time.Now().AddDate(0, -2, 0).Format("2006-01-02")
	outOfWindow := time.Now().AddDate(-2, 0, 0).Format("2006-01-02")
	env.createEntry(t, "INCOME", 8000000, inWindow, &fsID)
	env.createEntry(t, "INCOME", 9999999, outOfWindow, &fsID)
	env.createEntry(t, "EXPENSE", 1000000, inWindow, nil)

	w := env.do(t, http.MethodGet, "/api/transactions", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Len(t, body["items"].([]any), 2)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(8000000), summary["income"])
	assert.Equal(t, float64(1000000), summary["expense"])

	// filter pengeluaran saja, summary tetap gabungan
	w = env.do(t, http.MethodGet, "/api/transactions?filter=expense", bTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Len(t, body["items"].([]any), 1)
	assert.Equal(t, float64(8000000), body["summary"].(map[string]any)["income"])
}
