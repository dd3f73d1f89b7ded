package controllers_test

import (
	"net/http"
	"testing"

	"github.com/eufratt/EduLedger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCivitasDashboardCounts(t *testing.T) {
	env := newTestEnv(t)

	env.createRequest(t, "Pengadaan papan tulis baru", 900000, false)
	approvedID := env.createRequest(t, "Pembelian buku paket", 6000000, false)
	env.approveRequest(t, approvedID)

	w := env.do(t, http.MethodGet, "/api/civitas/dashboard", env.token(t, env.civitas), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["pengajuan_aktif"])
	assert.Equal(t, float64(1), summary["disetujui"])
	assert.Equal(t, float64(6000000), summary["total_dana"])
	assert.Len(t, body["aktivitas_terbaru"].([]any), 2)
}

func TestCivitasDashboardReportsQueryFailure(t *testing.T) {
	env := newTestEnv(t)

	// hitung yang gagal tidak boleh tampil sebagai nol
	require.NoError(t, env.db.Migrator().DropTable(&models.BudgetRequest{}))

	w := env.do(t, http.MethodGet, "/api/civitas/dashboard", env.token(t, env.civitas), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
}

func TestBendaharaDashboardActions(t *testing.T) {
	env := newTestEnv(t)

	env.approvedRkabItem(t, "Pengadaan lemari arsip", 2500000, 2500000)
	noProofID, _ := env.approvedRkabItem(t, "Service genset sekolah", 1800000, 1800000)
	require.Equal(t, http.StatusOK, env.disburse(t, noProofID).Code)

	w := env.do(t, http.MethodGet, "/api/bendahara/dashboard", env.token(t, env.bendahara), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	summary := body["summary"].(map[string]any)
	// satu pencairan tercatat sebagai pengeluaran, belum ada pemasukan
	assert.Equal(t, float64(-1800000), summary["total_saldo"])
	assert.Equal(t, float64(1800000), summary["dana_keluar"])

	header := body["header"].(map[string]any)
	notif := header["notifications"].(map[string]any)
	// 1 siap cair + 1 belum ada bukti
	assert.Equal(t, float64(2), notif["unread_count"])

	actions := body["actions_required"].([]any)
	require.Len(t, actions, 2)
	assert.Equal(t, "1 Pengajuan Siap Dicairkan", actions[0].(map[string]any)["title"])
	assert.Equal(t, "1 Pengajuan Belum Ada Bukti", actions[1].(map[string]any)["title"])
}

func TestKepsekDashboardPendingCounts(t *testing.T) {
	env := newTestEnv(t)

	env.createRequest(t, "Pelatihan operator dapodik", 1250000, false)
	env.createRequest(t, "Pengadaan CCTV gerbang", 5400000, false)

	w := env.do(t, http.MethodGet, "/api/kepsek/dashboard", env.token(t, env.kepsek), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(2), summary["pengajuan_menunggu"])
	assert.Equal(t, float64(0), summary["rkas_menunggu"])
	assert.Equal(t, float64(6650000), summary["total_diajukan"])
	assert.Equal(t, float64(2), body["notifications"].(map[string]any)["unread_count"])
}
