package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/controllers"
	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/routes"
	"github.com/eufratt/EduLedger/storage"
	"github.com/eufratt/EduLedger/utils"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine

	civitas   models.User
	bendahara models.User
	kepsek    models.User
}

// newTestEnv membangun DB sqlite in-memory bernama (satu per test) plus
// router lengkap. config.DB dan controllers.ProofStore ikut ditukar.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.BudgetRequest{},
		&models.FundingSource{},
		&models.Rkab{},
		&models.RkabItem{},
		&models.LedgerEntry{},
		&models.RequestProof{},
		&models.FinancialReport{},
	))

	config.DB = db
	config.SeedUsers()
	controllers.ProofStore = storage.NewLocalStore(t.TempDir())

	env := &testEnv{db: db, router: gin.New()}
	routes.SetupRoutes(env.router)

	require.NoError(t, db.Where("email = ?", "civitas@demo.id").First(&env.civitas).Error)
	require.NoError(t, db.Where("email = ?", "bendahara@demo.id").First(&env.bendahara).Error)
	require.NoError(t, db.Where("email = ?", "kepsek@demo.id").First(&env.kepsek).Error)
	return env
}

func (e *testEnv) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := utils.GenerateToken(u.ID, u.Name, string(u.Role), time.Hour)
	require.NoError(t, err)
	return tok
}

// do kirim request JSON (body nil untuk GET/PATCH tanpa payload).
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, token, fileName, mime string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", mime)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), "body: %s", w.Body.String())
	return m
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

// createRequest bikin pengajuan atas nama civitas; draft=false langsung SUBMITTED.
func (e *testEnv) createRequest(t *testing.T, title string, amount int64, draft bool) uint {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/requests", e.token(t, e.civitas), gin.H{
		"title":            title,
		"amount_requested": amount,
		"needed_by":        tomorrow(),
		"draft":            draft,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func (e *testEnv) approveRequest(t *testing.T, id uint) {
	t.Helper()
	w := e.do(t, http.MethodPatch,
		fmt.Sprintf("/api/kepsek/requests/%d/decision", id),
		e.token(t, e.kepsek), gin.H{"action": "approve"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// approvedRkabItem jalanin alur penuh sampai request APPROVED dan punya
// item RKAS yang sudah disetujui kepsek. Return (requestID, rkabItemID).
func (e *testEnv) approvedRkabItem(t *testing.T, title string, amount, allocated int64) (uint, uint) {
	t.Helper()
	reqID := e.createRequest(t, title, amount, false)
	e.approveRequest(t, reqID)

	bTok := e.token(t, e.bendahara)
	w := e.do(t, http.MethodPost, "/api/rkab", bTok, gin.H{"fiscal_year": time.Now().Year()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rkabID := uint(decodeBody(t, w)["id"].(float64))

	w = e.do(t, http.MethodPost, fmt.Sprintf("/api/rkab/%d/items", rkabID), bTok, gin.H{
		"items": []gin.H{{"budget_request_id": reqID, "amount_allocated": allocated}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(t, http.MethodPatch, fmt.Sprintf("/api/rkab/%d/submit", rkabID), bTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPatch,
		fmt.Sprintf("/api/kepsek/rkabs/%d/decision", rkabID),
		e.token(t, e.kepsek), gin.H{"action": "approve"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var item models.RkabItem
	require.NoError(t, e.db.Where("budget_request_id = ?", reqID).First(&item).Error)
	return reqID, item.ID
}

func (e *testEnv) disburse(t *testing.T, reqID uint) *httptest.ResponseRecorder {
	t.Helper()
	return e.do(t, http.MethodPatch,
		fmt.Sprintf("/api/disbursements/%d", reqID),
		e.token(t, e.bendahara), nil)
}
