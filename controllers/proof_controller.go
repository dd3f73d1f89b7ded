package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"
	"github.com/eufratt/EduLedger/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProofStore di-set saat startup (main) dan bisa diganti di test.
var ProofStore storage.Store

const maxProofSize = 5 * 1024 * 1024

var proofExt = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"application/pdf": "pdf",
}

// POST /requests/:id/proofs — satu file per panggilan.
// Upload sah hanya untuk pengajuan milik sendiri yang DISBURSED (atau
// COMPLETED untuk bukti tambahan). Upload pertama pada DISBURSED ikut
// menutup pengajuan jadi COMPLETED. Kalau tulis metadata gagal setelah
// file tersimpan, file yang telanjur ditulis dihapus lagi.
func UploadProof(c *gin.Context) {
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
	if r.Status != models.RequestDisbursed && r.Status != models.RequestCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pengajuan belum dicairkan"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File wajib disertakan"})
		return
	}

	// mime dan ukuran dicek sebelum ada tulisan apa pun
	mime := file.Header.Get("Content-Type")
	ext, ok := proofExt[mime]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipe file harus JPEG, PNG, atau PDF"})
		return
	}
	if file.Size > maxProofSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ukuran file maksimal 5MB"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membaca file"})
		return
	}
	defer src.Close()

	key := "proofs/" + uuid.NewString() + "." + ext
	fileURL, err := ProofStore.Save(key, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan file"})
		return
	}

	proof := models.RequestProof{
		RequestID: r.ID,
		FileURL:   fileURL,
		FileName:  file.Filename,
		MimeType:  mime,
		Size:      file.Size,
	}
	txErr := config.DB.Transaction(func(tx *gorm.DB) error {
		var cur models.BudgetRequest
		if err := tx.First(&cur, r.ID).Error; err != nil {
			return err
		}
		if err := tx.Create(&proof).Error; err != nil {
			return err
		}
		if cur.Status == models.RequestDisbursed {
			if err := cur.Transition(models.RequestCompleted, time.Now()); err != nil {
				return err
			}
			return tx.Save(&cur).Error
		}
		return nil
	})
	if txErr != nil {
		// file yatim dibersihkan
		_ = ProofStore.Delete(key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan bukti"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"id":          proof.ID,
		"request_id":  proof.RequestID,
		"file_url":    proof.FileURL,
		"file_name":   proof.FileName,
		"mime_type":   proof.MimeType,
		"size":        proof.Size,
		"uploaded_at": proof.UploadedAt,
	}})
}

// GET /requests/:id/proofs
func ListProofs(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var r models.BudgetRequest
	if err := config.DB.
		Where("id = ? AND submitted_by_id = ?", id, currentUserID(c)).
		Preload("Proofs", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at DESC")
		}).
		First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pengajuan tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"request": gin.H{
			"id":     r.ID,
			"judul":  r.Title,
			"jumlah": r.AmountRequested,
			"status": r.Status,
		},
		"proofs": r.Proofs,
	}})
}
