package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/eufratt/EduLedger/config"
	"github.com/eufratt/EduLedger/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var spaceRE = regexp.MustCompile(`\s+`)

type CreateFundingSourceInput struct {
	Name   string  `json:"name" binding:"required,min=2,max=80"`
	Agency *string `json:"agency" binding:"omitempty,min=2,max=80"`
}

// GET /funding-sources?q=
func ListFundingSources(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	query := config.DB.Model(&models.FundingSource{}).Order("name ASC")
	limit := 200
	if q != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		limit = 20
	}

	var items []models.FundingSource
	if err := query.Limit(limit).Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// POST /funding-sources — find-or-create, dedupe nama case-insensitive.
func CreateFundingSource(c *gin.Context) {
	var in CreateFundingSourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	name := spaceRE.ReplaceAllString(strings.TrimSpace(in.Name), " ")
	var agency *string
	if in.Agency != nil {
		a := spaceRE.ReplaceAllString(strings.TrimSpace(*in.Agency), " ")
		agency = &a
	}

	var existing models.FundingSource
	err := config.DB.
		Where("LOWER(name) = LOWER(?)", name).
		First(&existing).Error
	switch {
	case err == nil:
		c.JSON(http.StatusOK, existing)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		// error lain bukan berarti belum ada; jangan lanjut create
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil data"})
		return
	}

	fs := models.FundingSource{Name: name, Agency: agency}
	if err := config.DB.Create(&fs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat sumber dana"})
		return
	}
	c.JSON(http.StatusCreated, fs)
}
