package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CompanyHandler reads and upserts the reporting taxpayer.
type CompanyHandler struct {
	DB *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{DB: db}
}

// Get returns the latest company row, or null when none exists.
func (h *CompanyHandler) Get(c *gin.Context) {
	var company models.Company
	err := h.DB.WithContext(c.Request.Context()).Order("created_at DESC, id DESC").First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Success(c, http.StatusOK, nil)
		return
	}
	if err != nil {
		serverError(c, err, "Error al obtener datos de la empresa")
		return
	}
	util.Success(c, http.StatusOK, company)
}

type companyReq struct {
	RUC       string `json:"ruc"`
	LegalName string `json:"razonSocial"`
}

// Save updates the first company row or creates it.
func (h *CompanyHandler) Save(c *gin.Context) {
	var req companyReq
	if !bindJSON(c, &req) {
		return
	}
	req.RUC = strings.TrimSpace(req.RUC)
	req.LegalName = strings.TrimSpace(req.LegalName)
	if req.RUC == "" || req.LegalName == "" {
		util.Error(c, http.StatusBadRequest, msgMissingFields)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var company models.Company
	err := db.Order("id").First(&company).Error
	switch {
	case err == nil:
		company.RUC = req.RUC
		company.LegalName = req.LegalName
		err = db.Save(&company).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		company = models.Company{RUC: req.RUC, LegalName: req.LegalName}
		err = db.Create(&company).Error
	}
	if err != nil {
		serverError(c, err, "Error al guardar datos de la empresa")
		return
	}
	util.Success(c, http.StatusOK, company)
}
