package handler

import (
	"net/http"
	"strings"

	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AssetHandler serves the asset register.
type AssetHandler struct {
	DB *gorm.DB
}

func NewAssetHandler(db *gorm.DB) *AssetHandler {
	return &AssetHandler{DB: db}
}

// assetReq is shared by create and update. apply only copies fields that
// are present, so callers start update from a blank record.
type assetReq struct {
	Code             *string `json:"codigoActivo"`
	AccountCode      *string `json:"cuentaContable"`
	Description      *string `json:"descripcion"`
	Brand            *string `json:"marca"`
	Model            *string `json:"modelo"`
	Serial           *string `json:"numeroSerie"`
	AcquiredAt       *string `json:"fechaAdquisicion"`
	InServiceAt      *string `json:"fechaUso"`
	Method           *string `json:"metodoAplicado"`
	Status           *string `json:"estado"`
	AuthorizationDoc *string `json:"numeroAutorizacion"`
}

func (r *assetReq) apply(a *models.Asset) error {
	optionalText(&a.Code, r.Code)
	optionalText(&a.AccountCode, r.AccountCode)
	optionalText(&a.Description, r.Description)
	optionalText(&a.Brand, r.Brand)
	optionalText(&a.Model, r.Model)
	optionalText(&a.Serial, r.Serial)
	optionalText(&a.Method, r.Method)
	optionalText(&a.Status, r.Status)
	optionalText(&a.AuthorizationDoc, r.AuthorizationDoc)

	if r.AcquiredAt != nil {
		t, err := util.ParseDate("fechaAdquisicion", *r.AcquiredAt)
		if err != nil {
			return err
		}
		a.AcquiredAt = t
	}
	if r.InServiceAt != nil {
		t, err := util.ParseDate("fechaUso", *r.InServiceAt)
		if err != nil {
			return err
		}
		a.InServiceAt = t
	}

	a.Method = trimUpper(a.Method)
	a.Status = trimUpper(a.Status)
	if a.AccountCode == "" {
		a.AccountCode = models.DefaultAccountCode
	}
	if a.Method == "" {
		a.Method = models.MethodStraightLine
	}
	if a.Status == "" {
		a.Status = models.StatusActive
	}
	return validateAsset(a)
}

func validateAsset(a *models.Asset) error {
	if err := util.ValidateRequired("codigoActivo", a.Code); err != nil {
		return err
	}
	if err := util.ValidateRequired("descripcion", a.Description); err != nil {
		return err
	}
	if a.AcquiredAt.IsZero() {
		return &util.ValidationError{Field: "fechaAdquisicion", Message: "is required"}
	}
	if a.InServiceAt.IsZero() {
		return &util.ValidationError{Field: "fechaUso", Message: "is required"}
	}
	if !models.ValidMethod(a.Method) {
		return &util.ValidationError{Field: "metodoAplicado", Message: "unknown method " + a.Method}
	}
	return nil
}

// List returns assets ordered by code, optionally only those put in use in ?anio=.
func (h *AssetHandler) List(c *gin.Context) {
	year, filtered, ok := yearFilter(c)
	if !ok {
		return
	}
	var assets []models.Asset
	if err := h.DB.WithContext(c.Request.Context()).Order("code, id").Find(&assets).Error; err != nil {
		serverError(c, err, "Error al obtener activos")
		return
	}
	if filtered {
		kept := assets[:0]
		for i := range assets {
			if assets[i].ServiceYear() == year {
				kept = append(kept, assets[i])
			}
		}
		assets = kept
	}
	util.Success(c, http.StatusOK, assets)
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var asset models.Asset
	if err := h.DB.WithContext(c.Request.Context()).First(&asset, id).Error; err != nil {
		dbError(c, err, "Activo no encontrado", "Error al obtener activo")
		return
	}
	util.Success(c, http.StatusOK, asset)
}

func (h *AssetHandler) Create(c *gin.Context) {
	var req assetReq
	if !bindJSON(c, &req) {
		return
	}
	var asset models.Asset
	if err := req.apply(&asset); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.DB.WithContext(c.Request.Context()).Create(&asset).Error; err != nil {
		serverError(c, err, "Error al crear activo")
		return
	}
	util.Success(c, http.StatusCreated, asset)
}

// Update replaces every client field of the asset; omitted fields are
// cleared or defaulted and required ones fail validation.
func (h *AssetHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req assetReq
	if !bindJSON(c, &req) {
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var stored models.Asset
	if err := db.First(&stored, id).Error; err != nil {
		dbError(c, err, "Activo no encontrado", "Error al actualizar activo")
		return
	}
	asset := models.Asset{ID: stored.ID, CompanyID: stored.CompanyID, CreatedAt: stored.CreatedAt}
	if err := req.apply(&asset); err != nil {
		badRequest(c, err)
		return
	}
	if err := db.Save(&asset).Error; err != nil {
		serverError(c, err, "Error al actualizar activo")
		return
	}
	util.Success(c, http.StatusOK, asset)
}

// assetExists answers 400 when assetID does not reference an asset.
func assetExists(c *gin.Context, db *gorm.DB, assetID uint) bool {
	var count int64
	if err := db.Model(&models.Asset{}).Where("id = ?", assetID).Count(&count).Error; err != nil {
		serverError(c, err, "Error al validar el activo")
		return false
	}
	if count == 0 {
		util.ErrorWith(c, http.StatusBadRequest, "El activo no existe", util.Response{"campo": "activoId"})
		return false
	}
	return true
}

func trimUpper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
