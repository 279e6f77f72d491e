package handler

import (
	"net/http"

	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerHandler serves the yearly movement, valuation and depreciation records.
type LedgerHandler struct {
	DB *gorm.DB
}

func NewLedgerHandler(db *gorm.DB) *LedgerHandler {
	return &LedgerHandler{DB: db}
}

// ledgerKey is the asset and year common to every ledger request.
type ledgerKey struct {
	AssetID *uint `json:"activoId"`
	Year    *int  `json:"anio"`
}

// resolve fills assetID and year, defaulting the year on create. On update
// an omitted asset or year keeps the stored value.
func (k ledgerKey) resolve(c *gin.Context, db *gorm.DB, assetID *uint, year *int, create bool) bool {
	if k.AssetID != nil {
		*assetID = *k.AssetID
	}
	if create && k.AssetID == nil {
		util.ErrorWith(c, http.StatusBadRequest, msgMissingFields, util.Response{"campo": "activoId"})
		return false
	}
	if k.Year != nil {
		if *k.Year < 1900 || *k.Year > 9999 {
			util.ErrorWith(c, http.StatusBadRequest, "Año inválido", util.Response{"campo": "anio"})
			return false
		}
		*year = *k.Year
	} else if create {
		*year = currentYear()
	}
	return assetExists(c, db, *assetID)
}

// amount copies v into dst when present, rejecting negatives unless signed.
func amount(field string, dst *decimal.Decimal, v *decimal.Decimal, signed bool) error {
	if v == nil {
		return nil
	}
	if !signed {
		if err := util.ValidateNonNegative(field, *v); err != nil {
			return err
		}
	}
	*dst = *v
	return nil
}

func applyAmounts(fields ...func() error) error {
	for _, f := range fields {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}

func (h *LedgerHandler) list(c *gin.Context, dst interface{}, failed string) {
	year, filtered, ok := yearFilter(c)
	if !ok {
		return
	}
	q := h.DB.WithContext(c.Request.Context()).Preload("Asset").Order("year DESC, id")
	if filtered {
		q = q.Where("year = ?", year)
	}
	if err := q.Find(dst).Error; err != nil {
		serverError(c, err, failed)
		return
	}
	util.Success(c, http.StatusOK, dst)
}

func (h *LedgerHandler) find(c *gin.Context, dst interface{}, notFound, failed string) bool {
	id, ok := parseID(c)
	if !ok {
		return false
	}
	if err := h.DB.WithContext(c.Request.Context()).Preload("Asset").First(dst, id).Error; err != nil {
		dbError(c, err, notFound, failed)
		return false
	}
	return true
}

// ---------- movements ----------

type movementReq struct {
	ledgerKey
	OpeningBalance   *decimal.Decimal `json:"saldoInicial"`
	Additions        *decimal.Decimal `json:"adquisiciones"`
	Improvements     *decimal.Decimal `json:"mejoras"`
	Disposals        *decimal.Decimal `json:"retiros"`
	OtherAdjustments *decimal.Decimal `json:"otrosAjustes"`
	// computed, accepted and ignored
	ClosingBalance *decimal.Decimal `json:"saldoFinal"`
}

func (r *movementReq) apply(m *models.Movement) error {
	return applyAmounts(
		func() error { return amount("saldoInicial", &m.OpeningBalance, r.OpeningBalance, false) },
		func() error { return amount("adquisiciones", &m.Additions, r.Additions, false) },
		func() error { return amount("mejoras", &m.Improvements, r.Improvements, false) },
		func() error { return amount("retiros", &m.Disposals, r.Disposals, false) },
		func() error { return amount("otrosAjustes", &m.OtherAdjustments, r.OtherAdjustments, true) },
	)
}

type movementResp struct {
	models.Movement
	ClosingBalance decimal.Decimal `json:"saldoFinal"`
}

func newMovementResp(m models.Movement) movementResp {
	return movementResp{Movement: m, ClosingBalance: m.ClosingBalance()}
}

func (h *LedgerHandler) ListMovements(c *gin.Context) {
	var list []models.Movement
	year, filtered, ok := yearFilter(c)
	if !ok {
		return
	}
	q := h.DB.WithContext(c.Request.Context()).Preload("Asset").Order("year DESC, id")
	if filtered {
		q = q.Where("year = ?", year)
	}
	if err := q.Find(&list).Error; err != nil {
		serverError(c, err, "Error al obtener movimientos")
		return
	}
	items := make([]movementResp, 0, len(list))
	for _, m := range list {
		items = append(items, newMovementResp(m))
	}
	util.Success(c, http.StatusOK, items)
}

func (h *LedgerHandler) GetMovement(c *gin.Context) {
	var m models.Movement
	if !h.find(c, &m, "Movimiento no encontrado", "Error al obtener movimiento") {
		return
	}
	util.Success(c, http.StatusOK, newMovementResp(m))
}

func (h *LedgerHandler) CreateMovement(c *gin.Context) {
	h.saveMovement(c, true)
}

func (h *LedgerHandler) UpdateMovement(c *gin.Context) {
	h.saveMovement(c, false)
}

func (h *LedgerHandler) saveMovement(c *gin.Context, create bool) {
	db := h.DB.WithContext(c.Request.Context())
	var m models.Movement
	if !create {
		var stored models.Movement
		if !h.find(c, &stored, "Movimiento no encontrado", "Error al actualizar movimiento") {
			return
		}
		m = models.Movement{ID: stored.ID, AssetID: stored.AssetID, Year: stored.Year, CreatedAt: stored.CreatedAt}
	}
	var req movementReq
	if !bindJSON(c, &req) {
		return
	}
	if !req.resolve(c, db, &m.AssetID, &m.Year, create) {
		return
	}
	if err := req.apply(&m); err != nil {
		badRequest(c, err)
		return
	}
	if err := db.Save(&m).Error; err != nil {
		serverError(c, err, "Error al guardar movimiento")
		return
	}
	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	util.Success(c, status, newMovementResp(m))
}

func (h *LedgerHandler) DeleteMovement(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res := h.DB.WithContext(c.Request.Context()).Delete(&models.Movement{}, id)
	if res.Error != nil {
		serverError(c, res.Error, "Error al eliminar movimiento")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "Movimiento no encontrado")
		return
	}
	util.Success(c, http.StatusOK, util.Response{"message": "Movimiento eliminado"})
}

// ---------- valuations ----------

type valuationReq struct {
	ledgerKey
	HistoricalValue     *decimal.Decimal `json:"valorHistorico"`
	InflationAdjustment *decimal.Decimal `json:"ajustePorInflacion"`
	// recomputed on save, accepted and ignored
	AdjustedValue *decimal.Decimal `json:"valorAjustado"`
}

func (h *LedgerHandler) ListValuations(c *gin.Context) {
	var list []models.Valuation
	h.list(c, &list, "Error al obtener valoraciones")
}

func (h *LedgerHandler) GetValuation(c *gin.Context) {
	var v models.Valuation
	if !h.find(c, &v, "Valoración no encontrada", "Error al obtener valoración") {
		return
	}
	util.Success(c, http.StatusOK, v)
}

func (h *LedgerHandler) CreateValuation(c *gin.Context) {
	h.saveValuation(c, true)
}

func (h *LedgerHandler) UpdateValuation(c *gin.Context) {
	h.saveValuation(c, false)
}

func (h *LedgerHandler) saveValuation(c *gin.Context, create bool) {
	db := h.DB.WithContext(c.Request.Context())
	var v models.Valuation
	if !create {
		var stored models.Valuation
		if !h.find(c, &stored, "Valoración no encontrada", "Error al actualizar valoración") {
			return
		}
		v = models.Valuation{ID: stored.ID, AssetID: stored.AssetID, Year: stored.Year, CreatedAt: stored.CreatedAt}
	}
	var req valuationReq
	if !bindJSON(c, &req) {
		return
	}
	if !req.resolve(c, db, &v.AssetID, &v.Year, create) {
		return
	}
	err := applyAmounts(
		func() error { return amount("valorHistorico", &v.HistoricalValue, req.HistoricalValue, false) },
		func() error {
			return amount("ajustePorInflacion", &v.InflationAdjustment, req.InflationAdjustment, true)
		},
	)
	if err != nil {
		badRequest(c, err)
		return
	}
	v.Recompute()
	if err := db.Save(&v).Error; err != nil {
		serverError(c, err, "Error al guardar valoración")
		return
	}
	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	util.Success(c, status, v)
}

// ---------- depreciation ----------

type depreciationReq struct {
	ledgerKey
	Percentage            *decimal.Decimal `json:"porcentajeDepreciacion"`
	PriorAccumulated      *decimal.Decimal `json:"depreciacionAcumuladaAnterior"`
	PeriodExpense         *decimal.Decimal `json:"depreciacionEjercicio"`
	Disposals             *decimal.Decimal `json:"depreciacionRetiros"`
	OtherAdjustments      *decimal.Decimal `json:"depreciacionOtrosAjustes"`
	HistoricalAccumulated *decimal.Decimal `json:"depreciacionAcumuladaHistorica"`
	InflationAdjustment   *decimal.Decimal `json:"ajustePorInflacionDepreciacion"`
	AdjustedAccumulated   *decimal.Decimal `json:"depreciacionAcumuladaAjustada"`
}

func (r *depreciationReq) apply(d *models.Depreciation) error {
	return applyAmounts(
		func() error { return amount("porcentajeDepreciacion", &d.Percentage, r.Percentage, false) },
		func() error {
			return amount("depreciacionAcumuladaAnterior", &d.PriorAccumulated, r.PriorAccumulated, false)
		},
		func() error { return amount("depreciacionEjercicio", &d.PeriodExpense, r.PeriodExpense, false) },
		func() error { return amount("depreciacionRetiros", &d.Disposals, r.Disposals, false) },
		func() error { return amount("depreciacionOtrosAjustes", &d.OtherAdjustments, r.OtherAdjustments, true) },
		func() error {
			return amount("depreciacionAcumuladaHistorica", &d.HistoricalAccumulated, r.HistoricalAccumulated, false)
		},
		func() error {
			return amount("ajustePorInflacionDepreciacion", &d.InflationAdjustment, r.InflationAdjustment, true)
		},
		func() error {
			return amount("depreciacionAcumuladaAjustada", &d.AdjustedAccumulated, r.AdjustedAccumulated, false)
		},
	)
}

func (h *LedgerHandler) ListDepreciations(c *gin.Context) {
	var list []models.Depreciation
	h.list(c, &list, "Error al obtener depreciaciones")
}

func (h *LedgerHandler) GetDepreciation(c *gin.Context) {
	var d models.Depreciation
	if !h.find(c, &d, "Depreciación no encontrada", "Error al obtener depreciación") {
		return
	}
	util.Success(c, http.StatusOK, d)
}

func (h *LedgerHandler) CreateDepreciation(c *gin.Context) {
	h.saveDepreciation(c, true)
}

func (h *LedgerHandler) UpdateDepreciation(c *gin.Context) {
	h.saveDepreciation(c, false)
}

func (h *LedgerHandler) saveDepreciation(c *gin.Context, create bool) {
	db := h.DB.WithContext(c.Request.Context())
	var d models.Depreciation
	if !create {
		var stored models.Depreciation
		if !h.find(c, &stored, "Depreciación no encontrada", "Error al actualizar depreciación") {
			return
		}
		d = models.Depreciation{ID: stored.ID, AssetID: stored.AssetID, Year: stored.Year, CreatedAt: stored.CreatedAt}
	}
	var req depreciationReq
	if !bindJSON(c, &req) {
		return
	}
	if !req.resolve(c, db, &d.AssetID, &d.Year, create) {
		return
	}
	if err := req.apply(&d); err != nil {
		badRequest(c, err)
		return
	}
	if err := db.Save(&d).Error; err != nil {
		serverError(c, err, "Error al guardar depreciación")
		return
	}
	status := http.StatusOK
	if create {
		status = http.StatusCreated
	}
	util.Success(c, status, d)
}
