package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/crisdel29/siscontevolucion/internal/report"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves on-screen reports and their XLSX export.
type ReportHandler struct {
	Engine *report.Engine
}

func NewReportHandler(e *report.Engine) *ReportHandler {
	return &ReportHandler{Engine: e}
}

func tipoParam(c *gin.Context) string {
	return c.DefaultQuery("tipo", string(report.KindFormato71))
}

// params reads ?tipo= (default formato71) and ?anio= (default current year).
func (h *ReportHandler) params(c *gin.Context) (report.Kind, report.Period, bool) {
	k, err := report.ParseKind(tipoParam(c))
	if err != nil {
		util.ErrorWith(c, http.StatusBadRequest, err.Error(), util.Response{"campo": "tipo"})
		return "", report.Period{}, false
	}
	p, err := report.ParsePeriod(c.DefaultQuery("anio", strconv.Itoa(currentYear())))
	if err != nil {
		util.ErrorWith(c, http.StatusBadRequest, err.Error(), util.Response{"campo": "anio"})
		return "", report.Period{}, false
	}
	return k, p, true
}

func (h *ReportHandler) build(c *gin.Context) (*report.Sheet, report.Kind, report.Period, bool) {
	k, p, ok := h.params(c)
	if !ok {
		return nil, "", report.Period{}, false
	}
	s, err := h.Engine.Build(c.Request.Context(), k, p)
	if err != nil {
		if errors.Is(err, report.ErrUnknownKind) {
			util.Error(c, http.StatusBadRequest, err.Error())
		} else {
			serverError(c, err, "Error al generar reporte")
		}
		return nil, "", report.Period{}, false
	}
	return s, k, p, true
}

func (h *ReportHandler) Show(c *gin.Context) {
	s, _, _, ok := h.build(c)
	if !ok {
		return
	}
	util.Success(c, http.StatusOK, s)
}

func (h *ReportHandler) Periods(c *gin.Context) {
	years, err := h.Engine.Periods(c.Request.Context())
	if err != nil {
		serverError(c, err, "Error al obtener periodos")
		return
	}
	util.Success(c, http.StatusOK, years)
}

// Export renders the report as an XLSX attachment.
func (h *ReportHandler) Export(c *gin.Context) {
	s, _, p, ok := h.build(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, s); err != nil {
		serverError(c, err, "Error al exportar reporte")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, report.FileName(tipoParam(c), p)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
