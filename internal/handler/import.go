package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/crisdel29/siscontevolucion/internal/importer"
	"github.com/crisdel29/siscontevolucion/internal/logger"
	"github.com/crisdel29/siscontevolucion/internal/middleware"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportHandler exposes the spreadsheet import pipeline.
type ImportHandler struct {
	Importer *importer.Importer
}

func NewImportHandler(imp *importer.Importer) *ImportHandler {
	return &ImportHandler{Importer: imp}
}

// multipartOverhead is the slack allowed on top of the file size for the
// multipart envelope.
const multipartOverhead = 64 << 10

func (h *ImportHandler) tooLarge(c *gin.Context) {
	util.Error(c, http.StatusRequestEntityTooLarge,
		fmt.Sprintf("El archivo excede el tamaño máximo permitido (%d MB)", h.Importer.MaxBytes()>>20))
}

// Upload stores the multipart "file" and returns its preview.
func (h *ImportHandler) Upload(c *gin.Context) {
	if limit := h.Importer.MaxBytes(); limit > 0 {
		if c.Request.ContentLength > limit+multipartOverhead {
			h.tooLarge(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	var userID *uint
	if user := middleware.CurrentUser(c); user != nil {
		id := user.ID
		userID = &id
	}

	fh, err := c.FormFile("file")
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		h.tooLarge(c)
		return
	}
	if err != nil {
		logger.Warn("upload without file", zap.Error(err))
		util.Error(c, http.StatusInternalServerError, "Error al procesar el archivo: "+importer.ErrNoFile.Error())
		return
	}
	f, err := fh.Open()
	if err != nil {
		serverError(c, err, "Error al procesar el archivo")
		return
	}
	defer f.Close()

	preview, err := h.Importer.Upload(c.Request.Context(), fh.Filename, f, userID)
	if errors.Is(err, importer.ErrFileTooLarge) {
		h.tooLarge(c)
		return
	}
	if err != nil {
		var perr *importer.ParseError
		if errors.As(err, &perr) {
			logger.Warn("workbook rejected", zap.String("file", fh.Filename), zap.Error(err))
			util.Error(c, http.StatusInternalServerError, "Error al procesar el archivo: "+perr.Error())
			return
		}
		serverError(c, err, "Error al procesar el archivo")
		return
	}
	util.Success(c, http.StatusOK, preview)
}

type distributeReq struct {
	ImportID string `json:"importId" binding:"required"`
}

// Distribute reconciles a previously uploaded workbook into the register.
func (h *ImportHandler) Distribute(c *gin.Context) {
	var req distributeReq
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.Importer.Distribute(c.Request.Context(), req.ImportID)
	if err != nil {
		var rerr *importer.ReconciliationError
		var perr *importer.ParseError
		switch {
		case errors.Is(err, importer.ErrImportNotFound):
			util.Error(c, http.StatusNotFound, err.Error())
		case errors.As(err, &rerr):
			util.ErrorWith(c, http.StatusInternalServerError, "Error al distribuir los datos: "+rerr.Error(), util.Response{
				"processed":  rerr.Processed,
				"fila":       rerr.Row,
				"rolledBack": rerr.RolledBack,
				"modo":       h.Importer.Mode(),
			})
		case errors.As(err, &perr):
			util.Error(c, http.StatusInternalServerError, "Error al distribuir los datos: "+perr.Error())
		default:
			serverError(c, err, "Error al distribuir los datos")
		}
		return
	}

	util.Success(c, http.StatusOK, gin.H{
		"message":               "Datos importados correctamente",
		"importId":              res.ImportID,
		"modo":                  res.Mode,
		"anio":                  res.Year,
		"procesados":            res.Processed,
		"creados":               res.Created,
		"actualizados":          res.Updated,
		"omitidos":              res.Skipped,
		"depreciacionesCreadas": res.DepreciationsCreated,
		"valoracionesCreadas":   res.ValuationsCreated,
		"fechasProvisionales":   res.PlaceholderDates,
	})
}

func (h *ImportHandler) List(c *gin.Context) {
	list, err := h.Importer.List(c.Request.Context())
	if err != nil {
		serverError(c, err, "Error al obtener importaciones")
		return
	}
	util.Success(c, http.StatusOK, list)
}

func (h *ImportHandler) Delete(c *gin.Context) {
	err := h.Importer.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, importer.ErrImportNotFound) {
		util.Error(c, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		serverError(c, err, "Error al eliminar importación")
		return
	}
	util.Success(c, http.StatusOK, util.Response{"message": "Importación eliminada"})
}
