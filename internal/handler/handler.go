package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/logger"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	msgInvalidID     = "ID inválido"
	msgInvalidParams = "Parámetros inválidos"
	msgMissingFields = "Faltan campos requeridos"
)

// parseID reads the :id path parameter, answering 400 when it is not a
// positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.Error(c, http.StatusBadRequest, msgInvalidParams+": "+err.Error())
		return false
	}
	return true
}

// yearFilter reads ?anio=. ok is false when a response was already written.
func yearFilter(c *gin.Context) (year int, set bool, ok bool) {
	s := strings.TrimSpace(c.Query("anio"))
	if s == "" {
		return 0, false, true
	}
	y, err := util.ParseYear("anio", s)
	if err != nil {
		badRequest(c, err)
		return 0, false, false
	}
	return y, true, true
}

// badRequest writes a 400 for validation failures.
func badRequest(c *gin.Context, err error) {
	var verr *util.ValidationError
	if errors.As(err, &verr) {
		util.ErrorWith(c, http.StatusBadRequest, verr.Error(), util.Response{"campo": verr.Field})
		return
	}
	util.Error(c, http.StatusBadRequest, err.Error())
}

// dbError maps a lookup error: 404 for missing rows, 500 otherwise.
func dbError(c *gin.Context, err error, notFound, failed string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Error(c, http.StatusNotFound, notFound)
		return
	}
	serverError(c, err, failed)
}

func serverError(c *gin.Context, err error, msg string) {
	logger.ErrorCtx(c.Request.Context(), err,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path))
	util.Error(c, http.StatusInternalServerError, msg)
}

// currentYear is replaced in tests.
var currentYear = func() int { return time.Now().Year() }

func optionalText(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
