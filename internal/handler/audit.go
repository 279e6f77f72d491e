package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuditHandler lists the audit trail for administrators.
type AuditHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewAuditHandler(db *gorm.DB, encryptKey string) *AuditHandler {
	return &AuditHandler{DB: db, EncryptKey: encryptKey}
}

type auditResp struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"usuarioId"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// List pages the audit log, newest first. Filters: start and end
// (YYYY-MM-DD, end inclusive) and usuario.
func (h *AuditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}

	base := h.DB.WithContext(c.Request.Context()).Model(&models.AuditLog{})
	if s := c.Query("start"); s != "" {
		start, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Fecha de inicio inválida")
			return
		}
		base = base.Where("created_at >= ?", start)
	}
	if s := c.Query("end"); s != "" {
		end, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Fecha de fin inválida")
			return
		}
		base = base.Where("created_at < ?", end.Add(24*time.Hour))
	}
	if s := c.Query("usuario"); s != "" {
		uid, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "Usuario inválido")
			return
		}
		base = base.Where("user_id = ?", uid)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		serverError(c, err, "Error al obtener la auditoría")
		return
	}

	var logs []models.AuditLog
	if err := base.Order("created_at DESC, id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&logs).Error; err != nil {
		serverError(c, err, "Error al obtener la auditoría")
		return
	}

	items := make([]auditResp, 0, len(logs))
	for _, l := range logs {
		items = append(items, auditResp{
			ID:        l.ID,
			UserID:    l.UserID,
			Method:    l.Method,
			Path:      util.DecryptField(h.EncryptKey, l.PathEnc),
			Action:    util.DecryptField(h.EncryptKey, l.ActionEnc),
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		})
	}

	util.Success(c, http.StatusOK, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
