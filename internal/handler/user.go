package handler

import (
	"net/http"
	"strings"

	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
)

const minPasswordLen = 8

// ListUsers returns every user ordered by username, without password hashes.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.DB.WithContext(c.Request.Context()).Order("username").Find(&users).Error; err != nil {
		serverError(c, err, "Error al obtener usuarios")
		return
	}
	items := make([]gin.H, 0, len(users))
	for i := range users {
		items = append(items, userResp(&users[i]))
	}
	util.Success(c, http.StatusOK, items)
}

type createUserReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
	Name     string `json:"nombre" binding:"required"`
	Email    string `json:"email"`
}

func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if !bindJSON(c, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = models.RoleAssistant
	}
	if !models.ValidRole(req.Role) {
		util.Error(c, http.StatusBadRequest, "Rol inválido")
		return
	}
	if len(req.Password) < minPasswordLen {
		util.Error(c, http.StatusBadRequest, "La contraseña debe tener al menos 8 caracteres")
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var count int64
	if err := db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", req.Username).
		Count(&count).Error; err != nil {
		serverError(c, err, "Error al crear usuario")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusBadRequest, "El usuario ya existe")
		return
	}

	hash, err := hashPassword(req.Password, h.BcryptCost)
	if err != nil {
		serverError(c, err, "Error al crear usuario")
		return
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
	}
	if err := db.Create(&user).Error; err != nil {
		serverError(c, err, "Error al crear usuario")
		return
	}
	util.Success(c, http.StatusCreated, userResp(&user))
}
