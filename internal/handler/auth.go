package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/config"
	"github.com/crisdel29/siscontevolucion/internal/logger"
	"github.com/crisdel29/siscontevolucion/internal/middleware"
	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxLoginFailures = 5
	lockDuration     = 10 * time.Minute

	AdminUsername = "admin"
)

const msgBadCredentials = "Usuario o contraseña incorrectos"

// AuthHandler serves login, logout, the current user and admin bootstrap.
type AuthHandler struct {
	DB           *gorm.DB
	JWTSecret    string
	Issuer       string
	TokenTTL     time.Duration
	BcryptCost   int
	SecureCookie bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	ttlHours := cfg.JWT.ExpireHours
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &AuthHandler{
		DB:           db,
		JWTSecret:    cfg.JWT.Secret,
		Issuer:       cfg.JWT.Issuer,
		TokenTTL:     time.Duration(ttlHours) * time.Hour,
		BcryptCost:   cfg.Security.BcryptCost,
		SecureCookie: cfg.Security.SecureCookie,
	}
}

func userResp(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role,
		"nombre":   u.Name,
		"email":    u.Email,
	}
}

// ---------- login ----------

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, msgBadCredentials)
		return
	}
	req.Username = strings.TrimSpace(req.Username)

	var user models.User
	err := h.DB.Where("LOWER(username) = LOWER(?)", req.Username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusBadRequest, msgBadCredentials)
		} else {
			serverError(c, err, "Error al iniciar sesión")
		}
		return
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		util.Error(c, http.StatusBadRequest, "Cuenta bloqueada temporalmente, intente más tarde")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxLoginFailures {
			until := now.Add(lockDuration)
			user.LockedUntil = &until
			user.FailedLoginAttempts = 0
			logger.Warn("account locked", zap.String("username", user.Username))
		}
		_ = h.DB.Save(&user).Error
		util.Error(c, http.StatusBadRequest, msgBadCredentials)
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = c.ClientIP()
	if err := h.DB.Save(&user).Error; err != nil {
		serverError(c, err, "Error al iniciar sesión")
		return
	}

	sessionID := uuid.NewString()
	token, expires, err := util.GenerateToken(util.TokenParams{
		Secret:    h.JWTSecret,
		Issuer:    h.Issuer,
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sessionID,
		TTL:       h.TokenTTL,
	})
	if err != nil {
		serverError(c, err, "Error al iniciar sesión")
		return
	}
	session := models.Session{ID: sessionID, UserID: user.ID, ExpiresAt: expires}
	if err := h.DB.Create(&session).Error; err != nil {
		serverError(c, err, "Error al iniciar sesión")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, token, int(time.Until(expires).Seconds()), "/", "", h.SecureCookie, true)

	util.Success(c, http.StatusOK, util.Response{
		"message": "Inicio de sesión exitoso",
		"user":    userResp(&user),
		"token":   token,
	})
}

// ---------- logout ----------

func (h *AuthHandler) Logout(c *gin.Context) {
	if sid := c.GetString(middleware.SessionIDKey); sid != "" {
		if err := h.DB.Model(&models.Session{}).Where("id = ?", sid).Update("revoked", true).Error; err != nil {
			serverError(c, err, "Error al cerrar sesión")
			return
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, "", -1, "/", "", h.SecureCookie, true)
	util.Success(c, http.StatusOK, util.Response{"message": "Sesión cerrada correctamente"})
}

// ---------- current user ----------

func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "No ha iniciado sesión")
		return
	}
	util.Success(c, http.StatusOK, userResp(user))
}

// ---------- admin bootstrap ----------

// EnsureAdmin creates the admin user when missing and returns its generated
// password. created is false when the admin already exists.
func EnsureAdmin(db *gorm.DB, bcryptCost int) (password string, created bool, err error) {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", AdminUsername).Count(&count).Error; err != nil {
		return "", false, fmt.Errorf("find admin: %w", err)
	}
	if count > 0 {
		return "", false, nil
	}

	password, err = util.RandomString(16)
	if err != nil {
		return "", false, err
	}
	hash, err := hashPassword(password, bcryptCost)
	if err != nil {
		return "", false, err
	}
	admin := models.User{
		Username:     AdminUsername,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Name:         "Administrador",
		Email:        "admin@siscont.local",
	}
	if err := db.Create(&admin).Error; err != nil {
		return "", false, fmt.Errorf("create admin: %w", err)
	}
	logger.Info("admin user created")
	return password, true, nil
}

func (h *AuthHandler) Setup(c *gin.Context) {
	password, created, err := EnsureAdmin(h.DB.WithContext(c.Request.Context()), h.BcryptCost)
	if err != nil {
		serverError(c, err, "Error al crear usuario administrador")
		return
	}
	if !created {
		util.Success(c, http.StatusOK, util.Response{"message": "Usuario administrador ya existe"})
		return
	}
	util.Success(c, http.StatusCreated, util.Response{
		"message": "Usuario administrador creado con éxito",
		"credentials": gin.H{
			"username": AdminUsername,
			"password": password,
		},
	})
}

func hashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
