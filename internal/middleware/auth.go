package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/crisdel29/siscontevolucion/internal/models"
	"github.com/crisdel29/siscontevolucion/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys and the session cookie name.
const (
	CurrentUserKey = "currentUser"
	SessionIDKey   = "sessionID"
	CookieName     = "sisevo_token"
)

const (
	msgNotLoggedIn = "No ha iniciado sesión"
	msgForbidden   = "No tiene permisos para acceder a este recurso"
)

// CurrentUser returns the user set by Auth, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// tokenFrom reads the token from the Authorization header, the token query
// parameter or the session cookie, in that order.
func tokenFrom(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if t := c.Query("token"); t != "" {
		return t
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return cookie
	}
	return ""
}

// Auth validates the JWT and its session row and puts the user into the context.
func Auth(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFrom(c)
		if tokenStr == "" {
			util.Error(c, http.StatusUnauthorized, msgNotLoggedIn)
			c.Abort()
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil || claims.ID == "" {
			util.Error(c, http.StatusUnauthorized, msgNotLoggedIn)
			c.Abort()
			return
		}

		var session models.Session
		err = db.WithContext(c.Request.Context()).
			Where("id = ? AND user_id = ?", claims.ID, claims.UserID).
			First(&session).Error
		if err != nil || session.Revoked || session.ExpiresAt.Before(time.Now()) {
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusInternalServerError, "Error al validar la sesión")
			} else {
				util.Error(c, http.StatusUnauthorized, msgNotLoggedIn)
			}
			c.Abort()
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusUnauthorized, msgNotLoggedIn)
			} else {
				util.Error(c, http.StatusInternalServerError, "Error al obtener el usuario")
			}
			c.Abort()
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Set(SessionIDKey, session.ID)
		c.Next()
	}
}

// RequireRole rejects users whose role is not in roles with 403.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, msgNotLoggedIn)
			c.Abort()
			return
		}
		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}
		util.Error(c, http.StatusForbidden, msgForbidden)
		c.Abort()
	}
}
