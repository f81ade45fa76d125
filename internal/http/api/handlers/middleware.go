package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/models"
	"github.com/intelhub/backend/internal/security"
	"gorm.io/gorm"
)

const currentUserKey = "current_user"

// Authenticate resolves the caller from Token or Basic credentials and
// stores it in the request context. Missing or invalid credentials leave
// the request anonymous; combine with RequireAuth to enforce sign-in.
func Authenticate(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, db); user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	if value, ok := c.Get(currentUserKey); ok {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}

// resolveUser checks token credentials first, then HTTP basic.
func resolveUser(c *gin.Context, db *gorm.DB) *models.User {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(header, "Token ") {
		return userForTokenKey(c, db, strings.TrimSpace(strings.TrimPrefix(header, "Token ")))
	}
	if username, password, ok := c.Request.BasicAuth(); ok {
		return userForBasicAuth(c, db, username, password)
	}
	return nil
}

// userForTokenKey loads the user owning a live token key.
func userForTokenKey(c *gin.Context, db *gorm.DB, key string) *models.User {
	if key == "" {
		return nil
	}
	var token models.AuthToken
	errFind := db.WithContext(c.Request.Context()).Where("key = ?", key).First(&token).Error
	if errFind != nil {
		return nil
	}
	var user models.User
	if errUser := db.WithContext(c.Request.Context()).First(&user, token.UserID).Error; errUser != nil {
		return nil
	}
	if !user.Active {
		return nil
	}
	return &user
}

// userForBasicAuth validates a username/password pair.
func userForBasicAuth(c *gin.Context, db *gorm.DB, username, password string) *models.User {
	var user models.User
	errFind := db.WithContext(c.Request.Context()).Where("username = ?", username).First(&user).Error
	if errFind != nil {
		return nil
	}
	if !user.Active || !security.CheckPassword(user.Password, password) {
		return nil
	}
	return &user
}
