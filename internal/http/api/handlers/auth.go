package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/models"
	"github.com/intelhub/backend/internal/security"
	"gorm.io/gorm"
)

// AuthTokenHandler issues expiring opaque API tokens.
type AuthTokenHandler struct {
	db     *gorm.DB
	expiry time.Duration
}

// NewAuthTokenHandler constructs an AuthTokenHandler with the refresh
// window in minutes.
func NewAuthTokenHandler(db *gorm.DB, expireMinutes int) *AuthTokenHandler {
	return &AuthTokenHandler{db: db, expiry: time.Duration(expireMinutes) * time.Minute}
}

// obtainTokenRequest defines the credential payload.
type obtainTokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ObtainToken validates credentials and returns the caller's token,
// refreshing the key in place when it has outlived the expiry window.
func (h *AuthTokenHandler) ObtainToken(c *gin.Context) {
	var body obtainTokenRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid request body."}})
		return
	}

	fieldErrors := gin.H{}
	if strings.TrimSpace(body.Username) == "" {
		fieldErrors["username"] = []string{"This field is required."}
	}
	if body.Password == "" {
		fieldErrors["password"] = []string{"This field is required."}
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, fieldErrors)
		return
	}

	ctx := c.Request.Context()

	var user models.User
	errFind := h.db.WithContext(ctx).Where("username = ?", body.Username).First(&user).Error
	if errFind != nil && !errors.Is(errFind, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	if errFind != nil || !user.Active || !security.CheckPassword(user.Password, body.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"Unable to log in with provided credentials."}})
		return
	}

	key, errIssue := h.issueToken(c, user.ID)
	if errIssue != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "issue token failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": key})
}

// issueToken returns the user's live token key, creating a token when none
// exists and rotating the key in place once the window has elapsed. The
// rotation is a single UPDATE so a concurrent reader never observes a user
// without a token.
func (h *AuthTokenHandler) issueToken(c *gin.Context, userID uint64) (string, error) {
	ctx := c.Request.Context()
	now := time.Now().UTC()

	var token models.AuthToken
	errFind := h.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		key, errKey := security.NewTokenKey()
		if errKey != nil {
			return "", errKey
		}
		record := models.AuthToken{Key: key, UserID: userID, CreatedAt: now}
		if errCreate := h.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
			return "", errCreate
		}
		return key, nil
	}
	if errFind != nil {
		return "", errFind
	}

	// Tokens expire strictly after the window elapses.
	if now.Sub(token.CreatedAt) <= h.expiry {
		return token.Key, nil
	}

	key, errKey := security.NewTokenKey()
	if errKey != nil {
		return "", errKey
	}
	errUpdate := h.db.WithContext(ctx).Model(&models.AuthToken{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"key": key, "created_at": now}).Error
	if errUpdate != nil {
		return "", errUpdate
	}
	return key, nil
}
