package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/models"
	"gorm.io/gorm"
)

// UserHandler serves the read-only user endpoints.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// List returns users ordered by join date. `?query=myself` returns only the
// caller's own record.
func (h *UserHandler) List(c *gin.Context) {
	if c.Query("query") == "myself" {
		var user models.User
		errFind := h.db.WithContext(c.Request.Context()).Preload("Groups").
			First(&user, CurrentUser(c).ID).Error
		if errFind != nil {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		c.JSON(http.StatusOK, userResponse(&user))
		return
	}

	var rows []models.User
	errFind := h.db.WithContext(c.Request.Context()).Preload("Groups").
		Order("date_joined DESC").Find(&rows).Error
	if errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, userResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// Get returns a user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var user models.User
	errFind := h.db.WithContext(c.Request.Context()).Preload("Groups").First(&user, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, userResponse(&user))
}

// userResponse serializes a user record, never exposing the password hash.
func userResponse(user *models.User) gin.H {
	groups := make([]string, 0, len(user.Groups))
	for _, group := range user.Groups {
		groups = append(groups, group.Name)
	}
	return gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"name":        user.Name,
		"email":       user.Email,
		"active":      user.Active,
		"groups":      groups,
		"date_joined": user.DateJoined,
	}
}
