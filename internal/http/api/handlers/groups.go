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

// GroupHandler serves the read-only group endpoints.
type GroupHandler struct {
	db *gorm.DB
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{db: db}
}

// List returns all groups.
func (h *GroupHandler) List(c *gin.Context) {
	var rows []models.Group
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list groups failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, groupResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"groups": out})
}

// Get returns a group by ID.
func (h *GroupHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var group models.Group
	if errFind := h.db.WithContext(c.Request.Context()).First(&group, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, groupResponse(&group))
}

func groupResponse(group *models.Group) gin.H {
	return gin.H{
		"id":         group.ID,
		"name":       group.Name,
		"is_default": group.IsDefault,
	}
}
