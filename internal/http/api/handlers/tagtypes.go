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

// TagTypeHandler manages tag category endpoints.
type TagTypeHandler struct {
	db *gorm.DB
}

// NewTagTypeHandler constructs a TagTypeHandler.
func NewTagTypeHandler(db *gorm.DB) *TagTypeHandler {
	return &TagTypeHandler{db: db}
}

// createTagTypeRequest defines the request body for tag type creation.
type createTagTypeRequest struct {
	Name string `json:"name"`
}

// Create creates a tag type with the caller as creator.
func (h *TagTypeHandler) Create(c *gin.Context) {
	var body createTagTypeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	tagType := models.TagType{Name: name, CreatorID: CurrentUser(c).ID}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&tagType).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create tag type failed"})
		return
	}
	c.JSON(http.StatusCreated, tagTypeResponse(&tagType))
}

// List returns all tag types.
func (h *TagTypeHandler) List(c *gin.Context) {
	var rows []models.TagType
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list tag types failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, tagTypeResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tagtypes": out})
}

// Get returns a tag type by ID.
func (h *TagTypeHandler) Get(c *gin.Context) {
	tagType, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tagTypeResponse(tagType))
}

// Update renames a tag type. Only the creator may write.
func (h *TagTypeHandler) Update(c *gin.Context) {
	tagType, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, tagType.CreatorID) {
		return
	}

	var body createTagTypeRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.TagType{}).
		Where("id = ?", tagType.ID).Update("name", name).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a tag type and its tags. Only the creator may write.
func (h *TagTypeHandler) Delete(c *gin.Context) {
	tagType, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, tagType.CreatorID) {
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errTags := tx.Where("tag_type_id = ?", tagType.ID).Delete(&models.Tag{}).Error; errTags != nil {
			return errTags
		}
		return tx.Delete(&models.TagType{}, tagType.ID).Error
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TagTypeHandler) find(c *gin.Context) (*models.TagType, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var tagType models.TagType
	if errFind := h.db.WithContext(c.Request.Context()).First(&tagType, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &tagType, true
}

func tagTypeResponse(tagType *models.TagType) gin.H {
	return gin.H{
		"id":         tagType.ID,
		"name":       tagType.Name,
		"creator_id": tagType.CreatorID,
		"created_at": tagType.CreatedAt,
		"updated_at": tagType.UpdatedAt,
	}
}
