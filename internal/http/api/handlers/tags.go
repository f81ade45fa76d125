package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	dbutil "github.com/intelhub/backend/internal/db"
	"github.com/intelhub/backend/internal/models"
	"gorm.io/gorm"
)

// TagHandler manages tag endpoints.
type TagHandler struct {
	db *gorm.DB
}

// NewTagHandler constructs a TagHandler.
func NewTagHandler(db *gorm.DB) *TagHandler {
	return &TagHandler{db: db}
}

// createTagRequest defines the request body for tag creation.
type createTagRequest struct {
	Name      string `json:"name"`
	TagTypeID uint64 `json:"tagtype_id"`
	PortalID  uint64 `json:"portal_id"`
}

// Create attaches a tag to a portal with the caller as creator.
func (h *TagHandler) Create(c *gin.Context) {
	var body createTagRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}

	ctx := c.Request.Context()
	if errRef := firstExists(h.db.WithContext(ctx), &models.TagType{}, body.TagTypeID); errRef != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tagtype_id"})
		return
	}
	if errRef := firstExists(h.db.WithContext(ctx), &models.Portal{}, body.PortalID); errRef != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown portal_id"})
		return
	}

	tag := models.Tag{
		Name:      name,
		TagTypeID: body.TagTypeID,
		PortalID:  body.PortalID,
		CreatorID: CurrentUser(c).ID,
	}
	if errCreate := h.db.WithContext(ctx).Create(&tag).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create tag failed"})
		return
	}
	c.JSON(http.StatusCreated, tagResponse(&tag))
}

// List returns tags, optionally filtered by portal, type, or name.
func (h *TagHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Tag{})
	if portalQ := strings.TrimSpace(c.Query("portal_id")); portalQ != "" {
		if portalID, errParse := strconv.ParseUint(portalQ, 10, 64); errParse == nil {
			q = q.Where("portal_id = ?", portalID)
		}
	}
	if typeQ := strings.TrimSpace(c.Query("tagtype_id")); typeQ != "" {
		if typeID, errParse := strconv.ParseUint(typeQ, 10, 64); errParse == nil {
			q = q.Where("tag_type_id = ?", typeID)
		}
	}
	if nameQ := strings.TrimSpace(c.Query("name")); nameQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+nameQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern)
	}

	var rows []models.Tag
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list tags failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, tagResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"tags": out})
}

// Get returns a tag by ID.
func (h *TagHandler) Get(c *gin.Context) {
	tag, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, tagResponse(tag))
}

// updateTagRequest defines the request body for tag updates.
type updateTagRequest struct {
	Name      *string `json:"name"`
	TagTypeID *uint64 `json:"tagtype_id"`
}

// Update modifies a tag. Only the creator may write.
func (h *TagHandler) Update(c *gin.Context) {
	tag, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, tag.CreatorID) {
		return
	}

	var body updateTagRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name != "" {
			updates["name"] = name
		}
	}
	if body.TagTypeID != nil {
		if errRef := firstExists(h.db.WithContext(c.Request.Context()), &models.TagType{}, *body.TagTypeID); errRef != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown tagtype_id"})
			return
		}
		updates["tag_type_id"] = *body.TagTypeID
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, tagResponse(tag))
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.Tag{}).
		Where("id = ?", tag.ID).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a tag. Only the creator may write.
func (h *TagHandler) Delete(c *gin.Context) {
	tag, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, tag.CreatorID) {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.Tag{}, tag.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *TagHandler) find(c *gin.Context) (*models.Tag, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var tag models.Tag
	if errFind := h.db.WithContext(c.Request.Context()).First(&tag, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &tag, true
}

func tagResponse(tag *models.Tag) gin.H {
	return gin.H{
		"id":         tag.ID,
		"name":       tag.Name,
		"tagtype_id": tag.TagTypeID,
		"portal_id":  tag.PortalID,
		"creator_id": tag.CreatorID,
		"created_at": tag.CreatedAt,
		"updated_at": tag.UpdatedAt,
	}
}

// firstExists returns an error when no record of the given model has the id.
func firstExists(q *gorm.DB, model any, id uint64) error {
	if id == 0 {
		return gorm.ErrRecordNotFound
	}
	return q.Select("id").First(model, id).Error
}
