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

// CommentHandler manages comment endpoints.
type CommentHandler struct {
	db *gorm.DB
}

// NewCommentHandler constructs a CommentHandler.
func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// createCommentRequest defines the request body for comment creation.
type createCommentRequest struct {
	Content  string `json:"content"`
	PortalID uint64 `json:"portal_id"`
}

// Create adds a comment to a portal with the caller as author.
func (h *CommentHandler) Create(c *gin.Context) {
	var body createCommentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	content := strings.TrimSpace(body.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing content"})
		return
	}

	ctx := c.Request.Context()
	if errRef := firstExists(h.db.WithContext(ctx), &models.Portal{}, body.PortalID); errRef != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown portal_id"})
		return
	}

	comment := models.Comment{
		Content:  content,
		PortalID: body.PortalID,
		AuthorID: CurrentUser(c).ID,
	}
	if errCreate := h.db.WithContext(ctx).Create(&comment).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create comment failed"})
		return
	}
	c.JSON(http.StatusCreated, commentResponse(&comment))
}

// List returns comments, optionally filtered by portal.
func (h *CommentHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Comment{})
	if portalQ := strings.TrimSpace(c.Query("portal_id")); portalQ != "" {
		if portalID, errParse := strconv.ParseUint(portalQ, 10, 64); errParse == nil {
			q = q.Where("portal_id = ?", portalID)
		}
	}

	var rows []models.Comment
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list comments failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, commentResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

// Get returns a comment by ID.
func (h *CommentHandler) Get(c *gin.Context) {
	comment, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, commentResponse(comment))
}

// updateCommentRequest defines the request body for comment updates.
type updateCommentRequest struct {
	Content *string `json:"content"`
}

// Update edits a comment body. Only the author may write.
func (h *CommentHandler) Update(c *gin.Context) {
	comment, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, comment.AuthorID) {
		return
	}

	var body updateCommentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Content == nil || strings.TrimSpace(*body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing content"})
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.Comment{}).
		Where("id = ?", comment.ID).Update("content", strings.TrimSpace(*body.Content)).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a comment. Only the author may write.
func (h *CommentHandler) Delete(c *gin.Context) {
	comment, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, comment.AuthorID) {
		return
	}
	if errDelete := h.db.WithContext(c.Request.Context()).Delete(&models.Comment{}, comment.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) find(c *gin.Context) (*models.Comment, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var comment models.Comment
	if errFind := h.db.WithContext(c.Request.Context()).First(&comment, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &comment, true
}

func commentResponse(comment *models.Comment) gin.H {
	return gin.H{
		"id":         comment.ID,
		"content":    comment.Content,
		"portal_id":  comment.PortalID,
		"author_id":  comment.AuthorID,
		"created_at": comment.CreatedAt,
		"updated_at": comment.UpdatedAt,
	}
}
