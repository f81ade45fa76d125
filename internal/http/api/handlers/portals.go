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

// PortalHandler manages portal CRUD endpoints.
type PortalHandler struct {
	db *gorm.DB
}

// NewPortalHandler constructs a PortalHandler.
func NewPortalHandler(db *gorm.DB) *PortalHandler {
	return &PortalHandler{db: db}
}

// createPortalRequest defines the request body for portal creation.
type createPortalRequest struct {
	GUID      string  `json:"guid"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Image     string  `json:"image"`
	Title     string  `json:"title"`
	Timestamp int64   `json:"timestamp"`
}

// Create creates a portal with the caller as author. The link is derived
// from the coordinates, same as bulk ingest.
func (h *PortalHandler) Create(c *gin.Context) {
	var body createPortalRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	guid := strings.TrimSpace(body.GUID)
	if guid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing guid"})
		return
	}

	portal := models.Portal{
		GUID:      guid,
		Link:      IntelLink(body.Lat, body.Lng),
		Lat:       body.Lat,
		Lng:       body.Lng,
		Image:     strings.TrimSpace(body.Image),
		Title:     strings.TrimSpace(body.Title),
		Timestamp: body.Timestamp,
		AuthorID:  CurrentUser(c).ID,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&portal).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create portal failed"})
		return
	}
	c.JSON(http.StatusCreated, portalResponse(&portal))
}

// List returns portals, optionally filtered by title or guid.
func (h *PortalHandler) List(c *gin.Context) {
	var (
		titleQ = strings.TrimSpace(c.Query("title"))
		guidQ  = strings.TrimSpace(c.Query("guid"))
	)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Portal{})
	if titleQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+titleQ+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "title"), pattern)
	}
	if guidQ != "" {
		q = q.Where("guid = ?", guidQ)
	}

	var rows []models.Portal
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list portals failed"})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, portalResponse(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"portals": out})
}

// Get returns a portal by ID.
func (h *PortalHandler) Get(c *gin.Context) {
	portal, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, portalResponse(portal))
}

// updatePortalRequest defines the request body for portal updates.
type updatePortalRequest struct {
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	Image     *string  `json:"image"`
	Title     *string  `json:"title"`
	Timestamp *int64   `json:"timestamp"`
}

// Update modifies a portal. Only the author may write; moving the portal
// recomputes its link.
func (h *PortalHandler) Update(c *gin.Context) {
	portal, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, portal.AuthorID) {
		return
	}

	var body updatePortalRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	lat, lng := portal.Lat, portal.Lng
	if body.Lat != nil {
		lat = *body.Lat
	}
	if body.Lng != nil {
		lng = *body.Lng
	}

	updates := map[string]any{}
	if body.Lat != nil || body.Lng != nil {
		updates["lat"] = lat
		updates["lng"] = lng
		updates["link"] = IntelLink(lat, lng)
	}
	if body.Image != nil {
		updates["image"] = strings.TrimSpace(*body.Image)
	}
	if body.Title != nil {
		updates["title"] = strings.TrimSpace(*body.Title)
	}
	if body.Timestamp != nil {
		updates["timestamp"] = *body.Timestamp
	}
	if len(updates) == 0 {
		c.JSON(http.StatusOK, portalResponse(portal))
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.Portal{}).
		Where("id = ?", portal.ID).Updates(updates).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete removes a portal and its dependent tags and comments.
func (h *PortalHandler) Delete(c *gin.Context) {
	portal, ok := h.find(c)
	if !ok {
		return
	}
	if !isOwner(c, portal.AuthorID) {
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errTags := tx.Where("portal_id = ?", portal.ID).Delete(&models.Tag{}).Error; errTags != nil {
			return errTags
		}
		if errComments := tx.Where("portal_id = ?", portal.ID).Delete(&models.Comment{}).Error; errComments != nil {
			return errComments
		}
		return tx.Delete(&models.Portal{}, portal.ID).Error
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

// find loads the portal addressed by the :id param, writing the error
// response on failure.
func (h *PortalHandler) find(c *gin.Context) (*models.Portal, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return nil, false
	}
	var portal models.Portal
	if errFind := h.db.WithContext(c.Request.Context()).First(&portal, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return nil, false
	}
	return &portal, true
}

// portalResponse serializes a portal record.
func portalResponse(portal *models.Portal) gin.H {
	return gin.H{
		"id":         portal.ID,
		"guid":       portal.GUID,
		"link":       portal.Link,
		"lat":        portal.Lat,
		"lng":        portal.Lng,
		"image":      portal.Image,
		"title":      portal.Title,
		"timestamp":  portal.Timestamp,
		"author_id":  portal.AuthorID,
		"created_at": portal.CreatedAt,
		"updated_at": portal.UpdatedAt,
	}
}

// isOwner enforces the author-only write rule, writing the 403 response
// when the caller does not own the record.
func isOwner(c *gin.Context, ownerID uint64) bool {
	user := CurrentUser(c)
	if user == nil || user.ID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		return false
	}
	return true
}
