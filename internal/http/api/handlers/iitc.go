package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// intelLinkTemplate embeds the portal coordinates both as map center and as
// a marker point.
const intelLinkTemplate = "https://ingress.com/intel?ll=%s,%s&z=17&pll=%s,%s"

// Localized client-facing messages for the ingest endpoint.
const (
	msgWhoAreYou       = "你谁啊？"
	msgWhatAreYouDoing = "你瞅啥？"
	msgContactSupport  = "请通过tg/GitHub联系@bllli"
)

// errMissingField marks an ingest record lacking an expected field.
var errMissingField = errors.New("iitc: missing expected field")

// IITCHandler ingests portal location records uploaded by the IITC plugin.
type IITCHandler struct {
	db *gorm.DB
}

// NewIITCHandler constructs an IITCHandler.
func NewIITCHandler(db *gorm.DB) *IITCHandler {
	return &IITCHandler{db: db}
}

// iitcRecord is one parsed upload record.
type iitcRecord struct {
	GUID      string
	Lat       float64
	Lng       float64
	Image     string
	Title     string
	Timestamp int64
	Raw       json.RawMessage
}

// Ingest accepts a single record (?type=single) or an ordered sequence
// (?type=many) and upserts each by guid or derived link. Records are
// processed sequentially with no transaction: a malformed record aborts the
// batch but keeps earlier writes.
func (h *IITCHandler) Ingest(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": msgWhoAreYou})
		return
	}

	switch c.Query("type") {
	case "single":
		var raw json.RawMessage
		if errBind := c.ShouldBindJSON(&raw); errBind != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": msgContactSupport})
			return
		}
		if errProcess := h.process(c, raw, user); errProcess != nil {
			h.fail(c, errProcess)
			return
		}
	case "many":
		var raws []json.RawMessage
		if errBind := c.ShouldBindJSON(&raws); errBind != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": msgContactSupport})
			return
		}
		for _, raw := range raws {
			if errProcess := h.process(c, raw, user); errProcess != nil {
				h.fail(c, errProcess)
				return
			}
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgWhatAreYouDoing})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"detail": "ok"})
}

// fail maps a processing error to the client response.
func (h *IITCHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, errMissingField) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": msgContactSupport})
		return
	}
	log.WithError(err).Error("iitc ingest failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "ingest failed"})
}

// process parses and upserts one record.
func (h *IITCHandler) process(c *gin.Context, raw json.RawMessage, user *models.User) error {
	record, errParse := parseIITCRecord(raw)
	if errParse != nil {
		return errParse
	}
	return h.upsert(c, record, user)
}

// parseIITCRecord decodes one upload record, requiring every expected field
// to be present.
func parseIITCRecord(raw json.RawMessage) (iitcRecord, error) {
	var body struct {
		GUID *string `json:"guid"`
		Data *struct {
			LatE6     *int64  `json:"latE6"`
			LngE6     *int64  `json:"lngE6"`
			Image     *string `json:"image"`
			Title     *string `json:"title"`
			Timestamp *int64  `json:"timestamp"`
		} `json:"data"`
	}
	if errUnmarshal := json.Unmarshal(raw, &body); errUnmarshal != nil {
		return iitcRecord{}, errMissingField
	}
	if body.GUID == nil || body.Data == nil {
		return iitcRecord{}, errMissingField
	}
	data := body.Data
	if data.LatE6 == nil || data.LngE6 == nil || data.Image == nil || data.Title == nil || data.Timestamp == nil {
		return iitcRecord{}, errMissingField
	}
	return iitcRecord{
		GUID:      *body.GUID,
		Lat:       float64(*data.LatE6) / 1e6,
		Lng:       float64(*data.LngE6) / 1e6,
		Image:     *data.Image,
		Title:     *data.Title,
		Timestamp: *data.Timestamp,
		Raw:       raw,
	}, nil
}

// upsert creates the portal, or overwrites the record matched by guid or
// link. When both lookups hit different rows the link match is the target;
// the guid match is left untouched.
func (h *IITCHandler) upsert(c *gin.Context, record iitcRecord, user *models.User) error {
	ctx := c.Request.Context()
	link := IntelLink(record.Lat, record.Lng)

	byGUID, errGUID := h.lookup(c, "guid = ?", record.GUID)
	if errGUID != nil {
		return errGUID
	}
	byLink, errLink := h.lookup(c, "link = ?", link)
	if errLink != nil {
		return errLink
	}

	if byGUID == nil && byLink == nil {
		portal := models.Portal{
			GUID:      record.GUID,
			Link:      link,
			Lat:       record.Lat,
			Lng:       record.Lng,
			Image:     record.Image,
			Title:     record.Title,
			Timestamp: record.Timestamp,
			AuthorID:  user.ID,
			Raw:       datatypes.JSON(record.Raw),
		}
		return h.db.WithContext(ctx).Create(&portal).Error
	}

	target := byLink
	if target == nil {
		target = byGUID
	}
	return h.db.WithContext(ctx).Model(&models.Portal{}).
		Where("id = ?", target.ID).
		Updates(map[string]any{
			"guid":      record.GUID,
			"link":      link,
			"lat":       record.Lat,
			"lng":       record.Lng,
			"image":     record.Image,
			"title":     record.Title,
			"timestamp": record.Timestamp,
			"raw":       datatypes.JSON(record.Raw),
		}).Error
}

// lookup finds a portal by a single-column condition, mapping not-found to nil.
func (h *IITCHandler) lookup(c *gin.Context, query string, arg any) (*models.Portal, error) {
	var portal models.Portal
	errFind := h.db.WithContext(c.Request.Context()).Where(query, arg).First(&portal).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if errFind != nil {
		return nil, errFind
	}
	return &portal, nil
}

// IntelLink renders the canonical intel map URL for a coordinate pair.
func IntelLink(lat, lng float64) string {
	latStr := formatCoord(lat)
	lngStr := formatCoord(lng)
	return fmt.Sprintf(intelLinkTemplate, latStr, lngStr, latStr, lngStr)
}

// formatCoord renders a coordinate without exponent notation.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
