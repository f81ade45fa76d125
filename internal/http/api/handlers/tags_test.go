package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/models"
	"gorm.io/gorm"
)

func tagEngine(conn *gorm.DB) *gin.Engine {
	engine := newTestEngine(conn)
	authed := engine.Group("", RequireAuth())

	tagTypeHandler := NewTagTypeHandler(conn)
	authed.POST("/tagtypes", tagTypeHandler.Create)
	authed.PUT("/tagtypes/:id", tagTypeHandler.Update)
	authed.DELETE("/tagtypes/:id", tagTypeHandler.Delete)

	tagHandler := NewTagHandler(conn)
	authed.POST("/tags", tagHandler.Create)
	authed.GET("/tags", tagHandler.List)
	authed.DELETE("/tags/:id", tagHandler.Delete)

	commentHandler := NewCommentHandler(conn)
	authed.POST("/comments", commentHandler.Create)
	authed.PUT("/comments/:id", commentHandler.Update)

	portalHandler := NewPortalHandler(conn)
	authed.POST("/portals", portalHandler.Create)

	return engine
}

func TestTagLifecycle(t *testing.T) {
	conn := newTestConn(t)
	createTestUser(t, conn, "alice")
	engine := tagEngine(conn)

	if rec := request(engine, http.MethodPost, "/portals", "alice",
		[]byte(`{"guid":"guid-1","lat":30.0,"lng":120.0,"title":"Spot"}`)); rec.Code != http.StatusCreated {
		t.Fatalf("create portal: expected 201, got %d", rec.Code)
	}
	if rec := request(engine, http.MethodPost, "/tagtypes", "alice",
		[]byte(`{"name":"farm"}`)); rec.Code != http.StatusCreated {
		t.Fatalf("create tagtype: expected 201, got %d", rec.Code)
	}
	if rec := request(engine, http.MethodPost, "/tags", "alice",
		[]byte(`{"name":"good farm","tagtype_id":1,"portal_id":1}`)); rec.Code != http.StatusCreated {
		t.Fatalf("create tag: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Dangling references are rejected.
	if rec := request(engine, http.MethodPost, "/tags", "alice",
		[]byte(`{"name":"bad","tagtype_id":99,"portal_id":1}`)); rec.Code != http.StatusBadRequest {
		t.Fatalf("dangling tagtype: expected 400, got %d", rec.Code)
	}

	// Deleting the tag type cascades to its tags.
	if rec := request(engine, http.MethodDelete, "/tagtypes/1", "alice", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("delete tagtype: expected 204, got %d", rec.Code)
	}
	var count int64
	if errCount := conn.Model(&models.Tag{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count tags: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected tags removed with their type, got %d", count)
	}
}

func TestTagAndCommentOwnership(t *testing.T) {
	conn := newTestConn(t)
	createTestUser(t, conn, "alice")
	createTestUser(t, conn, "bob")
	engine := tagEngine(conn)

	for i, body := range []string{
		`{"guid":"guid-1","lat":30.0,"lng":120.0,"title":"Spot"}`,
		`{"name":"farm"}`,
		`{"name":"good farm","tagtype_id":1,"portal_id":1}`,
		`{"content":"nice one","portal_id":1}`,
	} {
		paths := []string{"/portals", "/tagtypes", "/tags", "/comments"}
		if rec := request(engine, http.MethodPost, paths[i], "alice", []byte(body)); rec.Code != http.StatusCreated {
			t.Fatalf("create %s: expected 201, got %d: %s", paths[i], rec.Code, rec.Body.String())
		}
	}

	cases := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodPut, "/tagtypes/1", `{"name":"renamed"}`},
		{http.MethodDelete, "/tags/1", ""},
		{http.MethodPut, "/comments/1", `{"content":"edited"}`},
	}
	for _, tc := range cases {
		rec := request(engine, tc.method, tc.target, "bob", []byte(tc.body))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s as non-owner: expected 403, got %d", tc.method, tc.target, rec.Code)
		}
	}

	// The owner can write.
	if rec := request(engine, http.MethodPut, "/comments/1", "alice",
		[]byte(`{"content":"edited"}`)); rec.Code != http.StatusOK {
		t.Fatalf("owner comment edit: expected 200, got %d", rec.Code)
	}
	var comment models.Comment
	if errFind := conn.First(&comment).Error; errFind != nil {
		t.Fatalf("find comment: %v", errFind)
	}
	if comment.Content != "edited" {
		t.Fatalf("expected edited content, got %q", comment.Content)
	}
}

func TestTagListFilterByPortal(t *testing.T) {
	conn := newTestConn(t)
	createTestUser(t, conn, "alice")
	engine := tagEngine(conn)

	for _, body := range []string{
		`{"guid":"guid-1","lat":30.0,"lng":120.0,"title":"A"}`,
		`{"guid":"guid-2","lat":31.0,"lng":121.0,"title":"B"}`,
	} {
		if rec := request(engine, http.MethodPost, "/portals", "alice", []byte(body)); rec.Code != http.StatusCreated {
			t.Fatalf("create portal: expected 201, got %d", rec.Code)
		}
	}
	if rec := request(engine, http.MethodPost, "/tagtypes", "alice",
		[]byte(`{"name":"farm"}`)); rec.Code != http.StatusCreated {
		t.Fatalf("create tagtype: expected 201, got %d", rec.Code)
	}
	for portalID := 1; portalID <= 2; portalID++ {
		body := fmt.Sprintf(`{"name":"tag-%d","tagtype_id":1,"portal_id":%d}`, portalID, portalID)
		if rec := request(engine, http.MethodPost, "/tags", "alice", []byte(body)); rec.Code != http.StatusCreated {
			t.Fatalf("create tag: expected 201, got %d", rec.Code)
		}
	}

	rec := request(engine, http.MethodGet, "/tags?portal_id=2", "alice", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); !strings.Contains(got, `"tag-2"`) || strings.Contains(got, `"tag-1"`) {
		t.Fatalf("expected only portal 2 tags, got %s", got)
	}
}
