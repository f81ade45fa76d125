package handlers

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/intelhub/backend/internal/db"
	"github.com/intelhub/backend/internal/models"
	"github.com/intelhub/backend/internal/security"
	"gorm.io/gorm"
)

const testPassword = "correct horse"

// newTestConn opens a migrated throwaway SQLite database.
func newTestConn(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "intelhub-test.db")
	conn, err := db.Open(dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

// createTestUser inserts an active account with testPassword.
func createTestUser(t *testing.T, conn *gorm.DB, username string) *models.User {
	t.Helper()
	hash, errHash := security.HashPassword(testPassword)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{Username: username, Password: hash, Active: true}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("create user: %v", errCreate)
	}
	return &user
}

// newTestEngine builds a release-mode gin engine with the identify middleware.
func newTestEngine(conn *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Authenticate(conn))
	return engine
}

// request performs a JSON request against the engine. A non-empty username
// attaches basic auth credentials using testPassword.
func request(engine *gin.Engine, method, target, username string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.SetBasicAuth(username, testPassword)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

// requestWithToken performs a request authenticated by a token key.
func requestWithToken(engine *gin.Engine, method, target, key string) *httptest.ResponseRecorder {
	return requestWithTokenBody(engine, method, target, key, nil)
}

// requestWithTokenBody performs a JSON request authenticated by a token key.
func requestWithTokenBody(engine *gin.Engine, method, target, key string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+key)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}
