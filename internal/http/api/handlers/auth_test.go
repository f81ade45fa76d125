package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/intelhub/backend/internal/models"
)

func TestObtainToken_CreatesSingleToken(t *testing.T) {
	conn := newTestConn(t)
	user := createTestUser(t, conn, "alice")
	engine := newTestEngine(conn)
	engine.POST("/auth-token", NewAuthTokenHandler(conn, 1).ObtainToken)

	rec := request(engine, http.MethodPost, "/auth-token", "",
		[]byte(`{"username":"alice","password":"correct horse"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if len(resp.Token) != 40 {
		t.Fatalf("expected 40-char token key, got %q", resp.Token)
	}

	var count int64
	if errCount := conn.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).Count(&count).Error; errCount != nil {
		t.Fatalf("count tokens: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected exactly one token record, got %d", count)
	}
}

func TestObtainToken_ReusesKeyWithinWindow(t *testing.T) {
	conn := newTestConn(t)
	createTestUser(t, conn, "alice")
	engine := newTestEngine(conn)
	engine.POST("/auth-token", NewAuthTokenHandler(conn, 1).ObtainToken)

	body := []byte(`{"username":"alice","password":"correct horse"}`)
	first := request(engine, http.MethodPost, "/auth-token", "", body)
	second := request(engine, http.MethodPost, "/auth-token", "", body)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("expected 200/200, got %d/%d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected same token within window, got %s then %s", first.Body.String(), second.Body.String())
	}

	var count int64
	if errCount := conn.Model(&models.AuthToken{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count tokens: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected one token record, got %d", count)
	}
}

func TestObtainToken_RefreshesExpiredKey(t *testing.T) {
	conn := newTestConn(t)
	user := createTestUser(t, conn, "alice")
	engine := newTestEngine(conn)
	engine.POST("/auth-token", NewAuthTokenHandler(conn, 1).ObtainToken)
	engine.GET("/users", RequireAuth(), NewUserHandler(conn).List)

	body := []byte(`{"username":"alice","password":"correct horse"}`)
	first := request(engine, http.MethodPost, "/auth-token", "", body)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}
	var firstResp struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(first.Body.Bytes(), &firstResp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}

	// Age the token past the window.
	past := time.Now().UTC().Add(-2 * time.Minute)
	if errAge := conn.Model(&models.AuthToken{}).Where("user_id = ?", user.ID).
		Update("created_at", past).Error; errAge != nil {
		t.Fatalf("backdate token: %v", errAge)
	}

	second := request(engine, http.MethodPost, "/auth-token", "", body)
	if second.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", second.Code)
	}
	var secondResp struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(second.Body.Bytes(), &secondResp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if secondResp.Token == firstResp.Token {
		t.Fatalf("expected a fresh key after expiry, got the same one")
	}

	// The old key must no longer authenticate.
	stale := requestWithToken(engine, http.MethodGet, "/users", firstResp.Token)
	if stale.Code != http.StatusUnauthorized {
		t.Fatalf("expected stale key to be rejected with 401, got %d", stale.Code)
	}
	fresh := requestWithToken(engine, http.MethodGet, "/users", secondResp.Token)
	if fresh.Code != http.StatusOK {
		t.Fatalf("expected fresh key to authenticate, got %d", fresh.Code)
	}
}

func TestObtainToken_BadCredentials(t *testing.T) {
	conn := newTestConn(t)
	createTestUser(t, conn, "alice")
	engine := newTestEngine(conn)
	engine.POST("/auth-token", NewAuthTokenHandler(conn, 1).ObtainToken)

	rec := request(engine, http.MethodPost, "/auth-token", "",
		[]byte(`{"username":"alice","password":"wrong"}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string][]string
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if len(resp["non_field_errors"]) == 0 {
		t.Fatalf("expected non_field_errors in response, got %s", rec.Body.String())
	}

	var count int64
	if errCount := conn.Model(&models.AuthToken{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count tokens: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected no token records, got %d", count)
	}
}

func TestObtainToken_MissingFields(t *testing.T) {
	conn := newTestConn(t)
	engine := newTestEngine(conn)
	engine.POST("/auth-token", NewAuthTokenHandler(conn, 1).ObtainToken)

	rec := request(engine, http.MethodPost, "/auth-token", "", []byte(`{}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string][]string
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if len(resp["username"]) == 0 || len(resp["password"]) == 0 {
		t.Fatalf("expected field errors, got %s", rec.Body.String())
	}
}
