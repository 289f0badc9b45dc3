package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"threadline/messaging"
	"threadline/models"
	"threadline/routes"
)

func newTestRouter(t *testing.T) (*gin.Engine, *messaging.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Message{}, &models.Notification{}, &models.MessageHistory{})
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store := messaging.NewStore(db)
	r := gin.New()
	routes.RegisterRoutes(r, store)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, r *gin.Engine, name string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"email":            name + "@example.com",
		"username":         name,
		"password":         "secret1",
		"confirm_password": "secret1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", name, w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"email":    name + "@example.com",
		"password": "secret1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", name, w.Code, w.Body.String())
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.AccessToken == "" {
		t.Fatalf("login %s: bad token response %s", name, w.Body.String())
	}
	return resp.AccessToken
}

func userID(t *testing.T, store *messaging.Store, name string) uint {
	t.Helper()
	var u models.User
	if err := store.DB().Where("username = ?", name).First(&u).Error; err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return u.ID
}

func TestMessageLifecycleOverHTTP(t *testing.T) {
	r, store := newTestRouter(t)

	aliceTok := registerAndLogin(t, r, "alice")
	bobTok := registerAndLogin(t, r, "bob")
	bobID := userID(t, store, "bob")

	// send
	w := doJSON(t, r, http.MethodPost, "/messages", aliceTok, gin.H{
		"receiver_id": bobID,
		"content":     "hello over http",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send: status %d body %s", w.Code, w.Body.String())
	}
	var sent struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sent); err != nil || sent.ID == 0 {
		t.Fatalf("send: bad body %s", w.Body.String())
	}

	// bob sees it unread and got notified
	w = doJSON(t, r, http.MethodGet, "/messages/unread", bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unread: status %d", w.Code)
	}
	var unread struct {
		Count int `json:"count"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &unread)
	if unread.Count != 1 {
		t.Fatalf("unread count %d, want 1", unread.Count)
	}

	w = doJSON(t, r, http.MethodGet, "/notifications", bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("notifications: status %d", w.Code)
	}
	var notifs struct {
		Notifications []struct {
			ID        uint `json:"id"`
			MessageID uint `json:"message_id"`
		} `json:"notifications"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &notifs)
	if len(notifs.Notifications) != 1 || notifs.Notifications[0].MessageID != sent.ID {
		t.Fatalf("bad notifications payload: %s", w.Body.String())
	}

	// only the sender can edit
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/messages/%d", sent.ID), bobTok, gin.H{"content": "hijacked"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("edit by receiver: status %d, want 403", w.Code)
	}
	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/messages/%d", sent.ID), aliceTok, gin.H{"content": "hello, edited"})
	if w.Code != http.StatusOK {
		t.Fatalf("edit: status %d body %s", w.Code, w.Body.String())
	}

	// history carries the pre-edit content
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/messages/%d/history", sent.ID), bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: status %d", w.Code)
	}
	var hist struct {
		History []struct {
			OldContent string `json:"old_content"`
		} `json:"history"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &hist)
	if len(hist.History) != 1 || hist.History[0].OldContent != "hello over http" {
		t.Fatalf("bad history payload: %s", w.Body.String())
	}

	// mark read clears the feed
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/messages/%d/read", sent.ID), bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("mark read: status %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, "/messages/unread", bobTok, nil)
	_ = json.Unmarshal(w.Body.Bytes(), &unread)
	if unread.Count != 0 {
		t.Fatalf("unread count %d after read, want 0", unread.Count)
	}
}

func TestThreadAndAccountDeletionOverHTTP(t *testing.T) {
	r, store := newTestRouter(t)

	aliceTok := registerAndLogin(t, r, "dana")
	bobTok := registerAndLogin(t, r, "erik")
	aliceID := userID(t, store, "dana")
	bobID := userID(t, store, "erik")

	w := doJSON(t, r, http.MethodPost, "/messages", aliceTok, gin.H{
		"receiver_id": bobID, "content": "thread root",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send root: %d %s", w.Code, w.Body.String())
	}
	var root struct {
		ID uint `json:"id"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &root)

	w = doJSON(t, r, http.MethodPost, "/messages", bobTok, gin.H{
		"receiver_id": aliceID, "content": "thread reply", "parent_id": root.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("send reply: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/messages/%d/thread", root.ID), bobTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("thread: status %d", w.Code)
	}
	var thread struct {
		Messages []struct {
			ID uint `json:"id"`
		} `json:"messages"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &thread)
	if len(thread.Messages) != 2 || thread.Messages[0].ID != root.ID {
		t.Fatalf("bad thread payload: %s", w.Body.String())
	}

	// replying to a missing parent is a 404
	w = doJSON(t, r, http.MethodPost, "/messages", bobTok, gin.H{
		"receiver_id": aliceID, "content": "into the void", "parent_id": 99999,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("reply to ghost parent: status %d, want 404", w.Code)
	}

	// account deletion cascades; both messages referenced dana
	w = doJSON(t, r, http.MethodDelete, "/profile", aliceTok, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete account: status %d body %s", w.Code, w.Body.String())
	}
	var n int64
	store.DB().Model(&models.Message{}).Count(&n)
	if n != 0 {
		t.Fatalf("%d messages survived the cascade", n)
	}
	store.DB().Model(&models.Notification{}).Count(&n)
	if n != 0 {
		t.Fatalf("%d notifications survived the cascade", n)
	}

	// the deleted user's token is revoked
	w = doJSON(t, r, http.MethodGet, "/profile", aliceTok, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token still accepted: status %d", w.Code)
	}
}
