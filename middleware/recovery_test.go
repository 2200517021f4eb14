package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

func TestRecoveryQuotesRequestID(t *testing.T) {
	buf := captureLogs(t)

	router := gin.New()
	router.Use(RequestID(), Recovery())
	router.POST("/analysis/run", func(c *gin.Context) {
		panic("nil response section")
	})

	req := httptest.NewRequest("POST", "/analysis/run", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected plain text, got %q", ct)
	}
	if body := w.Body.String(); body != "Internal server error (request id req-42)\n" {
		t.Errorf("Unexpected body %q", body)
	}
	if logs := buf.String(); !strings.Contains(logs, "panic recovered") || !strings.Contains(logs, "request_id=req-42") {
		t.Errorf("Expected panic to be logged with the request id, got %q", logs)
	}
}

func TestRecoveryReleasesSession(t *testing.T) {
	captureLogs(t)
	store := service.NewSessionStore(time.Hour)

	router := gin.New()
	router.Use(Recovery(), Session(store, time.Hour))
	router.POST("/analysis/run", func(c *gin.Context) {
		panic("boom")
	})
	router.GET("/analysis", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/analysis/run", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	cookie := sessionCookie(t, w)

	done := make(chan string, 1)
	go func() {
		req := httptest.NewRequest("GET", "/analysis", nil)
		req.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		done <- w.Body.String()
	}()

	select {
	case id := <-done:
		if id != cookie.Value {
			t.Errorf("Expected session %q, got %q", cookie.Value, id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session still locked after a panicking request")
	}
}
