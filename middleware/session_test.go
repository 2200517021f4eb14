package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("Expected session cookie to be set")
	return nil
}

func TestSessionMiddlewareCreatesAndReuses(t *testing.T) {
	store := service.NewSessionStore(time.Hour)

	router := gin.New()
	router.Use(Session(store, time.Hour))
	router.GET("/flow", func(c *gin.Context) {
		c.String(http.StatusOK, string(GetSession(c).Flow))
	})
	router.POST("/flow", func(c *gin.Context) {
		GetSession(c).SwitchFlow(model.FlowRentRoll)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/flow", nil))
	cookie := sessionCookie(t, w)
	if cookie.Value == "" || !cookie.HttpOnly {
		t.Errorf("Unexpected cookie %+v", cookie)
	}

	req := httptest.NewRequest("GET", "/flow", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Body.String() != string(model.FlowRentRoll) {
		t.Errorf("Expected state to persist across requests, got %q", w.Body.String())
	}
	if store.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", store.Count())
	}
}

func TestSessionMiddlewareUnknownCookie(t *testing.T) {
	store := service.NewSessionStore(time.Hour)

	router := gin.New()
	router.Use(Session(store, time.Hour))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetSessionID(c))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "forged"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Body.String() == "forged" || w.Body.String() == "" {
		t.Errorf("Expected a fresh session id, got %q", w.Body.String())
	}
	if sessionCookie(t, w).Value != w.Body.String() {
		t.Error("Expected cookie to carry the new id")
	}
}

func TestSessionMiddlewareSerialisesRequests(t *testing.T) {
	store := service.NewSessionStore(time.Hour)
	state := store.Create()

	var mu sync.Mutex
	active, maxActive := 0, 0

	router := gin.New()
	router.Use(Session(store, time.Hour))
	router.GET("/", func(c *gin.Context) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		c.Status(http.StatusOK)
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest("GET", "/", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: state.ID})
			router.ServeHTTP(httptest.NewRecorder(), req)
		}()
	}
	wg.Wait()

	if maxActive != 1 {
		t.Errorf("Expected requests of one session to run one at a time, saw %d", maxActive)
	}
}

func TestGetSessionEmpty(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if GetSession(c) != nil || GetSessionID(c) != "" {
		t.Error("Expected no session on a bare context")
	}
}
