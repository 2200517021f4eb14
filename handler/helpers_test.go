package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore records object writes.
type memStore struct {
	mu      sync.Mutex
	objects map[string]string
	fail    bool
}

func (s *memStore) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if s.fail {
		return errors.New("simulated store failure")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = map[string]string{}
	}
	s.objects[key] = string(body)
	return nil
}

func (s *memStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	return keys
}

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{BaseFolder: "USER#2/parser"},
		Analysis: config.AnalysisConfig{
			MultiDocBaseURL: apiURL,
			MultiDocRoute:   "cactus-ai-multi-docs-smart-analysis",
			RentRollBaseURL: apiURL,
			RentRollRoute:   "cactus-ai-commercial-rent-roll",
			PropertyType:    "self_storage",
			TimeoutSeconds:  5,
		},
		Upload:  config.UploadConfig{AllowedExtensions: []string{"pdf", "xlsx", "xls"}, MaxFileSizeMB: 1},
		Auth:    config.AuthConfig{JWTSecret: "test-secret", TokenExpireHours: 1},
		Session: config.SessionConfig{TTLHours: 1},
	}
}

type testApp struct {
	router   *gin.Engine
	sessions *service.SessionStore
}

func newTestApp(t *testing.T, cfg *config.Config, storage *service.StorageProvider) *testApp {
	t.Helper()
	timeout := time.Duration(cfg.Analysis.TimeoutSeconds) * time.Second
	base := service.NewWorkflow(storage, service.NewFileValidator(cfg.Upload.AllowedExtensions), cfg.Storage.BaseFolder)
	sessions := service.NewSessionStore(time.Hour)

	router, err := NewRouter(Dependencies{
		Config:   cfg,
		Sessions: sessions,
		MultiDoc: service.NewMultiDocWorkflow(base, service.NewAnalysisClient(cfg.Analysis.MultiDocBaseURL, timeout), cfg.Analysis.MultiDocRoute, cfg.Analysis.PropertyType),
		RentRoll: service.NewRentRollWorkflow(base, service.NewAnalysisClient(cfg.Analysis.RentRollBaseURL, timeout), cfg.Analysis.RentRollRoute),
	})
	if err != nil {
		t.Fatalf("Failed to build router: %v", err)
	}
	return &testApp{router: router, sessions: sessions}
}

func storeProvider(store service.ObjectStore) *service.StorageProvider {
	return service.NewStorageProvider(func() (service.ObjectStore, error) { return store, nil })
}

func brokenProvider() *service.StorageProvider {
	return service.NewStorageProvider(func() (service.ObjectStore, error) {
		return nil, errors.New("invalid credentials")
	})
}

// browser replays cookies between requests like a real client.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest("GET", path, nil))
}

func (b *browser) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

// postFiles sends a multipart form with field → filename → content.
func (b *browser) postFiles(path string, files map[string][2]string) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, file := range files {
		part, err := mw.CreateFormFile(field, file[0])
		if err != nil {
			b.t.Fatalf("Failed to create form file: %v", err)
		}
		io.WriteString(part, file[1])
	}
	mw.Close()

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Location"); got != location {
		t.Fatalf("Expected redirect to %s, got %s", location, got)
	}
}

func expectBody(t *testing.T, w *httptest.ResponseRecorder, wants ...string) {
	t.Helper()
	body := w.Body.String()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in body:\n%s", want, body)
		}
	}
}
