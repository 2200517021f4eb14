package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
)

func TestNewMinioStorage(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{
			name: "s3 defaults endpoint",
			cfg:  config.StorageConfig{Type: config.StorageTypeS3, AccessKey: "a", SecretKey: "b", Region: "us-east-1", Bucket: "docs"},
		},
		{
			name: "minio endpoint",
			cfg:  config.StorageConfig{Type: config.StorageTypeMinio, Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b", Bucket: "docs"},
		},
		{
			name:    "missing credentials",
			cfg:     config.StorageConfig{Type: config.StorageTypeS3, Bucket: "docs"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewMinioStorage(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMinioStorage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && store.Bucket() != tt.cfg.Bucket {
				t.Errorf("Expected bucket %s, got %s", tt.cfg.Bucket, store.Bucket())
			}
		})
	}
}

// fakeS3 accepts PUT object requests path-style and records them.
type fakeS3 struct {
	mu     sync.Mutex
	paths  []string
	bodies []string
	status int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.paths = append(f.paths, r.URL.Path)
	f.bodies = append(f.bodies, string(body))
	f.mu.Unlock()

	if f.status != 0 && f.status != http.StatusOK {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(f.status)
		io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>Access Denied</Message></Error>`)
		return
	}
	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

func newFakeS3Storage(t *testing.T, fake *fakeS3) *MinioStorage {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	store, err := NewMinioStorage(&config.StorageConfig{
		Type:      config.StorageTypeMinio,
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "test",
		SecretKey: "testsecret",
		Region:    "us-east-1",
		Bucket:    "docs",
	})
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return store
}

func TestMinioStoragePutObject(t *testing.T) {
	fake := &fakeS3{}
	store := newFakeS3Storage(t, fake)

	err := store.PutObject(context.Background(), "base/run/occ.pdf", strings.NewReader("%PDF-1.7"), 8, "application/pdf")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(fake.paths) != 1 || fake.paths[0] != "/docs/base/run/occ.pdf" {
		t.Errorf("Unexpected request paths %v", fake.paths)
	}
}

func TestMinioStoragePutObjectDenied(t *testing.T) {
	store := newFakeS3Storage(t, &fakeS3{status: http.StatusForbidden})

	err := store.PutObject(context.Background(), "base/run/occ.pdf", strings.NewReader("x"), 1, "application/pdf")
	if err == nil {
		t.Fatal("Expected error for denied upload")
	}
}

func TestStorageProviderInitialisesOnce(t *testing.T) {
	calls := 0
	store := &fakeStore{}
	p := NewStorageProvider(func() (ObjectStore, error) {
		calls++
		return store, nil
	})

	for i := 0; i < 3; i++ {
		got, err := p.Get()
		if err != nil || got != store {
			t.Fatalf("Unexpected result %v %v", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 initialization, got %d", calls)
	}
}

func TestStorageProviderCachesFailure(t *testing.T) {
	calls := 0
	p := NewStorageProvider(func() (ObjectStore, error) {
		calls++
		return nil, errors.New("bad credentials")
	})

	for i := 0; i < 2; i++ {
		_, err := p.Get()
		if !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("Expected ErrStorageUnavailable, got %v", err)
		}
		if !strings.Contains(err.Error(), "bad credentials") {
			t.Errorf("Expected cause in error, got %v", err)
		}
	}
	if calls != 1 {
		t.Errorf("Expected 1 initialization, got %d", calls)
	}
}
