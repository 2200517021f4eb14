package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// memFile is an in-memory FileSource.
type memFile struct {
	name    string
	content string
	openErr error
}

func (f memFile) Filename() string { return f.name }
func (f memFile) Size() int64      { return int64(len(f.content)) }
func (f memFile) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type putCall struct {
	key         string
	body        string
	size        int64
	contentType string
}

// fakeStore records writes and fails keys listed in failKeys, or every
// write when failAll is set.
type fakeStore struct {
	mu       sync.Mutex
	puts     []putCall
	failAll  bool
	failKeys map[string]bool
}

func (s *fakeStore) PutObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	if s.failAll || s.failKeys[key] {
		return errors.New("simulated store failure")
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts = append(s.puts, putCall{key: key, body: string(body), size: size, contentType: contentType})
	return nil
}

func readyProvider(store ObjectStore) *StorageProvider {
	return NewStorageProvider(func() (ObjectStore, error) { return store, nil })
}
