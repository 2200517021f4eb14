package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
)

// FileSource is a file selected for upload.
type FileSource interface {
	Filename() string
	// Size is the byte length, or -1 when unknown.
	Size() int64
	Open() (io.ReadCloser, error)
}

// BlobUploader stages selected files under a run folder.
type BlobUploader struct {
	store ObjectStore
}

// NewBlobUploader accepts a nil store; every upload then fails.
func NewBlobUploader(store ObjectStore) *BlobUploader {
	return &BlobUploader{store: store}
}

// ObjectKey returns folder/filename.
func ObjectKey(folder, filename string) string {
	return folder + "/" + filename
}

// Upload writes file to folder/<original filename> and returns the key. On
// any failure it returns "" and the cause. Re-uploading a name overwrites.
func (u *BlobUploader) Upload(ctx context.Context, file FileSource, folder string) (string, error) {
	if u == nil || u.store == nil {
		return "", ErrStorageUnavailable
	}
	if file == nil {
		return "", errors.New("no file provided")
	}

	name := file.Filename()
	key := ObjectKey(folder, name)

	rc, err := file.Open()
	if err != nil {
		logger.Error(ctx, "failed to open upload", "filename", name, "error", err)
		return "", fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()

	if err := u.store.PutObject(ctx, key, rc, file.Size(), contentTypeFor(name)); err != nil {
		logger.Error(ctx, "failed to upload file", "filename", name, "key", key, "error", err)
		return "", err
	}

	logger.Info(ctx, "file uploaded", "filename", name, "key", key)
	return key, nil
}
