package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
)

// localFile is a document read from disk.
type localFile struct {
	path string
	size int64
}

func openLocalFile(path string) (*localFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &localFile{path: path, size: info.Size()}, nil
}

func (f *localFile) Filename() string { return filepath.Base(f.path) }
func (f *localFile) Size() int64      { return f.size }

func (f *localFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// printNotices writes run notices to w, one per line.
func printNotices(w io.Writer, notices []model.Notice) {
	for _, n := range notices {
		fmt.Fprintf(w, "[%s] %s\n", n.Level, n.Text)
	}
}

// runFailed prints the notices of a failed run and returns err.
func runFailed(w io.Writer, stage *service.StageResult, err error) error {
	if stage != nil {
		printNotices(w, stage.Notices)
	}
	printNotices(w, service.ErrorNotices(err))
	return err
}
