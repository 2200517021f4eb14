package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Saifullah3711/cac-multi-docs-mvp/middleware"
	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

const pageTitle = "Cactus AI - Smart Analysis"

// pageData is the model every template renders from.
type pageData struct {
	Title        string
	ShowNav      bool
	Flow         model.Flow
	AuthEnabled  bool
	Username     string
	StorageError string
	Notices      []model.Notice

	// login
	LoginName string

	// upload views
	Slots   []model.SlotSpec
	Slot    *model.SlotSpec
	Accept  string
	Allowed string
	CanRun  bool

	// results views
	Result   *service.ResultView
	RentRoll *service.RentRollView
}

func newPage(c *gin.Context, state *service.SessionState, authEnabled bool) pageData {
	return pageData{
		Title:       pageTitle,
		ShowNav:     true,
		Flow:        state.Flow,
		AuthEnabled: authEnabled,
		Username:    middleware.GetUsername(c),
		Notices:     state.TakeNotices(),
	}
}

// withUpload fills the upload form fields. The run button stays disabled
// while storage is unavailable.
func (p *pageData) withUpload(w service.Workflow) {
	validator := w.Validator()
	p.Accept = validator.Accept()
	p.Allowed = validator.String()
	if err := w.StorageReady(); err != nil {
		p.StorageError = service.StorageUnavailableText
		notices := p.Notices[:0]
		for _, n := range p.Notices {
			if n.Text != service.StorageUnavailableText {
				notices = append(notices, n)
			}
		}
		p.Notices = notices
		return
	}
	p.CanRun = true
}

// flowPath is the page that shows flow.
func flowPath(flow model.Flow) string {
	if flow == model.FlowRentRoll {
		return "/rent-roll"
	}
	return "/analysis"
}

// session returns the request's state or answers 500 when the session
// middleware is missing.
func session(c *gin.Context) (*service.SessionState, bool) {
	state := middleware.GetSession(c)
	if state == nil {
		c.String(http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return state, true
}

// runStatus maps a run error to the HTTP status of the re-rendered form.
func runStatus(err error) int {
	var apiErr *service.APIError
	switch {
	case errors.Is(err, service.ErrNoFilesSelected):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrAllUploadsFailed),
		errors.As(err, &apiErr),
		errors.Is(err, service.ErrRequestFailed),
		errors.Is(err, service.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// multipartFile adapts an uploaded form file to service.FileSource.
type multipartFile struct {
	header *multipart.FileHeader
}

func (f multipartFile) Filename() string {
	return filepath.Base(strings.ReplaceAll(f.header.Filename, `\`, "/"))
}

func (f multipartFile) Size() int64 {
	return f.header.Size
}

func (f multipartFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

// formFile returns the file posted under field, or nil when none was chosen.
func formFile(form *multipart.Form, field string) service.FileSource {
	if form == nil {
		return nil
	}
	files := form.File[field]
	if len(files) == 0 || files[0].Filename == "" {
		return nil
	}
	return multipartFile{header: files[0]}
}

// parseUpload reads a multipart body of at most limit bytes.
func parseUpload(c *gin.Context, limit int64) (*multipart.Form, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	return c.MultipartForm()
}

// formError explains why the upload form could not be read.
func formError(err error, maxFileMB int) (int, model.Notice) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, model.Notice{
			Level: model.NoticeError,
			Text:  fmt.Sprintf("Upload too large. Each document may be at most %d MB.", maxFileMB),
		}
	}
	return http.StatusBadRequest, model.Notice{
		Level: model.NoticeWarning,
		Text:  "Please upload at least one document before running the analysis.",
	}
}
