package handler

import (
	"fmt"
	"net/http"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

// RentRollHandler serves the commercial rent-roll flow.
type RentRollHandler struct {
	workflow    *service.RentRollWorkflow
	maxBody     int64
	maxFileMB   int
	authEnabled bool
}

func NewRentRollHandler(workflow *service.RentRollWorkflow, cfg *config.Config) *RentRollHandler {
	return &RentRollHandler{
		workflow:    workflow,
		maxBody:     int64(cfg.Upload.MaxFileSizeMB)<<20 + multipartOverhead,
		maxFileMB:   cfg.Upload.MaxFileSizeMB,
		authEnabled: cfg.AuthEnabled(),
	}
}

// Show renders the rent-roll upload form or its results.
func (h *RentRollHandler) Show(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	if state.Flow != model.FlowRentRoll {
		c.Redirect(http.StatusSeeOther, flowPath(state.Flow))
		return
	}

	if state.RentRoll.View == model.ViewRentRollResults {
		page := newPage(c, state, h.authEnabled)
		if state.RentRoll.Results == nil {
			page.Notices = append(page.Notices, model.Notice{
				Level: model.NoticeWarning,
				Text:  "No analysis results available. Go back to upload documents.",
			})
		} else {
			page.RentRoll = service.RenderRentRoll(state.RentRoll.Results)
		}
		c.HTML(http.StatusOK, "rentroll_results", page)
		return
	}
	h.renderUpload(c, state, http.StatusOK, nil)
}

func (h *RentRollHandler) renderUpload(c *gin.Context, state *service.SessionState, status int, notices []model.Notice) {
	page := newPage(c, state, h.authEnabled)
	page.Notices = append(page.Notices, notices...)
	slot := h.workflow.Slot()
	page.Slot = &slot
	page.withUpload(h.workflow.Workflow)
	c.HTML(status, "rentroll_upload", page)
}

// Run stages the rent roll and calls its parser.
func (h *RentRollHandler) Run(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	if state.Flow != model.FlowRentRoll || state.RentRoll.View != model.ViewRentRollUpload {
		c.Redirect(http.StatusSeeOther, flowPath(state.Flow))
		return
	}
	ctx := c.Request.Context()

	form, err := parseUpload(c, h.maxBody)
	if err != nil {
		status, notice := formError(err, h.maxFileMB)
		logger.Warn(ctx, "invalid upload form", "error", err)
		h.renderUpload(c, state, status, []model.Notice{notice})
		return
	}

	run, err := h.workflow.Run(ctx, state.RentRoll.Run, formFile(form, h.workflow.Slot().Name))
	var notices []model.Notice
	if run.Stage != nil {
		notices = append(notices, run.Stage.Notices...)
	}
	if err != nil {
		logger.Error(ctx, "rent roll analysis failed", "run_id", state.RentRoll.Run.ID, "error", err)
		h.renderUpload(c, state, runStatus(err), append(notices, service.ErrorNotices(err)...))
		return
	}

	state.CompleteRentRoll(run.Response)
	state.Flash(notices...)
	if run.Response.Status == model.RentRollStatusSuccess {
		state.Flash(model.Notice{Level: model.NoticeSuccess, Text: "Analysis Complete!"})
	} else {
		state.Flash(model.Notice{
			Level: model.NoticeWarning,
			Text:  fmt.Sprintf("Rent roll analysis returned status %q.", run.Response.Status),
		})
	}
	logger.Info(ctx, "rent roll analysis complete", "run_id", state.RentRoll.Run.ID, "status", run.Response.Status)

	c.Redirect(http.StatusSeeOther, "/rent-roll")
}

// New discards the rent-roll results and starts a new run.
func (h *RentRollHandler) New(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	state.StartNewAnalysis(model.FlowRentRoll)
	logger.Info(c.Request.Context(), "new rent roll analysis started", "run_id", state.RentRoll.Run.ID)
	c.Redirect(http.StatusSeeOther, "/rent-roll")
}
