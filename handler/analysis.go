package handler

import (
	"errors"
	"net/http"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/Saifullah3711/cac-multi-docs-mvp/service"
	"github.com/gin-gonic/gin"
)

// multipartOverhead covers form boundaries and headers on top of the files.
const multipartOverhead = 1 << 20

// AnalysisHandler serves the multi-document flow.
type AnalysisHandler struct {
	workflow    *service.MultiDocWorkflow
	navigator   *service.ResultNavigator
	maxBody     int64
	maxFileMB   int
	authEnabled bool
}

func NewAnalysisHandler(workflow *service.MultiDocWorkflow, navigator *service.ResultNavigator, cfg *config.Config) *AnalysisHandler {
	maxFile := int64(cfg.Upload.MaxFileSizeMB) << 20
	return &AnalysisHandler{
		workflow:    workflow,
		navigator:   navigator,
		maxBody:     maxFile*int64(len(workflow.Slots())) + multipartOverhead,
		maxFileMB:   cfg.Upload.MaxFileSizeMB,
		authEnabled: cfg.AuthEnabled(),
	}
}

// Show renders the upload form or the results, depending on the view.
func (h *AnalysisHandler) Show(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	if state.Flow != model.FlowMultiDoc {
		c.Redirect(http.StatusSeeOther, flowPath(state.Flow))
		return
	}

	if state.MultiDoc.View == model.ViewResults {
		h.renderResults(c, state)
		return
	}
	h.renderUpload(c, state, http.StatusOK, nil)
}

func (h *AnalysisHandler) renderUpload(c *gin.Context, state *service.SessionState, status int, notices []model.Notice) {
	page := newPage(c, state, h.authEnabled)
	page.Notices = append(page.Notices, notices...)
	page.Slots = h.workflow.Slots()
	page.withUpload(h.workflow.Workflow)
	c.HTML(status, "upload", page)
}

func (h *AnalysisHandler) renderResults(c *gin.Context, state *service.SessionState) {
	page := newPage(c, state, h.authEnabled)

	if state.MultiDoc.Results == nil {
		page.Notices = append(page.Notices, model.Notice{
			Level: model.NoticeWarning,
			Text:  "No analysis results available. Go back to upload documents.",
		})
		c.HTML(http.StatusOK, "results", page)
		return
	}

	view, err := h.navigator.Navigate(state.MultiDoc.Results, state.MultiDoc.Nav)
	if errors.Is(err, service.ErrNoSections) {
		page.Notices = append(page.Notices, model.Notice{
			Level: model.NoticeWarning,
			Text:  "Analysis completed, but no data was returned in the expected format.",
		})
	}
	state.SelectSection(view.Selected)
	page.Result = view
	c.HTML(http.StatusOK, "results", page)
}

// Run stages the posted documents and calls the smart analysis. Failures
// re-render the form in place; success redirects to the results.
func (h *AnalysisHandler) Run(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	if state.Flow != model.FlowMultiDoc || state.MultiDoc.View != model.ViewUpload {
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

	selection := service.SlotSelection{}
	for _, slot := range h.workflow.Slots() {
		if file := formFile(form, slot.Name); file != nil {
			selection[slot.Name] = file
		}
	}

	run, err := h.workflow.Run(ctx, state.MultiDoc.Run, selection)
	var notices []model.Notice
	if run.Stage != nil {
		notices = append(notices, run.Stage.Notices...)
	}
	if err != nil {
		logger.Error(ctx, "multi-document analysis failed", "run_id", state.MultiDoc.Run.ID, "error", err)
		h.renderUpload(c, state, runStatus(err), append(notices, service.ErrorNotices(err)...))
		return
	}

	selected := h.navigator.DefaultSelection(run.Response, "")
	state.CompleteMultiDoc(run.Response, selected)
	state.Flash(notices...)
	state.Flash(model.Notice{Level: model.NoticeSuccess, Text: "Analysis Complete!"})
	logger.Info(ctx, "multi-document analysis complete", "run_id", state.MultiDoc.Run.ID, "sections", len(h.navigator.Available(run.Response)))

	c.Redirect(http.StatusSeeOther, "/analysis")
}

// Select records the section chosen on the results page.
func (h *AnalysisHandler) Select(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	if state.MultiDoc.View == model.ViewResults {
		state.SelectSection(c.PostForm("section"))
	}
	c.Redirect(http.StatusSeeOther, "/analysis")
}

// New discards the results and returns to the upload form with a new run.
func (h *AnalysisHandler) New(c *gin.Context) {
	state, ok := session(c)
	if !ok {
		return
	}
	state.StartNewAnalysis(model.FlowMultiDoc)
	logger.Info(c.Request.Context(), "new analysis started", "run_id", state.MultiDoc.Run.ID)
	c.Redirect(http.StatusSeeOther, "/analysis")
}
