package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
)

// Workflow holds what both flows share: the lazily created store, the
// extension allow-list and the storage base folder.
type Workflow struct {
	storage    *StorageProvider
	validator  FileValidator
	baseFolder string
}

func NewWorkflow(storage *StorageProvider, validator FileValidator, baseFolder string) Workflow {
	return Workflow{storage: storage, validator: validator, baseFolder: baseFolder}
}

// Validator returns the extension allow-list.
func (w Workflow) Validator() FileValidator {
	return w.validator
}

// StorageReady reports whether uploads can be attempted.
func (w Workflow) StorageReady() error {
	_, err := w.storage.Get()
	return err
}

func (w Workflow) stage(ctx context.Context, slots []model.SlotSpec, selection SlotSelection, folder string) (*StageResult, error) {
	store, err := w.storage.Get()
	if err != nil {
		return &StageResult{}, err
	}
	orchestrator := NewUploadOrchestrator(slots, w.validator, NewBlobUploader(store))
	return orchestrator.Stage(ctx, selection, folder)
}

// MultiDocRun is the outcome of one multi-document run. Stage is set once
// uploading was attempted; Response only on success.
type MultiDocRun struct {
	Stage    *StageResult
	Request  model.AnalysisRequest
	Response model.AnalysisResponse
}

// MultiDocWorkflow uploads the four documents and calls the smart analysis.
type MultiDocWorkflow struct {
	Workflow
	client       *AnalysisClient
	route        string
	propertyType string
}

func NewMultiDocWorkflow(w Workflow, client *AnalysisClient, route, propertyType string) *MultiDocWorkflow {
	return &MultiDocWorkflow{Workflow: w, client: client, route: route, propertyType: propertyType}
}

// Slots returns the upload slots in form order.
func (w *MultiDocWorkflow) Slots() []model.SlotSpec {
	return model.MultiDocSlots
}

// Run stages the selection under the run folder and posts the request.
func (w *MultiDocWorkflow) Run(ctx context.Context, run model.RunContext, selection SlotSelection) (*MultiDocRun, error) {
	ctx = logger.WithRun(ctx, run.ID)
	out := &MultiDocRun{}

	stage, err := w.stage(ctx, model.MultiDocSlots, selection, run.Folder(w.baseFolder))
	out.Stage = stage
	if err != nil {
		return out, err
	}

	out.Request = model.NewAnalysisRequest(stage.Keys(), w.propertyType, run.ID)
	logger.Info(ctx, "calling smart analysis", "url", w.client.URL(w.route), "staged", stage.Staged())

	var resp model.AnalysisResponse
	if err := w.client.Post(ctx, w.route, out.Request, &resp); err != nil {
		return out, err
	}
	if resp == nil {
		return out, fmt.Errorf("%w: response is not an object", ErrInvalidResponse)
	}
	out.Response = resp
	return out, nil
}

// RentRollRun is the outcome of one rent-roll run.
type RentRollRun struct {
	Stage    *StageResult
	Request  model.RentRollRequest
	Response *model.RentRollResponse
}

// RentRollWorkflow uploads a single rent roll and calls its parser.
type RentRollWorkflow struct {
	Workflow
	client *AnalysisClient
	route  string
}

func NewRentRollWorkflow(w Workflow, client *AnalysisClient, route string) *RentRollWorkflow {
	return &RentRollWorkflow{Workflow: w, client: client, route: route}
}

// Slot returns the single upload slot.
func (w *RentRollWorkflow) Slot() model.SlotSpec {
	return model.RentRollSlot
}

// Run stages file under the run's rent-roll folder and posts the request.
func (w *RentRollWorkflow) Run(ctx context.Context, run model.RunContext, file FileSource) (*RentRollRun, error) {
	ctx = logger.WithRun(ctx, run.ID)
	out := &RentRollRun{}

	selection := SlotSelection{}
	if file != nil {
		selection[model.SlotRentRoll] = file
	}
	stage, err := w.stage(ctx, []model.SlotSpec{model.RentRollSlot}, selection, run.Folder(w.baseFolder, model.RentRollSubfolder))
	out.Stage = stage
	if err != nil {
		return out, err
	}

	out.Request = model.RentRollRequest{DocURL: stage.Keys()[model.SlotRentRoll], RunID: run.ID}
	logger.Info(ctx, "calling rent roll analysis", "url", w.client.URL(w.route), "doc_url", out.Request.DocURL)

	var resp model.RentRollResponse
	if err := w.client.Post(ctx, w.route, out.Request, &resp); err != nil {
		return out, err
	}
	out.Response = &resp
	return out, nil
}

// StorageUnavailableText is shown while no storage client is available.
const StorageUnavailableText = "Storage client could not be initialized. Cannot upload files or run analysis. Check the storage credentials."

// ErrorNotices turns a run error into user-facing messages.
func ErrorNotices(err error) []model.Notice {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNoFilesSelected):
		return []model.Notice{{Level: model.NoticeWarning, Text: "Please upload at least one document before running the analysis."}}
	case errors.Is(err, ErrAllUploadsFailed):
		return []model.Notice{{Level: model.NoticeError, Text: "Upload failed for all provided files. Please check file types or storage connection errors above."}}
	case errors.Is(err, ErrStorageUnavailable):
		return []model.Notice{{Level: model.NoticeError, Text: StorageUnavailableText}}
	case errors.As(err, &apiErr):
		return []model.Notice{
			{Level: model.NoticeError, Text: fmt.Sprintf("API request failed: %v", err)},
			{Level: model.NoticeError, Text: fmt.Sprintf("Response status code: %d", apiErr.StatusCode)},
			{Level: model.NoticeError, Text: fmt.Sprintf("Response body: %s", apiErr.Body)},
		}
	case errors.Is(err, ErrInvalidResponse):
		return []model.Notice{{Level: model.NoticeError, Text: fmt.Sprintf("An unexpected error occurred while processing the analysis response: %v", err)}}
	default:
		return []model.Notice{{Level: model.NoticeError, Text: err.Error()}}
	}
}
