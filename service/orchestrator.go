package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
)

var (
	// ErrNoFilesSelected means every slot was empty.
	ErrNoFilesSelected = errors.New("select at least one file before running the analysis")
	// ErrAllUploadsFailed means files were selected but none was stored.
	ErrAllUploadsFailed = errors.New("uploads failed for all provided files")
)

// SlotSelection maps a slot name to the file chosen for it. Missing or nil
// entries are empty slots.
type SlotSelection map[string]FileSource

// StageResult reports what happened to every slot, in slot order.
type StageResult struct {
	Outcomes []model.UploadOutcome
	Notices  []model.Notice
}

// Keys maps each slot name to its storage key ("" when not staged).
func (r *StageResult) Keys() map[string]string {
	keys := make(map[string]string, len(r.Outcomes))
	for _, o := range r.Outcomes {
		keys[o.Slot] = o.Key
	}
	return keys
}

// Staged counts slots with a storage key.
func (r *StageResult) Staged() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Key != "" {
			n++
		}
	}
	return n
}

func (r *StageResult) notify(level model.NoticeLevel, format string, args ...any) {
	r.Notices = append(r.Notices, model.Notice{Level: level, Text: fmt.Sprintf(format, args...)})
}

// UploadOrchestrator validates and uploads the files of one run.
type UploadOrchestrator struct {
	slots     []model.SlotSpec
	validator FileValidator
	uploader  *BlobUploader
}

func NewUploadOrchestrator(slots []model.SlotSpec, validator FileValidator, uploader *BlobUploader) *UploadOrchestrator {
	return &UploadOrchestrator{
		slots:     slots,
		validator: validator,
		uploader:  uploader,
	}
}

// Slots returns the slot descriptors in upload order.
func (o *UploadOrchestrator) Slots() []model.SlotSpec {
	return o.slots
}

// Stage uploads every valid selected file into folder. The result is always
// returned so its notices can be shown; the error is ErrNoFilesSelected or
// ErrAllUploadsFailed when the run must stop. Partial success is not an
// error.
func (o *UploadOrchestrator) Stage(ctx context.Context, selection SlotSelection, folder string) (*StageResult, error) {
	result := &StageResult{Outcomes: make([]model.UploadOutcome, 0, len(o.slots))}
	selected := 0
	uploaded := false

	for _, slot := range o.slots {
		outcome := model.UploadOutcome{Slot: slot.Name}
		file := selection[slot.Name]
		if file == nil {
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		selected++
		outcome.Filename = file.Filename()

		if !o.validator.Allowed(outcome.Filename) {
			logger.Warn(ctx, "skipping file with invalid type", "slot", slot.Name, "filename", outcome.Filename)
			result.notify(model.NoticeWarning, "Skipping %s: Invalid file type for %s. Allowed: %s",
				slot.Label, outcome.Filename, o.validator)
			result.Outcomes = append(result.Outcomes, outcome)
			continue
		}

		key, err := o.uploader.Upload(ctx, file, folder)
		if err != nil {
			result.notify(model.NoticeWarning, "Failed to upload %s for %s: %v", outcome.Filename, slot.Label, err)
		} else if key != "" {
			outcome.Key = key
			uploaded = true
			result.notify(model.NoticeInfo, "Successfully uploaded %s", outcome.Filename)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	switch {
	case selected == 0:
		return result, ErrNoFilesSelected
	case !uploaded:
		logger.Warn(ctx, "no file could be staged", "selected", selected)
		return result, ErrAllUploadsFailed
	}

	logger.Info(ctx, "files staged", "selected", selected, "staged", result.Staged(), "folder", folder)
	return result, nil
}
