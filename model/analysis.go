package model

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// SlotSpec describes one named document role on the upload form.
type SlotSpec struct {
	Name       string // form field and slot key
	Label      string // shown to the user
	RequestKey string // key in the analysis request
	ResultKey  string // section key in the analysis response
}

// Slot names
const (
	SlotManagementSummary = "management_summary"
	SlotOccupancyReport   = "occupancy_report"
	SlotOfferingMemo      = "offering_memo"
	SlotOtherDocs         = "other_docs"
	SlotRentRoll          = "rent_roll"
)

// MultiDocSlots is the fixed slot order of the multi-document flow.
var MultiDocSlots = []SlotSpec{
	{Name: SlotManagementSummary, Label: "Management Summary", RequestKey: "management_summary_s3_key", ResultKey: "management_summary_data"},
	{Name: SlotOccupancyReport, Label: "Occupancy Report", RequestKey: "occupancy_report_s3_key", ResultKey: "occupancy_report_data"},
	{Name: SlotOfferingMemo, Label: "Offering Memorandum", RequestKey: "offering_memo_s3_key", ResultKey: "offering_memo_data"},
	{Name: SlotOtherDocs, Label: "Other Document", RequestKey: "other_docs_s3_key", ResultKey: "other_docs_data"},
}

// RentRollSlot is the single slot of the rent-roll flow.
var RentRollSlot = SlotSpec{Name: SlotRentRoll, Label: "Rent Roll", RequestKey: "doc_url"}

// RentRollSubfolder namespaces rent-roll uploads inside a run folder.
const RentRollSubfolder = "rent-roll"

// UploadOutcome is the result of staging one slot. An empty Key means
// nothing was stored.
type UploadOutcome struct {
	Slot     string `json:"slot"`
	Filename string `json:"filename,omitempty"`
	Key      string `json:"key"`
}

// RunContext namespaces the blobs of one analysis run.
type RunContext struct {
	ID string `json:"id"`
}

// NewRunContext returns a run with a fresh random identifier.
func NewRunContext() RunContext {
	return RunContext{ID: uuid.NewString()}
}

// Folder returns base/ID followed by any subpath segments.
func (r RunContext) Folder(base string, subpath ...string) string {
	parts := make([]string, 0, len(subpath)+2)
	if base = strings.TrimRight(base, "/"); base != "" {
		parts = append(parts, base)
	}
	parts = append(parts, r.ID)
	parts = append(parts, subpath...)
	return strings.Join(parts, "/")
}

// AnalysisRequest is the multi-document payload. Every key is always sent;
// slots that were not staged carry "".
type AnalysisRequest struct {
	ManagementSummaryKey string `json:"management_summary_s3_key"`
	OccupancyReportKey   string `json:"occupancy_report_s3_key"`
	OfferingMemoKey      string `json:"offering_memo_s3_key"`
	OtherDocsKey         string `json:"other_docs_s3_key"`
	PropertyType         string `json:"property_type"`
	RunID                string `json:"run_id"`
}

// NewAnalysisRequest builds the payload from slot name → storage key.
func NewAnalysisRequest(keys map[string]string, propertyType, runID string) AnalysisRequest {
	return AnalysisRequest{
		ManagementSummaryKey: keys[SlotManagementSummary],
		OccupancyReportKey:   keys[SlotOccupancyReport],
		OfferingMemoKey:      keys[SlotOfferingMemo],
		OtherDocsKey:         keys[SlotOtherDocs],
		PropertyType:         propertyType,
		RunID:                runID,
	}
}

// AnalysisResponse maps a section key to its raw JSON value. Sections are
// validated before they are offered for display.
type AnalysisResponse map[string]json.RawMessage

// RentRollRequest is the rent-roll payload.
type RentRollRequest struct {
	DocURL string `json:"doc_url"`
	RunID  string `json:"run_id"`
}

// RentRollResponse keeps the payload raw so its shape can be checked.
type RentRollResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"rent_roll_json_data"`
	// Raw is the full body, kept for diagnostic dumps.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields leniently and keeps the raw body.
func (r *RentRollResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	r.Raw = append(r.Raw[:0], data...)
	r.Status = ""
	r.Data = nil
	if raw, ok := fields["status"]; ok {
		var status string
		if json.Unmarshal(raw, &status) == nil {
			r.Status = status
		}
	}
	if raw, ok := fields["rent_roll_json_data"]; ok {
		r.Data = raw
	}
	return nil
}

// RentRollStatusSuccess is the status flag of a usable rent-roll response.
const RentRollStatusSuccess = "success"
