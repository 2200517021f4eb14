package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
)

// ErrNoSections means the response carried no well-formed section.
var ErrNoSections = errors.New("analysis completed, but no data was returned in the expected format")

const (
	noSummaryText = "No summary available."
	noReportText  = "No full report available."
)

// SectionSpec ties a display name to where its texts live in the response.
type SectionSpec struct {
	DisplayName  string
	ResponseKey  string
	SummaryField string
	ReportField  string
}

// MultiDocSections is the result table of the multi-document flow, in
// display order.
var MultiDocSections = []SectionSpec{
	{DisplayName: "Management Summary", ResponseKey: "management_summary_data", SummaryField: "m_s_summary", ReportField: "full_report"},
	{DisplayName: "Occupancy Report", ResponseKey: "occupancy_report_data", SummaryField: "o_r_summary", ReportField: "full_report"},
	{DisplayName: "Offering Memorandum", ResponseKey: "offering_memo_data", SummaryField: "o_m_summary", ReportField: "full_report"},
	{DisplayName: "Other Document", ResponseKey: "other_docs_data", SummaryField: "o_d_summary", ReportField: "full_report"},
}

// UnknownSection is a response key outside the section table.
type UnknownSection struct {
	Key string
	Raw string
}

// ResultView is what the results page shows for the selected section.
// Summary and FullReport are already escaped for the markdown renderer.
type ResultView struct {
	Available  []string
	Selected   string
	Summary    string
	FullReport string
	Unknown    []UnknownSection
}

// ResultNavigator picks which section of a response is displayed.
type ResultNavigator struct {
	sections []SectionSpec
}

func NewResultNavigator(sections []SectionSpec) *ResultNavigator {
	return &ResultNavigator{sections: sections}
}

// Available lists, in table order, the sections whose value is a JSON object.
func (n *ResultNavigator) Available(resp model.AnalysisResponse) []string {
	var names []string
	for _, s := range n.sections {
		if _, ok := sectionRecord(resp, s.ResponseKey); ok {
			names = append(names, s.DisplayName)
		}
	}
	return names
}

// DefaultSelection returns previous if it is still navigable, otherwise the
// first navigable section, or "" when there is none.
func (n *ResultNavigator) DefaultSelection(resp model.AnalysisResponse, previous string) string {
	available := n.Available(resp)
	for _, name := range available {
		if name == previous {
			return previous
		}
	}
	if len(available) > 0 {
		return available[0]
	}
	return ""
}

// Navigate builds the view for the selected section. resp is not modified.
func (n *ResultNavigator) Navigate(resp model.AnalysisResponse, previous string) (*ResultView, error) {
	view := &ResultView{
		Available: n.Available(resp),
		Unknown:   n.unknown(resp),
	}
	if len(view.Available) == 0 {
		return view, ErrNoSections
	}

	view.Selected = n.DefaultSelection(resp, previous)
	summary, report := n.Texts(resp, view.Selected)
	view.Summary = EscapeMarkdown(summary)
	view.FullReport = EscapeMarkdown(report)
	return view, nil
}

// Texts returns the unescaped summary and full report of a section, with
// placeholders for anything missing.
func (n *ResultNavigator) Texts(resp model.AnalysisResponse, displayName string) (summary, report string) {
	spec := n.spec(displayName)
	record, _ := sectionRecord(resp, spec.ResponseKey)
	return textField(record, spec.SummaryField, noSummaryText), textField(record, spec.ReportField, noReportText)
}

func (n *ResultNavigator) spec(displayName string) SectionSpec {
	for _, s := range n.sections {
		if s.DisplayName == displayName {
			return s
		}
	}
	return SectionSpec{}
}

func (n *ResultNavigator) unknown(resp model.AnalysisResponse) []UnknownSection {
	known := make(map[string]bool, len(n.sections))
	for _, s := range n.sections {
		known[s.ResponseKey] = true
	}

	var out []UnknownSection
	for key, raw := range resp {
		if known[key] {
			continue
		}
		out = append(out, UnknownSection{Key: key, Raw: indentJSON(raw)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// EscapeMarkdown escapes "$" so the markdown renderer does not start math
// mode on currency amounts.
func EscapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "$", `\$`)
}

func sectionRecord(resp model.AnalysisResponse, key string) (map[string]json.RawMessage, bool) {
	raw, ok := resp[key]
	if !ok {
		return nil, false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil, false
	}
	return record, true
}

func textField(record map[string]json.RawMessage, field, placeholder string) string {
	raw, ok := record[field]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return placeholder
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return placeholder
	}
	return s
}

func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
