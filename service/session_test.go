package service

import (
	"encoding/json"
	"testing"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
)

func TestNewSessionState(t *testing.T) {
	s := NewSessionState("sess")

	if s.Flow != model.FlowMultiDoc {
		t.Errorf("Expected multi-doc flow, got %s", s.Flow)
	}
	if s.MultiDoc.View != model.ViewUpload || s.RentRoll.View != model.ViewRentRollUpload {
		t.Errorf("Expected upload views, got %s / %s", s.MultiDoc.View, s.RentRoll.View)
	}
	if s.MultiDoc.Run.ID == "" || s.MultiDoc.Run.ID == s.RentRoll.Run.ID {
		t.Errorf("Expected independent run ids, got %q / %q", s.MultiDoc.Run.ID, s.RentRoll.Run.ID)
	}
}

func TestSwitchFlowResetsBothFlows(t *testing.T) {
	s := NewSessionState("sess")
	s.CompleteMultiDoc(model.AnalysisResponse{"occupancy_report_data": json.RawMessage(`{}`)}, "Occupancy Report")
	s.CompleteRentRoll(&model.RentRollResponse{Status: "success"})
	prevMulti, prevRent := s.MultiDoc.Run.ID, s.RentRoll.Run.ID

	if !s.SwitchFlow(model.FlowRentRoll) {
		t.Fatal("Expected flow change to be reported")
	}

	if s.Flow != model.FlowRentRoll {
		t.Errorf("Expected rent roll flow, got %s", s.Flow)
	}
	if s.MultiDoc.Results != nil || s.RentRoll.Results != nil {
		t.Error("Expected both flows' results to be cleared")
	}
	if s.MultiDoc.Nav != "" {
		t.Errorf("Expected nav to be cleared, got %q", s.MultiDoc.Nav)
	}
	if s.MultiDoc.View != model.ViewUpload || s.RentRoll.View != model.ViewRentRollUpload {
		t.Errorf("Expected upload views, got %s / %s", s.MultiDoc.View, s.RentRoll.View)
	}
	if s.MultiDoc.Run.ID == prevMulti || s.RentRoll.Run.ID == prevRent {
		t.Error("Expected new run contexts")
	}
}

func TestSwitchFlowSameFlowIsNoop(t *testing.T) {
	s := NewSessionState("sess")
	s.CompleteMultiDoc(model.AnalysisResponse{}, "")
	run := s.MultiDoc.Run.ID

	if s.SwitchFlow(model.FlowMultiDoc) {
		t.Error("Expected no change for the current flow")
	}
	if s.MultiDoc.View != model.ViewResults || s.MultiDoc.Run.ID != run {
		t.Error("Expected state to be untouched")
	}
}

func TestStartNewAnalysis(t *testing.T) {
	s := NewSessionState("sess")
	s.CompleteMultiDoc(model.AnalysisResponse{"x": json.RawMessage(`{}`)}, "Other Document")
	s.CompleteRentRoll(&model.RentRollResponse{Status: "success"})
	prev := s.MultiDoc.Run.ID
	rentRun := s.RentRoll.Run.ID

	s.StartNewAnalysis(model.FlowMultiDoc)

	if s.MultiDoc.View != model.ViewUpload {
		t.Errorf("Expected upload view, got %s", s.MultiDoc.View)
	}
	if s.MultiDoc.Results != nil || s.MultiDoc.Nav != "" {
		t.Error("Expected results and nav to be cleared")
	}
	if s.MultiDoc.Run.ID == prev {
		t.Error("Expected a new run context")
	}
	if s.RentRoll.View != model.ViewRentRollResults || s.RentRoll.Run.ID != rentRun {
		t.Error("Expected rent roll flow to be untouched")
	}

	s.StartNewAnalysis(model.FlowRentRoll)
	if s.RentRoll.View != model.ViewRentRollUpload || s.RentRoll.Results != nil || s.RentRoll.Run.ID == rentRun {
		t.Errorf("Expected rent roll reset, got %+v", s.RentRoll)
	}
}

func TestNotices(t *testing.T) {
	s := NewSessionState("sess")
	s.Flash(model.Notice{Level: model.NoticeSuccess, Text: "Analysis Complete!"})

	got := s.TakeNotices()
	if len(got) != 1 || got[0].Text != "Analysis Complete!" {
		t.Errorf("Unexpected notices %v", got)
	}
	if len(s.TakeNotices()) != 0 {
		t.Error("Expected notices to be consumed")
	}
}
