package service

import (
	"sync"

	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
)

// MultiDocState is the multi-document flow's slice of a session.
type MultiDocState struct {
	View    model.ViewState
	Run     model.RunContext
	Results model.AnalysisResponse
	Nav     string
}

// RentRollState is the rent-roll flow's slice of a session.
type RentRollState struct {
	View    model.ViewState
	Run     model.RunContext
	Results *model.RentRollResponse
}

// SessionState is everything one browser session remembers. Fields change
// only through the transition methods below. Callers serialise access with
// Lock/Unlock for the duration of a request.
type SessionState struct {
	mu sync.Mutex

	ID       string
	Flow     model.Flow
	MultiDoc MultiDocState
	RentRoll RentRollState
	notices  []model.Notice
}

// NewSessionState starts in the multi-document upload view.
func NewSessionState(id string) *SessionState {
	s := &SessionState{ID: id}
	s.Reset()
	return s
}

func (s *SessionState) Lock()   { s.mu.Lock() }
func (s *SessionState) Unlock() { s.mu.Unlock() }

// Reset returns the session to its initial state (logout).
func (s *SessionState) Reset() {
	s.Flow = model.FlowMultiDoc
	s.resetFlows()
	s.notices = nil
}

func (s *SessionState) resetFlows() {
	s.MultiDoc = MultiDocState{View: model.ViewUpload, Run: model.NewRunContext()}
	s.RentRoll = RentRollState{View: model.ViewRentRollUpload, Run: model.NewRunContext()}
}

// SwitchFlow selects flow. A change resets both flows and issues new runs.
func (s *SessionState) SwitchFlow(flow model.Flow) bool {
	if flow == s.Flow {
		return false
	}
	s.Flow = flow
	s.resetFlows()
	return true
}

// CompleteMultiDoc stores a successful response and shows the results.
func (s *SessionState) CompleteMultiDoc(resp model.AnalysisResponse, nav string) {
	s.MultiDoc.Results = resp
	s.MultiDoc.Nav = nav
	s.MultiDoc.View = model.ViewResults
}

// SelectSection records the section the user picked.
func (s *SessionState) SelectSection(name string) {
	s.MultiDoc.Nav = name
}

// CompleteRentRoll stores a successful rent-roll response.
func (s *SessionState) CompleteRentRoll(resp *model.RentRollResponse) {
	s.RentRoll.Results = resp
	s.RentRoll.View = model.ViewRentRollResults
}

// StartNewAnalysis returns flow to its upload view with a fresh run.
func (s *SessionState) StartNewAnalysis(flow model.Flow) {
	switch flow {
	case model.FlowRentRoll:
		s.RentRoll = RentRollState{View: model.ViewRentRollUpload, Run: model.NewRunContext()}
	default:
		s.MultiDoc = MultiDocState{View: model.ViewUpload, Run: model.NewRunContext()}
	}
}

// Flash queues notices for the next rendered page.
func (s *SessionState) Flash(notices ...model.Notice) {
	s.notices = append(s.notices, notices...)
}

// TakeNotices returns and clears the queued notices.
func (s *SessionState) TakeNotices() []model.Notice {
	n := s.notices
	s.notices = nil
	return n
}
