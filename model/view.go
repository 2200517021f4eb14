package model

// Flow selects which pipeline the session is working in.
type Flow string

const (
	FlowMultiDoc Flow = "multi_doc"
	FlowRentRoll Flow = "rent_roll"
)

// ParseFlow returns the flow named by s.
func ParseFlow(s string) (Flow, bool) {
	switch Flow(s) {
	case FlowMultiDoc, FlowRentRoll:
		return Flow(s), true
	}
	return "", false
}

// ViewState is the screen a flow is on.
type ViewState string

const (
	ViewUpload          ViewState = "upload"
	ViewResults         ViewState = "results"
	ViewRentRollUpload  ViewState = "upload_rr"
	ViewRentRollResults ViewState = "results_rr"
)

// NoticeLevel orders user-facing messages by severity.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message shown in place on the page.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}
