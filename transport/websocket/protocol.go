package websocket

import "github.com/kochabx/ciphertrace/core/trace"

// Command is an inbound control frame.
type Command struct {
	// Action is one of play, pause, toggle, next, prev, goto, speed,
	// start.
	Action     string `json:"action"`
	Index      int    `json:"index,omitempty"`
	IntervalMS int64  `json:"interval_ms,omitempty"`
}

// StepPayload carries one announced step.
type StepPayload struct {
	Index    int        `json:"index"`
	Total    int        `json:"total"`
	Step     trace.Step `json:"step"`
	Previous trace.Step `json:"previous,omitempty"`
}

// ReadyPayload is sent once after the connection is established.
type ReadyPayload struct {
	SessionID  string          `json:"session_id"`
	Algorithm  trace.Algorithm `json:"algorithm"`
	Index      int             `json:"index"`
	Total      int             `json:"total"`
	Playing    bool            `json:"playing"`
	IntervalMS int64           `json:"interval_ms"`
}

// Message is an outbound frame. Exactly one payload field is set,
// selected by Type.
type Message struct {
	Type    string        `json:"type"` // ready | step | state | error
	Ready   *ReadyPayload `json:"ready,omitempty"`
	Step    *StepPayload  `json:"step,omitempty"`
	Playing *bool         `json:"playing,omitempty"`
	Error   string        `json:"error,omitempty"`
}

func stepMessage(p StepPayload) Message {
	return Message{Type: "step", Step: &p}
}

func stateMessage(playing bool) Message {
	return Message{Type: "state", Playing: &playing}
}

func errorMessage(msg string) Message {
	return Message{Type: "error", Error: msg}
}
