// Package control serves the brightness control websocket.
package control

import "github.com/frudas24/candela/internal/brightness"

// Message types accepted from clients.
const (
	TypeSet    = "set"
	TypeToggle = "toggle"
	TypeReset  = "reset"
	TypeState  = "state"
)

// TypeError marks a reply describing a rejected message.
const TypeError = "error"

// Message is a control websocket request.
type Message struct {
	T       string `json:"t"`
	Percent *int   `json:"percent,omitempty"`
}

// Reply is a control websocket response.
type Reply struct {
	T      string             `json:"t"`
	Mode   brightness.Mode    `json:"mode,omitempty"`
	Level  *int               `json:"level,omitempty"`
	Report *brightness.Report `json:"report,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// stateReply builds a state reply from the controller state.
func stateReply(st brightness.State, report *brightness.Report) Reply {
	return Reply{T: TypeState, Mode: st.Mode, Level: st.Level, Report: report}
}

// errorReply builds an error reply.
func errorReply(msg string) Reply {
	return Reply{T: TypeError, Error: msg}
}
