package control

import (
	"encoding/json"
	"testing"

	"github.com/frudas24/candela/internal/brightness"
)

// TestProtocol_Set verifies decoding a set message.
func TestProtocol_Set(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"set","percent":45}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != TypeSet || msg.Percent == nil || *msg.Percent != 45 {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_SetZero verifies an explicit zero is distinguished from a missing percent.
func TestProtocol_SetZero(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"set","percent":0}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.Percent == nil || *msg.Percent != 0 {
		t.Fatalf("expected explicit zero, got %+v", msg)
	}
}

// TestProtocol_Toggle verifies decoding a toggle message.
func TestProtocol_Toggle(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"toggle"}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if msg.T != TypeToggle || msg.Percent != nil {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

// TestProtocol_StateReplyUnknownLevel verifies an unknown level is omitted.
func TestProtocol_StateReplyUnknownLevel(t *testing.T) {
	data, err := json.Marshal(stateReply(brightness.State{Mode: brightness.ModeHardware}, nil))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"t":"state","mode":"hardware"}` {
		t.Fatalf("unexpected reply: %s", data)
	}
}

// TestProtocol_ErrorReply verifies error replies carry the message.
func TestProtocol_ErrorReply(t *testing.T) {
	data, err := json.Marshal(errorReply("unknown message type"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"t":"error","error":"unknown message type"}` {
		t.Fatalf("unexpected reply: %s", data)
	}
}
