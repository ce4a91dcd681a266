// Package control serves the brightness control websocket.
package control

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/frudas24/candela/internal/brightness"
	"github.com/frudas24/candela/internal/session"
)

// Engine is the controller surface driven by control messages.
type Engine interface {
	SetBrightness(percent int) brightness.Report
	ToggleMode() brightness.Report
	Reset() brightness.Report
	State() brightness.State
}

// Server handles the websocket control channel.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	engine   Engine
	guard    *session.Guard
	log      logrus.FieldLogger
	active   string
}

// NewServer creates a control websocket server.
func NewServer(engine Engine, guard *session.Guard, log logrus.FieldLogger) *Server {
	if guard == nil {
		guard = session.New("")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		engine: engine,
		guard:  guard,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.guard.Check(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := uuid.NewString()
	if !s.acquire(id) {
		http.Error(w, "control connection already active", http.StatusConflict)
		return
	}
	defer s.release(id)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Debug("control upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.WithField("conn", id)
	log.Info("control connection opened")
	defer log.Info("control connection closed")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		reply := s.handle(data)
		if err := conn.WriteJSON(reply); err != nil {
			log.WithError(err).Debug("control write failed")
			return
		}
	}
}

// Active reports whether a control connection is open.
func (s *Server) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != ""
}

// acquire reserves the single control slot for id.
func (s *Server) acquire(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != "" {
		return false
	}
	s.active = id
	return true
}

// release frees the control slot when id still owns it.
func (s *Server) release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == id {
		s.active = ""
	}
}

// handle decodes one message and runs it against the engine.
func (s *Server) handle(data []byte) Reply {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorReply("invalid message: " + err.Error())
	}
	return s.handleMessage(msg)
}

// handleMessage dispatches a single control message.
func (s *Server) handleMessage(msg Message) Reply {
	var report brightness.Report
	switch msg.T {
	case TypeSet:
		if msg.Percent == nil {
			return errorReply("percent is required")
		}
		report = s.engine.SetBrightness(*msg.Percent)
	case TypeToggle:
		report = s.engine.ToggleMode()
	case TypeReset:
		report = s.engine.Reset()
	case TypeState:
		return stateReply(s.engine.State(), nil)
	default:
		return errorReply(fmt.Sprintf("unknown message type %q", msg.T))
	}
	return stateReply(s.engine.State(), &report)
}
