package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"glitchcam-server-go/internal/domain/eventbus"
	"glitchcam-server-go/internal/domain/glitch"
	"glitchcam-server-go/internal/domain/preset"
	"glitchcam-server-go/internal/platform/config"
	"glitchcam-server-go/internal/platform/logging"
	"glitchcam-server-go/internal/transport/throttle"
)

const defaultCloseTimeout = 5 * time.Second

// ControlMessage is the JSON text protocol: clients reconfigure their
// session engine, apply stored presets or ask for the current state.
type ControlMessage struct {
	Type             string  `json:"type"`
	Source           *string `json:"source,omitempty"`
	Dest             *string `json:"dest,omitempty"`
	Mode             *string `json:"mode,omitempty"`
	HeaderProtection *bool   `json:"header_protection,omitempty"`
	Active           *bool   `json:"active,omitempty"`
	Preset           *string `json:"preset,omitempty"`
}

// StateMessage reports the session engine configuration back to the client.
type StateMessage struct {
	Type             string `json:"type"`
	Source           string `json:"source"`
	Dest             string `json:"dest"`
	Mode             string `json:"mode"`
	HeaderProtection bool   `json:"header_protection"`
	Active           bool   `json:"active"`
}

// ErrorMessage tells the client a control message or frame was rejected.
type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Session owns one client connection and its private corruption engine.
// Frames the client sends while a pass is in flight, or before the minimum
// interval has elapsed, are dropped rather than queued.
type Session struct {
	id      string
	conn    *Connection
	engine  *glitch.Engine
	gate    *throttle.Gate
	presets preset.Store
	logger  *logging.Logger

	ctx    context.Context
	cancel context.CancelCauseFunc

	closed atomic.Bool
}

// NewSession constructs a managed websocket session with its own engine.
func NewSession(parent context.Context, id string, conn *Connection, engine *glitch.Engine, cfg *config.Config, presets preset.Store, logger *logging.Logger) *Session {
	sessionCtx, cancel := context.WithCancelCause(parent)
	return &Session{
		id:      id,
		conn:    conn,
		engine:  engine,
		gate:    throttle.NewGate(cfg.Engine.MinInterval),
		presets: presets,
		logger:  logger,
		ctx:     sessionCtx,
		cancel:  cancel,
	}
}

// Context returns the session context.
func (s *Session) Context() context.Context {
	return s.ctx
}

// ID exposes the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Run drives the read loop until the client disconnects or the session is
// closed, then invokes onDone with the terminal error.
func (s *Session) Run(onDone func(error)) {
	var runErr error
	defer func() {
		s.Close(runErr)
		if onDone != nil {
			onDone(runErr)
		}
	}()

	for {
		if s.ctx.Err() != nil {
			return
		}

		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !s.conn.IsClosed() {
				runErr = err
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			s.handleFrame(payload)
		case websocket.TextMessage:
			s.handleControl(payload)
		}
	}
}

func (s *Session) handleFrame(payload []byte) {
	if err := s.gate.Acquire(); err != nil {
		// Excess frames from webcam-rate callers are dropped, not queued.
		if s.logger != nil {
			s.logger.Debug("session %s dropped frame: %v", s.id, err)
		}
		return
	}
	defer s.gate.Release()

	px, err := DecodeFrame(payload)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	out, err := s.engine.ApplyEffect(s.ctx, px)
	if err != nil {
		s.sendError(err.Error())
		if s.logger != nil {
			s.logger.Warn("session %s effect pass failed: %v", s.id, err)
		}
		eventbus.PublishAsync(eventbus.EventEffectError, eventbus.EffectEventData{
			SessionID: s.id,
			Mode:      s.engine.Config().Mode,
		})
		return
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, EncodeFrame(out)); err != nil {
		if s.logger != nil {
			s.logger.Warn("session %s frame write failed: %v", s.id, err)
		}
	}
}

func (s *Session) handleControl(payload []byte) {
	var msg ControlMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		s.sendError("invalid control message")
		return
	}

	switch msg.Type {
	case "config":
		s.applyConfig(msg)
		s.sendState()
	case "preset":
		if msg.Preset == nil || *msg.Preset == "" {
			s.sendError("preset message requires a name")
			return
		}
		if err := s.applyPreset(*msg.Preset); err != nil {
			s.sendError(err.Error())
			return
		}
		s.sendState()
	case "status":
		s.sendState()
	default:
		s.sendError("unknown message type")
	}
}

func (s *Session) applyConfig(msg ControlMessage) {
	if msg.Source != nil || msg.Dest != nil {
		cfg := s.engine.Config()
		source := string(cfg.SourceBytes)
		dest := string(cfg.DestBytes)
		if msg.Source != nil {
			source = *msg.Source
		}
		if msg.Dest != nil {
			dest = *msg.Dest
		}
		s.engine.SetPattern(source, dest)
	}
	if msg.Mode != nil {
		s.engine.SetMode(*msg.Mode)
	}
	if msg.HeaderProtection != nil {
		s.engine.SetHeaderProtection(*msg.HeaderProtection)
	}
	if msg.Active != nil {
		s.engine.SetActive(*msg.Active)
	}
}

func (s *Session) applyPreset(name string) error {
	if s.presets == nil {
		return errors.New("preset store not configured")
	}
	p, err := s.presets.Get(s.ctx, name)
	if err != nil {
		return err
	}
	s.engine.SetPattern(p.Source, p.Dest)
	s.engine.SetMode(p.Mode)
	s.engine.SetHeaderProtection(p.HeaderProtection)
	s.engine.SetActive(true)
	return nil
}

func (s *Session) sendState() {
	cfg := s.engine.Config()
	s.sendJSON(StateMessage{
		Type:             "state",
		Source:           string(cfg.SourceBytes),
		Dest:             string(cfg.DestBytes),
		Mode:             cfg.Mode,
		HeaderProtection: cfg.HeaderProtection,
		Active:           cfg.Active,
	})
}

func (s *Session) sendError(message string) {
	s.sendJSON(ErrorMessage{Type: "error", Message: message})
}

func (s *Session) sendJSON(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil && s.logger != nil {
		s.logger.Debug("session %s text write failed: %v", s.id, err)
	}
}

// Close terminates the session once; later calls are no-ops.
func (s *Session) Close(reason error) {
	if reason == nil {
		reason = ErrSessionShutdown
	}

	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	if s.cancel != nil {
		s.cancel(reason)
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil && s.logger != nil {
			s.logger.Warn("session %s connection close failed: %v", s.id, err)
		}
	}
}
