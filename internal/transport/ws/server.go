// Package ws streams live frames over websocket: binary messages carry RGBA
// frames through the corruption engine, text messages reconfigure it.
package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"glitchcam-server-go/internal/domain/codec"
	"glitchcam-server-go/internal/domain/eventbus"
	"glitchcam-server-go/internal/domain/glitch"
	"glitchcam-server-go/internal/domain/preset"
	"glitchcam-server-go/internal/platform/config"
	"glitchcam-server-go/internal/platform/logging"
	"glitchcam-server-go/internal/platform/observability"
)

// ServerConfig stores the settings required to expose the websocket transport.
type ServerConfig struct {
	Addr             string
	Path             string
	HandshakeTimeout time.Duration
}

// Server upgrades HTTP connections and hands each one a session with a
// private corruption engine seeded from the configured defaults.
type Server struct {
	cfg      ServerConfig
	app      *config.Config
	codec    codec.Codec
	presets  preset.Store
	hub      *Hub
	logger   *logging.Logger
	upgrader *websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer builds a websocket transport server.
func NewServer(cfg ServerConfig, app *config.Config, c codec.Codec, presets preset.Store, logger *logging.Logger) *Server {
	if cfg.Path == "" {
		cfg.Path = "/stream"
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}

	return &Server{
		cfg:     cfg,
		app:     app,
		codec:   c,
		presets: presets,
		hub:     NewHub(logger),
		logger:  logger,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Start boots the HTTP server and listens for websocket upgrades. It blocks
// until the listener fails or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.httpSrv != nil {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.cfg.Path, s.handle)

	s.httpSrv = &http.Server{
		Addr:    s.cfg.Addr,
		Handler: mux,
	}

	if ctx != nil {
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), defaultCloseTimeout, context.Cause(ctx))
			defer cancel()
			_ = s.httpSrv.Shutdown(shutdownCtx)
		}()
	}

	if s.logger != nil {
		s.logger.InfoTag("WebSocket", "listening on %s%s", s.cfg.Addr, s.cfg.Path)
	}

	err := s.httpSrv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the websocket server and active sessions.
func (s *Server) Stop() error {
	if s.httpSrv == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeoutCause(context.Background(), defaultCloseTimeout, ErrSessionShutdown)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		return err
	}

	s.hub.CloseAll(ErrSessionShutdown)
	s.httpSrv = nil
	return nil
}

// Count exposes the number of active sessions.
func (s *Server) Count() int {
	return s.hub.Count()
}

func (s *Server) handle(w http.ResponseWriter, req *http.Request) {
	handshakeCtx, cancel := context.WithTimeoutCause(req.Context(), s.cfg.HandshakeTimeout, ErrHandshakeTimeout)
	defer cancel()
	req = req.WithContext(handshakeCtx)

	spanCtx, spanEnd := observability.StartSpan(handshakeCtx, "transport.websocket", "handle")

	socket, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		spanEnd(err)
		observability.RecordMetric(spanCtx, "websocket.upgrade.error", 1, map[string]string{
			"component": "transport.websocket",
		})
		if s.logger != nil {
			s.logger.ErrorTag("WebSocket", "handshake failed: %v", err)
		}
		return
	}
	spanEnd(nil)

	sessionID := uuid.NewString()
	conn := NewConnection(sessionID, socket)
	session := s.newSession(sessionID, conn)
	s.hub.Register(session)

	if s.logger != nil {
		s.logger.InfoTag("WebSocket", "session %s opened from %s", sessionID, req.RemoteAddr)
	}
	eventbus.PublishAsync(eventbus.EventConnectionOpened, eventbus.ConnectionEventData{
		SessionID:  sessionID,
		RemoteAddr: req.RemoteAddr,
	})

	go session.Run(func(runErr error) {
		s.hub.Unregister(sessionID)
		if runErr != nil && s.logger != nil {
			s.logger.WarnTag("WebSocket", "session %s ended abnormally: %v", sessionID, runErr)
		}
		eventbus.PublishAsync(eventbus.EventConnectionClosed, eventbus.ConnectionEventData{
			SessionID: sessionID,
		})
	})
}

// newSession seeds a per-session engine from the configured defaults. The
// session context derives from the server lifetime, not the handshake.
func (s *Server) newSession(id string, conn *Connection) *Session {
	engine := glitch.NewEngine(glitch.Options{
		Codec:         s.codec,
		DecodeTimeout: s.app.Engine.DecodeTimeout,
		Logger:        s.logger,
	})
	defaults := s.app.Engine.Defaults
	engine.SetPattern(defaults.Source, defaults.Dest)
	if defaults.Mode != "" {
		engine.SetMode(defaults.Mode)
	}
	engine.SetHeaderProtection(defaults.HeaderProtection)
	engine.SetActive(defaults.Active)

	return NewSession(context.Background(), id, conn, engine, s.app, s.presets, s.logger)
}
