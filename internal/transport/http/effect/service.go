// Package effect exposes one-shot corruption passes over HTTP: upload a
// frame, get the glitched frame back as PNG.
package effect

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"glitchcam-server-go/internal/domain/codec"
	"glitchcam-server-go/internal/domain/glitch"
	"glitchcam-server-go/internal/domain/preset"
	"glitchcam-server-go/internal/platform/config"
	platformerrors "glitchcam-server-go/internal/platform/errors"
	"glitchcam-server-go/internal/platform/logging"
	httptransport "glitchcam-server-go/internal/transport/http"
	"glitchcam-server-go/internal/transport/throttle"
)

// MaxFileSize caps uploaded frames at 10MB.
const MaxFileSize = 10 * 1024 * 1024

// Service runs one-shot engine passes for the HTTP API.
type Service struct {
	logger  *logging.Logger
	config  *config.Config
	codec   codec.Codec
	presets preset.Store
	gate    *throttle.Gate
}

// NewService creates the effect HTTP service.
func NewService(cfg *config.Config, logger *logging.Logger, c codec.Codec, presets preset.Store) (*Service, error) {
	if cfg == nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "effect.new", "config is required", nil)
	}
	if logger == nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "effect.new", "logger is required", nil)
	}
	if c == nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "effect.new", "codec is required", nil)
	}

	return &Service{
		logger:  logger,
		config:  cfg,
		codec:   c,
		presets: presets,
		gate:    throttle.NewGate(cfg.Engine.MinInterval),
	}, nil
}

// Register mounts the effect routes on the given group.
func (s *Service) Register(router *gin.RouterGroup) {
	router.GET("/effect", s.handleStatus)
	router.POST("/effect", s.handleApply)
	s.logger.InfoTag("HTTP", "effect routes registered")
}

func (s *Service) handleStatus(c *gin.Context) {
	defaults := s.config.Engine.Defaults
	data := StatusData{
		Modes:            glitch.Modes(),
		Mode:             defaults.Mode,
		Source:           defaults.Source,
		Dest:             defaults.Dest,
		HeaderProtection: defaults.HeaderProtection,
		Active:           defaults.Active,
		DecodeTimeoutMS:  s.config.Engine.DecodeTimeout.Milliseconds(),
		MinIntervalMS:    s.config.Engine.MinInterval.Milliseconds(),
	}
	httptransport.RespondSuccess(c, http.StatusOK, data, "effect service running")
}

func (s *Service) handleApply(c *gin.Context) {
	req, err := s.parseMultipartRequest(c)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, err.Error(), nil)
		s.logger.Warn("effect request rejected: %v", err)
		return
	}

	if err := s.gate.Acquire(); err != nil {
		httptransport.RespondError(c, http.StatusTooManyRequests, err.Error(), nil)
		return
	}
	defer s.gate.Release()

	px, err := s.codec.Decode(req.frameData, req.frameMime)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "uploaded frame could not be decoded", nil)
		s.logger.Warn("frame decode failed: %v", err)
		return
	}

	engine, err := s.buildEngine(c.Request.Context(), req)
	if err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	out, err := engine.ApplyEffect(c.Request.Context(), px)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, glitch.ErrUnknownMode) || errors.Is(err, glitch.ErrUnknownFormat) {
			status = http.StatusBadRequest
		}
		httptransport.RespondError(c, status, err.Error(), nil)
		s.logger.Warn("effect pass failed: %v", err)
		return
	}

	data, err := s.codec.Encode(out, codec.MimePNG, 1.0)
	if err != nil {
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to encode result frame", nil)
		s.logger.Error("result encode failed: %v", err)
		return
	}

	c.Data(http.StatusOK, codec.MimePNG, data)
}

// buildEngine assembles a throwaway engine for this request: config defaults
// first, then the named preset, then any explicit form fields on top.
func (s *Service) buildEngine(ctx context.Context, req *request) (*glitch.Engine, error) {
	engine := glitch.NewEngine(glitch.Options{
		Codec:         s.codec,
		DecodeTimeout: s.config.Engine.DecodeTimeout,
		Logger:        s.logger,
	})

	defaults := s.config.Engine.Defaults
	engine.SetPattern(defaults.Source, defaults.Dest)
	if defaults.Mode != "" {
		engine.SetMode(defaults.Mode)
	}
	engine.SetHeaderProtection(defaults.HeaderProtection)
	engine.SetActive(defaults.Active)

	if req.preset != "" {
		if s.presets == nil {
			return nil, fmt.Errorf("preset store not configured")
		}
		p, err := s.presets.Get(ctx, req.preset)
		if err != nil {
			return nil, fmt.Errorf("load preset %q: %w", req.preset, err)
		}
		engine.SetPattern(p.Source, p.Dest)
		engine.SetMode(p.Mode)
		engine.SetHeaderProtection(p.HeaderProtection)
		engine.SetActive(true)
	}

	if req.source != "" || req.dest != "" {
		engine.SetPattern(req.source, req.dest)
	}
	if req.mode != "" {
		engine.SetMode(req.mode)
	}
	if req.headerProtection != nil {
		engine.SetHeaderProtection(*req.headerProtection)
	}
	if req.active != nil {
		engine.SetActive(*req.active)
	}

	return engine, nil
}

func (s *Service) parseMultipartRequest(c *gin.Context) (*request, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("frame file is required: %w", err)
	}
	if fileHeader.Size > MaxFileSize {
		return nil, fmt.Errorf("frame exceeds %d byte limit", MaxFileSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded frame: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read uploaded frame: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("frame exceeds %d byte limit", MaxFileSize)
	}

	mime := codec.Sniff(data)
	if mime == "" {
		return nil, fmt.Errorf("uploaded frame is not a recognised image format")
	}

	req := &request{
		frameData: data,
		frameMime: mime,
		preset:    c.PostForm("preset"),
		mode:      c.PostForm("mode"),
		source:    c.PostForm("source"),
		dest:      c.PostForm("dest"),
	}

	if raw := c.PostForm("header_protection"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid header_protection value %q", raw)
		}
		req.headerProtection = &v
	}
	if raw := c.PostForm("active"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid active value %q", raw)
		}
		req.active = &v
	}

	return req, nil
}
