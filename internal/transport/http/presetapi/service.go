// Package presetapi exposes CRUD over the preset store.
package presetapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"glitchcam-server-go/internal/domain/eventbus"
	"glitchcam-server-go/internal/domain/glitch"
	"glitchcam-server-go/internal/domain/preset"
	platformerrors "glitchcam-server-go/internal/platform/errors"
	"glitchcam-server-go/internal/platform/logging"
	httptransport "glitchcam-server-go/internal/transport/http"
)

// Service implements the preset HTTP API.
type Service struct {
	logger *logging.Logger
	store  preset.Store
}

// NewService creates the preset HTTP service.
func NewService(logger *logging.Logger, store preset.Store) (*Service, error) {
	if logger == nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "presetapi.new", "logger is required", nil)
	}
	if store == nil {
		return nil, platformerrors.Wrap(platformerrors.KindConfig, "presetapi.new", "preset store is required", nil)
	}
	return &Service{logger: logger, store: store}, nil
}

// Register mounts the preset routes. Mutating routes belong on the secured
// group when auth is enabled; the read side can stay open.
func (s *Service) Register(open, secured *gin.RouterGroup) {
	open.GET("/presets", s.handleList)
	open.GET("/presets/:name", s.handleGet)
	secured.POST("/presets", s.handleSave)
	secured.DELETE("/presets/:name", s.handleRemove)
	s.logger.InfoTag("HTTP", "preset routes registered")
}

func (s *Service) handleList(c *gin.Context) {
	presets, err := s.store.List(c.Request.Context())
	if err != nil {
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to list presets", nil)
		s.logger.Error("preset list failed: %v", err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, presets, "")
}

func (s *Service) handleGet(c *gin.Context) {
	name := c.Param("name")
	p, err := s.store.Get(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, preset.ErrNotFound) {
			httptransport.RespondError(c, http.StatusNotFound, "preset not found", nil)
			return
		}
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to load preset", nil)
		s.logger.Error("preset get failed: %v", err)
		return
	}
	httptransport.RespondSuccess(c, http.StatusOK, p, "")
}

func (s *Service) handleSave(c *gin.Context) {
	var p preset.Preset
	if err := c.ShouldBindJSON(&p); err != nil {
		httptransport.RespondError(c, http.StatusBadRequest, "invalid preset payload", nil)
		return
	}
	if p.Name == "" {
		httptransport.RespondError(c, http.StatusBadRequest, "preset name is required", nil)
		return
	}
	if p.Mode != "" {
		if _, err := glitch.ParseMode(p.Mode); err != nil {
			httptransport.RespondError(c, http.StatusBadRequest, "unknown corruption mode", nil)
			return
		}
	}

	if err := s.store.Save(c.Request.Context(), p); err != nil {
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to save preset", nil)
		s.logger.Error("preset save failed: %v", err)
		return
	}

	eventbus.PublishAsync(eventbus.EventPresetSaved, eventbus.PresetEventData{Name: p.Name, Mode: p.Mode})
	httptransport.RespondSuccess(c, http.StatusOK, p, "preset saved")
}

func (s *Service) handleRemove(c *gin.Context) {
	name := c.Param("name")
	if err := s.store.Remove(c.Request.Context(), name); err != nil {
		httptransport.RespondError(c, http.StatusInternalServerError, "failed to remove preset", nil)
		s.logger.Error("preset remove failed: %v", err)
		return
	}

	eventbus.PublishAsync(eventbus.EventPresetRemoved, eventbus.PresetEventData{Name: name})
	httptransport.RespondSuccess(c, http.StatusOK, nil, "preset removed")
}
