package eventbus

import (
	"sync/atomic"

	"glitchcam-server-go/internal/platform/logging"
)

// Stats aggregates the effect and connection counters collected from the
// bus since startup.
type Stats struct {
	PassesApplied     uint64 `json:"passes_applied"`
	Fallbacks         uint64 `json:"fallbacks"`
	Errors            uint64 `json:"errors"`
	PresetsSaved      uint64 `json:"presets_saved"`
	PresetsRemoved    uint64 `json:"presets_removed"`
	SessionsOpened    uint64 `json:"sessions_opened"`
	SessionsClosed    uint64 `json:"sessions_closed"`
	TotalReplacements uint64 `json:"total_replacements"`
}

// StatsHandler subscribes to the bus topics and keeps running counters.
type StatsHandler struct {
	logger *logging.Logger

	passes       atomic.Uint64
	fallbacks    atomic.Uint64
	errors       atomic.Uint64
	saved        atomic.Uint64
	removed      atomic.Uint64
	opened       atomic.Uint64
	closed       atomic.Uint64
	replacements atomic.Uint64
}

// NewStatsHandler creates a handler; a nil logger disables per-event logs.
func NewStatsHandler(logger *logging.Logger) *StatsHandler {
	return &StatsHandler{logger: logger}
}

// Snapshot returns the current counter values.
func (h *StatsHandler) Snapshot() Stats {
	return Stats{
		PassesApplied:     h.passes.Load(),
		Fallbacks:         h.fallbacks.Load(),
		Errors:            h.errors.Load(),
		PresetsSaved:      h.saved.Load(),
		PresetsRemoved:    h.removed.Load(),
		SessionsOpened:    h.opened.Load(),
		SessionsClosed:    h.closed.Load(),
		TotalReplacements: h.replacements.Load(),
	}
}

func (h *StatsHandler) onEffectApplied(data EffectEventData) {
	h.passes.Add(1)
	h.replacements.Add(uint64(data.Replacements))
	if data.Fallback {
		h.fallbacks.Add(1)
	}
}

func (h *StatsHandler) onEffectError(data EffectEventData) {
	h.errors.Add(1)
	if h.logger != nil {
		h.logger.WarnTag("Events", "effect error: session=%s mode=%s", data.SessionID, data.Mode)
	}
}

func (h *StatsHandler) onPresetSaved(data PresetEventData) {
	h.saved.Add(1)
	if h.logger != nil {
		h.logger.InfoTag("Events", "preset saved: %s", data.Name)
	}
}

func (h *StatsHandler) onPresetRemoved(data PresetEventData) {
	h.removed.Add(1)
	if h.logger != nil {
		h.logger.InfoTag("Events", "preset removed: %s", data.Name)
	}
}

func (h *StatsHandler) onConnectionOpened(data ConnectionEventData) {
	h.opened.Add(1)
	if h.logger != nil {
		h.logger.InfoTag("Events", "session opened: %s", data.SessionID)
	}
}

func (h *StatsHandler) onConnectionClosed(data ConnectionEventData) {
	h.closed.Add(1)
	if h.logger != nil {
		h.logger.InfoTag("Events", "session closed: %s", data.SessionID)
	}
}

// SetupEventHandlers subscribes a stats handler to every bus topic and
// returns it so callers can expose the snapshot.
func SetupEventHandlers(logger *logging.Logger) *StatsHandler {
	handler := NewStatsHandler(logger)

	_ = SubscribeAsync(EventEffectApplied, handler.onEffectApplied)
	_ = SubscribeAsync(EventEffectError, handler.onEffectError)
	_ = SubscribeAsync(EventPresetSaved, handler.onPresetSaved)
	_ = SubscribeAsync(EventPresetRemoved, handler.onPresetRemoved)
	_ = SubscribeAsync(EventConnectionOpened, handler.onConnectionOpened)
	_ = SubscribeAsync(EventConnectionClosed, handler.onConnectionClosed)

	return handler
}
