package eventbus

import "time"

const (
	// Effect pipeline events
	EventEffectApplied  = "effect:applied"
	EventEffectFallback = "effect:fallback"
	EventEffectError    = "effect:error"

	// Preset store events
	EventPresetSaved   = "preset:saved"
	EventPresetRemoved = "preset:removed"

	// Transport events
	EventConnectionOpened = "connection:opened"
	EventConnectionClosed = "connection:closed"
)

// EffectEventData describes one corruption pass.
type EffectEventData struct {
	SessionID    string        `json:"session_id,omitempty"`
	Mode         string        `json:"mode"`
	Active       bool          `json:"active"`
	Replacements int           `json:"replacements"`
	Fallback     bool          `json:"fallback"`
	Duration     time.Duration `json:"duration"`
}

// PresetEventData describes a preset store change.
type PresetEventData struct {
	Name string `json:"name"`
	Mode string `json:"mode,omitempty"`
}

// ConnectionEventData describes a websocket session lifecycle change.
type ConnectionEventData struct {
	SessionID  string `json:"session_id"`
	RemoteAddr string `json:"remote_addr,omitempty"`
}
