package glitch

import (
	"context"
	"sync"
	"time"

	"glitchcam-server-go/internal/domain/codec"
	"glitchcam-server-go/internal/domain/eventbus"
	"glitchcam-server-go/internal/domain/pixel"
	"glitchcam-server-go/internal/platform/errors"
	"glitchcam-server-go/internal/platform/logging"
	"glitchcam-server-go/internal/platform/observability"
)

// Engine orchestrates one corruption pass: encode, substitute (when active),
// reconstruct. The active flag only gates substitution; the encode/decode
// round trip always runs, so lossy recompression artifacts are present even
// when the effect is inactive.
//
// The engine does not serialize calls: callers must keep at most one
// ApplyEffect in flight per instance. Configuration updates between calls
// are last-write-wins; each call works on the snapshot taken at entry.
type Engine struct {
	codec  codec.Codec
	recon  *Reconstructor
	logger *logging.Logger

	mu  sync.Mutex
	cfg PatternConfig
}

// Options configures a new engine. Codec is required; the zero timeout picks
// DefaultDecodeTimeout.
type Options struct {
	Codec         codec.Codec
	DecodeTimeout time.Duration
	Logger        *logging.Logger
}

func NewEngine(opts Options) *Engine {
	return &Engine{
		codec:  opts.Codec,
		recon:  NewReconstructor(opts.Codec, opts.DecodeTimeout),
		logger: opts.Logger,
		cfg: PatternConfig{
			Mode: string(ModeJPEG),
		},
	}
}

// SetPattern re-derives the source/dest byte sequences from the UTF-8
// encoding of the given strings.
func (e *Engine) SetPattern(source, dest string) {
	e.update(func(c PatternConfig) PatternConfig { return c.WithPattern(source, dest) })
}

// SetMode records the requested container format without validating it;
// unknown modes fail at ApplyEffect time.
func (e *Engine) SetMode(mode string) {
	e.update(func(c PatternConfig) PatternConfig { return c.WithMode(mode) })
}

func (e *Engine) SetHeaderProtection(enabled bool) {
	e.update(func(c PatternConfig) PatternConfig { return c.WithHeaderProtection(enabled) })
}

func (e *Engine) SetActive(enabled bool) {
	e.update(func(c PatternConfig) PatternConfig { return c.WithActive(enabled) })
}

// Config returns the current configuration snapshot.
func (e *Engine) Config() PatternConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) update(f func(PatternConfig) PatternConfig) {
	e.mu.Lock()
	e.cfg = f(e.cfg)
	e.mu.Unlock()
}

// ApplyEffect runs one full corruption pass over the frame and returns the
// reconstructed frame at the same dimensions. Configuration errors (an
// unknown mode, an unsupported container) are fatal to the call; decode
// failures inside reconstruction are not errors and resolve to the fallback
// frame instead.
func (e *Engine) ApplyEffect(ctx context.Context, px *pixel.Buffer) (*pixel.Buffer, error) {
	cfg := e.Config()
	start := time.Now()

	ctx, spanEnd := observability.StartSpan(ctx, "glitch.engine", "apply_effect")

	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		err = errors.Wrap(errors.KindEngine, "engine.apply",
			"configured corruption mode is not recognised", err)
		spanEnd(err)
		return nil, err
	}

	stream, err := Encode(e.codec, px, mode)
	if err != nil {
		spanEnd(err)
		return nil, err
	}

	replacements := 0
	if cfg.Active {
		res, corruptErr := Corrupt(stream, cfg)
		if corruptErr != nil {
			spanEnd(corruptErr)
			return nil, corruptErr
		}
		replacements = res.Replacements
	}

	out, decoded := e.recon.Reconstruct(ctx, stream, px.Width, px.Height)
	spanEnd(nil)

	elapsed := time.Since(start)
	if e.logger != nil {
		e.logger.Debug("effect applied: mode=%s active=%t replacements=%d decoded=%t duration=%s",
			mode, cfg.Active, replacements, decoded, elapsed)
	}

	eventbus.PublishAsync(eventbus.EventEffectApplied, eventbus.EffectEventData{
		Mode:         string(mode),
		Active:       cfg.Active,
		Replacements: replacements,
		Fallback:     !decoded,
		Duration:     elapsed,
	})
	if !decoded {
		eventbus.PublishAsync(eventbus.EventEffectFallback, eventbus.EffectEventData{
			Mode:         string(mode),
			Replacements: replacements,
			Fallback:     true,
			Duration:     elapsed,
		})
	}

	return out, nil
}
