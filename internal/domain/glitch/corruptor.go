package glitch

import (
	"bytes"
	"fmt"

	"glitchcam-server-go/internal/platform/errors"
)

// CorruptResult reports how many substitutions a corruption pass performed.
// The stream is the same object passed in; its bytes are rewritten in place.
type CorruptResult struct {
	Stream       *Stream
	Replacements int
}

// Corrupt scans the encoded stream for the source pattern and overwrites
// matches with the destination pattern, starting at a format- and
// protection-dependent offset. Matching is deterministic: left to right,
// non-overlapping, one byte at a time.
//
// A destination shorter than the source pads the remaining overwritten
// positions with its last byte, so no original source bytes survive inside a
// match. A destination longer than the source is truncated to the source
// length; the stream never grows. This mirrors the historical behavior and
// callers depend on it.
func Corrupt(stream *Stream, cfg PatternConfig) (CorruptResult, error) {
	result := CorruptResult{Stream: stream}

	mode, err := ParseMode(cfg.Mode)
	if err != nil {
		return result, errors.Wrap(errors.KindGlitch, "corruptor.corrupt",
			fmt.Sprintf("cannot resolve offsets for mode %q", cfg.Mode), ErrUnknownFormat)
	}

	if cfg.noop() {
		return result, nil
	}

	data := stream.Bytes
	start := startOffset(mode, cfg.HeaderProtection, len(data))

	src := cfg.SourceBytes
	dst := cfg.DestBytes
	lastDst := dst[len(dst)-1]

	for i := start; i+len(src) <= len(data); {
		if !bytes.Equal(data[i:i+len(src)], src) {
			i++
			continue
		}
		for j := 0; j < len(src); j++ {
			if j < len(dst) {
				data[i+j] = dst[j]
			} else {
				data[i+j] = lastDst
			}
		}
		result.Replacements++
		i += len(src)
	}

	return result, nil
}

// startOffset computes where substitution may begin. Without header
// protection corruption can start anywhere. With protection, the fixed
// per-format skip and the length-proportional prefix both apply; the larger
// one wins.
func startOffset(mode Mode, headerProtection bool, streamLen int) int {
	if !headerProtection {
		return 0
	}
	info := modes[mode]
	frac := int(float64(streamLen) * info.protectFrac)
	if info.skipBytes > frac {
		return info.skipBytes
	}
	return frac
}
