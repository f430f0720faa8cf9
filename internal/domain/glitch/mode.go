// Package glitch implements the image-stream corruption engine: a pixel
// buffer is re-encoded into one of four container formats, a byte pattern is
// substituted inside the encoded stream while format-critical regions stay
// protected, and the (possibly invalid) stream is reconstructed back into a
// displayable frame.
package glitch

import (
	"errors"

	"glitchcam-server-go/internal/domain/codec"
)

// Mode names a target container format.
type Mode string

const (
	ModeJPEG Mode = "jpeg"
	ModePNG  Mode = "png"
	ModeWEBP Mode = "webp"
	ModeBMP  Mode = "bmp"
)

// Sentinel errors for the failure modes callers dispatch on. They are always
// wrapped with a platform error carrying kind and op.
var (
	// ErrUnknownMode is raised when the configured mode is not one of the
	// four recognised values, at the moment the engine dispatches on it.
	ErrUnknownMode = errors.New("unknown corruption mode")
	// ErrUnsupportedFormat is raised when the codec cannot produce the
	// requested container, or silently substituted another one.
	ErrUnsupportedFormat = errors.New("unsupported container format")
	// ErrUnknownFormat is raised when the offset-table lookup fails during
	// substitution.
	ErrUnknownFormat = errors.New("unknown format for header protection")
)

// modeInfo is the per-format policy table: which mime type and quality the
// encoder uses, and how much of the stream head the corruptor must skip when
// header protection is on. Lossy, resilient formats (JPEG) tolerate
// corruption close to the header; strict formats (PNG) need a much larger
// untouched prefix, expressed as a fraction of the stream length.
type modeInfo struct {
	mime        string
	quality     float64
	hasQuality  bool
	skipBytes   int
	protectFrac float64
}

var modes = map[Mode]modeInfo{
	ModeJPEG: {mime: codec.MimeJPEG, quality: 0.95, hasQuality: true, skipBytes: 50, protectFrac: 0},
	ModePNG:  {mime: codec.MimePNG, skipBytes: 200, protectFrac: 0.5},
	ModeWEBP: {mime: codec.MimeWEBP, quality: 0.95, hasQuality: true, skipBytes: 100, protectFrac: 0.3},
	ModeBMP:  {mime: codec.MimeBMP, skipBytes: 30, protectFrac: 0.2},
}

// ParseMode validates a mode string against the closed set of formats.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modes[m]; !ok {
		return "", ErrUnknownMode
	}
	return m, nil
}

// Modes lists the supported mode names, for API responses and validation.
func Modes() []string {
	return []string{string(ModeJPEG), string(ModePNG), string(ModeWEBP), string(ModeBMP)}
}
