package glitch

import (
	"fmt"

	"glitchcam-server-go/internal/domain/codec"
	"glitchcam-server-go/internal/domain/pixel"
	"glitchcam-server-go/internal/platform/errors"
)

// Stream is the container-format serialization of a frame. Its lifetime is
// scoped to a single corruption pass; the corruptor mutates Bytes in place.
type Stream struct {
	MimeType string
	Bytes    []byte
}

// Encode serializes a frame into the container format selected by mode.
// The produced payload's magic bytes are verified against the requested
// container: a codec that silently substitutes another format (the classic
// BMP-falls-back-to-PNG case) is reported as ErrUnsupportedFormat instead of
// being passed downstream.
func Encode(c codec.Codec, px *pixel.Buffer, mode Mode) (*Stream, error) {
	info, ok := modes[mode]
	if !ok {
		return nil, errors.Wrap(errors.KindCodec, "encoder.encode",
			fmt.Sprintf("no encoder for mode %q", mode), ErrUnsupportedFormat)
	}

	quality := 0.0
	if info.hasQuality {
		quality = info.quality
	}

	data, err := c.Encode(px, info.mime, quality)
	if err != nil {
		return nil, errors.Wrap(errors.KindCodec, "encoder.encode",
			fmt.Sprintf("%s encode failed", mode), err)
	}

	if !codec.Matches(data, info.mime) {
		detected := codec.Sniff(data)
		return nil, errors.Wrap(errors.KindCodec, "encoder.encode",
			fmt.Sprintf("codec substituted %q for requested %s", detected, info.mime),
			ErrUnsupportedFormat)
	}

	return &Stream{MimeType: info.mime, Bytes: data}, nil
}
