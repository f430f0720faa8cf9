// Package codec is the narrow image-codec primitive consumed by the
// corruption engine: encode a pixel buffer into one of the four container
// formats, or decode container bytes back into pixels. The engine depends
// only on the Codec interface, never on a particular library.
package codec

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"

	"github.com/deepteams/webp"
	"golang.org/x/image/bmp"

	"glitchcam-server-go/internal/domain/pixel"
	"glitchcam-server-go/internal/platform/errors"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWEBP = "image/webp"
	MimeBMP  = "image/bmp"
)

// Codec converts between pixel buffers and container-format byte streams.
// Quality is in [0,1]; formats without a quality knob ignore it.
type Codec interface {
	Encode(buf *pixel.Buffer, mimeType string, quality float64) ([]byte, error)
	Decode(data []byte, mimeType string) (*pixel.Buffer, error)
}

// Std implements Codec over the stdlib jpeg/png encoders, x/image for BMP
// and deepteams/webp for WEBP.
type Std struct{}

func NewStd() *Std {
	return &Std{}
}

func (s *Std) Encode(buf *pixel.Buffer, mimeType string, quality float64) ([]byte, error) {
	img := buf.NRGBA()
	var out bytes.Buffer

	switch mimeType {
	case MimeJPEG:
		opts := &jpeg.Options{Quality: qualityPercent(quality)}
		if err := jpeg.Encode(&out, img, opts); err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.encode", "jpeg encode failed", err)
		}
	case MimePNG:
		if err := png.Encode(&out, img); err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.encode", "png encode failed", err)
		}
	case MimeWEBP:
		opts := &webp.EncoderOptions{Quality: float32(qualityPercent(quality))}
		if err := webp.Encode(&out, img, opts); err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.encode", "webp encode failed", err)
		}
	case MimeBMP:
		if err := bmp.Encode(&out, img); err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.encode", "bmp encode failed", err)
		}
	default:
		return nil, errors.New(errors.KindCodec, "codec.encode",
			fmt.Sprintf("unsupported mime type: %s", mimeType))
	}

	return out.Bytes(), nil
}

func (s *Std) Decode(data []byte, mimeType string) (*pixel.Buffer, error) {
	r := bytes.NewReader(data)

	switch mimeType {
	case MimeJPEG:
		img, err := jpeg.Decode(r)
		if err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.decode", "jpeg decode failed", err)
		}
		return pixel.FromImage(img), nil
	case MimePNG:
		img, err := png.Decode(r)
		if err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.decode", "png decode failed", err)
		}
		return pixel.FromImage(img), nil
	case MimeWEBP:
		img, err := webp.Decode(r)
		if err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.decode", "webp decode failed", err)
		}
		return pixel.FromImage(img), nil
	case MimeBMP:
		img, err := bmp.Decode(r)
		if err != nil {
			return nil, errors.Wrap(errors.KindCodec, "codec.decode", "bmp decode failed", err)
		}
		return pixel.FromImage(img), nil
	}

	return nil, errors.New(errors.KindCodec, "codec.decode",
		fmt.Sprintf("unsupported mime type: %s", mimeType))
}

func qualityPercent(quality float64) int {
	q := int(quality*100 + 0.5)
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}
