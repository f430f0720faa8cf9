package glitch

import (
	"errors"

	"glitchcam-server-go/internal/domain/pixel"
)

// fakeCodec lets tests pin down exactly what the codec primitive returns.
type fakeCodec struct {
	encode func(buf *pixel.Buffer, mimeType string, quality float64) ([]byte, error)
	decode func(data []byte, mimeType string) (*pixel.Buffer, error)
}

func (f *fakeCodec) Encode(buf *pixel.Buffer, mimeType string, quality float64) ([]byte, error) {
	if f.encode != nil {
		return f.encode(buf, mimeType, quality)
	}
	return nil, errors.New("encode not configured")
}

func (f *fakeCodec) Decode(data []byte, mimeType string) (*pixel.Buffer, error) {
	if f.decode != nil {
		return f.decode(data, mimeType)
	}
	return nil, errors.New("decode not configured")
}

// jpegPayload builds a deterministic pseudo-JPEG payload: valid magic bytes
// followed by bytes derived from the frame contents.
func jpegPayload(buf *pixel.Buffer) []byte {
	out := []byte{0xFF, 0xD8}
	for i := 0; i < len(buf.Data); i += 7 {
		out = append(out, buf.Data[i])
	}
	return out
}

func failingDecodeCodec() *fakeCodec {
	return &fakeCodec{
		encode: func(buf *pixel.Buffer, _ string, _ float64) ([]byte, error) {
			return jpegPayload(buf), nil
		},
		decode: func([]byte, string) (*pixel.Buffer, error) {
			return nil, errors.New("decode always fails")
		},
	}
}
