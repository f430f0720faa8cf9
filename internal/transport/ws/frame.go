package ws

import (
	"encoding/binary"
	"fmt"

	"glitchcam-server-go/internal/domain/pixel"
)

// frameHeaderSize is the fixed prefix of every binary frame: width and
// height as big-endian uint32, followed by the raw RGBA payload.
const frameHeaderSize = 8

// maxFrameDim bounds the dimensions a client can claim in a frame header.
const maxFrameDim = 8192

// EncodeFrame serializes a pixel buffer into the wire framing.
func EncodeFrame(px *pixel.Buffer) []byte {
	out := make([]byte, frameHeaderSize+len(px.Data))
	binary.BigEndian.PutUint32(out[0:4], uint32(px.Width))
	binary.BigEndian.PutUint32(out[4:8], uint32(px.Height))
	copy(out[frameHeaderSize:], px.Data)
	return out
}

// DecodeFrame parses the wire framing back into a pixel buffer. The payload
// length must match the dimensions exactly.
func DecodeFrame(data []byte) (*pixel.Buffer, error) {
	if len(data) < frameHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrBadFrame, len(data))
	}

	width := int(binary.BigEndian.Uint32(data[0:4]))
	height := int(binary.BigEndian.Uint32(data[4:8]))
	if width <= 0 || height <= 0 || width > maxFrameDim || height > maxFrameDim {
		return nil, fmt.Errorf("%w: dimensions %dx%d out of range", ErrBadFrame, width, height)
	}

	px, err := pixel.FromBytes(width, height, data[frameHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return px, nil
}
