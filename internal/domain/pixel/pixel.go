// Package pixel holds the RGBA8 frame representation exchanged between the
// capture sources, the corruption engine and the transports.
package pixel

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// Buffer is a width×height frame of RGBA8 samples, row-major, alpha last.
// The engine never resizes a buffer it is handed.
type Buffer struct {
	Width  int
	Height int
	Data   []byte
}

// New allocates a zeroed buffer of the given dimensions.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Data:   make([]byte, width*height*4),
	}
}

// FromBytes wraps raw RGBA data, validating its length against the dimensions.
func FromBytes(width, height int, data []byte) (*Buffer, error) {
	if want := width * height * 4; len(data) != want {
		return nil, fmt.Errorf("pixel data length %d does not match %dx%d (want %d)",
			len(data), width, height, want)
	}
	return &Buffer{Width: width, Height: height, Data: data}, nil
}

// FromImage converts any decoded image into an RGBA8 buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || bounds.Min != (image.Point{}) {
		converted := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		xdraw.Draw(converted, converted.Bounds(), img, bounds.Min, xdraw.Src)
		nrgba = converted
	}

	buf := New(bounds.Dx(), bounds.Dy())
	copy(buf.Data, nrgba.Pix)
	return buf
}

// NRGBA exposes the buffer as an image without copying the pixel data.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Data,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := New(b.Width, b.Height)
	copy(out.Data, b.Data)
	return out
}

// Resample scales the buffer to the target dimensions. Returns the receiver
// when the dimensions already match.
func (b *Buffer) Resample(width, height int) *Buffer {
	if b.Width == width && b.Height == height {
		return b
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), b.NRGBA(), b.NRGBA().Bounds(), xdraw.Src, nil)
	out := New(width, height)
	copy(out.Data, dst.Pix)
	return out
}
