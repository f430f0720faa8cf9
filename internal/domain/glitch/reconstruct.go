package glitch

import (
	"context"
	"time"

	"glitchcam-server-go/internal/domain/codec"
	"glitchcam-server-go/internal/domain/pixel"
)

// DefaultDecodeTimeout bounds how long reconstruction waits for the decode
// path before falling back to the raw byte mapping.
const DefaultDecodeTimeout = 40 * time.Millisecond

// Reconstructor turns a (possibly corrupted) encoded stream back into a
// displayable frame. Two completion paths race: a real decode of the stream,
// and a timeout that yields the fallback byte-to-pixel mapping. Whichever
// finishes first wins; the loser's result is discarded.
type Reconstructor struct {
	codec   codec.Codec
	timeout time.Duration
}

func NewReconstructor(c codec.Codec, timeout time.Duration) *Reconstructor {
	if timeout <= 0 {
		timeout = DefaultDecodeTimeout
	}
	return &Reconstructor{codec: c, timeout: timeout}
}

type decodeOutcome struct {
	buf *pixel.Buffer
	err error
}

// Reconstruct never fails: a decode error is an expected branch, not an
// error condition. The returned frame always has the original dimensions.
// The second return reports whether the decode path produced the result.
func (r *Reconstructor) Reconstruct(ctx context.Context, stream *Stream, width, height int) (*pixel.Buffer, bool) {
	// Buffered so the decode goroutine can finish and be collected even
	// after the timeout path has already won.
	outcome := make(chan decodeOutcome, 1)
	go func() {
		buf, err := r.codec.Decode(stream.Bytes, stream.MimeType)
		outcome <- decodeOutcome{buf: buf, err: err}
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()

	select {
	case out := <-outcome:
		if out.err == nil {
			return out.buf.Resample(width, height), true
		}
	case <-timer.C:
	case <-ctx.Done():
	}

	return fallbackFrame(stream.Bytes, width, height), false
}

// fallbackFrame visualizes the corrupted byte stream directly as a
// pseudo-image: pixel p reads its channels from bytes[p mod n] onward,
// cycling through the buffer when it is shorter than the pixel count.
func fallbackFrame(data []byte, width, height int) *pixel.Buffer {
	out := pixel.New(width, height)
	n := len(data)
	if n == 0 {
		for p := 0; p < width*height; p++ {
			out.Data[p*4+3] = 0xFF
		}
		return out
	}

	for p := 0; p < width*height; p++ {
		i := p % n
		out.Data[p*4] = data[i]
		out.Data[p*4+1] = data[(i+1)%n]
		out.Data[p*4+2] = data[(i+2)%n]
		out.Data[p*4+3] = 0xFF
	}
	return out
}
