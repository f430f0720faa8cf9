package glitch

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"glitchcam-server-go/internal/domain/pixel"
)

func testFrame() *pixel.Buffer {
	buf := pixel.New(4, 4)
	for i := range buf.Data {
		buf.Data[i] = byte(i * 3)
	}
	return buf
}

func TestEngine_ApplyEffect_UnknownModeRejected(t *testing.T) {
	eng := NewEngine(Options{Codec: failingDecodeCodec()})
	eng.SetMode("invalid")

	_, err := eng.ApplyEffect(context.Background(), testFrame())
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestEngine_ApplyEffect_DeterministicWithFailingDecode(t *testing.T) {
	// With a fixed config, a fixed frame and a decode path that always
	// fails, the whole pass is a pure function of its inputs.
	eng := NewEngine(Options{Codec: failingDecodeCodec(), DecodeTimeout: 100 * time.Millisecond})
	eng.SetMode("jpeg")
	eng.SetPattern("\xff", "\x00")
	eng.SetActive(true)

	frame := testFrame()
	first, err := eng.ApplyEffect(context.Background(), frame.Clone())
	if err != nil {
		t.Fatalf("ApplyEffect error: %v", err)
	}
	second, err := eng.ApplyEffect(context.Background(), frame.Clone())
	if err != nil {
		t.Fatalf("ApplyEffect error: %v", err)
	}

	if !bytes.Equal(first.Data, second.Data) {
		t.Error("repeated calls with identical inputs produced different output")
	}
}

func TestEngine_ApplyEffect_InactiveSkipsCorruption(t *testing.T) {
	var sawEncode bool
	c := &fakeCodec{
		encode: func(buf *pixel.Buffer, _ string, _ float64) ([]byte, error) {
			sawEncode = true
			return jpegPayload(buf), nil
		},
		decode: func([]byte, string) (*pixel.Buffer, error) {
			return nil, errors.New("no decode")
		},
	}

	eng := NewEngine(Options{Codec: c, DecodeTimeout: 50 * time.Millisecond})
	eng.SetPattern("\xff", "\x00")
	eng.SetActive(false)

	frame := testFrame()
	inactive, err := eng.ApplyEffect(context.Background(), frame.Clone())
	if err != nil {
		t.Fatalf("ApplyEffect error: %v", err)
	}
	// The encode/reconstruct round trip still ran while inactive.
	if !sawEncode {
		t.Error("inactive engine skipped the encode round trip")
	}

	eng.SetActive(true)
	active, err := eng.ApplyEffect(context.Background(), frame.Clone())
	if err != nil {
		t.Fatalf("ApplyEffect error: %v", err)
	}

	if bytes.Equal(inactive.Data, active.Data) {
		t.Error("activating corruption changed nothing for a pattern present in the stream")
	}
}

func TestEngine_ApplyEffect_PreservesDimensions(t *testing.T) {
	eng := NewEngine(Options{Codec: failingDecodeCodec(), DecodeTimeout: 50 * time.Millisecond})

	frame := pixel.New(7, 3)
	out, err := eng.ApplyEffect(context.Background(), frame)
	if err != nil {
		t.Fatalf("ApplyEffect error: %v", err)
	}
	if out.Width != 7 || out.Height != 3 {
		t.Errorf("output dimensions %dx%d, want 7x3", out.Width, out.Height)
	}
}

func TestEngine_ApplyEffect_EncoderSubstitutionRejected(t *testing.T) {
	// A codec answering a BMP request with a PNG payload must surface
	// ErrUnsupportedFormat rather than silently proceeding.
	pngMagic := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	c := &fakeCodec{
		encode: func(*pixel.Buffer, string, float64) ([]byte, error) {
			return append([]byte(nil), pngMagic...), nil
		},
	}

	eng := NewEngine(Options{Codec: c})
	eng.SetMode("bmp")

	_, err := eng.ApplyEffect(context.Background(), testFrame())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEngine_SettersSnapshotConfig(t *testing.T) {
	eng := NewEngine(Options{Codec: failingDecodeCodec()})
	eng.SetPattern("abc", "xyz")
	eng.SetMode("png")
	eng.SetHeaderProtection(true)
	eng.SetActive(true)

	cfg := eng.Config()
	if string(cfg.SourceBytes) != "abc" || string(cfg.DestBytes) != "xyz" {
		t.Errorf("pattern not stored: %q -> %q", cfg.SourceBytes, cfg.DestBytes)
	}
	if cfg.Mode != "png" || !cfg.HeaderProtection || !cfg.Active {
		t.Errorf("flags not stored: %+v", cfg)
	}

	// snapshots are values: mutating engine state later does not touch them
	eng.SetActive(false)
	if !cfg.Active {
		t.Error("previously taken snapshot changed")
	}
}

func TestEngine_DefaultModeIsJPEG(t *testing.T) {
	eng := NewEngine(Options{Codec: failingDecodeCodec()})
	if cfg := eng.Config(); cfg.Mode != "jpeg" {
		t.Errorf("default mode = %q, want jpeg", cfg.Mode)
	}
}

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"jpeg", "png", "webp", "bmp"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q) unexpected error: %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "JPEG", "gif", "tiff"} {
		if _, err := ParseMode(invalid); !errors.Is(err, ErrUnknownMode) {
			t.Errorf("ParseMode(%q) expected ErrUnknownMode, got %v", invalid, err)
		}
	}
}
