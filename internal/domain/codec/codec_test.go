package codec

import (
	"testing"

	"glitchcam-server-go/internal/domain/pixel"
)

func testFrame() *pixel.Buffer {
	buf := pixel.New(8, 8)
	for p := 0; p < 8*8; p++ {
		buf.Data[p*4] = byte(p * 4)
		buf.Data[p*4+1] = byte(255 - p*3)
		buf.Data[p*4+2] = byte(p * 2)
		buf.Data[p*4+3] = 255
	}
	return buf
}

func TestStd_EncodeProducesMatchingSignature(t *testing.T) {
	std := NewStd()
	frame := testFrame()

	tests := []struct {
		mime    string
		quality float64
	}{
		{MimeJPEG, 0.95},
		{MimePNG, 0},
		{MimeWEBP, 0.95},
		{MimeBMP, 0},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			data, err := std.Encode(frame, tt.mime, tt.quality)
			if err != nil {
				t.Fatalf("Encode(%s) error: %v", tt.mime, err)
			}
			if len(data) == 0 {
				t.Fatal("empty payload")
			}
			if !Matches(data, tt.mime) {
				t.Errorf("payload signature does not match %s (head=%x)", tt.mime, data[:min(len(data), 12)])
			}
			if got := Sniff(data); got != tt.mime {
				t.Errorf("Sniff() = %q, want %q", got, tt.mime)
			}
		})
	}
}

func TestStd_DecodeRoundTrip(t *testing.T) {
	std := NewStd()
	frame := testFrame()

	for _, mime := range []string{MimeJPEG, MimePNG, MimeWEBP, MimeBMP} {
		t.Run(mime, func(t *testing.T) {
			data, err := std.Encode(frame, mime, 0.95)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			out, err := std.Decode(data, mime)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if out.Width != frame.Width || out.Height != frame.Height {
				t.Errorf("decoded dimensions %dx%d, want %dx%d",
					out.Width, out.Height, frame.Width, frame.Height)
			}
		})
	}
}

func TestStd_LosslessFormatsPreservePixels(t *testing.T) {
	std := NewStd()
	frame := testFrame()

	for _, mime := range []string{MimePNG, MimeBMP} {
		t.Run(mime, func(t *testing.T) {
			data, err := std.Encode(frame, mime, 0)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			out, err := std.Decode(data, mime)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			for i := range frame.Data {
				if out.Data[i] != frame.Data[i] {
					t.Fatalf("pixel byte %d differs: %d != %d", i, out.Data[i], frame.Data[i])
				}
			}
		})
	}
}

func TestStd_UnsupportedMime(t *testing.T) {
	std := NewStd()
	if _, err := std.Encode(testFrame(), "image/gif", 0); err == nil {
		t.Error("expected error for unsupported encode mime")
	}
	if _, err := std.Decode([]byte{1, 2, 3}, "image/gif"); err == nil {
		t.Error("expected error for unsupported decode mime")
	}
}

func TestStd_DecodeCorruptedStreamFails(t *testing.T) {
	std := NewStd()
	if _, err := std.Decode([]byte("definitely not a png"), MimePNG); err == nil {
		t.Error("expected decode failure for garbage payload")
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		mime string
		want bool
	}{
		{"jpeg magic", []byte{0xFF, 0xD8, 0xFF, 0xE0}, MimeJPEG, true},
		{"png magic", []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0}, MimePNG, true},
		{"bmp magic", []byte{'B', 'M', 0, 0}, MimeBMP, true},
		{"webp needs fourcc", []byte("RIFF\x00\x00\x00\x00WEBP"), MimeWEBP, true},
		{"riff without webp fourcc", []byte("RIFF\x00\x00\x00\x00WAVE"), MimeWEBP, false},
		{"png payload is not bmp", []byte{0x89, 'P', 'N', 'G'}, MimeBMP, false},
		{"unknown mime", []byte{0xFF, 0xD8}, "image/gif", false},
		{"short payload", []byte{0xFF}, MimeJPEG, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.data, tt.mime); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
