package glitch

import (
	"bytes"
	"errors"
	"testing"
)

func streamOf(data []byte) *Stream {
	return &Stream{MimeType: "image/jpeg", Bytes: data}
}

func baseConfig(mode Mode) PatternConfig {
	return PatternConfig{Mode: string(mode)}
}

func TestCorrupt_NoOpWhenPatternsEqual(t *testing.T) {
	for _, mode := range []Mode{ModeJPEG, ModePNG, ModeWEBP, ModeBMP} {
		for _, protection := range []bool{false, true} {
			original := []byte("SSxxSSyySS")
			stream := streamOf(append([]byte(nil), original...))
			cfg := baseConfig(mode).WithPattern("SS", "SS").WithHeaderProtection(protection)

			res, err := Corrupt(stream, cfg)
			if err != nil {
				t.Fatalf("Corrupt error: %v", err)
			}
			if res.Replacements != 0 {
				t.Errorf("mode=%s protection=%t: expected 0 replacements, got %d",
					mode, protection, res.Replacements)
			}
			if !bytes.Equal(stream.Bytes, original) {
				t.Errorf("mode=%s protection=%t: stream bytes changed", mode, protection)
			}
		}
	}
}

func TestCorrupt_NoOpWhenPatternEmpty(t *testing.T) {
	tests := []struct {
		name         string
		source, dest string
	}{
		{"both empty", "", ""},
		{"empty source", "", "XX"},
		{"empty dest", "SS", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := []byte("SSxxSS")
			stream := streamOf(append([]byte(nil), original...))
			cfg := baseConfig(ModeJPEG).WithPattern(tt.source, tt.dest)

			res, err := Corrupt(stream, cfg)
			if err != nil {
				t.Fatalf("Corrupt error: %v", err)
			}
			if res.Replacements != 0 || !bytes.Equal(stream.Bytes, original) {
				t.Errorf("expected untouched stream, got %q (%d replacements)",
					stream.Bytes, res.Replacements)
			}
		})
	}
}

func TestCorrupt_ShortDestPadsWithLastByte(t *testing.T) {
	// stream [A,A,S,S,B], 2-byte source, 1-byte dest: the dest byte must
	// cover every overwritten position.
	stream := streamOf([]byte{'A', 'A', 'S', 'S', 'B'})
	cfg := baseConfig(ModeJPEG).WithPattern("SS", "D")

	res, err := Corrupt(stream, cfg)
	if err != nil {
		t.Fatalf("Corrupt error: %v", err)
	}
	if res.Replacements != 1 {
		t.Errorf("expected 1 replacement, got %d", res.Replacements)
	}
	want := []byte{'A', 'A', 'D', 'D', 'B'}
	if !bytes.Equal(stream.Bytes, want) {
		t.Errorf("stream = %q, want %q", stream.Bytes, want)
	}
}

func TestCorrupt_LongDestTruncatedToSourceLength(t *testing.T) {
	// The stream never grows: extra destination bytes are dropped.
	stream := streamOf([]byte{'x', 'S', 'S', 'x'})
	cfg := baseConfig(ModeJPEG).WithPattern("SS", "ABCDEF")

	res, err := Corrupt(stream, cfg)
	if err != nil {
		t.Fatalf("Corrupt error: %v", err)
	}
	if res.Replacements != 1 {
		t.Errorf("expected 1 replacement, got %d", res.Replacements)
	}
	want := []byte{'x', 'A', 'B', 'x'}
	if !bytes.Equal(stream.Bytes, want) {
		t.Errorf("stream = %q, want %q", stream.Bytes, want)
	}
	if len(stream.Bytes) != 4 {
		t.Errorf("stream length changed to %d", len(stream.Bytes))
	}
}

func TestCorrupt_MatchesAreNonOverlapping(t *testing.T) {
	stream := streamOf([]byte{'S', 'S', 'S', 'S'})
	cfg := baseConfig(ModeJPEG).WithPattern("SS", "DD")

	res, err := Corrupt(stream, cfg)
	if err != nil {
		t.Fatalf("Corrupt error: %v", err)
	}
	if res.Replacements != 2 {
		t.Errorf("expected exactly 2 non-overlapping matches, got %d", res.Replacements)
	}
}

func TestCorrupt_CountsEveryMatch(t *testing.T) {
	stream := streamOf([]byte("SS__SS__SS"))
	cfg := baseConfig(ModeJPEG).WithPattern("SS", "GL")

	res, err := Corrupt(stream, cfg)
	if err != nil {
		t.Fatalf("Corrupt error: %v", err)
	}
	if res.Replacements != 3 {
		t.Errorf("expected 3 replacements, got %d", res.Replacements)
	}
	if want := []byte("GL__GL__GL"); !bytes.Equal(stream.Bytes, want) {
		t.Errorf("stream = %q, want %q", stream.Bytes, want)
	}
}

func TestCorrupt_HeaderProtectionSkipsPrefix(t *testing.T) {
	// jpeg skip is 50 bytes and its fractional offset is zero: a match at
	// the head is protected, a match past the skip is rewritten.
	data := make([]byte, 120)
	copy(data[0:], "SS")
	copy(data[80:], "SS")
	stream := streamOf(data)
	cfg := baseConfig(ModeJPEG).WithPattern("SS", "DD").WithHeaderProtection(true)

	res, err := Corrupt(stream, cfg)
	if err != nil {
		t.Fatalf("Corrupt error: %v", err)
	}
	if res.Replacements != 1 {
		t.Errorf("expected 1 replacement beyond the protected prefix, got %d", res.Replacements)
	}
	if stream.Bytes[0] != 'S' || stream.Bytes[1] != 'S' {
		t.Error("protected header region was rewritten")
	}
	if stream.Bytes[80] != 'D' || stream.Bytes[81] != 'D' {
		t.Error("match beyond the protected prefix was not rewritten")
	}
}

func TestCorrupt_UnknownModeFails(t *testing.T) {
	stream := streamOf([]byte("SSSS"))
	cfg := PatternConfig{Mode: "tiff"}.WithPattern("SS", "DD")

	_, err := Corrupt(stream, cfg)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestStartOffset_Monotonic(t *testing.T) {
	// Enabling header protection never decreases the effective start offset.
	lengths := []int{0, 1, 10, 100, 1000, 100000}
	for _, mode := range []Mode{ModeJPEG, ModePNG, ModeWEBP, ModeBMP} {
		for _, n := range lengths {
			off := startOffset(mode, false, n)
			protected := startOffset(mode, true, n)
			if protected < off {
				t.Errorf("mode=%s len=%d: protected offset %d < unprotected %d",
					mode, n, protected, off)
			}
		}
	}
}

func TestStartOffset_FractionalBeatsFixedOnLongStreams(t *testing.T) {
	tests := []struct {
		mode Mode
		n    int
		want int
	}{
		{ModePNG, 10000, 5000},  // 50% of length wins over 200
		{ModeWEBP, 10000, 3000}, // 30% wins over 100
		{ModeBMP, 10000, 2000},  // 20% wins over 30
		{ModeJPEG, 10000, 50},   // jpeg has no fractional offset
		{ModePNG, 100, 200},     // fixed skip wins on short streams
	}

	for _, tt := range tests {
		if got := startOffset(tt.mode, true, tt.n); got != tt.want {
			t.Errorf("startOffset(%s, true, %d) = %d, want %d", tt.mode, tt.n, got, tt.want)
		}
	}
}
