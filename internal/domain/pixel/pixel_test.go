package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestFromBytes(t *testing.T) {
	data := make([]byte, 2*2*4)
	buf, err := FromBytes(2, 2, data)
	if err != nil {
		t.Fatalf("FromBytes error: %v", err)
	}
	if buf.Width != 2 || buf.Height != 2 {
		t.Errorf("unexpected dimensions %dx%d", buf.Width, buf.Height)
	}

	if _, err := FromBytes(2, 2, make([]byte, 15)); err == nil {
		t.Error("expected length mismatch error")
	}
}

func TestFromImageRoundTrip(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	buf := FromImage(img)
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("unexpected dimensions %dx%d", buf.Width, buf.Height)
	}

	back := buf.NRGBA()
	got := back.NRGBAAt(1, 1)
	if got != (color.NRGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("pixel round trip mismatch: %+v", got)
	}
}

func TestFromImage_NonZeroOrigin(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 7))
	img.SetNRGBA(5, 5, color.NRGBA{R: 42, A: 255})

	buf := FromImage(img)
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("unexpected dimensions %dx%d", buf.Width, buf.Height)
	}
	if buf.Data[0] != 42 {
		t.Errorf("origin pixel not translated, got R=%d", buf.Data[0])
	}
}

func TestResample(t *testing.T) {
	buf := New(4, 4)
	for i := 0; i < len(buf.Data); i += 4 {
		buf.Data[i] = 200
		buf.Data[i+3] = 255
	}

	out := buf.Resample(2, 2)
	if out.Width != 2 || out.Height != 2 {
		t.Fatalf("unexpected dimensions %dx%d", out.Width, out.Height)
	}
	if out.Data[0] != 200 || out.Data[3] != 255 {
		t.Errorf("resampled uniform image changed values: R=%d A=%d", out.Data[0], out.Data[3])
	}

	if same := buf.Resample(4, 4); same != buf {
		t.Error("resample to identical dimensions should return the receiver")
	}
}
