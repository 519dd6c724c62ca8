package avifpix

import (
	"bytes"
	"strings"
	"testing"
)

func TestY4MRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format PixelFormat
		rng    YUVRange
	}{
		{name: "420 8bit limited", depth: 8, format: PixelFormatYUV420, rng: RangeLimited},
		{name: "444 8bit full", depth: 8, format: PixelFormatYUV444, rng: RangeFull},
		{name: "422 10bit", depth: 10, format: PixelFormatYUV422, rng: RangeLimited},
		{name: "mono 12bit", depth: 12, format: PixelFormatYUV400, rng: RangeFull},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			img := &Image{Width: 6, Height: 4, Depth: tc.depth, YUVFormat: tc.format, YUVRange: tc.rng}
			if err := img.AllocatePlanes(YUVPlanes); err != nil {
				t.Fatal(err)
			}
			if err := img.FillPlane(PlaneY, uint16(img.MaxChannel()/3)); err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := WriteY4M(&buf, img); err != nil {
				t.Fatal(err)
			}

			got, err := ReadY4M(&buf)
			if err != nil {
				t.Fatal(err)
			}
			if got.Width != img.Width || got.Height != img.Height ||
				got.Depth != img.Depth || got.YUVFormat != img.YUVFormat ||
				got.YUVRange != img.YUVRange {
				t.Fatalf("header mismatch: %+v", got)
			}
			for _, p := range YUVPlanes {
				if !img.HasPlane(p) {
					continue
				}
				for y := 0; y < img.PlaneHeight(p); y++ {
					a := img.planeRow(p, y)
					b := got.planeRow(p, y)
					for x := 0; x < img.PlaneWidth(p); x++ {
						if a.at(x) != b.at(x) {
							t.Fatalf("plane %d (%d,%d): %d != %d", p, y, x, a.at(x), b.at(x))
						}
					}
				}
			}
		})
	}
}

func TestY4MAlpha(t *testing.T) {
	img := &Image{Width: 4, Height: 2, Depth: 8, YUVFormat: PixelFormatYUV444, YUVRange: RangeFull}
	if err := img.AllocatePlanes(AllPlanes); err != nil {
		t.Fatal(err)
	}
	row, _ := img.Row(PlaneA, 0)
	row[0] = 17

	var buf bytes.Buffer
	if err := WriteY4M(&buf, img); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "C444alpha") {
		t.Fatal("header must advertise the alpha plane")
	}

	got, err := ReadY4M(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasAlpha() {
		t.Fatal("alpha plane lost")
	}
	aRow, _ := got.Row(PlaneA, 0)
	if aRow[0] != 17 {
		t.Fatalf("alpha sample %d, want 17", aRow[0])
	}
}

func TestWriteY4MFrameRate(t *testing.T) {
	img := &Image{Width: 2, Height: 2, Depth: 8, YUVFormat: PixelFormatYUV420, YUVRange: RangeLimited}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteY4M(&buf, img, WithFrameRate(30000, 1001)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), " F30000:1001 ") {
		t.Fatalf("header %q lacks frame rate", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	if err := WriteY4M(&buf, img, WithFrameRate(0, 1)); err == nil {
		t.Fatal("expected rejection of a zero frame rate")
	}
}

func TestReadY4MRejectsGarbage(t *testing.T) {
	_, err := ReadY4M(strings.NewReader("RIFF nonsense\n"))
	if err == nil {
		t.Fatal("expected failure on bad signature")
	}
}
