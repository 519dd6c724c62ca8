package avifpix

import (
	"errors"
	"testing"
)

func TestScaleDown(t *testing.T) {
	img := &Image{Width: 64, Height: 64, Depth: 8, YUVFormat: PixelFormatYUV420, YUVRange: RangeFull}
	if err := img.AllocatePlanes(AllPlanes); err != nil {
		t.Fatal(err)
	}
	if err := img.FillPlane(PlaneY, 100); err != nil {
		t.Fatal(err)
	}
	if err := img.Scale(32, 16); err != nil {
		t.Fatal(err)
	}
	if img.Width != 32 || img.Height != 16 {
		t.Fatalf("scaled to %dx%d, want 32x16", img.Width, img.Height)
	}
	if img.PlaneWidth(PlaneU) != 16 || img.PlaneHeight(PlaneU) != 8 {
		t.Fatalf("chroma %dx%d, want 16x8", img.PlaneWidth(PlaneU), img.PlaneHeight(PlaneU))
	}
	row, err := img.Row(PlaneY, 8)
	if err != nil {
		t.Fatal(err)
	}
	// A constant plane stays constant through resampling.
	for x, v := range row {
		if v != 100 {
			t.Fatalf("luma[%d] = %d, want 100", x, v)
		}
	}
	aRow, err := img.Row(PlaneA, 0)
	if err != nil {
		t.Fatal(err)
	}
	if aRow[0] != 255 {
		t.Fatalf("alpha %d, want opaque preserved", aRow[0])
	}
}

func TestScaleDown16Bit(t *testing.T) {
	img := &Image{Width: 16, Height: 16, Depth: 10, YUVFormat: PixelFormatYUV444, YUVRange: RangeFull}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	if err := img.FillPlane(PlaneY, 512); err != nil {
		t.Fatal(err)
	}
	if err := img.Scale(8, 8); err != nil {
		t.Fatal(err)
	}
	row, err := img.Row16(PlaneY, 4)
	if err != nil {
		t.Fatal(err)
	}
	if row[0] != 512 {
		t.Fatalf("got %d, want 512", row[0])
	}
}

func TestScaleRejectsUpscale(t *testing.T) {
	img := &Image{Width: 32, Height: 32, Depth: 8, YUVFormat: PixelFormatYUV444, YUVRange: RangeFull}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	if err := img.Scale(64, 64); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("got %v, want ErrNotImplemented", err)
	}
	// Mixed directions fail too.
	if err := img.Scale(16, 64); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("got %v, want ErrNotImplemented", err)
	}
}

func TestScaleNoopKeepsPlanes(t *testing.T) {
	img := &Image{Width: 32, Height: 32, Depth: 8, YUVFormat: PixelFormatYUV444, YUVRange: RangeFull}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	before := img.planes[PlaneY].buf8
	if err := img.Scale(32, 32); err != nil {
		t.Fatal(err)
	}
	after := img.planes[PlaneY].buf8
	if &before[0] != &after[0] {
		t.Fatal("no-op scale must not reallocate")
	}
}
