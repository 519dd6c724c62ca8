package avifpix

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestShuffleChannels(t *testing.T) {
	src := newTestRGB(2, 2, 8, FormatRGBA)
	n := src.Format.ChannelCount()
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.setChannelAt(y, x*n+0, 10) // R
			src.setChannelAt(y, x*n+1, 20) // G
			src.setChannelAt(y, x*n+2, 30) // B
			src.setChannelAt(y, x*n+3, 40) // A
		}
	}

	dst, err := src.ShuffleChannelsTo(FormatBGRA)
	if err != nil {
		t.Fatal(err)
	}
	if got := [4]uint16{dst.channelAt(0, 0), dst.channelAt(0, 1), dst.channelAt(0, 2), dst.channelAt(0, 3)}; got != [4]uint16{30, 20, 10, 40} {
		t.Fatalf("got %v, want BGRA {30,20,10,40}", got)
	}

	// Dropping alpha keeps color order.
	rgbOnly, err := src.ShuffleChannelsTo(FormatBGR)
	if err != nil {
		t.Fatal(err)
	}
	if rgbOnly.channelAt(0, 0) != 30 || rgbOnly.channelAt(0, 2) != 10 {
		t.Fatal("BGR reorder wrong")
	}

	// Adding alpha fills opaque.
	withAlpha, err := rgbOnly.ShuffleChannelsTo(FormatARGB)
	if err != nil {
		t.Fatal(err)
	}
	if withAlpha.channelAt(0, 0) != 255 {
		t.Fatalf("synthesized alpha %d, want 255", withAlpha.channelAt(0, 0))
	}

	if _, err := src.ShuffleChannelsTo(FormatRGB565); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("got %v, want ErrNotImplemented for packed target", err)
	}
}

func TestPremultiplyRoundTrip(t *testing.T) {
	r := newTestRGB(2, 1, 8, FormatRGBA)
	r.setChannelAt(0, 0, 200)
	r.setChannelAt(0, 1, 100)
	r.setChannelAt(0, 2, 50)
	r.setChannelAt(0, 3, 128)
	r.setChannelAt(0, 4, 60)
	r.setChannelAt(0, 5, 60)
	r.setChannelAt(0, 6, 60)
	r.setChannelAt(0, 7, 0) // fully transparent

	if err := r.Premultiply(); err != nil {
		t.Fatal(err)
	}
	if !r.PremultiplyAlpha {
		t.Fatal("flag not set")
	}
	if got := r.channelAt(0, 0); got != 100 {
		t.Fatalf("premultiplied R = %d, want about 100", got)
	}
	if got := r.channelAt(0, 4); got != 0 {
		t.Fatalf("transparent pixel color %d, want 0", got)
	}

	if err := r.Unpremultiply(); err != nil {
		t.Fatal(err)
	}
	if got := int(r.channelAt(0, 0)); got < 198 || got > 202 {
		t.Fatalf("unpremultiplied R = %d, want about 200", got)
	}
}

func TestPackedRGB565Store(t *testing.T) {
	img := &Image{
		Width: 2, Height: 1, Depth: 8,
		YUVFormat:          PixelFormatYUV444,
		YUVRange:           RangeFull,
		MatrixCoefficients: MatrixCoefficientsIdentity,
	}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	// Identity GBR: G in luma, B in U, R in V. Pure red.
	if err := img.FillPlane(PlaneY, 0); err != nil {
		t.Fatal(err)
	}
	if err := img.FillPlane(PlaneU, 0); err != nil {
		t.Fatal(err)
	}
	if err := img.FillPlane(PlaneV, 255); err != nil {
		t.Fatal(err)
	}

	rgb := &RGBImage{Width: 2, Height: 1, Depth: 8, Format: FormatRGB565}
	if err := rgb.ConvertFromYUV(img); err != nil {
		t.Fatal(err)
	}
	row, err := rgb.Row(0)
	if err != nil {
		t.Fatal(err)
	}
	word := binary.LittleEndian.Uint16(row)
	if word != 31<<11 {
		t.Fatalf("packed word %04x, want %04x", word, 31<<11)
	}
}

func TestPackedRGBA1010102Store(t *testing.T) {
	img := &Image{
		Width: 1, Height: 1, Depth: 10,
		YUVFormat:          PixelFormatYUV444,
		YUVRange:           RangeFull,
		MatrixCoefficients: MatrixCoefficientsIdentity,
	}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	if err := img.FillPlane(PlaneY, 1023); err != nil { // G
		t.Fatal(err)
	}

	rgb := &RGBImage{Width: 1, Height: 1, Depth: 10, Format: FormatRGBA1010102}
	if err := rgb.ConvertFromYUV(img); err != nil {
		t.Fatal(err)
	}
	row, err := rgb.Row(0)
	if err != nil {
		t.Fatal(err)
	}
	word := binary.LittleEndian.Uint32(row)
	wantG := uint32(1023) << 10
	wantA := uint32(3) << 30
	if word != wantG|wantA {
		t.Fatalf("packed word %08x, want %08x", word, wantG|wantA)
	}
}

func TestPackedSourceRejected(t *testing.T) {
	rgb := &RGBImage{Width: 2, Height: 2, Depth: 8, Format: FormatRGB565}
	if err := rgb.Allocate(); err != nil {
		t.Fatal(err)
	}
	img := &Image{
		Width: 2, Height: 2, Depth: 8,
		YUVFormat:          PixelFormatYUV444,
		YUVRange:           RangeFull,
		MatrixCoefficients: MatrixCoefficientsBT601,
	}
	if err := img.ConvertToYUV(rgb); !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("got %v, want ErrNotImplemented", err)
	}
}

func TestImportAlphaDepthRescale(t *testing.T) {
	img := &Image{Width: 1, Height: 1, Depth: 10, YUVFormat: PixelFormatYUV444, YUVRange: RangeFull}
	if err := img.AllocatePlanes(AllPlanes); err != nil {
		t.Fatal(err)
	}
	row, _ := img.Row16(PlaneA, 0)
	row[0] = 1023

	rgb := newTestRGB(1, 1, 8, FormatRGBA)
	if err := rgb.ImportAlphaFrom(img); err != nil {
		t.Fatal(err)
	}
	if got := rgb.channelAt(0, 3); got != 255 {
		t.Fatalf("rescaled alpha %d, want 255", got)
	}

	row[0] = 512
	if err := rgb.ImportAlphaFrom(img); err != nil {
		t.Fatal(err)
	}
	if got := int(rgb.channelAt(0, 3)); got < 127 || got > 128 {
		t.Fatalf("rescaled alpha %d, want about 128", got)
	}
}
