package avifpix

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"

	"github.com/vearutop/avifpix/internal/imath"
)

// Scale resamples all planes to the given dimensions in place. Only
// downscaling is supported; requests where either dimension grows fail with
// ErrNotImplemented. Interleaved-chroma images are rewritten as planar
// YUV420 on the way.
func (img *Image) Scale(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("scale to %dx%d: %w", width, height, ErrInvalidArgument)
	}
	if width > img.Width || height > img.Height {
		return fmt.Errorf("scale %dx%d -> %dx%d: upscaling: %w",
			img.Width, img.Height, width, height, ErrNotImplemented)
	}
	if width == img.Width && height == img.Height {
		return nil
	}
	if !img.HasPlane(PlaneY) && !img.HasPlane(PlaneA) {
		img.Width, img.Height = width, height
		return nil
	}

	src, err := img.planarized()
	if err != nil {
		return err
	}
	dst := src.cloneProperties()
	dst.Width, dst.Height = width, height

	var group []Plane
	for _, p := range AllPlanes {
		if src.HasPlane(p) {
			group = append(group, p)
		}
	}
	if err := dst.AllocatePlanes(group); err != nil {
		return err
	}
	for _, p := range group {
		if err := scalePlane(src, dst, p); err != nil {
			return err
		}
	}

	img.Width, img.Height = width, height
	img.Depth = dst.Depth
	img.YUVFormat = dst.YUVFormat
	img.planes = dst.planes
	img.rowBytes = dst.rowBytes
	return nil
}

// scalePlane resamples one plane through the stdlib gray image types.
func scalePlane(src, dst *Image, p Plane) error {
	sw, sh := src.PlaneWidth(p), src.PlaneHeight(p)
	dw, dh := dst.PlaneWidth(p), dst.PlaneHeight(p)
	if sw == 0 || sh == 0 || dw == 0 || dh == 0 {
		return fmt.Errorf("scale plane %d: %w", p, ErrNoContent)
	}

	if !src.planes[p].is16() {
		gray := &image.Gray{
			Pix:    src.planes[p].buf8,
			Stride: src.rowBytes[p],
			Rect:   image.Rect(0, 0, sw, sh),
		}
		out, ok := resize.Resize(uint(dw), uint(dh), gray, resize.Bilinear).(*image.Gray)
		if !ok {
			return fmt.Errorf("scale plane %d: %w", p, ErrUnknown)
		}
		for y := 0; y < dh; y++ {
			row, err := dst.Row(p, y)
			if err != nil {
				return err
			}
			copy(row, out.Pix[y*out.Stride:y*out.Stride+dw])
		}
		return nil
	}

	// 16-bit planes go through Gray16, which stores big-endian bytes.
	gray := image.NewGray16(image.Rect(0, 0, sw, sh))
	for y := 0; y < sh; y++ {
		row, err := src.Row16(p, y)
		if err != nil {
			return err
		}
		for x := 0; x < sw; x++ {
			v := row[x]
			gray.Pix[y*gray.Stride+x*2] = uint8(v >> 8)
			gray.Pix[y*gray.Stride+x*2+1] = uint8(v)
		}
	}
	out, ok := resize.Resize(uint(dw), uint(dh), gray, resize.Bilinear).(*image.Gray16)
	if !ok {
		return fmt.Errorf("scale plane %d: %w", p, ErrUnknown)
	}
	maxC := int32(dst.MaxChannel())
	for y := 0; y < dh; y++ {
		row, err := dst.Row16(p, y)
		if err != nil {
			return err
		}
		for x := 0; x < dw; x++ {
			v := int32(out.Pix[y*out.Stride+x*2])<<8 | int32(out.Pix[y*out.Stride+x*2+1])
			row[x] = uint16(imath.Clamp(v, 0, maxC))
		}
	}
	return nil
}
