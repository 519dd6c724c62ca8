package avifpix

import (
	"fmt"

	"github.com/vearutop/avifpix/internal/imath"
)

// Premultiply scales color channels by alpha in place and marks the buffer
// premultiplied. Packed formats are not supported.
func (r *RGBImage) Premultiply() error {
	if err := r.alphaLoopCheck(); err != nil {
		return err
	}
	maxF := float32(r.MaxChannel())
	off := r.Format.offsets()
	n := r.Format.ChannelCount()
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			a := float32(r.channelAt(y, x*n+off[3])) / maxF
			for c := 0; c < 3; c++ {
				i := x*n + off[c]
				v := float32(r.channelAt(y, i)) * a
				r.setChannelAt(y, i, uint16(imath.Clamp(roundF(v), 0, int32(maxF))))
			}
		}
	}
	r.PremultiplyAlpha = true
	return nil
}

// Unpremultiply divides color channels by alpha in place. Zero alpha maps
// color to zero.
func (r *RGBImage) Unpremultiply() error {
	if err := r.alphaLoopCheck(); err != nil {
		return err
	}
	maxC := int32(r.MaxChannel())
	maxF := float32(maxC)
	off := r.Format.offsets()
	n := r.Format.ChannelCount()
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			a := float32(r.channelAt(y, x*n+off[3])) / maxF
			for c := 0; c < 3; c++ {
				i := x*n + off[c]
				if a == 0 {
					r.setChannelAt(y, i, 0)
					continue
				}
				v := float32(r.channelAt(y, i)) / a
				r.setChannelAt(y, i, uint16(imath.Clamp(roundF(v), 0, maxC)))
			}
		}
	}
	r.PremultiplyAlpha = false
	return nil
}

func (r *RGBImage) alphaLoopCheck() error {
	if !r.Format.HasAlpha() || r.Format.isPacked() {
		return fmt.Errorf("alpha on format %s: %w", r.Format, ErrInvalidArgument)
	}
	if !r.pixels.HasData() {
		return fmt.Errorf("alpha: %w", ErrNoContent)
	}
	return nil
}

// SetOpaque fills the alpha channel with the maximum value. Formats without
// alpha are left untouched.
func (r *RGBImage) SetOpaque() {
	if !r.Format.HasAlpha() || r.Format.isPacked() || !r.pixels.HasData() {
		return
	}
	opaque := uint16(r.MaxChannel())
	off := r.Format.offsets()
	n := r.Format.ChannelCount()
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			r.setChannelAt(y, x*n+off[3], opaque)
		}
	}
}

// ImportAlphaFrom copies the image's alpha plane into the RGB alpha channel,
// rescaling between depths with rounding.
func (r *RGBImage) ImportAlphaFrom(img *Image) error {
	if !r.Format.HasAlpha() || r.Format.isPacked() {
		return fmt.Errorf("alpha import to format %s: %w", r.Format, ErrInvalidArgument)
	}
	if !img.HasPlane(PlaneA) {
		return fmt.Errorf("alpha import: %w", ErrNoContent)
	}
	srcMax := int64(img.MaxChannel())
	dstMax := int64(r.MaxChannel())
	off := r.Format.offsets()
	n := r.Format.ChannelCount()
	for y := 0; y < r.Height; y++ {
		row := img.planeRow(PlaneA, y)
		for x := 0; x < r.Width; x++ {
			v := int64(row.at(x))
			if v > srcMax {
				v = srcMax
			}
			if srcMax != dstMax {
				v = (v*dstMax + srcMax/2) / srcMax
			}
			r.setChannelAt(y, x*n+off[3], uint16(v))
		}
	}
	return nil
}

// importAlphaFromRGB copies the RGB alpha channel into the image's alpha
// plane, rescaling between depths with rounding. The alpha plane must be
// allocated.
func (img *Image) importAlphaFromRGB(rgb *RGBImage) error {
	if !rgb.Format.HasAlpha() || rgb.Format.isPacked() {
		return fmt.Errorf("alpha import from format %s: %w", rgb.Format, ErrInvalidArgument)
	}
	if !img.HasPlane(PlaneA) {
		return fmt.Errorf("alpha import: %w", ErrNoContent)
	}
	srcMax := int64(rgb.MaxChannel())
	dstMax := int64(img.MaxChannel())
	off := rgb.Format.offsets()
	n := rgb.Format.ChannelCount()
	for y := 0; y < img.Height; y++ {
		row := img.planeRow(PlaneA, y)
		for x := 0; x < img.Width; x++ {
			v := int64(rgb.channelAt(y, x*n+off[3]))
			if srcMax != dstMax {
				v = (v*dstMax + srcMax/2) / srcMax
			}
			row.set(x, uint16(v))
		}
	}
	return nil
}

// AlphaToFullRange rescales a limited-range alpha plane to full range in
// place and flips the range flag. Images already in full range are left
// untouched.
func (img *Image) AlphaToFullRange() error {
	if img.YUVRange == RangeFull {
		return nil
	}
	if !img.HasPlane(PlaneA) {
		return fmt.Errorf("alpha range: %w", ErrNoContent)
	}
	if !validDepth(img.Depth) {
		return fmt.Errorf("alpha range: %w: depth %d", ErrUnsupportedDepth, img.Depth)
	}
	maxC := int32(img.MaxChannel())
	bias := int32(16) << (img.Depth - 8)
	rng := int32(219) << (img.Depth - 8)
	for y := 0; y < img.Height; y++ {
		row := img.planeRow(PlaneA, y)
		for x := 0; x < img.Width; x++ {
			v := (int32(row.at(x)) - bias) * maxC
			v = (v + rng/2) / rng
			row.set(x, uint16(imath.Clamp(v, 0, maxC)))
		}
	}
	img.YUVRange = RangeFull
	return nil
}
