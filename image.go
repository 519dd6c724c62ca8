package avifpix

import (
	"fmt"

	"github.com/vearutop/avifpix/internal/imath"
)

// Refuse plane allocations above this many bytes. Mirrors the defensive
// allocation cap used by browser embedders of AV1 decoders.
const maxPlaneAllocBytes = 2_145_386_496

// Image holds one decoded or to-be-encoded image as up to four sample planes
// (Y, U, V, Alpha). Planes are either owned by the image or views into
// another image's storage; see View.
type Image struct {
	Width  int
	Height int
	Depth  int

	YUVFormat            PixelFormat
	YUVRange             YUVRange
	ChromaSamplePosition ChromaSamplePosition

	AlphaPremultiplied bool

	ColorPrimaries          ColorPrimaries
	TransferCharacteristics TransferCharacteristics
	MatrixCoefficients      MatrixCoefficients

	// Transform properties from the container, applied in the order
	// mirror, rotate, crop, scale by the renderer. Nil means absent.
	CLLI      *ContentLightLevel
	Pasp      *PixelAspectRatio
	Clap      *CleanAperture
	IrotAngle *uint8 // multiples of 90 degrees counter-clockwise, 0..3
	ImirAxis  *uint8 // 0 = vertical axis, 1 = horizontal axis

	// Opaque metadata blobs, stored as-is.
	ICC  []byte
	Exif []byte
	XMP  []byte

	GainMap *GainMap

	planes   [maxPlaneCount]Pixels
	rowBytes [maxPlaneCount]int
}

// HasTransform reports whether any transformative property (rotation,
// mirror, clean aperture) is set.
func (img *Image) HasTransform() bool {
	return img.IrotAngle != nil || img.ImirAxis != nil || img.Clap != nil
}

func validDepth(depth int) bool {
	switch depth {
	case 8, 10, 12, 16:
		return true
	}
	return false
}

// MaxChannel returns the largest representable sample value for the image
// depth, or 0 for an invalid depth.
func (img *Image) MaxChannel() int {
	if !validDepth(img.Depth) {
		return 0
	}
	return (1 << img.Depth) - 1
}

func (img *Image) pixelSize() int {
	if img.Depth == 8 {
		return 1
	}
	return 2
}

// PlaneWidth returns the sample width of the given plane, derived from the
// chroma layout. Interleaved chroma planes count UV pairs as two samples.
func (img *Image) PlaneWidth(p Plane) int {
	switch p {
	case PlaneY, PlaneA:
		return img.Width
	case PlaneU:
		switch img.YUVFormat {
		case PixelFormatYUV444:
			return img.Width
		case PixelFormatYUV422, PixelFormatYUV420:
			return imath.ShiftCeil(img.Width, 1)
		case PixelFormatNV12, PixelFormatNV21, PixelFormatP010:
			// Interleaved UV pairs span the full subsampled width twice.
			return imath.ShiftCeil(img.Width, 1) * 2
		default:
			return 0
		}
	case PlaneV:
		switch img.YUVFormat {
		case PixelFormatYUV444:
			return img.Width
		case PixelFormatYUV422, PixelFormatYUV420:
			return imath.ShiftCeil(img.Width, 1)
		default:
			return 0
		}
	}
	return 0
}

// PlaneHeight returns the sample height of the given plane.
func (img *Image) PlaneHeight(p Plane) int {
	switch p {
	case PlaneY, PlaneA:
		return img.Height
	case PlaneU:
		switch img.YUVFormat {
		case PixelFormatYUV444, PixelFormatYUV422:
			return img.Height
		case PixelFormatYUV420, PixelFormatNV12, PixelFormatNV21, PixelFormatP010:
			return imath.ShiftCeil(img.Height, 1)
		default:
			return 0
		}
	case PlaneV:
		switch img.YUVFormat {
		case PixelFormatYUV444, PixelFormatYUV422:
			return img.Height
		case PixelFormatYUV420:
			return imath.ShiftCeil(img.Height, 1)
		default:
			return 0
		}
	}
	return 0
}

// HasPlane reports whether the plane has attached sample data.
func (img *Image) HasPlane(p Plane) bool {
	return img.planes[p].HasData() && img.rowBytes[p] > 0
}

// HasAlpha reports whether an alpha plane is present.
func (img *Image) HasAlpha() bool { return img.HasPlane(PlaneA) }

// RowBytes returns the byte stride of the plane.
func (img *Image) RowBytes(p Plane) int { return img.rowBytes[p] }

// SetPlane attaches an 8-bit plane buffer delivered by an external codec.
// The buffer is borrowed, not copied.
func (img *Image) SetPlane(p Plane, data []uint8, rowBytes int) {
	img.planes[p] = AdoptPixels8(data)
	img.rowBytes[p] = rowBytes
}

// SetPlane16 attaches a 16-bit plane buffer delivered by an external codec.
// rowBytes counts bytes, so it is twice the stride in samples.
func (img *Image) SetPlane16(p Plane, data []uint16, rowBytes int) {
	img.planes[p] = AdoptPixels16(data)
	img.rowBytes[p] = rowBytes
}

// FreePlanes detaches the given planes.
func (img *Image) FreePlanes(group []Plane) {
	for _, p := range group {
		img.planes[p] = Pixels{}
		img.rowBytes[p] = 0
	}
}

// Row returns the plane's row y, exactly PlaneWidth samples, for 8-bit images.
func (img *Image) Row(p Plane, y int) ([]uint8, error) {
	if !img.HasPlane(p) {
		return nil, fmt.Errorf("plane %d: %w", p, ErrNoContent)
	}
	if img.planes[p].is16() {
		return nil, fmt.Errorf("plane %d is 16-bit: %w", p, ErrInvalidArgument)
	}
	start := y * img.rowBytes[p]
	return img.planes[p].buf8[start : start+img.PlaneWidth(p)], nil
}

// Row16 returns the plane's row y, exactly PlaneWidth samples, for images
// deeper than 8 bits.
func (img *Image) Row16(p Plane, y int) ([]uint16, error) {
	if !img.HasPlane(p) {
		return nil, fmt.Errorf("plane %d: %w", p, ErrNoContent)
	}
	if !img.planes[p].is16() {
		return nil, fmt.Errorf("plane %d is 8-bit: %w", p, ErrInvalidArgument)
	}
	start := y * (img.rowBytes[p] / 2)
	return img.planes[p].buf16[start : start+img.PlaneWidth(p)], nil
}

// AllocatePlanes allocates owned zeroed buffers for the given plane group.
// Alpha planes are initialized fully opaque. Planes absent from the chroma
// layout are skipped.
func (img *Image) AllocatePlanes(group []Plane) error {
	if !validDepth(img.Depth) {
		return fmt.Errorf("depth %d: %w", img.Depth, ErrUnsupportedDepth)
	}
	defaults := [maxPlaneCount]uint16{0, 0, 0, uint16(img.MaxChannel())}
	if img.YUVFormat.IsInterleavedChroma() {
		// Neutral chroma for interleaved layouts lives in the UV plane.
		defaults[PlaneU] = uint16(1 << (img.Depth - 1))
	}
	for _, p := range group {
		w, h := img.PlaneWidth(p), img.PlaneHeight(p)
		if w == 0 || h == 0 {
			continue
		}
		size := w * h
		if size*img.pixelSize() > maxPlaneAllocBytes {
			return fmt.Errorf("plane %dx%d: %w", w, h, ErrOutOfMemory)
		}
		if img.Depth == 8 {
			img.planes[p] = ownedPixels8(size)
		} else {
			img.planes[p] = ownedPixels16(size)
		}
		if defaults[p] != 0 {
			img.planes[p].fill(defaults[p])
		}
		img.rowBytes[p] = w * img.pixelSize()
	}
	return nil
}

// CopyFrom deep-copies the selected planes and all shallow properties from
// src. Fresh buffers are sized to the source's plane width, not its stride,
// so copying a view of a wider image never over-reads. The destination is
// only modified once every copy has succeeded.
func (img *Image) CopyFrom(src *Image, group []Plane) error {
	if src == nil {
		return fmt.Errorf("copy source: %w", ErrInvalidArgument)
	}
	tmp := src.cloneProperties()
	for _, p := range group {
		if !src.HasPlane(p) {
			continue
		}
		w, h := src.PlaneWidth(p), src.PlaneHeight(p)
		if src.Depth == 8 {
			tmp.planes[p] = ownedPixels8(w * h)
			for y := 0; y < h; y++ {
				row, err := src.Row(p, y)
				if err != nil {
					return err
				}
				copy(tmp.planes[p].buf8[y*w:(y+1)*w], row)
			}
		} else {
			tmp.planes[p] = ownedPixels16(w * h)
			for y := 0; y < h; y++ {
				row, err := src.Row16(p, y)
				if err != nil {
					return err
				}
				copy(tmp.planes[p].buf16[y*w:(y+1)*w], row)
			}
		}
		tmp.rowBytes[p] = w * src.pixelSize()
	}
	*img = *tmp
	return nil
}

// cloneProperties duplicates everything but the plane buffers.
func (img *Image) cloneProperties() *Image {
	out := &Image{}
	*out = *img
	out.planes = [maxPlaneCount]Pixels{}
	out.rowBytes = [maxPlaneCount]int{}
	out.ICC = append([]byte(nil), img.ICC...)
	out.Exif = append([]byte(nil), img.Exif...)
	out.XMP = append([]byte(nil), img.XMP...)
	return out
}

// hasSameCICP reports whether two images agree on depth, layout and CICP.
func (img *Image) hasSameCICP(o *Image) bool {
	return img.Depth == o.Depth &&
		img.YUVFormat == o.YUVFormat &&
		img.YUVRange == o.YUVRange &&
		img.ChromaSamplePosition == o.ChromaSamplePosition &&
		img.ColorPrimaries == o.ColorPrimaries &&
		img.TransferCharacteristics == o.TransferCharacteristics &&
		img.MatrixCoefficients == o.MatrixCoefficients
}

// FillPlane sets every sample of the plane to value.
func (img *Image) FillPlane(p Plane, value uint16) error {
	if !img.HasPlane(p) {
		return nil
	}
	w := img.PlaneWidth(p)
	for y := 0; y < img.PlaneHeight(p); y++ {
		if img.Depth == 8 {
			row, err := img.Row(p, y)
			if err != nil {
				return err
			}
			for i := 0; i < w; i++ {
				row[i] = uint8(value)
			}
		} else {
			row, err := img.Row16(p, y)
			if err != nil {
				return err
			}
			for i := 0; i < w; i++ {
				row[i] = value
			}
		}
	}
	return nil
}

// ConvertRGBA16ToYUVA converts one 16-bit RGBA value to YUVA samples at
// the image's depth, using its color primaries and matrix coefficients.
// Chroma is centered on the mid-depth bias; quantization spans the full
// sample range regardless of YUVRange. Fill values for uncovered canvas
// regions are produced this way.
func (img *Image) ConvertRGBA16ToYUVA(rgba [4]uint16) [4]uint16 {
	r := float32(rgba[0]) / 65535.0
	g := float32(rgba[1]) / 65535.0
	b := float32(rgba[2]) / 65535.0
	kr, kg, kb := yuvCoefficients(img.ColorPrimaries, img.MatrixCoefficients)
	y := kr*r + kg*g + kb*b
	u := (b - y) / (2 * (1 - kb))
	v := (r - y) / (2 * (1 - kr))
	uvBias := float32(int32(1) << (img.Depth - 1))
	maxChannel := float32(img.MaxChannel())
	return [4]uint16{
		uint16(clampF(y*maxChannel, 0, maxChannel)),
		uint16(clampF(u*maxChannel+uvBias, 0, maxChannel)),
		uint16(clampF(v*maxChannel+uvBias, 0, maxChannel)),
		uint16(clampF(float32(rgba[3])/65535.0*maxChannel+0.5, 0, maxChannel)),
	}
}

// IsOpaque reports whether the alpha plane is absent or entirely opaque.
func (img *Image) IsOpaque() bool {
	if !img.HasAlpha() {
		return true
	}
	opaque := uint16(img.MaxChannel())
	for y := 0; y < img.PlaneHeight(PlaneA); y++ {
		if img.Depth == 8 {
			row, err := img.Row(PlaneA, y)
			if err != nil {
				return true
			}
			for _, v := range row {
				if v != uint8(opaque) {
					return false
				}
			}
		} else {
			row, err := img.Row16(PlaneA, y)
			if err != nil {
				return true
			}
			for _, v := range row {
				if v != opaque {
					return false
				}
			}
		}
	}
	return true
}

// CopyAndPad copies src into img, which must be at least as large in both
// dimensions, replicating the rightmost column and bottom row of each plane
// into the padding. Used when cells are encoded on a padded canvas.
func (img *Image) CopyAndPad(src *Image) error {
	if src.Width > img.Width || src.Height > img.Height {
		return fmt.Errorf("pad target smaller than source: %w", ErrInvalidArgument)
	}
	if src.Depth != img.Depth || src.YUVFormat != img.YUVFormat {
		return fmt.Errorf("pad target format mismatch: %w", ErrInvalidArgument)
	}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		return err
	}
	if src.HasAlpha() {
		if err := img.AllocatePlanes(AlphaPlanes); err != nil {
			return err
		}
	}
	for _, p := range AllPlanes {
		if !src.HasPlane(p) {
			continue
		}
		srcW, srcH := src.PlaneWidth(p), src.PlaneHeight(p)
		dstW, dstH := img.PlaneWidth(p), img.PlaneHeight(p)
		for y := 0; y < dstH; y++ {
			sy := y
			if sy >= srcH {
				sy = srcH - 1
			}
			if img.Depth == 8 {
				srcRow, err := src.Row(p, sy)
				if err != nil {
					return err
				}
				dstRow, err := img.Row(p, y)
				if err != nil {
					return err
				}
				copy(dstRow, srcRow)
				for x := srcW; x < dstW; x++ {
					dstRow[x] = srcRow[srcW-1]
				}
			} else {
				srcRow, err := src.Row16(p, sy)
				if err != nil {
					return err
				}
				dstRow, err := img.Row16(p, y)
				if err != nil {
					return err
				}
				copy(dstRow, srcRow)
				for x := srcW; x < dstW; x++ {
					dstRow[x] = srcRow[srcW-1]
				}
			}
		}
	}
	return nil
}
