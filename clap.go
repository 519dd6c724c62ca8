package avifpix

import "fmt"

// CleanAperture is the 'clap' property: a fractional crop region expressed
// relative to the picture center, per ISO/IEC 23000-22. Offsets carry signed
// values stored in unsigned 32-bit form (two's complement), matching the box
// encoding as of the 2024 specification text.
type CleanAperture struct {
	Width    UFraction
	Height   UFraction
	HorizOff UFraction
	VertOff  UFraction
}

// CropRect is an integer crop rectangle in luma pixel units.
type CropRect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Valid checks the rect against the image bounds and the chroma-parity rules
// of the layout: 4:2:2 constrains x and width to even values, 4:2:0
// additionally constrains y and height.
func (r CropRect) Valid(imageWidth, imageHeight int, format PixelFormat) error {
	if r.Width <= 0 || r.Height <= 0 || r.X < 0 || r.Y < 0 {
		return fmt.Errorf("crop rect %+v: %w", r, ErrInvalidArgument)
	}
	if r.X+r.Width > imageWidth || r.Y+r.Height > imageHeight {
		return fmt.Errorf("crop rect %+v exceeds %dx%d: %w", r, imageWidth, imageHeight, ErrInvalidArgument)
	}
	if format.chromaShiftX() == 1 && (r.X%2 != 0 || r.Width%2 != 0) {
		return fmt.Errorf("crop rect x/width must be even for %v: %w", format, ErrInvalidArgument)
	}
	if format.chromaShiftY() == 1 && (r.Y%2 != 0 || r.Height%2 != 0) {
		return fmt.Errorf("crop rect y/height must be even for %v: %w", format, ErrInvalidArgument)
	}
	return nil
}

// signedClapFraction reinterprets a clap fraction's numerator as signed.
func signedClapFraction(uf UFraction) (iFraction, error) {
	if uf.D == 0 || uf.D > uint32(maxInt32) {
		return iFraction{}, fmt.Errorf("clap denominator %d: %w", uf.D, ErrInvalidArgument)
	}
	return iFraction{int32(uf.N), int32(uf.D)}, nil
}

// CropRectFromCleanAperture converts a clean-aperture box to an integer crop
// rect for an image of the given dimensions and chroma layout. The
// conversion is exact; boxes whose edges do not land on integer pixel
// positions are rejected rather than rounded.
func CropRectFromCleanAperture(clap CleanAperture, imageWidth, imageHeight int, format PixelFormat) (CropRect, error) {
	clapW, err := signedClapFraction(clap.Width)
	if err != nil {
		return CropRect{}, err
	}
	clapH, err := signedClapFraction(clap.Height)
	if err != nil {
		return CropRect{}, err
	}
	horizOff, err := signedClapFraction(clap.HorizOff)
	if err != nil {
		return CropRect{}, err
	}
	vertOff, err := signedClapFraction(clap.VertOff)
	if err != nil {
		return CropRect{}, err
	}
	if clapW.n <= 0 || clapH.n <= 0 || !clapW.isInteger() || !clapH.isInteger() {
		return CropRect{}, fmt.Errorf("clap width/height not a positive integer: %w", ErrInvalidArgument)
	}
	width, height := clapW.integer(), clapH.integer()

	x, err := clapEdge(horizOff, clapW, imageWidth)
	if err != nil {
		return CropRect{}, err
	}
	y, err := clapEdge(vertOff, clapH, imageHeight)
	if err != nil {
		return CropRect{}, err
	}

	rect := CropRect{X: int(x), Y: int(y), Width: int(width), Height: int(height)}
	if err := rect.Valid(imageWidth, imageHeight, format); err != nil {
		return CropRect{}, err
	}
	return rect, nil
}

// clapEdge computes the leftmost (or topmost) pixel of the aperture:
// off + (imageDim-1)/2 - (clapDim-1)/2, which must be an exact non-negative
// integer.
func clapEdge(off, clapDim iFraction, imageDim int) (int32, error) {
	center := off
	if err := center.add(simplifiedFraction(int32(imageDim)-1, 2)); err != nil {
		return 0, err
	}
	halfDim := iFraction{clapDim.integer() - 1, 2}
	if err := center.sub(halfDim); err != nil {
		return 0, err
	}
	if !center.isInteger() {
		return 0, fmt.Errorf("clap edge is not an integer: %w", ErrInvalidArgument)
	}
	edge := center.integer()
	if edge < 0 {
		return 0, fmt.Errorf("clap edge is negative: %w", ErrInvalidArgument)
	}
	return edge, nil
}

// CleanApertureFromCropRect is the exact inverse of
// CropRectFromCleanAperture. Dimensions become integer-over-one fractions;
// offsets are picture-center relative and reduced by gcd, preserving value.
func CleanApertureFromCropRect(rect CropRect, imageWidth, imageHeight int, format PixelFormat) (CleanAperture, error) {
	if err := rect.Valid(imageWidth, imageHeight, format); err != nil {
		return CleanAperture{}, err
	}
	horiz := simplifiedFraction(int32(2*rect.X+rect.Width-imageWidth), 2)
	vert := simplifiedFraction(int32(2*rect.Y+rect.Height-imageHeight), 2)
	return CleanAperture{
		Width:    UFraction{uint32(rect.Width), 1},
		Height:   UFraction{uint32(rect.Height), 1},
		HorizOff: UFraction{uint32(horiz.n), uint32(horiz.d)},
		VertOff:  UFraction{uint32(vert.n), uint32(vert.d)},
	}, nil
}

// View returns an image whose planes are borrowed slices into img at the
// rect's origin, with img's row strides. No samples are copied; writes
// through the view are visible in img. The view must not be used after its
// source is released. The rect must respect bounds and chroma parity.
func (img *Image) View(rect CropRect) (*Image, error) {
	if err := rect.Valid(img.Width, img.Height, img.YUVFormat); err != nil {
		return nil, err
	}
	out := img.cloneProperties()
	out.Width = rect.Width
	out.Height = rect.Height
	for _, p := range AllPlanes {
		if !img.HasPlane(p) {
			continue
		}
		x, y := rect.X, rect.Y
		if p == PlaneU || p == PlaneV {
			x >>= img.YUVFormat.chromaShiftX()
			y >>= img.YUVFormat.chromaShiftY()
			if p == PlaneU && img.YUVFormat.IsInterleavedChroma() {
				x *= 2 // UV pairs
			}
		}
		if img.Depth == 8 {
			offset := y*img.rowBytes[p] + x
			out.planes[p] = viewPixels8(img.planes[p].buf8[offset:])
		} else {
			offset := y*(img.rowBytes[p]/2) + x
			out.planes[p] = viewPixels16(img.planes[p].buf16[offset:])
		}
		out.rowBytes[p] = img.rowBytes[p]
	}
	return out, nil
}

// CroppedView applies the image's own clean-aperture property, if present.
func (img *Image) CroppedView() (*Image, error) {
	if img.Clap == nil {
		return nil, fmt.Errorf("no clean aperture set: %w", ErrInvalidArgument)
	}
	rect, err := CropRectFromCleanAperture(*img.Clap, img.Width, img.Height, img.YUVFormat)
	if err != nil {
		return nil, err
	}
	return img.View(rect)
}
