package avifpix

import (
	"fmt"

	"github.com/vearutop/avifpix/internal/imath"
)

// convMode selects the YUV<->RGB arithmetic family.
type convMode int

const (
	convModeCoefficients convMode = iota
	convModeIdentity
	convModeYCgCo
	convModeYCgCoRe
	convModeYCgCoRo
)

// alphaMultiplyMode is the alpha adjustment a conversion has to perform
// to honor the premultiplication state of both sides.
type alphaMultiplyMode int

const (
	alphaNoOp alphaMultiplyMode = iota
	alphaMultiply
	alphaUnmultiply
)

// yuvState caches the per-conversion constants derived from the YUV
// image's depth, range and matrix coefficients.
type yuvState struct {
	mode       convMode
	depth      int
	fullRange  bool
	maxChannel uint16
	biasY      float32
	biasUV     float32
	rangeY     float32
	rangeUV    float32
	kr, kg, kb float32
	// unormY[v] maps a stored luma sample to [0,1]; unormUV maps a
	// stored chroma sample to [-0.5,0.5].
	unormY  []float32
	unormUV []float32
}

func newYUVState(img *Image) (*yuvState, error) {
	s := &yuvState{
		depth:      img.Depth,
		fullRange:  img.YUVRange == RangeFull,
		maxChannel: uint16(img.MaxChannel()),
	}

	switch img.MatrixCoefficients {
	case MatrixCoefficientsIdentity:
		if img.YUVFormat != PixelFormatYUV444 && img.YUVFormat != PixelFormatYUV400 {
			return nil, fmt.Errorf("%w: identity matrix requires 4:4:4 or 4:0:0, got %s", ErrReformatFailed, img.YUVFormat)
		}
		s.mode = convModeIdentity
	case MatrixCoefficientsYCgCo:
		if !s.fullRange {
			return nil, fmt.Errorf("%w: YCgCo requires full range", ErrReformatFailed)
		}
		s.mode = convModeYCgCo
	case MatrixCoefficientsYCgCoRe, MatrixCoefficientsYCgCoRo:
		if !s.fullRange {
			return nil, fmt.Errorf("%w: YCgCo-R requires full range", ErrReformatFailed)
		}
		if img.MatrixCoefficients == MatrixCoefficientsYCgCoRe {
			s.mode = convModeYCgCoRe
		} else {
			s.mode = convModeYCgCoRo
		}
	case MatrixCoefficientsBT2020CL, MatrixCoefficientsSMPTE2085,
		MatrixCoefficientsChromaDerivedCL, MatrixCoefficientsICtCp:
		return nil, fmt.Errorf("%w: unsupported matrix coefficients %d", ErrReformatFailed, img.MatrixCoefficients)
	default:
		s.mode = convModeCoefficients
		s.kr, s.kg, s.kb = yuvCoefficients(img.ColorPrimaries, img.MatrixCoefficients)
	}

	if s.fullRange {
		s.biasY = 0
		s.rangeY = float32(int32(s.maxChannel))
		s.rangeUV = float32(int32(s.maxChannel))
	} else {
		s.biasY = float32(int32(16) << (s.depth - 8))
		s.rangeY = float32(int32(219) << (s.depth - 8))
		s.rangeUV = float32(int32(224) << (s.depth - 8))
	}
	s.biasUV = float32(int32(1) << (s.depth - 1))

	count := 1 << s.depth
	s.unormY = make([]float32, count)
	s.unormUV = make([]float32, count)
	for v := 0; v < count; v++ {
		s.unormY[v] = (float32(v) - s.biasY) / s.rangeY
		if s.mode == convModeIdentity {
			s.unormUV[v] = s.unormY[v]
		} else {
			s.unormUV[v] = (float32(v) - s.biasUV) / s.rangeUV
		}
	}
	return s, nil
}

// unormLuma maps a stored luma sample to [0,1] with clamping.
func (s *yuvState) unormLuma(v uint16) float32 {
	if v > s.maxChannel {
		v = s.maxChannel
	}
	return s.unormY[v]
}

func (s *yuvState) unormChroma(v uint16) float32 {
	if v > s.maxChannel {
		v = s.maxChannel
	}
	return s.unormUV[v]
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundF(v float32) int32 {
	if v < 0 {
		return int32(v - 0.5)
	}
	return int32(v + 0.5)
}

// computeRGB converts one normalized YUV triple to normalized RGB in [0,1].
// A monochrome source maps to gray regardless of the matrix.
func (s *yuvState) computeRGB(y, cb, cr float32, monochrome bool) (r, g, b float32) {
	if monochrome {
		y = clampF(y, 0, 1)
		return y, y, y
	}
	switch s.mode {
	case convModeIdentity:
		g = y
		b = cb
		r = cr
	case convModeYCgCo:
		t := y - cb
		g = y + cb
		b = t - cr
		r = t + cr
	default:
		r = y + 2*(1-s.kr)*cr
		b = y + 2*(1-s.kb)*cb
		g = y - (2*((s.kr*(1-s.kr)*cr)+(s.kb*(1-s.kb)*cb)))/s.kg
	}
	return clampF(r, 0, 1), clampF(g, 0, 1), clampF(b, 0, 1)
}

// computeYUV converts one normalized RGB triple to (y in [0,1], cb/cr in
// [-0.5,0.5]). Identity mode keeps the GBR passthrough layout.
func (s *yuvState) computeYUV(r, g, b float32) (y, cb, cr float32) {
	switch s.mode {
	case convModeIdentity:
		return g, b, r
	case convModeYCgCo:
		y = 0.25*r + 0.5*g + 0.25*b
		cb = -0.25*r + 0.5*g - 0.25*b
		cr = 0.5*r - 0.5*b
		return y, cb, cr
	default:
		y = s.kr*r + s.kg*g + s.kb*b
		cb = (b - y) / (2 * (1 - s.kb))
		cr = (r - y) / (2 * (1 - s.kr))
		return y, cb, cr
	}
}

// storeLuma quantizes a normalized luma value to the stored representation.
func (s *yuvState) storeLuma(v float32) uint16 {
	q := roundF(v*s.rangeY + s.biasY)
	return uint16(imath.Clamp(q, 0, int32(s.maxChannel)))
}

func (s *yuvState) storeChroma(v float32) uint16 {
	var q int32
	if s.mode == convModeIdentity {
		q = roundF(v*s.rangeY + s.biasY)
	} else {
		q = roundF(v*s.rangeUV + s.biasUV)
	}
	return uint16(imath.Clamp(q, 0, int32(s.maxChannel)))
}

// validateConversion checks the invariants shared by both directions.
func validateConversion(img *Image, rgb *RGBImage) error {
	if img == nil || rgb == nil {
		return fmt.Errorf("%w: nil image", ErrInvalidArgument)
	}
	if !validDepth(img.Depth) {
		return fmt.Errorf("%w: yuv depth %d", ErrUnsupportedDepth, img.Depth)
	}
	if !rgb.depthValid() {
		return fmt.Errorf("%w: rgb depth %d for %s", ErrUnsupportedDepth, rgb.Depth, rgb.Format)
	}
	if img.Width != rgb.Width || img.Height != rgb.Height {
		return fmt.Errorf("%w: dimensions differ (%dx%d vs %dx%d)",
			ErrInvalidArgument, img.Width, img.Height, rgb.Width, rgb.Height)
	}
	return nil
}

func checkYCgCoRDepths(s *yuvState, img *Image, rgb *RGBImage) error {
	var offset int
	switch s.mode {
	case convModeYCgCoRe:
		offset = 2
	case convModeYCgCoRo:
		offset = 1
	default:
		return nil
	}
	if img.YUVFormat != PixelFormatYUV444 && img.YUVFormat != PixelFormatYUV400 {
		return fmt.Errorf("%w: YCgCo-R requires 4:4:4 or 4:0:0", ErrReformatFailed)
	}
	if img.Depth != rgb.Depth+offset {
		return fmt.Errorf("%w: YCgCo-R needs yuv depth = rgb depth + %d (got %d and %d)",
			ErrReformatFailed, offset, img.Depth, rgb.Depth)
	}
	return nil
}

// ConvertFromYUV converts the YUV planes of img into the receiver's RGB
// layout. The RGB buffer is allocated if needed; on error it is left as it
// was. The sampling mode, premultiplication flags and MaxThreads of the
// receiver steer the conversion.
func (r *RGBImage) ConvertFromYUV(img *Image) error {
	if err := validateConversion(img, r); err != nil {
		return err
	}
	if !img.HasPlane(PlaneY) {
		return fmt.Errorf("%w: no luma plane", ErrReformatFailed)
	}

	src, err := img.planarized()
	if err != nil {
		return err
	}
	state, err := newYUVState(src)
	if err != nil {
		return err
	}
	if err := checkYCgCoRDepths(state, src, r); err != nil {
		return err
	}

	alphaMode := alphaNoOp
	if r.Format.HasAlpha() && src.HasAlpha() && !src.AlphaPremultiplied && r.PremultiplyAlpha {
		alphaMode = alphaMultiply
	}
	if r.Format.HasAlpha() && src.HasAlpha() && src.AlphaPremultiplied && !r.PremultiplyAlpha {
		alphaMode = alphaUnmultiply
	}
	if !r.Format.HasAlpha() && src.AlphaPremultiplied {
		// Color values are scaled down by alpha; bring them back.
		alphaMode = alphaUnmultiply
	}

	if !r.pixels.HasData() {
		if err := r.Allocate(); err != nil {
			return err
		}
	}

	if r.Format.HasAlpha() && !r.Format.isPacked() {
		if src.HasAlpha() {
			if err := r.ImportAlphaFrom(src); err != nil {
				return err
			}
		} else {
			r.SetOpaque()
		}
	}

	switch state.mode {
	case convModeYCgCoRe, convModeYCgCoRo:
		err = r.yuvRToRGB(src, state)
	default:
		err = r.yuvToRGBAny(src, state, alphaMode)
	}
	if err != nil {
		return err
	}

	if alphaMode != alphaNoOp && state.mode != convModeYCgCoRe && state.mode != convModeYCgCoRo {
		// Already applied inline by yuvToRGBAny.
		return nil
	}
	if (state.mode == convModeYCgCoRe || state.mode == convModeYCgCoRo) && r.Format.HasAlpha() {
		switch alphaMode {
		case alphaMultiply:
			return r.Premultiply()
		case alphaUnmultiply:
			return r.Unpremultiply()
		}
	}
	return nil
}

// ConvertToYUV converts the receiver's RGB samples into the YUV planes of
// img, allocating them according to img's format, depth and range. img's
// dimensions, depth, format, range and matrix coefficients must be set
// beforehand. On error img keeps its previous planes.
func (img *Image) ConvertToYUV(rgb *RGBImage) error {
	if err := validateConversion(img, rgb); err != nil {
		return err
	}
	if !rgb.pixels.HasData() {
		return fmt.Errorf("%w: rgb has no pixels", ErrReformatFailed)
	}
	if rgb.Format == FormatRGB565 || rgb.Format == FormatRGBA1010102 {
		return fmt.Errorf("%w: %s source", ErrNotImplemented, rgb.Format)
	}
	if img.YUVFormat.IsInterleavedChroma() {
		return fmt.Errorf("%w: %s destination", ErrNotImplemented, img.YUVFormat)
	}
	state, err := newYUVState(img)
	if err != nil {
		return err
	}
	if err := checkYCgCoRDepths(state, img, rgb); err != nil {
		return err
	}
	if rgb.ChromaDownsampling == DownsampleSharpYUV {
		if img.YUVFormat != PixelFormatYUV420 || img.Depth > 12 {
			return fmt.Errorf("%w: sharp yuv requires 4:2:0 and depth <= 12", ErrReformatFailed)
		}
	}

	tmp := img.cloneProperties()
	if err := tmp.AllocatePlanes(YUVPlanes); err != nil {
		return err
	}
	if rgb.Format.HasAlpha() {
		if err := tmp.AllocatePlanes(AlphaPlanes); err != nil {
			return err
		}
		if err := tmp.importAlphaFromRGB(rgb); err != nil {
			return err
		}
		tmp.AlphaPremultiplied = rgb.PremultiplyAlpha
	}

	switch state.mode {
	case convModeYCgCoRe, convModeYCgCoRo:
		err = tmp.rgbToYUVR(rgb, state)
	default:
		err = tmp.rgbToYUVAny(rgb, state)
	}
	if err != nil {
		return err
	}

	img.planes = tmp.planes
	img.rowBytes = tmp.rowBytes
	img.AlphaPremultiplied = tmp.AlphaPremultiplied
	return nil
}
