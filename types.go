package avifpix

// PixelFormat identifies the chroma layout of an Image's planes.
type PixelFormat int

const (
	// PixelFormatNone marks an image with no format selected yet.
	PixelFormatNone PixelFormat = iota
	// PixelFormatYUV444 has full-resolution chroma.
	PixelFormatYUV444
	// PixelFormatYUV422 halves chroma horizontally.
	PixelFormatYUV422
	// PixelFormatYUV420 halves chroma in both dimensions.
	PixelFormatYUV420
	// PixelFormatYUV400 is monochrome, no chroma planes.
	PixelFormatYUV400
	// PixelFormatNV12 is 4:2:0 with interleaved UV in the second plane.
	PixelFormatNV12
	// PixelFormatNV21 is 4:2:0 with interleaved VU in the second plane.
	PixelFormatNV21
	// PixelFormatP010 is 10-bit 4:2:0 with interleaved UV, samples in the
	// high bits of 16-bit words.
	PixelFormatP010
)

// PlaneCount returns the number of sample planes the format occupies,
// not counting alpha.
func (f PixelFormat) PlaneCount() int {
	switch f {
	case PixelFormatYUV444, PixelFormatYUV422, PixelFormatYUV420:
		return 3
	case PixelFormatYUV400:
		return 1
	case PixelFormatNV12, PixelFormatNV21, PixelFormatP010:
		return 2
	default:
		return 0
	}
}

// IsMonochrome reports whether the format has no chroma.
func (f PixelFormat) IsMonochrome() bool { return f == PixelFormatYUV400 }

// IsInterleavedChroma reports whether the format stores UV interleaved in a
// single plane.
func (f PixelFormat) IsInterleavedChroma() bool {
	switch f {
	case PixelFormatNV12, PixelFormatNV21, PixelFormatP010:
		return true
	default:
		return false
	}
}

// chromaShiftX returns the horizontal subsampling shift for chroma planes.
func (f PixelFormat) chromaShiftX() int {
	switch f {
	case PixelFormatYUV420, PixelFormatYUV422, PixelFormatNV12, PixelFormatNV21, PixelFormatP010:
		return 1
	default:
		return 0
	}
}

// chromaShiftY returns the vertical subsampling shift for chroma planes.
func (f PixelFormat) chromaShiftY() int {
	switch f {
	case PixelFormatYUV420, PixelFormatNV12, PixelFormatNV21, PixelFormatP010:
		return 1
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatYUV444:
		return "YUV444"
	case PixelFormatYUV422:
		return "YUV422"
	case PixelFormatYUV420:
		return "YUV420"
	case PixelFormatYUV400:
		return "YUV400"
	case PixelFormatNV12:
		return "NV12"
	case PixelFormatNV21:
		return "NV21"
	case PixelFormatP010:
		return "P010"
	default:
		return "None"
	}
}

// YUVRange is the VideoFullRangeFlag as specified in ISO/IEC 23091-2.
type YUVRange int

const (
	// RangeLimited is the studio swing range (16..235 for 8-bit luma).
	RangeLimited YUVRange = iota
	// RangeFull is the full swing range (0..255 for 8-bit).
	RangeFull
)

// ChromaSamplePosition is the chroma sample placement for subsampled layouts.
type ChromaSamplePosition int

// Chroma sample positions per AV1 semantics.
const (
	ChromaSamplePositionUnknown ChromaSamplePosition = iota
	ChromaSamplePositionVertical
	ChromaSamplePositionColocated
)

// ColorPrimaries is the CICP colour primaries code (ISO/IEC 23091-2).
type ColorPrimaries uint16

// Colour primaries values used by this layer.
const (
	ColorPrimariesUnspecified ColorPrimaries = 2
	ColorPrimariesBT709       ColorPrimaries = 1
	ColorPrimariesBT470M      ColorPrimaries = 4
	ColorPrimariesBT470BG     ColorPrimaries = 5
	ColorPrimariesBT601       ColorPrimaries = 6
	ColorPrimariesSMPTE240    ColorPrimaries = 7
	ColorPrimariesGenericFilm ColorPrimaries = 8
	ColorPrimariesBT2020      ColorPrimaries = 9
	ColorPrimariesXYZ         ColorPrimaries = 10
	ColorPrimariesSMPTE431    ColorPrimaries = 11
	ColorPrimariesSMPTE432    ColorPrimaries = 12
	ColorPrimariesEBU3213     ColorPrimaries = 22
)

// TransferCharacteristics is the CICP transfer function code.
type TransferCharacteristics uint16

// Transfer characteristics values used by this layer.
const (
	TransferCharacteristicsBT709       TransferCharacteristics = 1
	TransferCharacteristicsUnspecified TransferCharacteristics = 2
	TransferCharacteristicsBT470M      TransferCharacteristics = 4
	TransferCharacteristicsBT470BG     TransferCharacteristics = 5
	TransferCharacteristicsBT601       TransferCharacteristics = 6
	TransferCharacteristicsSMPTE240    TransferCharacteristics = 7
	TransferCharacteristicsLinear      TransferCharacteristics = 8
	TransferCharacteristicsSRGB        TransferCharacteristics = 13
	TransferCharacteristicsBT2020_10   TransferCharacteristics = 14
	TransferCharacteristicsBT2020_12   TransferCharacteristics = 15
	TransferCharacteristicsPQ          TransferCharacteristics = 16
	TransferCharacteristicsHLG         TransferCharacteristics = 18
)

// MatrixCoefficients is the CICP matrix coefficients code selecting the
// RGB<->YUV transform.
type MatrixCoefficients uint16

// Matrix coefficients values used by this layer.
const (
	MatrixCoefficientsIdentity         MatrixCoefficients = 0
	MatrixCoefficientsBT709            MatrixCoefficients = 1
	MatrixCoefficientsUnspecified      MatrixCoefficients = 2
	MatrixCoefficientsFCC              MatrixCoefficients = 4
	MatrixCoefficientsBT470BG          MatrixCoefficients = 5
	MatrixCoefficientsBT601            MatrixCoefficients = 6
	MatrixCoefficientsSMPTE240         MatrixCoefficients = 7
	MatrixCoefficientsYCgCo            MatrixCoefficients = 8
	MatrixCoefficientsBT2020NCL        MatrixCoefficients = 9
	MatrixCoefficientsBT2020CL         MatrixCoefficients = 10
	MatrixCoefficientsSMPTE2085        MatrixCoefficients = 11
	MatrixCoefficientsChromaDerivedNCL MatrixCoefficients = 12
	MatrixCoefficientsChromaDerivedCL  MatrixCoefficients = 13
	MatrixCoefficientsICtCp            MatrixCoefficients = 14
	MatrixCoefficientsYCgCoRe          MatrixCoefficients = 16
	MatrixCoefficientsYCgCoRo          MatrixCoefficients = 17
)

// Plane indexes one of an Image's sample planes.
type Plane int

// Plane indices.
const (
	PlaneY Plane = 0
	PlaneU Plane = 1
	PlaneV Plane = 2
	PlaneA Plane = 3
)

const maxPlaneCount = 4

// Plane groups accepted by allocation and copy operations.
var (
	YUVPlanes   = []Plane{PlaneY, PlaneU, PlaneV}
	AlphaPlanes = []Plane{PlaneA}
	AllPlanes   = []Plane{PlaneY, PlaneU, PlaneV, PlaneA}
)

// ContentLightLevel carries the clli property values.
type ContentLightLevel struct {
	MaxCLL  uint16
	MaxPALL uint16
}

// PixelAspectRatio carries the pasp property values.
type PixelAspectRatio struct {
	HSpacing uint32
	VSpacing uint32
}
