package avifpix

import "fmt"

// RGBFormat selects the channel ordering of an RGBImage buffer.
type RGBFormat int

// Interleaved RGB channel orderings. The packed formats store a whole pixel
// in 16 (RGB565) or 32 (RGBA1010102) little-endian bits.
const (
	FormatRGB RGBFormat = iota
	FormatRGBA
	FormatARGB
	FormatBGR
	FormatBGRA
	FormatABGR
	FormatRGB565
	FormatRGBA1010102
	FormatGray
	FormatGrayA
	FormatAGray
)

func (f RGBFormat) String() string {
	switch f {
	case FormatRGB:
		return "rgb"
	case FormatRGBA:
		return "rgba"
	case FormatARGB:
		return "argb"
	case FormatBGR:
		return "bgr"
	case FormatBGRA:
		return "bgra"
	case FormatABGR:
		return "abgr"
	case FormatRGB565:
		return "rgb565"
	case FormatRGBA1010102:
		return "rgba1010102"
	case FormatGray:
		return "gray"
	case FormatGrayA:
		return "graya"
	case FormatAGray:
		return "agray"
	default:
		return fmt.Sprintf("rgbformat(%d)", int(f))
	}
}

// offsets returns the channel positions [r g b a] within a pixel.
func (f RGBFormat) offsets() [4]int {
	switch f {
	case FormatRGB:
		return [4]int{0, 1, 2, 0}
	case FormatRGBA:
		return [4]int{0, 1, 2, 3}
	case FormatARGB:
		return [4]int{1, 2, 3, 0}
	case FormatBGR:
		return [4]int{2, 1, 0, 0}
	case FormatBGRA:
		return [4]int{2, 1, 0, 3}
	case FormatABGR:
		return [4]int{3, 2, 1, 0}
	case FormatGrayA:
		return [4]int{0, 0, 0, 1}
	case FormatAGray:
		return [4]int{1, 0, 0, 0}
	default:
		return [4]int{}
	}
}

// HasAlpha reports whether the format carries an alpha channel.
func (f RGBFormat) HasAlpha() bool {
	switch f {
	case FormatRGB, FormatBGR, FormatRGB565, FormatGray:
		return false
	default:
		return true
	}
}

// ChannelCount returns the per-pixel channel count; packed formats report
// their nominal channel count even though samples share words.
func (f RGBFormat) ChannelCount() int {
	switch f {
	case FormatRGBA, FormatBGRA, FormatARGB, FormatABGR, FormatRGBA1010102:
		return 4
	case FormatRGB, FormatBGR, FormatRGB565:
		return 3
	case FormatGrayA, FormatAGray:
		return 2
	default: // Gray
		return 1
	}
}

func (f RGBFormat) isGray() bool {
	switch f {
	case FormatGray, FormatGrayA, FormatAGray:
		return true
	default:
		return false
	}
}

func (f RGBFormat) isPacked() bool {
	return f == FormatRGB565 || f == FormatRGBA1010102
}

// ChromaUpsampling selects the filter used to reconstruct subsampled chroma.
type ChromaUpsampling int

// Upsampling modes. Automatic and BestQuality pick bilinear, Fastest picks
// nearest.
const (
	UpsampleAutomatic ChromaUpsampling = iota
	UpsampleFastest
	UpsampleBestQuality
	UpsampleNearest
	UpsampleBilinear
)

func (u ChromaUpsampling) bilinear() bool {
	switch u {
	case UpsampleNearest, UpsampleFastest:
		return false
	default:
		return true
	}
}

// ChromaDownsampling selects the filter used to subsample chroma when
// converting RGB to YUV.
type ChromaDownsampling int

// Downsampling modes. Automatic, BestQuality and Average box-filter, Fastest
// picks the co-sited sample, SharpYUV is the edge-aware filter (4:2:0,
// depth <= 12 only).
const (
	DownsampleAutomatic ChromaDownsampling = iota
	DownsampleFastest
	DownsampleBestQuality
	DownsampleAverage
	DownsampleSharpYUV
)

// RGBImage is a single interleaved RGB buffer, the application-facing
// counterpart of Image. It is independent of any Image; the Convert
// functions translate between the two.
type RGBImage struct {
	Width  int
	Height int
	Depth  int

	Format             RGBFormat
	ChromaUpsampling   ChromaUpsampling
	ChromaDownsampling ChromaDownsampling

	// PremultiplyAlpha indicates the buffer holds (or should hold)
	// alpha-premultiplied color.
	PremultiplyAlpha bool

	// MaxThreads caps the worker goroutines used by conversions; values
	// below 1 mean single-threaded.
	MaxThreads int

	pixels   Pixels
	rowBytes int
}

// NewRGBImage returns an RGBA descriptor matching the image's dimensions
// and depth. The pixel buffer is not allocated yet.
func NewRGBImage(img *Image) *RGBImage {
	return &RGBImage{
		Width:  img.Width,
		Height: img.Height,
		Depth:  img.Depth,
		Format: FormatRGBA,
	}
}

func (r *RGBImage) depthValid() bool {
	if r.Format == FormatRGB565 {
		return r.Depth == 8
	}
	if r.Format == FormatRGBA1010102 {
		return r.Depth == 10
	}
	return validDepth(r.Depth)
}

// MaxChannel returns the largest representable channel value.
func (r *RGBImage) MaxChannel() int { return (1 << r.Depth) - 1 }

func (r *RGBImage) channelSize() int {
	if r.Depth == 8 {
		return 1
	}
	return 2
}

// PixelSize returns the byte size of one pixel.
func (r *RGBImage) PixelSize() int {
	switch r.Format {
	case FormatRGB565:
		return 2
	case FormatRGBA1010102:
		return 4
	default:
		return r.Format.ChannelCount() * r.channelSize()
	}
}

// RowBytes returns the byte stride of the buffer.
func (r *RGBImage) RowBytes() int { return r.rowBytes }

// Allocate creates the pixel buffer for the current dimensions and format.
func (r *RGBImage) Allocate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("rgb dimensions %dx%d: %w", r.Width, r.Height, ErrInvalidArgument)
	}
	if !r.depthValid() {
		return fmt.Errorf("rgb depth %d for format %s: %w", r.Depth, r.Format, ErrUnsupportedDepth)
	}
	rowBytes := r.Width * r.PixelSize()
	if rowBytes*r.Height > maxPlaneAllocBytes {
		return fmt.Errorf("rgb %dx%d: %w", r.Width, r.Height, ErrOutOfMemory)
	}
	if r.channelSize() == 1 || r.Format.isPacked() {
		r.pixels = ownedPixels8(rowBytes * r.Height)
	} else {
		r.pixels = ownedPixels16(rowBytes / 2 * r.Height)
	}
	r.rowBytes = rowBytes
	return nil
}

// Row returns row y of an 8-bit or packed buffer.
func (r *RGBImage) Row(y int) ([]uint8, error) {
	if !r.pixels.HasData() || r.pixels.is16() {
		return nil, fmt.Errorf("rgb row %d: %w", y, ErrNoContent)
	}
	start := y * r.rowBytes
	return r.pixels.buf8[start : start+r.rowBytes], nil
}

// Row16 returns row y of a 16-bit buffer.
func (r *RGBImage) Row16(y int) ([]uint16, error) {
	if !r.pixels.is16() {
		return nil, fmt.Errorf("rgb row16 %d: %w", y, ErrNoContent)
	}
	stride := r.rowBytes / 2
	start := y * stride
	return r.pixels.buf16[start : start+stride], nil
}

// ShuffleChannelsTo returns a copy of the image with channels reordered to
// the target format. Missing alpha is filled opaque. Packed formats are not
// shuffle targets or sources.
func (r *RGBImage) ShuffleChannelsTo(format RGBFormat) (*RGBImage, error) {
	if r.Format == format {
		return r, nil
	}
	if r.Format.isPacked() || format.isPacked() || r.Format.isGray() != format.isGray() {
		return nil, fmt.Errorf("shuffle %s -> %s: %w", r.Format, format, ErrNotImplemented)
	}
	dst := &RGBImage{
		Width:  r.Width,
		Height: r.Height,
		Depth:  r.Depth,
		Format: format,
	}
	if err := dst.Allocate(); err != nil {
		return nil, err
	}
	srcN := r.Format.ChannelCount()
	dstN := format.ChannelCount()
	srcOff := r.Format.offsets()
	dstOff := format.offsets()
	opaque := uint16(dst.MaxChannel())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			for c := 0; c < 3; c++ {
				v := r.channelAt(y, x*srcN+srcOff[c])
				dst.setChannelAt(y, x*dstN+dstOff[c], v)
			}
			if format.HasAlpha() {
				v := opaque
				if r.Format.HasAlpha() {
					v = r.channelAt(y, x*srcN+srcOff[3])
				}
				dst.setChannelAt(y, x*dstN+dstOff[3], v)
			}
		}
	}
	return dst, nil
}

func (r *RGBImage) channelAt(y, i int) uint16 {
	if r.pixels.is16() {
		return r.pixels.buf16[y*(r.rowBytes/2)+i]
	}
	return uint16(r.pixels.buf8[y*r.rowBytes+i])
}

func (r *RGBImage) setChannelAt(y, i int, v uint16) {
	if r.pixels.is16() {
		r.pixels.buf16[y*(r.rowBytes/2)+i] = v
		return
	}
	r.pixels.buf8[y*r.rowBytes+i] = uint8(v)
}
