package avifpix

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// y4mColorspace maps a format/depth pair to the Y4M C parameter.
func y4mColorspace(img *Image) (string, error) {
	var base string
	switch img.YUVFormat {
	case PixelFormatYUV444:
		base = "444"
	case PixelFormatYUV422:
		base = "422"
	case PixelFormatYUV420:
		base = "420jpeg"
	case PixelFormatYUV400:
		base = "mono"
	default:
		return "", fmt.Errorf("y4m: format %s: %w", img.YUVFormat, ErrNotImplemented)
	}
	switch img.Depth {
	case 8:
		if img.YUVFormat == PixelFormatYUV444 && img.HasAlpha() {
			return "444alpha", nil
		}
		return base, nil
	case 10, 12:
		if img.YUVFormat == PixelFormatYUV400 {
			return fmt.Sprintf("mono%d", img.Depth), nil
		}
		if img.YUVFormat == PixelFormatYUV420 {
			base = "420"
		}
		return fmt.Sprintf("%sp%d", base, img.Depth), nil
	default:
		return "", fmt.Errorf("y4m: depth %d: %w", img.Depth, ErrUnsupportedDepth)
	}
}

// Y4MOptions control the stream parameters emitted by WriteY4M.
type Y4MOptions struct {
	// FrameRateN over FrameRateD is the F parameter.
	FrameRateN int
	FrameRateD int
}

// WithFrameRate sets the nominal frame rate written to the stream header.
func WithFrameRate(num, den int) func(o *Y4MOptions) {
	return func(o *Y4MOptions) {
		o.FrameRateN = num
		o.FrameRateD = den
	}
}

// WriteY4M writes the image as a single-frame YUV4MPEG2 stream. Interleaved
// chroma is planarized first. Ten and twelve bit samples are stored as
// little-endian pairs, following the convention of the reference tools.
func WriteY4M(w io.Writer, img *Image, options ...func(o *Y4MOptions)) error {
	o := Y4MOptions{FrameRateN: 25, FrameRateD: 1}
	for _, option := range options {
		option(&o)
	}
	if o.FrameRateN <= 0 || o.FrameRateD <= 0 {
		return fmt.Errorf("y4m frame rate %d:%d: %w", o.FrameRateN, o.FrameRateD, ErrInvalidArgument)
	}
	if !img.HasPlane(PlaneY) {
		return fmt.Errorf("y4m: %w", ErrNoContent)
	}
	src, err := img.planarized()
	if err != nil {
		return err
	}
	cs, err := y4mColorspace(src)
	if err != nil {
		return err
	}
	rng := "LIMITED"
	if src.YUVRange == RangeFull {
		rng = "FULL"
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "YUV4MPEG2 W%d H%d F%d:%d Ip A0:0 C%s XCOLORRANGE=%s\n",
		src.Width, src.Height, o.FrameRateN, o.FrameRateD, cs, rng)
	fmt.Fprint(bw, "FRAME\n")

	planes := []Plane{PlaneY, PlaneU, PlaneV}
	if cs == "444alpha" {
		planes = append(planes, PlaneA)
	}
	for _, p := range planes {
		if !src.HasPlane(p) {
			continue
		}
		pw, ph := src.PlaneWidth(p), src.PlaneHeight(p)
		for y := 0; y < ph; y++ {
			if src.planes[p].is16() {
				row, err := src.Row16(p, y)
				if err != nil {
					return err
				}
				for x := 0; x < pw; x++ {
					if err := bw.WriteByte(byte(row[x])); err != nil {
						return err
					}
					if err := bw.WriteByte(byte(row[x] >> 8)); err != nil {
						return err
					}
				}
			} else {
				row, err := src.Row(p, y)
				if err != nil {
					return err
				}
				if _, err := bw.Write(row[:pw]); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}

// ReadY4M reads the first frame of a YUV4MPEG2 stream into a new image.
func ReadY4M(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)
	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("y4m header: %w", err)
	}
	fields := strings.Fields(strings.TrimSpace(header))
	if len(fields) == 0 || fields[0] != "YUV4MPEG2" {
		return nil, fmt.Errorf("y4m: bad signature: %w", ErrInvalidArgument)
	}

	img := &Image{
		Depth:     8,
		YUVFormat: PixelFormatYUV420,
		YUVRange:  RangeLimited,
	}
	hasAlpha := false
	for _, f := range fields[1:] {
		switch {
		case strings.HasPrefix(f, "W"):
			if img.Width, err = strconv.Atoi(f[1:]); err != nil {
				return nil, fmt.Errorf("y4m width: %w", ErrInvalidArgument)
			}
		case strings.HasPrefix(f, "H"):
			if img.Height, err = strconv.Atoi(f[1:]); err != nil {
				return nil, fmt.Errorf("y4m height: %w", ErrInvalidArgument)
			}
		case strings.HasPrefix(f, "C"):
			cs := f[1:]
			switch {
			case strings.HasPrefix(cs, "420"):
				img.YUVFormat = PixelFormatYUV420
			case strings.HasPrefix(cs, "422"):
				img.YUVFormat = PixelFormatYUV422
			case strings.HasPrefix(cs, "444"):
				img.YUVFormat = PixelFormatYUV444
			case strings.HasPrefix(cs, "mono"):
				img.YUVFormat = PixelFormatYUV400
			default:
				return nil, fmt.Errorf("y4m colorspace %q: %w", cs, ErrNotImplemented)
			}
			hasAlpha = cs == "444alpha"
			if strings.Contains(cs, "p10") {
				img.Depth = 10
			} else if strings.Contains(cs, "p12") {
				img.Depth = 12
			} else if img.YUVFormat == PixelFormatYUV400 {
				if strings.HasSuffix(cs, "10") {
					img.Depth = 10
				} else if strings.HasSuffix(cs, "12") {
					img.Depth = 12
				}
			}
		case f == "XCOLORRANGE=FULL":
			img.YUVRange = RangeFull
		case f == "XCOLORRANGE=LIMITED":
			img.YUVRange = RangeLimited
		}
	}
	if img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("y4m: missing dimensions: %w", ErrInvalidArgument)
	}

	frame, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("y4m frame header: %w", err)
	}
	if !strings.HasPrefix(frame, "FRAME") {
		return nil, fmt.Errorf("y4m: expected FRAME, got %q: %w", strings.TrimSpace(frame), ErrInvalidArgument)
	}

	group := YUVPlanes
	if hasAlpha {
		group = AllPlanes
	}
	if err := img.AllocatePlanes(group); err != nil {
		return nil, err
	}

	planes := []Plane{PlaneY, PlaneU, PlaneV}
	if hasAlpha {
		planes = append(planes, PlaneA)
	}
	for _, p := range planes {
		if !img.HasPlane(p) {
			continue
		}
		pw, ph := img.PlaneWidth(p), img.PlaneHeight(p)
		buf := make([]byte, pw*2)
		for y := 0; y < ph; y++ {
			if img.planes[p].is16() {
				row, err := img.Row16(p, y)
				if err != nil {
					return nil, err
				}
				if _, err := io.ReadFull(br, buf); err != nil {
					return nil, fmt.Errorf("y4m samples: %w", err)
				}
				for x := 0; x < pw; x++ {
					row[x] = uint16(buf[2*x]) | uint16(buf[2*x+1])<<8
				}
			} else {
				row, err := img.Row(p, y)
				if err != nil {
					return nil, err
				}
				if _, err := io.ReadFull(br, row[:pw]); err != nil {
					return nil, fmt.Errorf("y4m samples: %w", err)
				}
			}
		}
	}
	return img, nil
}
