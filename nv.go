package avifpix

import "fmt"

// planarized returns a planar-YUV420 copy of an image with interleaved
// chroma (NV12/NV21/P010). Planar inputs are returned as-is. The Y and
// alpha planes are borrowed, chroma is deinterleaved into owned planes.
// P010 samples are shifted down from the 16-bit word's high bits to 10-bit.
func (img *Image) planarized() (*Image, error) {
	if !img.YUVFormat.IsInterleavedChroma() {
		return img, nil
	}
	out := img.cloneProperties()
	out.YUVFormat = PixelFormatYUV420
	if img.YUVFormat == PixelFormatP010 {
		out.Depth = 10
	}

	// Luma and alpha alias the source.
	for _, p := range []Plane{PlaneY, PlaneA} {
		if !img.HasPlane(p) {
			continue
		}
		out.planes[p] = img.planes[p]
		out.planes[p].view = true
		out.rowBytes[p] = img.rowBytes[p]
	}
	if img.YUVFormat == PixelFormatP010 && img.HasPlane(PlaneY) {
		// P010 luma also needs the shift; copy instead of aliasing.
		w, h := out.PlaneWidth(PlaneY), out.PlaneHeight(PlaneY)
		out.planes[PlaneY] = ownedPixels16(w * h)
		out.rowBytes[PlaneY] = w * 2
		for y := 0; y < h; y++ {
			src, err := img.Row16(PlaneY, y)
			if err != nil {
				return nil, err
			}
			dst := out.planes[PlaneY].buf16[y*w : (y+1)*w]
			for i := range dst {
				dst[i] = src[i] >> 6
			}
		}
	}

	if !img.HasPlane(PlaneU) {
		return out, nil
	}
	cw, ch := out.PlaneWidth(PlaneU), out.PlaneHeight(PlaneU)
	uFirst := img.YUVFormat != PixelFormatNV21
	if img.Depth == 8 {
		out.planes[PlaneU] = ownedPixels8(cw * ch)
		out.planes[PlaneV] = ownedPixels8(cw * ch)
		out.rowBytes[PlaneU] = cw
		out.rowBytes[PlaneV] = cw
		for y := 0; y < ch; y++ {
			row, err := img.Row(PlaneU, y)
			if err != nil {
				return nil, err
			}
			u := out.planes[PlaneU].buf8[y*cw : (y+1)*cw]
			v := out.planes[PlaneV].buf8[y*cw : (y+1)*cw]
			for x := 0; x < cw; x++ {
				a, b := row[2*x], row[2*x+1]
				if uFirst {
					u[x], v[x] = a, b
				} else {
					u[x], v[x] = b, a
				}
			}
		}
	} else {
		out.planes[PlaneU] = ownedPixels16(cw * ch)
		out.planes[PlaneV] = ownedPixels16(cw * ch)
		out.rowBytes[PlaneU] = cw * 2
		out.rowBytes[PlaneV] = cw * 2
		shift := 0
		if img.YUVFormat == PixelFormatP010 {
			shift = 6
		}
		for y := 0; y < ch; y++ {
			row, err := img.Row16(PlaneU, y)
			if err != nil {
				return nil, err
			}
			u := out.planes[PlaneU].buf16[y*cw : (y+1)*cw]
			v := out.planes[PlaneV].buf16[y*cw : (y+1)*cw]
			for x := 0; x < cw; x++ {
				a, b := row[2*x]>>shift, row[2*x+1]>>shift
				if uFirst {
					u[x], v[x] = a, b
				} else {
					u[x], v[x] = b, a
				}
			}
		}
	}
	return out, nil
}

// NormalizeToPlanar rewrites an interleaved-chroma image (NV12/NV21/P010)
// as planar YUV420 in place. Planar images are left untouched.
func (img *Image) NormalizeToPlanar() error {
	if !img.YUVFormat.IsInterleavedChroma() {
		return nil
	}
	planar, err := img.planarized()
	if err != nil {
		return fmt.Errorf("normalize to planar: %w", err)
	}
	// Materialize borrowed planes so the result owns its storage.
	out := &Image{}
	if err := out.CopyFrom(planar, AllPlanes); err != nil {
		return err
	}
	*img = *out
	return nil
}
