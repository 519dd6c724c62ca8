package avifpix

import (
	"github.com/vearutop/avifpix/internal/imath"
)

// rgbAt returns the raw channel values at (x,y) for unpacked formats. Gray
// is expanded to three equal channels, missing alpha reads as opaque.
func (r *RGBImage) rgbAt(y, x int) (rr, gg, bb, aa uint16) {
	off := r.Format.offsets()
	n := r.Format.ChannelCount()
	if r.Format.isGray() {
		v := r.channelAt(y, x*n+off[0])
		rr, gg, bb = v, v, v
	} else {
		rr = r.channelAt(y, x*n+off[0])
		gg = r.channelAt(y, x*n+off[1])
		bb = r.channelAt(y, x*n+off[2])
	}
	aa = uint16(r.MaxChannel())
	if r.Format.HasAlpha() {
		aa = r.channelAt(y, x*n+off[3])
	}
	return rr, gg, bb, aa
}

// rgbToYUVAny computes luma per pixel and fills chroma at full resolution,
// then downsamples chroma into the destination planes.
func (img *Image) rgbToYUVAny(rgb *RGBImage, s *yuvState) error {
	w, h := img.Width, img.Height
	mono := img.YUVFormat.IsMonochrome()
	rgbMaxF := float32(rgb.MaxChannel())

	var cbFull, crFull []float32
	if !mono {
		cbFull = make([]float32, w*h)
		crFull = make([]float32, w*h)
	}

	err := parallelRows(h, rgb.MaxThreads, func(yStart, yEnd int) error {
		for j := yStart; j < yEnd; j++ {
			yRow := img.planeRow(PlaneY, j)
			for i := 0; i < w; i++ {
				rv, gv, bv, _ := rgb.rgbAt(j, i)
				rN := float32(rv) / rgbMaxF
				gN := float32(gv) / rgbMaxF
				bN := float32(bv) / rgbMaxF
				y, cb, cr := s.computeYUV(rN, gN, bN)
				yRow.set(i, s.storeLuma(y))
				if !mono {
					cbFull[j*w+i] = cb
					crFull[j*w+i] = cr
				}
			}
		}
		return nil
	})
	if err != nil || mono {
		return err
	}

	if rgb.ChromaDownsampling == DownsampleSharpYUV {
		return img.sharpYUVDownsample(rgb, s, cbFull, crFull)
	}

	shiftX := img.YUVFormat.chromaShiftX()
	shiftY := img.YUVFormat.chromaShiftY()
	uvW, uvH := img.PlaneWidth(PlaneU), img.PlaneHeight(PlaneU)
	nearest := rgb.ChromaDownsampling == DownsampleFastest

	return parallelRows(uvH, rgb.MaxThreads, func(yStart, yEnd int) error {
		for cj := yStart; cj < yEnd; cj++ {
			uRow := img.planeRow(PlaneU, cj)
			vRow := img.planeRow(PlaneV, cj)
			for ci := 0; ci < uvW; ci++ {
				var cb, cr float32
				if nearest {
					j := imath.Clamp(cj<<shiftY, 0, h-1)
					i := imath.Clamp(ci<<shiftX, 0, w-1)
					cb = cbFull[j*w+i]
					cr = crFull[j*w+i]
				} else {
					var sumCb, sumCr float32
					count := 0
					for dj := 0; dj < 1<<shiftY; dj++ {
						j := cj<<shiftY + dj
						if j >= h {
							break
						}
						for di := 0; di < 1<<shiftX; di++ {
							i := ci<<shiftX + di
							if i >= w {
								break
							}
							sumCb += cbFull[j*w+i]
							sumCr += crFull[j*w+i]
							count++
						}
					}
					cb = sumCb / float32(count)
					cr = sumCr / float32(count)
				}
				uRow.set(ci, s.storeChroma(cb))
				vRow.set(ci, s.storeChroma(cr))
			}
		}
		return nil
	})
}

// rgbToYUVR applies the lossless YCgCo-Re/Ro lifting transform. The YUV
// depth exceeds the RGB depth by the transform's headroom, so the results
// always fit the destination planes.
func (img *Image) rgbToYUVR(rgb *RGBImage, s *yuvState) error {
	mono := img.YUVFormat.IsMonochrome()
	bias := int32(1) << (s.depth - 1)
	yuvMax := int32(s.maxChannel)

	return parallelRows(img.Height, rgb.MaxThreads, func(yStart, yEnd int) error {
		for j := yStart; j < yEnd; j++ {
			yRow := img.planeRow(PlaneY, j)
			var uRow, vRow planeRow
			if !mono {
				uRow = img.planeRow(PlaneU, j)
				vRow = img.planeRow(PlaneV, j)
			}
			for i := 0; i < img.Width; i++ {
				rv, gv, bv, _ := rgb.rgbAt(j, i)
				co := int32(rv) - int32(bv)
				t := int32(bv) + (co >> 1)
				cg := int32(gv) - t
				y := t + (cg >> 1)
				yRow.set(i, uint16(imath.Clamp(y, 0, yuvMax)))
				if !mono {
					uRow.set(i, uint16(imath.Clamp(cg+bias, 0, yuvMax)))
					vRow.set(i, uint16(imath.Clamp(co+bias, 0, yuvMax)))
				}
			}
		}
		return nil
	})
}
