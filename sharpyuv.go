package avifpix

// sharpYUVDownsample fills the chroma planes from full-resolution chroma
// using luma-guided weights. Within each 2x2 block, samples whose luma is
// close to the block mean contribute more, which keeps chroma from bleeding
// across sharp edges. Only reached for 4:2:0 with depth <= 12.
func (img *Image) sharpYUVDownsample(rgb *RGBImage, s *yuvState, cbFull, crFull []float32) error {
	w, h := img.Width, img.Height
	rgbMaxF := float32(rgb.MaxChannel())

	// Normalized luma proxy, recomputed from RGB so the weights do not
	// depend on the quantized luma plane.
	luma := make([]float32, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			rv, gv, bv, _ := rgb.rgbAt(j, i)
			y, _, _ := s.computeYUV(float32(rv)/rgbMaxF, float32(gv)/rgbMaxF, float32(bv)/rgbMaxF)
			luma[j*w+i] = y
		}
	}

	uvW, uvH := img.PlaneWidth(PlaneU), img.PlaneHeight(PlaneU)
	return parallelRows(uvH, rgb.MaxThreads, func(yStart, yEnd int) error {
		for cj := yStart; cj < yEnd; cj++ {
			uRow := img.planeRow(PlaneU, cj)
			vRow := img.planeRow(PlaneV, cj)
			for ci := 0; ci < uvW; ci++ {
				var meanY float32
				count := 0
				for dj := 0; dj < 2; dj++ {
					j := cj*2 + dj
					if j >= h {
						break
					}
					for di := 0; di < 2; di++ {
						i := ci*2 + di
						if i >= w {
							break
						}
						meanY += luma[j*w+i]
						count++
					}
				}
				meanY /= float32(count)

				var sumCb, sumCr, sumW float32
				for dj := 0; dj < 2; dj++ {
					j := cj*2 + dj
					if j >= h {
						break
					}
					for di := 0; di < 2; di++ {
						i := ci*2 + di
						if i >= w {
							break
						}
						d := luma[j*w+i] - meanY
						if d < 0 {
							d = -d
						}
						wgt := 1 / (1 + 8*d)
						sumCb += cbFull[j*w+i] * wgt
						sumCr += crFull[j*w+i] * wgt
						sumW += wgt
					}
				}
				uRow.set(ci, s.storeChroma(sumCb/sumW))
				vRow.set(ci, s.storeChroma(sumCr/sumW))
			}
		}
		return nil
	})
}
