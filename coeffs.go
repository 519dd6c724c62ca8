package avifpix

// yuvCoefficients returns the (kr, kg, kb) luma weights for the CICP matrix
// coefficients, falling back to BT.601 for unknown values, matching the
// behavior expected by AV1 reformatting.
func yuvCoefficients(cp ColorPrimaries, mc MatrixCoefficients) (float32, float32, float32) {
	if kr, kb, ok := yuvCoefficientsFromCICP(cp, mc); ok {
		return kr, 1 - kr - kb, kb
	}
	kr, kb, _ := yuvCoefficientsFromCICP(cp, MatrixCoefficientsBT601)
	return kr, 1 - kr - kb, kb
}

func yuvCoefficientsFromCICP(cp ColorPrimaries, mc MatrixCoefficients) (kr, kb float32, ok bool) {
	switch mc {
	case MatrixCoefficientsChromaDerivedNCL:
		kr, kb = lumaCoefficientsFromPrimaries(cp)
		return kr, kb, true
	case MatrixCoefficientsBT709:
		return 0.2126, 0.0722, true
	case MatrixCoefficientsFCC:
		return 0.30, 0.11, true
	case MatrixCoefficientsBT470BG, MatrixCoefficientsBT601:
		return 0.299, 0.114, true
	case MatrixCoefficientsSMPTE240:
		return 0.212, 0.087, true
	case MatrixCoefficientsBT2020NCL:
		return 0.2627, 0.0593, true
	default:
		return 0, 0, false
	}
}

// chromaticity holds CIE xy coordinates for R, G, B and the white point.
type chromaticity struct {
	rx, ry, gx, gy, bx, by, wx, wy float64
}

func primariesChromaticity(cp ColorPrimaries) chromaticity {
	switch cp {
	case ColorPrimariesBT470M:
		return chromaticity{0.67, 0.33, 0.21, 0.71, 0.14, 0.08, 0.310, 0.316}
	case ColorPrimariesBT470BG, ColorPrimariesBT601:
		return chromaticity{0.64, 0.33, 0.29, 0.60, 0.15, 0.06, 0.3127, 0.3290}
	case ColorPrimariesSMPTE240:
		return chromaticity{0.630, 0.340, 0.310, 0.595, 0.155, 0.070, 0.3127, 0.3290}
	case ColorPrimariesGenericFilm:
		return chromaticity{0.681, 0.319, 0.243, 0.692, 0.145, 0.049, 0.310, 0.316}
	case ColorPrimariesBT2020:
		return chromaticity{0.708, 0.292, 0.170, 0.797, 0.131, 0.046, 0.3127, 0.3290}
	case ColorPrimariesSMPTE431:
		return chromaticity{0.680, 0.320, 0.265, 0.690, 0.150, 0.060, 0.314, 0.351}
	case ColorPrimariesSMPTE432:
		return chromaticity{0.680, 0.320, 0.265, 0.690, 0.150, 0.060, 0.3127, 0.3290}
	case ColorPrimariesEBU3213:
		return chromaticity{0.630, 0.340, 0.295, 0.605, 0.155, 0.077, 0.3127, 0.3290}
	default: // BT.709, sRGB, unspecified
		return chromaticity{0.64, 0.33, 0.30, 0.60, 0.15, 0.06, 0.3127, 0.3290}
	}
}

// lumaCoefficientsFromPrimaries derives (kr, kb) from the primaries'
// chromaticities, per H.273 for chroma-derived matrices: the luma weights
// are the Y row of the RGB->XYZ matrix built from the primaries and white
// point.
func lumaCoefficientsFromPrimaries(cp ColorPrimaries) (float32, float32) {
	c := primariesChromaticity(cp)
	rz := 1 - c.rx - c.ry
	gz := 1 - c.gx - c.gy
	bz := 1 - c.bx - c.by
	wz := 1 - c.wx - c.wy

	// Solve for the per-primary scale factors that map RGB white to the
	// white point, then read off the Y row.
	det := c.rx*(c.gy*bz-c.by*gz) - c.gx*(c.ry*bz-c.by*rz) + c.bx*(c.ry*gz-c.gy*rz)
	if det == 0 {
		return 0.2126, 0.0722
	}
	wX := c.wx / c.wy
	wZ := wz / c.wy
	sr := (wX*(c.gy*bz-c.by*gz) - c.gx*(bz-wZ*c.by) + c.bx*(gz-wZ*c.gy)) / det
	sg := (c.rx*(bz-wZ*c.by) - wX*(c.ry*bz-c.by*rz) + c.bx*(c.ry*wZ-rz)) / det
	sb := (c.rx*(c.gy*wZ-gz) - c.gx*(c.ry*wZ-rz) + wX*(c.ry*gz-c.gy*rz)) / det

	kr := sr * c.ry
	kg := sg * c.gy
	kb := sb * c.by
	sum := kr + kg + kb
	if sum == 0 {
		return 0.2126, 0.0722
	}
	return float32(kr / sum), float32(kb / sum)
}
