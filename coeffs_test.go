package avifpix

import (
	"math"
	"testing"
)

func TestYUVCoefficientsFromCICP(t *testing.T) {
	tests := []struct {
		name   string
		mc     MatrixCoefficients
		kr, kb float64
	}{
		{name: "bt709", mc: MatrixCoefficientsBT709, kr: 0.2126, kb: 0.0722},
		{name: "bt601", mc: MatrixCoefficientsBT601, kr: 0.299, kb: 0.114},
		{name: "bt2020ncl", mc: MatrixCoefficientsBT2020NCL, kr: 0.2627, kb: 0.0593},
		{name: "fcc", mc: MatrixCoefficientsFCC, kr: 0.30, kb: 0.11},
		{name: "smpte240", mc: MatrixCoefficientsSMPTE240, kr: 0.212, kb: 0.087},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			kr, kg, kb := yuvCoefficients(ColorPrimariesUnspecified, tc.mc)
			if math.Abs(float64(kr)-tc.kr) > 1e-4 || math.Abs(float64(kb)-tc.kb) > 1e-4 {
				t.Fatalf("kr=%v kb=%v, want %v %v", kr, kb, tc.kr, tc.kb)
			}
			if math.Abs(float64(kr+kg+kb)-1) > 1e-5 {
				t.Fatalf("coefficients sum to %v, want 1", kr+kg+kb)
			}
		})
	}
}

func TestChromaDerivedCoefficients(t *testing.T) {
	// Derived from BT.709 primaries via the chromaticity solve; must land
	// close to the published BT.709 constants.
	kr, kg, kb := yuvCoefficients(ColorPrimariesBT709, MatrixCoefficientsChromaDerivedNCL)
	if math.Abs(float64(kr)-0.2126) > 1e-3 || math.Abs(float64(kb)-0.0722) > 1e-3 {
		t.Fatalf("derived kr=%v kb=%v, want near 0.2126/0.0722", kr, kb)
	}
	if math.Abs(float64(kr+kg+kb)-1) > 1e-5 {
		t.Fatalf("sum %v, want 1", kr+kg+kb)
	}
}

func TestUnknownMatrixFallsBackToBT601(t *testing.T) {
	kr, _, kb := yuvCoefficients(ColorPrimariesUnspecified, MatrixCoefficientsUnspecified)
	if math.Abs(float64(kr)-0.299) > 1e-4 || math.Abs(float64(kb)-0.114) > 1e-4 {
		t.Fatalf("fallback kr=%v kb=%v, want BT.601", kr, kb)
	}
}
