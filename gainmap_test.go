package avifpix

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleMetadata() *GainMapMetadata {
	m := &GainMapMetadata{
		BaseHDRHeadroom:      UFraction{0, 1},
		AlternateHDRHeadroom: UFraction{13, 10},
		UseBaseColorSpace:    true,
	}
	for c := 0; c < 3; c++ {
		m.Min[c] = Fraction{-5, 10}
		m.Max[c] = Fraction{35, 10}
		m.Gamma[c] = UFraction{1, 1}
		m.BaseOffset[c] = Fraction{1, 64}
		m.AlternateOffset[c] = Fraction{1, 64}
	}
	return m
}

func TestGainMapMetadataValidate(t *testing.T) {
	m := sampleMetadata()
	require.NoError(t, m.Validate())

	bad := *m
	bad.Gamma[1] = UFraction{0, 1}
	require.ErrorIs(t, bad.Validate(), ErrInvalidArgument)

	bad = *m
	bad.Max[2] = Fraction{-10, 10} // below min
	require.ErrorIs(t, bad.Validate(), ErrInvalidArgument)

	bad = *m
	bad.Min[0] = Fraction{1, 0}
	require.ErrorIs(t, bad.Validate(), ErrInvalidArgument)
}

func TestGainMapISORoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *GainMapMetadata)
	}{
		{name: "single channel common denominator", mutate: func(m *GainMapMetadata) {
			// All denominators equal, channels identical.
			m.BaseHDRHeadroom = UFraction{0, 64}
			m.AlternateHDRHeadroom = UFraction{83, 64}
			for c := 0; c < 3; c++ {
				m.Min[c] = Fraction{-3, 64}
				m.Max[c] = Fraction{200, 64}
				m.Gamma[c] = UFraction{64, 64}
				m.BaseOffset[c] = Fraction{1, 64}
				m.AlternateOffset[c] = Fraction{1, 64}
			}
		}},
		{name: "multi channel", mutate: func(m *GainMapMetadata) {
			m.Min[1] = Fraction{-7, 10}
		}},
		{name: "backward direction", mutate: func(m *GainMapMetadata) {
			m.BackwardDirection = true
			m.UseBaseColorSpace = false
		}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			m := sampleMetadata()
			tc.mutate(m)

			payload, err := EncodeGainMapMetadata(m)
			require.NoError(t, err)

			got, err := DecodeGainMapMetadata(payload)
			require.NoError(t, err)
			require.True(t, m.Eq(got), "decoded metadata differs: %+v vs %+v", m, got)
		})
	}
}

func TestGainMapDecodeTruncated(t *testing.T) {
	m := sampleMetadata()
	payload, err := EncodeGainMapMetadata(m)
	require.NoError(t, err)

	for _, cut := range []int{0, 1, 4, len(payload) - 1} {
		_, err := DecodeGainMapMetadata(payload[:cut])
		require.ErrorIs(t, err, ErrDecodeGainMapFailed, "cut at %d", cut)
	}
}

func TestGainMapDecodeBadVersion(t *testing.T) {
	m := sampleMetadata()
	payload, err := EncodeGainMapMetadata(m)
	require.NoError(t, err)
	payload[0] = 0xFF // minimum_version
	_, err = DecodeGainMapMetadata(payload)
	require.ErrorIs(t, err, ErrDecodeGainMapFailed)
}

func TestValidateForEncode(t *testing.T) {
	mapImage := &Image{Width: 4, Height: 4, Depth: 8, YUVFormat: PixelFormatYUV400, YUVRange: RangeFull}
	if err := mapImage.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	g := &GainMap{Image: mapImage, Metadata: *sampleMetadata()}
	if err := g.ValidateForEncode(); err != nil {
		t.Fatal(err)
	}

	angle := uint8(1)
	mapImage.IrotAngle = &angle
	if err := g.ValidateForEncode(); !errors.Is(err, ErrEncodeGainMapFailed) {
		t.Fatalf("got %v, want ErrEncodeGainMapFailed", err)
	}
	mapImage.IrotAngle = nil

	g.Image = nil
	if err := g.ValidateForEncode(); !errors.Is(err, ErrEncodeGainMapFailed) {
		t.Fatalf("got %v, want ErrEncodeGainMapFailed", err)
	}
}

func TestGainMapMetadataEqByValue(t *testing.T) {
	a := sampleMetadata()
	b := sampleMetadata()
	for c := 0; c < 3; c++ {
		b.Min[c] = Fraction{-1, 2} // same value as -5/10
	}
	require.True(t, a.Eq(b))

	b.BackwardDirection = true
	require.False(t, a.Eq(b))
}
