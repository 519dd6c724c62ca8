package avifpix

import "fmt"

// GainMapMetadata is the fractional tone-mapping metadata of ISO/IEC
// 21496-1. Channel order is R, G, B. Log2-valued fields (min, max,
// headrooms) stay in their encoded fraction form; consumers convert to
// linear when applying the map.
type GainMapMetadata struct {
	Min             [3]Fraction
	Max             [3]Fraction
	Gamma           [3]UFraction
	BaseOffset      [3]Fraction
	AlternateOffset [3]Fraction

	BaseHDRHeadroom      UFraction
	AlternateHDRHeadroom UFraction

	// BackwardDirection indicates the alternate image is the one the map
	// was computed from.
	BackwardDirection bool
	// UseBaseColorSpace selects the color space the map is applied in.
	UseBaseColorSpace bool
}

// GainMap bundles the gain map pixels with the metadata and the properties
// of the alternate (fully boosted) rendition.
type GainMap struct {
	Image *Image

	Metadata GainMapMetadata

	AltICC                     []byte
	AltColorPrimaries          ColorPrimaries
	AltTransferCharacteristics TransferCharacteristics
	AltMatrixCoefficients      MatrixCoefficients
	AltYUVRange                YUVRange

	AltDepth      int
	AltPlaneCount int

	AltCLLI ContentLightLevel
}

// Validate checks the metadata invariants: every denominator is non-zero,
// per-channel max is not below min, and gamma is positive.
func (m *GainMapMetadata) Validate() error {
	for c := 0; c < 3; c++ {
		if err := m.Min[c].Valid(); err != nil {
			return fmt.Errorf("gain map min[%d]: %w", c, err)
		}
		if err := m.Max[c].Valid(); err != nil {
			return fmt.Errorf("gain map max[%d]: %w", c, err)
		}
		if err := m.Gamma[c].Valid(); err != nil {
			return fmt.Errorf("gain map gamma[%d]: %w", c, err)
		}
		if err := m.BaseOffset[c].Valid(); err != nil {
			return fmt.Errorf("gain map base offset[%d]: %w", c, err)
		}
		if err := m.AlternateOffset[c].Valid(); err != nil {
			return fmt.Errorf("gain map alternate offset[%d]: %w", c, err)
		}
		if m.Gamma[c].N == 0 {
			return fmt.Errorf("%w: gain map gamma[%d] is zero", ErrInvalidArgument, c)
		}
		if m.Max[c].Less(m.Min[c]) {
			return fmt.Errorf("%w: gain map max[%d] below min", ErrInvalidArgument, c)
		}
	}
	if err := m.BaseHDRHeadroom.Valid(); err != nil {
		return fmt.Errorf("base hdr headroom: %w", err)
	}
	if err := m.AlternateHDRHeadroom.Valid(); err != nil {
		return fmt.Errorf("alternate hdr headroom: %w", err)
	}
	return nil
}

// channelsIdentical reports whether all three channels carry the same
// values, compared exactly. Such metadata encodes as single-channel.
func (m *GainMapMetadata) channelsIdentical() bool {
	for c := 1; c < 3; c++ {
		if !m.Min[0].Eq(m.Min[c]) || !m.Max[0].Eq(m.Max[c]) ||
			!m.Gamma[0].Eq(m.Gamma[c]) ||
			!m.BaseOffset[0].Eq(m.BaseOffset[c]) ||
			!m.AlternateOffset[0].Eq(m.AlternateOffset[c]) {
			return false
		}
	}
	return true
}

// Eq compares two metadata sets by value, not by representation.
func (m *GainMapMetadata) Eq(o *GainMapMetadata) bool {
	for c := 0; c < 3; c++ {
		if !m.Min[c].Eq(o.Min[c]) || !m.Max[c].Eq(o.Max[c]) ||
			!m.Gamma[c].Eq(o.Gamma[c]) ||
			!m.BaseOffset[c].Eq(o.BaseOffset[c]) ||
			!m.AlternateOffset[c].Eq(o.AlternateOffset[c]) {
			return false
		}
	}
	return m.BaseHDRHeadroom.Eq(o.BaseHDRHeadroom) &&
		m.AlternateHDRHeadroom.Eq(o.AlternateHDRHeadroom) &&
		m.BackwardDirection == o.BackwardDirection &&
		m.UseBaseColorSpace == o.UseBaseColorSpace
}

// ValidateForEncode checks that the gain map can be written out: metadata
// must validate and the map image must exist without transform properties,
// which belong to the base image only.
func (g *GainMap) ValidateForEncode() error {
	if g.Image == nil || !g.Image.HasPlane(PlaneY) {
		return fmt.Errorf("%w: gain map has no pixels", ErrEncodeGainMapFailed)
	}
	if g.Image.HasTransform() {
		return fmt.Errorf("%w: transform properties on gain map image", ErrEncodeGainMapFailed)
	}
	if err := g.Metadata.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodeGainMapFailed, err)
	}
	return nil
}
