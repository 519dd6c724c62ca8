package avifpix

import (
	"encoding/binary"
	"fmt"
)

const (
	isoMultiChannelMask = 1 << 7
	isoUseBaseColorMask = 1 << 6
	isoBackwardMask     = 1 << 2
	isoCommonDenomMask  = 1 << 3
)

// EncodeGainMapMetadata serializes the metadata as an ISO/IEC 21496-1
// payload, big-endian. Identical channels collapse to the single-channel
// form; a shared denominator across every field enables the compact common
// denominator layout.
func EncodeGainMapMetadata(m *GainMapMetadata) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeGainMapFailed, err)
	}

	channelCount := 3
	if m.channelsIdentical() {
		channelCount = 1
	}

	flags := uint8(0)
	if channelCount == 3 {
		flags |= isoMultiChannelMask
	}
	if m.UseBaseColorSpace {
		flags |= isoUseBaseColorMask
	}
	if m.BackwardDirection {
		flags |= isoBackwardMask
	}

	denom := m.BaseHDRHeadroom.D
	useCommon := m.AlternateHDRHeadroom.D == denom
	for c := 0; c < channelCount && useCommon; c++ {
		useCommon = m.Min[c].D == denom && m.Max[c].D == denom &&
			m.Gamma[c].D == denom &&
			m.BaseOffset[c].D == denom && m.AlternateOffset[c].D == denom
	}
	if useCommon {
		flags |= isoCommonDenomMask
	}

	out := make([]byte, 0, 128)
	writeU16 := func(v uint16) { out = binary.BigEndian.AppendUint16(out, v) }
	writeU32 := func(v uint32) { out = binary.BigEndian.AppendUint32(out, v) }
	writeS32 := func(v int32) { writeU32(uint32(v)) }

	writeU16(0) // minimum_version
	writeU16(0) // writer_version
	out = append(out, flags)

	if useCommon {
		writeU32(denom)
		writeU32(m.BaseHDRHeadroom.N)
		writeU32(m.AlternateHDRHeadroom.N)
		for c := 0; c < channelCount; c++ {
			writeS32(m.Min[c].N)
			writeS32(m.Max[c].N)
			writeU32(m.Gamma[c].N)
			writeS32(m.BaseOffset[c].N)
			writeS32(m.AlternateOffset[c].N)
		}
		return out, nil
	}

	writeU32(m.BaseHDRHeadroom.N)
	writeU32(m.BaseHDRHeadroom.D)
	writeU32(m.AlternateHDRHeadroom.N)
	writeU32(m.AlternateHDRHeadroom.D)
	for c := 0; c < channelCount; c++ {
		writeS32(m.Min[c].N)
		writeU32(m.Min[c].D)
		writeS32(m.Max[c].N)
		writeU32(m.Max[c].D)
		writeU32(m.Gamma[c].N)
		writeU32(m.Gamma[c].D)
		writeS32(m.BaseOffset[c].N)
		writeU32(m.BaseOffset[c].D)
		writeS32(m.AlternateOffset[c].N)
		writeU32(m.AlternateOffset[c].D)
	}
	return out, nil
}

// DecodeGainMapMetadata parses an ISO/IEC 21496-1 payload. Single-channel
// payloads are expanded to all three channels.
func DecodeGainMapMetadata(data []byte) (*GainMapMetadata, error) {
	pos := 0
	readU16 := func() (uint16, error) {
		if pos+2 > len(data) {
			return 0, fmt.Errorf("%w: truncated payload", ErrDecodeGainMapFailed)
		}
		v := binary.BigEndian.Uint16(data[pos:])
		pos += 2
		return v, nil
	}
	readU32 := func() (uint32, error) {
		if pos+4 > len(data) {
			return 0, fmt.Errorf("%w: truncated payload", ErrDecodeGainMapFailed)
		}
		v := binary.BigEndian.Uint32(data[pos:])
		pos += 4
		return v, nil
	}
	readS32 := func() (int32, error) {
		v, err := readU32()
		return int32(v), err
	}

	minVer, err := readU16()
	if err != nil {
		return nil, err
	}
	if minVer != 0 {
		return nil, fmt.Errorf("%w: minimum_version %d", ErrDecodeGainMapFailed, minVer)
	}
	if _, err = readU16(); err != nil {
		return nil, err
	}
	if pos >= len(data) {
		return nil, fmt.Errorf("%w: truncated payload", ErrDecodeGainMapFailed)
	}
	flags := data[pos]
	pos++

	channelCount := 1
	if flags&isoMultiChannelMask != 0 {
		channelCount = 3
	}

	m := &GainMapMetadata{
		UseBaseColorSpace: flags&isoUseBaseColorMask != 0,
		BackwardDirection: flags&isoBackwardMask != 0,
	}

	if flags&isoCommonDenomMask != 0 {
		denom, err := readU32()
		if err != nil {
			return nil, err
		}
		if m.BaseHDRHeadroom.N, err = readU32(); err != nil {
			return nil, err
		}
		m.BaseHDRHeadroom.D = denom
		if m.AlternateHDRHeadroom.N, err = readU32(); err != nil {
			return nil, err
		}
		m.AlternateHDRHeadroom.D = denom
		for c := 0; c < channelCount; c++ {
			if m.Min[c].N, err = readS32(); err != nil {
				return nil, err
			}
			m.Min[c].D = denom
			if m.Max[c].N, err = readS32(); err != nil {
				return nil, err
			}
			m.Max[c].D = denom
			if m.Gamma[c].N, err = readU32(); err != nil {
				return nil, err
			}
			m.Gamma[c].D = denom
			if m.BaseOffset[c].N, err = readS32(); err != nil {
				return nil, err
			}
			m.BaseOffset[c].D = denom
			if m.AlternateOffset[c].N, err = readS32(); err != nil {
				return nil, err
			}
			m.AlternateOffset[c].D = denom
		}
	} else {
		if m.BaseHDRHeadroom.N, err = readU32(); err != nil {
			return nil, err
		}
		if m.BaseHDRHeadroom.D, err = readU32(); err != nil {
			return nil, err
		}
		if m.AlternateHDRHeadroom.N, err = readU32(); err != nil {
			return nil, err
		}
		if m.AlternateHDRHeadroom.D, err = readU32(); err != nil {
			return nil, err
		}
		for c := 0; c < channelCount; c++ {
			if m.Min[c].N, err = readS32(); err != nil {
				return nil, err
			}
			if m.Min[c].D, err = readU32(); err != nil {
				return nil, err
			}
			if m.Max[c].N, err = readS32(); err != nil {
				return nil, err
			}
			if m.Max[c].D, err = readU32(); err != nil {
				return nil, err
			}
			if m.Gamma[c].N, err = readU32(); err != nil {
				return nil, err
			}
			if m.Gamma[c].D, err = readU32(); err != nil {
				return nil, err
			}
			if m.BaseOffset[c].N, err = readS32(); err != nil {
				return nil, err
			}
			if m.BaseOffset[c].D, err = readU32(); err != nil {
				return nil, err
			}
			if m.AlternateOffset[c].N, err = readS32(); err != nil {
				return nil, err
			}
			if m.AlternateOffset[c].D, err = readU32(); err != nil {
				return nil, err
			}
		}
	}

	if channelCount == 1 {
		for c := 1; c < 3; c++ {
			m.Min[c] = m.Min[0]
			m.Max[c] = m.Max[0]
			m.Gamma[c] = m.Gamma[0]
			m.BaseOffset[c] = m.BaseOffset[0]
			m.AlternateOffset[c] = m.AlternateOffset[0]
		}
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeGainMapFailed, err)
	}
	return m, nil
}
