package avifpix

import (
	"encoding/binary"
	"fmt"

	"github.com/vearutop/avifpix/internal/imath"
)

// planeRow is depth-agnostic access to one row of plane samples. Writes go
// through the same slices, so a planeRow obtained from an owned plane can be
// used to store results.
type planeRow struct {
	b8  []uint8
	b16 []uint16
}

func (img *Image) planeRow(p Plane, y int) planeRow {
	if img.planes[p].is16() {
		row, err := img.Row16(p, y)
		if err != nil {
			return planeRow{}
		}
		return planeRow{b16: row}
	}
	row, err := img.Row(p, y)
	if err != nil {
		return planeRow{}
	}
	return planeRow{b8: row}
}

func (pr planeRow) at(x int) uint16 {
	if pr.b16 != nil {
		return pr.b16[x]
	}
	return uint16(pr.b8[x])
}

func (pr planeRow) set(x int, v uint16) {
	if pr.b16 != nil {
		pr.b16[x] = v
		return
	}
	pr.b8[x] = uint8(v)
}

// yuvToRGBAny is the general conversion path. It handles every pixel format,
// depth, range and upsampling mode, applying alpha multiplication inline.
func (r *RGBImage) yuvToRGBAny(img *Image, s *yuvState, am alphaMultiplyMode) error {
	mono := !img.HasPlane(PlaneU) || !img.HasPlane(PlaneV)
	shiftX := img.YUVFormat.chromaShiftX()
	shiftY := img.YUVFormat.chromaShiftY()
	bilinear := r.ChromaUpsampling.bilinear() && (shiftX != 0 || shiftY != 0) && !mono

	uvW, uvH := 0, 0
	if !mono {
		uvW, uvH = img.PlaneWidth(PlaneU), img.PlaneHeight(PlaneU)
	}

	hasAlphaSrc := img.HasPlane(PlaneA)
	wantAlphaRow := hasAlphaSrc && (am != alphaNoOp || r.Format == FormatRGBA1010102)
	aMax := float32(int32(s.maxChannel))

	off := r.Format.offsets()
	n := r.Format.ChannelCount()
	rgbMax := int32(r.MaxChannel())
	rgbMaxF := float32(rgbMax)

	return parallelRows(r.Height, r.MaxThreads, func(yStart, yEnd int) error {
		for j := yStart; j < yEnd; j++ {
			yRow := img.planeRow(PlaneY, j)
			var uRow, vRow, uRowAdj, vRowAdj planeRow
			if !mono {
				uvJ := j >> shiftY
				uRow = img.planeRow(PlaneU, uvJ)
				vRow = img.planeRow(PlaneV, uvJ)
				if bilinear {
					adjJ := uvJ
					if shiftY != 0 {
						if j%2 != 0 && uvJ+1 < uvH {
							adjJ = uvJ + 1
						} else if j%2 == 0 && uvJ > 0 {
							adjJ = uvJ - 1
						}
					}
					uRowAdj = img.planeRow(PlaneU, adjJ)
					vRowAdj = img.planeRow(PlaneV, adjJ)
				}
			}
			var aRow planeRow
			if wantAlphaRow {
				aRow = img.planeRow(PlaneA, j)
			}

			var dst8 []uint8
			var dst16 []uint16
			if r.pixels.is16() {
				dst16, _ = r.Row16(j)
			} else {
				dst8, _ = r.Row(j)
			}

			for i := 0; i < r.Width; i++ {
				yN := s.unormLuma(yRow.at(i))
				var cb, cr float32
				if !mono {
					uvI := i >> shiftX
					if bilinear {
						adjI := uvI
						if shiftX != 0 {
							if i%2 != 0 && uvI+1 < uvW {
								adjI = uvI + 1
							} else if i%2 == 0 && uvI > 0 {
								adjI = uvI - 1
							}
						}
						cb = (9*s.unormChroma(uRow.at(uvI)) +
							3*s.unormChroma(uRow.at(adjI)) +
							3*s.unormChroma(uRowAdj.at(uvI)) +
							s.unormChroma(uRowAdj.at(adjI))) / 16
						cr = (9*s.unormChroma(vRow.at(uvI)) +
							3*s.unormChroma(vRow.at(adjI)) +
							3*s.unormChroma(vRowAdj.at(uvI)) +
							s.unormChroma(vRowAdj.at(adjI))) / 16
					} else {
						cb = s.unormChroma(uRow.at(uvI))
						cr = s.unormChroma(vRow.at(uvI))
					}
				}
				R, G, B := s.computeRGB(yN, cb, cr, mono)

				aN := float32(1)
				if wantAlphaRow {
					av := aRow.at(i)
					if av > s.maxChannel {
						av = s.maxChannel
					}
					aN = float32(av) / aMax
				}
				switch am {
				case alphaMultiply:
					R *= aN
					G *= aN
					B *= aN
				case alphaUnmultiply:
					if aN == 0 {
						R, G, B = 0, 0, 0
					} else {
						R = clampF(R/aN, 0, 1)
						G = clampF(G/aN, 0, 1)
						B = clampF(B/aN, 0, 1)
					}
				}

				switch {
				case r.Format == FormatRGB565:
					v := uint16(roundF(R*31))<<11 | uint16(roundF(G*63))<<5 | uint16(roundF(B*31))
					binary.LittleEndian.PutUint16(dst8[i*2:], v)
				case r.Format == FormatRGBA1010102:
					word := uint32(roundF(R*1023)) |
						uint32(roundF(G*1023))<<10 |
						uint32(roundF(B*1023))<<20 |
						uint32(roundF(aN*3))<<30
					binary.LittleEndian.PutUint32(dst8[i*4:], word)
				case r.Format.isGray():
					v := uint16(imath.Clamp(roundF(yN*rgbMaxF), 0, rgbMax))
					if dst16 != nil {
						dst16[i*n+off[0]] = v
					} else {
						dst8[i*n+off[0]] = uint8(v)
					}
				default:
					rv := uint16(imath.Clamp(roundF(R*rgbMaxF), 0, rgbMax))
					gv := uint16(imath.Clamp(roundF(G*rgbMaxF), 0, rgbMax))
					bv := uint16(imath.Clamp(roundF(B*rgbMaxF), 0, rgbMax))
					if dst16 != nil {
						dst16[i*n+off[0]] = rv
						dst16[i*n+off[1]] = gv
						dst16[i*n+off[2]] = bv
					} else {
						dst8[i*n+off[0]] = uint8(rv)
						dst8[i*n+off[1]] = uint8(gv)
						dst8[i*n+off[2]] = uint8(bv)
					}
				}
			}
		}
		return nil
	})
}

// yuvRToRGB inverts the lossless YCgCo-Re/Ro lifting transform. Only 4:4:4
// and 4:0:0 layouts reach this path.
func (r *RGBImage) yuvRToRGB(img *Image, s *yuvState) error {
	if r.Format.isPacked() {
		return fmt.Errorf("%w: packed output for YCgCo-R", ErrNotImplemented)
	}
	mono := !img.HasPlane(PlaneU) || !img.HasPlane(PlaneV)
	bias := int32(1) << (s.depth - 1)
	rgbMax := int32(r.MaxChannel())
	off := r.Format.offsets()
	n := r.Format.ChannelCount()

	return parallelRows(r.Height, r.MaxThreads, func(yStart, yEnd int) error {
		for j := yStart; j < yEnd; j++ {
			yRow := img.planeRow(PlaneY, j)
			var uRow, vRow planeRow
			if !mono {
				uRow = img.planeRow(PlaneU, j)
				vRow = img.planeRow(PlaneV, j)
			}
			var dst8 []uint8
			var dst16 []uint16
			if r.pixels.is16() {
				dst16, _ = r.Row16(j)
			} else {
				dst8, _ = r.Row(j)
			}
			for i := 0; i < r.Width; i++ {
				y := int32(yRow.at(i))
				var cg, co int32
				if !mono {
					cg = int32(uRow.at(i)) - bias
					co = int32(vRow.at(i)) - bias
				}
				t := y - (cg >> 1)
				gv := imath.Clamp(cg+t, 0, rgbMax)
				bv := imath.Clamp(t-(co>>1), 0, rgbMax)
				rv := imath.Clamp(bv+co, 0, rgbMax)
				if r.Format.isGray() {
					if dst16 != nil {
						dst16[i*n+off[0]] = uint16(imath.Clamp(y, 0, rgbMax))
					} else {
						dst8[i*n+off[0]] = uint8(imath.Clamp(y, 0, rgbMax))
					}
					continue
				}
				if dst16 != nil {
					dst16[i*n+off[0]] = uint16(rv)
					dst16[i*n+off[1]] = uint16(gv)
					dst16[i*n+off[2]] = uint16(bv)
				} else {
					dst8[i*n+off[0]] = uint8(rv)
					dst8[i*n+off[1]] = uint8(gv)
					dst8[i*n+off[2]] = uint8(bv)
				}
			}
		}
		return nil
	})
}
