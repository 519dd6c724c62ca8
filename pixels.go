package avifpix

// Pixels is the ownership-tagged sample storage for one plane. 8-bit planes
// use the byte buffer, higher depths the 16-bit buffer. A view aliases a
// sub-range of another image's storage starting at the view origin; it is
// never grown or freed and must not outlive its source.
type Pixels struct {
	buf8  []uint8
	buf16 []uint16
	view  bool
}

func ownedPixels8(n int) Pixels  { return Pixels{buf8: make([]uint8, n)} }
func ownedPixels16(n int) Pixels { return Pixels{buf16: make([]uint16, n)} }

func viewPixels8(s []uint8) Pixels   { return Pixels{buf8: s, view: true} }
func viewPixels16(s []uint16) Pixels { return Pixels{buf16: s, view: true} }

// AdoptPixels8 wraps a codec-owned 8-bit buffer without copying.
func AdoptPixels8(s []uint8) Pixels { return viewPixels8(s) }

// AdoptPixels16 wraps a codec-owned 16-bit buffer without copying.
func AdoptPixels16(s []uint16) Pixels { return viewPixels16(s) }

// HasData reports whether any sample storage is attached.
func (p *Pixels) HasData() bool { return len(p.buf8) > 0 || len(p.buf16) > 0 }

// IsView reports whether the storage is borrowed from another image.
func (p *Pixels) IsView() bool { return p.view }

func (p *Pixels) is16() bool { return p.buf16 != nil }

func (p *Pixels) fill(v uint16) {
	if p.is16() {
		for i := range p.buf16 {
			p.buf16[i] = v
		}
		return
	}
	for i := range p.buf8 {
		p.buf8[i] = uint8(v)
	}
}
