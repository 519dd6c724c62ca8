package avifpix

import "fmt"

// Fraction is a signed exact rational with an unsigned denominator, as used
// by HEIF fractional fields. Producers are not required to reduce fractions;
// consumers compare by value.
type Fraction struct {
	N int32
	D uint32
}

// UFraction is an unsigned exact rational.
type UFraction struct {
	N uint32
	D uint32
}

// Valid reports whether the denominator is non-zero.
func (f Fraction) Valid() error {
	if f.D == 0 {
		return fmt.Errorf("%w: fraction with zero denominator", ErrInvalidArgument)
	}
	return nil
}

// Valid reports whether the denominator is non-zero.
func (f UFraction) Valid() error {
	if f.D == 0 {
		return fmt.Errorf("%w: fraction with zero denominator", ErrInvalidArgument)
	}
	return nil
}

// Eq compares two fractions by value using exact cross multiplication.
// {1,2} equals {2,4}.
func (f Fraction) Eq(o Fraction) bool {
	return int64(f.N)*int64(o.D) == int64(o.N)*int64(f.D)
}

// Eq compares two unsigned fractions by value.
func (f UFraction) Eq(o UFraction) bool {
	return uint64(f.N)*uint64(o.D) == uint64(o.N)*uint64(f.D)
}

// Less reports f < o by exact cross multiplication.
func (f Fraction) Less(o Fraction) bool {
	return int64(f.N)*int64(o.D) < int64(o.N)*int64(f.D)
}

// iFraction is the internal signed fraction used for clean-aperture geometry.
// Both parts are kept as int32 and every operation is exact integer math;
// results that would overflow int32 are reported instead of truncated.
type iFraction struct {
	n, d int32
}

func gcd32(a, b int32) int32 {
	x, y := int64(a), int64(b)
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	for y != 0 {
		x, y = y, x%y
	}
	return int32(x)
}

func simplifiedFraction(n, d int32) iFraction {
	f := iFraction{n, d}
	f.simplify()
	return f
}

func (f *iFraction) simplify() {
	if g := gcd32(f.n, f.d); g > 1 {
		f.n /= g
		f.d /= g
	}
}

func (f iFraction) isInteger() bool { return f.n%f.d == 0 }

func (f iFraction) integer() int32 { return f.n / f.d }

func (f *iFraction) commonDenominator(o *iFraction) error {
	f.simplify()
	if f.d == o.d {
		return nil
	}
	fd := int64(f.d)
	fn := int64(f.n) * int64(o.d)
	fdn := int64(f.d) * int64(o.d)
	on := int64(o.n) * fd
	od := int64(o.d) * fd
	for _, v := range []int64{fn, fdn, on, od} {
		if v > int64(maxInt32) || v < -int64(maxInt32)-1 {
			return fmt.Errorf("%w: fraction overflow", ErrUnknown)
		}
	}
	f.n, f.d = int32(fn), int32(fdn)
	o.n, o.d = int32(on), int32(od)
	return nil
}

func (f *iFraction) add(val iFraction) error {
	val.simplify()
	if err := f.commonDenominator(&val); err != nil {
		return err
	}
	sum := int64(f.n) + int64(val.n)
	if sum > int64(maxInt32) || sum < -int64(maxInt32)-1 {
		return fmt.Errorf("%w: fraction overflow", ErrUnknown)
	}
	f.n = int32(sum)
	f.simplify()
	return nil
}

func (f *iFraction) sub(val iFraction) error {
	val.n = -val.n
	return f.add(val)
}

const maxInt32 = int32(^uint32(0) >> 1)
