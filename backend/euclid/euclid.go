// Package euclid implements the extended Euclidean algorithm over
// arbitrary-precision integers.
package euclid

import "math/big"

// GcdBezout returns (gcd, x, y) such that gcd = a*x + b*y and gcd = gcd(a, b) >= 0.
//
// The algorithm normalizes so the larger magnitude operand is on the left
// before iterating; callers should rely on the Bezout identity holding for
// the original (a, b) order, not on any assumption about the sign of x
// relative to which argument was larger.
func GcdBezout(a, b *big.Int) (gcd, x, y *big.Int) {
	swapped := a.CmpAbs(b) < 0
	hi, lo := new(big.Int).Set(a), new(big.Int).Set(b)
	if swapped {
		hi, lo = lo, hi
	}

	x0, y0 := big.NewInt(1), big.NewInt(0)
	x1, y1 := big.NewInt(0), big.NewInt(1)

	q, r := new(big.Int), new(big.Int)
	for lo.Sign() != 0 {
		q.QuoRem(hi, lo, r)

		hi.Set(lo)
		lo.Set(r)

		qx1 := new(big.Int).Mul(q, x1)
		qy1 := new(big.Int).Mul(q, y1)
		newX1 := new(big.Int).Sub(x0, qx1)
		newY1 := new(big.Int).Sub(y0, qy1)

		x0, x1 = x1, newX1
		y0, y1 = y1, newY1
	}

	if swapped {
		x0, y0 = y0, x0
	}

	return hi, x0, y0
}
