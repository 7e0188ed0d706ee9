// Package modexp implements arbitrary-precision modular exponentiation
// backed by Montgomery multiplication, with a square-and-multiply fallback
// for even moduli.
package modexp

import (
	"fmt"
	"math/big"

	"rsakit/backend/euclid"
)

var bigOne = big.NewInt(1)

// MontgomeryContext holds the precomputed values bound to a single modulus
// for the lifetime of one exponentiation: R = 2^k, R' = R^-1 mod N, and
// N' = (R*R' - 1) / N.
type MontgomeryContext struct {
	N      *big.Int
	R      *big.Int
	RPrime *big.Int
	NPrime *big.Int
	k      uint
}

// NewMontgomeryContext builds a MontgomeryContext for modulus n. n must be
// odd and at least 3.
func NewMontgomeryContext(n *big.Int) (*MontgomeryContext, error) {
	if n.Bit(0) == 0 {
		return nil, fmt.Errorf("modexp: montgomery context requires an odd modulus, got %s", n)
	}
	if n.Cmp(big.NewInt(3)) < 0 {
		return nil, fmt.Errorf("modexp: montgomery context requires modulus >= 3, got %s", n)
	}

	k := uint(n.BitLen())
	r := new(big.Int).Lsh(bigOne, k)

	_, rPrime, _ := euclid.GcdBezout(r, n)
	if rPrime.Sign() < 0 {
		rPrime = new(big.Int).Add(rPrime, n)
	}

	nPrime := new(big.Int).Mul(r, rPrime)
	nPrime.Sub(nPrime, bigOne)
	nPrime.Div(nPrime, n)

	return &MontgomeryContext{N: n, R: r, RPrime: rPrime, NPrime: nPrime, k: k}, nil
}

// redc computes REDC(t) = t * R^-1 mod N for 0 <= t < N*R, per the standard
// Montgomery reduction: m = (t mod R) * N' mod R; u = (t + m*N) >> k;
// return u - N if u >= N else u.
func (c *MontgomeryContext) redc(t *big.Int) *big.Int {
	mask := new(big.Int).Sub(c.R, bigOne)
	m := new(big.Int).And(t, mask)
	m.Mul(m, c.NPrime)
	m.And(m, mask)

	u := new(big.Int).Mul(m, c.N)
	u.Add(u, t)
	u.Rsh(u, c.k)

	if u.Cmp(c.N) >= 0 {
		u.Sub(u, c.N)
	}
	return u
}

// toMontgomeryForm converts a to a* = (a << k) mod N.
func (c *MontgomeryContext) toMontgomeryForm(a *big.Int) *big.Int {
	shifted := new(big.Int).Lsh(a, c.k)
	return shifted.Mod(shifted, c.N)
}

// Multiply computes the Montgomery product of two Montgomery-form operands:
// REDC(x*y).
func (c *MontgomeryContext) Multiply(x, y *big.Int) *big.Int {
	product := new(big.Int).Mul(x, y)
	return c.redc(product)
}

// PowMod computes base^exp mod modulus. It uses the Montgomery path when
// modulus is odd and >= 3, falling back to square-and-multiply otherwise
// (even moduli, or moduli too small for a meaningful Montgomery context).
func PowMod(base, exp, modulus *big.Int) *big.Int {
	if modulus.Cmp(bigOne) == 0 {
		return big.NewInt(0)
	}
	if exp.Sign() == 0 {
		return new(big.Int).Mod(bigOne, modulus)
	}

	reducedBase := new(big.Int).Mod(base, modulus)
	if reducedBase.Sign() == 0 {
		return big.NewInt(0)
	}

	if modulus.Bit(0) == 1 && modulus.Cmp(big.NewInt(3)) >= 0 {
		return powModMontgomery(reducedBase, exp, modulus)
	}
	return powModSquareMultiply(reducedBase, exp, modulus)
}

func powModMontgomery(base, exp, modulus *big.Int) *big.Int {
	ctx, err := NewMontgomeryContext(modulus)
	if err != nil {
		// modulus was already validated odd and >= 3 by the caller.
		panic(fmt.Sprintf("modexp: unexpected montgomery context failure: %v", err))
	}

	runningBase := ctx.toMontgomeryForm(base)
	accumulator := ctx.toMontgomeryForm(bigOne)

	bits := exp.BitLen()
	for i := 0; i < bits; i++ {
		if exp.Bit(i) == 1 {
			accumulator = ctx.Multiply(accumulator, runningBase)
		}
		runningBase = ctx.Multiply(runningBase, runningBase)
	}

	return ctx.redc(accumulator)
}

func powModSquareMultiply(base, exp, modulus *big.Int) *big.Int {
	result := big.NewInt(1)
	baseCur := new(big.Int).Set(base)

	bits := exp.BitLen()
	for i := 0; i < bits; i++ {
		if exp.Bit(i) == 1 {
			result.Mul(result, baseCur)
			result.Mod(result, modulus)
		}
		baseCur.Mul(baseCur, baseCur)
		baseCur.Mod(baseCur, modulus)
	}

	return result
}
