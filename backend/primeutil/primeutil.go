// Package primeutil finds primes: a plain sieve and a segmented sieve for
// enumerating them, and a Miller-Rabin test for checking a single
// arbitrary-precision candidate.
package primeutil

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"rsakit/backend/modexp"
)

// MillerRabinBases is the number of random bases tried per candidate.
// Each base has roughly a 3-in-4 chance of exposing a composite, so the
// probability of a false "probably prime" after this many bases is on the
// order of 0.25^50 — indistinguishable from zero for this library's purposes.
const MillerRabinBases = 50

// SmallPrimeTableLimit bounds the plain sieve used to cross composites out
// of a segment before Miller-Rabin is applied to what remains.
const SmallPrimeTableLimit = 1000

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// Sieve returns every prime in [2, upTo] via the Sieve of Eratosthenes.
func Sieve(upTo int) []int {
	if upTo < 2 {
		return nil
	}

	isPrime := make([]bool, upTo+1)
	for i := 2; i <= upTo; i++ {
		isPrime[i] = true
	}

	for current := 2; current*current <= upTo; current++ {
		if !isPrime[current] {
			continue
		}
		for multiple := current * current; multiple <= upTo; multiple += current {
			isPrime[multiple] = false
		}
	}

	var primes []int
	for n, prime := range isPrime {
		if prime {
			primes = append(primes, n)
		}
	}
	return primes
}

// SieveSegment returns every prime in [lo, hi] by crossing out multiples of
// every prime up to sqrt(hi), the same approach as Sieve but restricted to a
// window so hi can be far larger than memory would allow sieving from zero.
// Bounds are *big.Int because key generation searches ranges that exceed int
// on 32-bit platforms.
func SieveSegment(lo, hi *big.Int) []*big.Int {
	if hi.Cmp(lo) < 0 {
		return nil
	}

	crossoverLimit := new(big.Int).Sqrt(hi)
	crossoverLimit.Add(crossoverLimit, bigOne) // Sqrt truncates; cover a boundary sqrt(hi)
	crossoverPrimes := Sieve(int(crossoverLimit.Int64()))

	size := new(big.Int).Sub(hi, lo)
	size.Add(size, bigOne)
	segmentSize := int(size.Int64())

	isPrime := make([]bool, segmentSize)
	for i := range isPrime {
		isPrime[i] = true
	}
	if lo.Sign() == 0 {
		if segmentSize > 0 {
			isPrime[0] = false
		}
		if segmentSize > 1 {
			isPrime[1] = false
		}
	} else if lo.Cmp(bigOne) == 0 {
		isPrime[0] = false
	}

	loMod := new(big.Int)
	for _, p := range crossoverPrimes {
		if p == 0 {
			continue
		}
		pBig := big.NewInt(int64(p))
		loMod.Mod(lo, pBig)
		startOffset := int(loMod.Int64())

		var firstMultipleOffset int
		if startOffset == 0 {
			firstMultipleOffset = 0
		} else {
			firstMultipleOffset = p - startOffset
		}
		for offset := firstMultipleOffset; offset < segmentSize; offset += p {
			candidate := new(big.Int).Add(lo, big.NewInt(int64(offset)))
			if candidate.Cmp(pBig) == 0 {
				continue
			}
			isPrime[offset] = false
		}
	}

	var primes []*big.Int
	for offset, prime := range isPrime {
		if prime {
			primes = append(primes, new(big.Int).Add(lo, big.NewInt(int64(offset))))
		}
	}
	return primes
}

// MillerRabin reports whether n is probably prime, trying MillerRabinBases
// independent random bases drawn from randSource. It returns false
// immediately for even n and n < 2.
func MillerRabin(n *big.Int, randSource io.Reader) (bool, error) {
	if n.Cmp(bigTwo) < 0 {
		return false, nil
	}
	if n.Cmp(bigTwo) == 0 {
		return true, nil
	}
	if n.Bit(0) == 0 {
		return false, nil
	}
	if n.Cmp(big.NewInt(3)) == 0 {
		return true, nil
	}

	nMinusOne := new(big.Int).Sub(n, bigOne)
	d := new(big.Int).Set(nMinusOne)
	s := 0
	for d.Bit(0) == 0 {
		d.Rsh(d, 1)
		s++
	}

	upperBound := new(big.Int).Sub(n, big.NewInt(3)) // bases drawn from [2, n-2]
	if upperBound.Sign() <= 0 {
		return false, nil
	}

	for trial := 0; trial < MillerRabinBases; trial++ {
		offset, err := rand.Int(randSource, upperBound)
		if err != nil {
			return false, fmt.Errorf("primeutil: drawing miller-rabin base: %w", err)
		}
		base := new(big.Int).Add(offset, bigTwo)

		x := modexp.PowMod(base, d, n)
		if x.Cmp(bigOne) == 0 || x.Cmp(nMinusOne) == 0 {
			continue
		}

		witnessed := false
		for r := 1; r < s; r++ {
			x = modexp.PowMod(x, bigTwo, n)
			if x.Cmp(nMinusOne) == 0 {
				witnessed = true
				break
			}
		}
		if !witnessed {
			return false, nil
		}
	}

	return true, nil
}
