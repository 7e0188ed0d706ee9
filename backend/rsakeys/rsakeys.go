// Package rsakeys generates and represents RSA-style keypairs: two random
// probable primes, a fixed public exponent, and the extended-Euclidean
// derived private exponent.
package rsakeys

import (
	"fmt"
	"io"
	"math/big"

	"rsakit/backend/euclid"
	"rsakit/backend/modexp"
	"rsakit/backend/primeutil"
)

// PublicExponent is the fixed public exponent used for every generated
// keypair.
var PublicExponent = big.NewInt(65537)

// KeyKind distinguishes a public key from a private key sharing the same
// modulus.
type KeyKind int

const (
	Public KeyKind = iota
	Private
)

func (k KeyKind) String() string {
	if k == Private {
		return "PRIVATE"
	}
	return "PUBLIC"
}

// Key is an immutable (modulus, exponent, kind) triple. N is the shared
// modulus; E holds the public exponent for a Public key and the private
// exponent for a Private key.
type Key struct {
	N    *big.Int
	E    *big.Int
	Kind KeyKind
}

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// GenerateKeyPair samples two distinct bits/2-bit probable primes from
// randSource and derives a public/private keypair sharing their product as
// modulus. bits must be even and at least 16.
func GenerateKeyPair(bits int, randSource io.Reader) (pub, priv *Key, err error) {
	if bits < 16 || bits%2 != 0 {
		return nil, nil, fmt.Errorf("rsakeys: key size must be even and >= 16 bits, got %d", bits)
	}

	smallPrimes := primeutil.Sieve(primeutil.SmallPrimeTableLimit)
	primeBits := bits / 2

	// Forcing only the top bit of each prime leaves n = p*q short of the
	// requested bit length whenever both primes' second-highest bits are 0,
	// which happens often enough to matter; retry the whole pair until the
	// product actually has bitlen == bits, the same technique crypto/rsa's
	// own key generator uses.
	var p, q, n *big.Int
	for {
		p, err = RandomPrime(primeBits, smallPrimes, randSource)
		if err != nil {
			return nil, nil, fmt.Errorf("rsakeys: generating p: %w", err)
		}

		for {
			q, err = RandomPrime(primeBits, smallPrimes, randSource)
			if err != nil {
				return nil, nil, fmt.Errorf("rsakeys: generating q: %w", err)
			}
			if q.Cmp(p) != 0 {
				break
			}
		}

		n = new(big.Int).Mul(p, q)
		if n.BitLen() == bits {
			break
		}
	}

	pMinusOne := new(big.Int).Sub(p, bigOne)
	qMinusOne := new(big.Int).Sub(q, bigOne)
	phi := new(big.Int).Mul(pMinusOne, qMinusOne)

	d := FindPrivateKey(phi, PublicExponent)

	check := new(big.Int).Mul(PublicExponent, d)
	check.Mod(check, phi)
	if check.Cmp(bigOne) != 0 {
		panic("rsakeys: e*d mod phi != 1 after key generation")
	}

	pub = &Key{N: n, E: new(big.Int).Set(PublicExponent), Kind: Public}
	priv = &Key{N: new(big.Int).Set(n), E: d, Kind: Private}
	return pub, priv, nil
}

// FindPrivateKey returns the private exponent d such that e*d ≡ 1 (mod
// totient): the positive representative of the Bezout coefficient of e
// against totient.
func FindPrivateKey(totient, publicExponent *big.Int) *big.Int {
	_, _, y := euclid.GcdBezout(totient, publicExponent)
	if y.Sign() < 0 {
		y = new(big.Int).Add(y, totient)
	}
	return y
}

// RandomPrime draws a random odd candidate of exactly bitWidth bits from
// randSource and advances by 2 until it survives trial division against
// smallPrimes and a Miller-Rabin test.
func RandomPrime(bitWidth int, smallPrimes []int, randSource io.Reader) (*big.Int, error) {
	if bitWidth < 2 {
		return nil, fmt.Errorf("rsakeys: prime bit width must be >= 2, got %d", bitWidth)
	}

	numBytes := bitWidth / 8
	if numBytes == 0 {
		numBytes = 1
	}
	buf := make([]byte, numBytes)
	if _, err := io.ReadFull(randSource, buf); err != nil {
		return nil, fmt.Errorf("rsakeys: reading random bytes: %w", err)
	}

	candidate := new(big.Int).SetBytes(buf)
	candidate.SetBit(candidate, bitWidth-1, 1)
	if candidate.Bit(0) == 0 {
		candidate.Add(candidate, bigOne)
	}

	for {
		if !divisibleBySmallPrime(candidate, smallPrimes) {
			isPrime, err := primeutil.MillerRabin(candidate, randSource)
			if err != nil {
				return nil, fmt.Errorf("rsakeys: miller-rabin test: %w", err)
			}
			if isPrime {
				return candidate, nil
			}
		}
		candidate.Add(candidate, bigTwo)
	}
}

// EncryptNumber applies key's exponent to m modulo key.N. With a public key
// this is the encryption step; with a private key it is the decryption
// step — the operation is identical either way.
func EncryptNumber(m *big.Int, key *Key) *big.Int {
	return modexp.PowMod(m, key.E, key.N)
}

// DecryptNumber is EncryptNumber under a different name for the inverse
// direction of a single-integer round-trip; it exists because the
// operation reads more clearly at call sites that decrypt rather than
// encrypt, even though the underlying math is identical.
func DecryptNumber(c *big.Int, key *Key) *big.Int {
	return modexp.PowMod(c, key.E, key.N)
}

func divisibleBySmallPrime(candidate *big.Int, smallPrimes []int) bool {
	rem := new(big.Int)
	for _, p := range smallPrimes {
		rem.Mod(candidate, big.NewInt(int64(p)))
		if rem.Sign() == 0 && candidate.Cmp(big.NewInt(int64(p))) != 0 {
			return true
		}
	}
	return false
}
