// Package rsacipher implements the block cipher mode: plaintext chunks are
// prefixed with a sentinel byte, interpreted as a big integer, and raised to
// key's exponent modulo key's modulus to produce a fixed-width ciphertext
// block.
package rsacipher

import (
	"fmt"
	"math/big"

	"rsakit/backend/rsakeys"
)

// SentinelByte is prepended to every plaintext chunk before encryption so
// the block cipher mode can distinguish true leading zero bytes of the
// plaintext from the left-padding of the fixed-width ciphertext encoding.
const SentinelByte = 0x80

// BlockSize returns B = ceil(bitlen(n)/8), the fixed width of a ciphertext
// block for modulus n.
func BlockSize(n *big.Int) int {
	return (n.BitLen() + 7) / 8
}

// ChunkSize returns C = max(B-2, 1), the plaintext chunk size for modulus n.
// The two-byte headroom guarantees the sentinel-prefixed plaintext integer
// stays strictly below n.
func ChunkSize(n *big.Int) int {
	c := BlockSize(n) - 2
	if c < 1 {
		return 1
	}
	return c
}

// EncryptBlock prepends the sentinel byte to chunk, encrypts the resulting
// integer under key, and renders it as exactly BlockSize(key.N) big-endian
// bytes, left-padded with zeros.
func EncryptBlock(chunk []byte, key *rsakeys.Key) []byte {
	prefixed := make([]byte, 0, len(chunk)+1)
	prefixed = append(prefixed, SentinelByte)
	prefixed = append(prefixed, chunk...)

	m := new(big.Int).SetBytes(prefixed)
	c := rsakeys.EncryptNumber(m, key)

	return leftPad(c.Bytes(), BlockSize(key.N))
}

// DecryptBlock decrypts a BlockSize(key.N)-byte ciphertext block under key
// and strips the sentinel prefix and any left-padding, returning the
// original plaintext chunk. It returns an error if the decrypted block's
// first non-zero byte is not the sentinel.
func DecryptBlock(block []byte, key *rsakeys.Key) ([]byte, error) {
	c := new(big.Int).SetBytes(block)
	m := rsakeys.DecryptNumber(c, key)

	rendered := leftPad(m.Bytes(), BlockSize(key.N))

	i := 0
	for i < len(rendered) && rendered[i] == 0 {
		i++
	}
	if i == len(rendered) {
		return nil, fmt.Errorf("rsacipher: decrypted block is all zero bytes")
	}
	if rendered[i] != SentinelByte {
		return nil, fmt.Errorf("rsacipher: decrypted block missing sentinel byte, got 0x%02X", rendered[i])
	}

	return rendered[i+1:], nil
}

func leftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	padded := make([]byte, size)
	copy(padded[size-len(b):], b)
	return padded
}
