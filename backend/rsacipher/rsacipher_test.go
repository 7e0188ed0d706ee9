package rsacipher

import (
	"bytes"
	"math/big"
	"testing"

	"rsakit/backend/rsakeys"
)

func predefinedKeys() (pub, priv *rsakeys.Key) {
	pub = &rsakeys.Key{N: big.NewInt(404790586766519), E: big.NewInt(65537), Kind: rsakeys.Public}
	priv = &rsakeys.Key{N: big.NewInt(404790586766519), E: big.NewInt(375946200922409), Kind: rsakeys.Private}
	return pub, priv
}

func TestBlockAndChunkSize(t *testing.T) {
	// 404790586766519 has bit length 49, so B = ceil(49/8) = 7, C = 5.
	pub, _ := predefinedKeys()
	if got := BlockSize(pub.N); got != 7 {
		t.Errorf("BlockSize = %d, want 7", got)
	}
	if got := ChunkSize(pub.N); got != 5 {
		t.Errorf("ChunkSize = %d, want 5", got)
	}
}

func TestChunkSizeFloorsAtOne(t *testing.T) {
	// A tiny modulus whose block size is 2 or less should still yield a
	// chunk size of at least 1.
	n := big.NewInt(13) // BlockSize = 1
	if got := ChunkSize(n); got != 1 {
		t.Errorf("ChunkSize(13) = %d, want 1", got)
	}
}

func TestEncryptDecryptBlockRoundTrip(t *testing.T) {
	pub, priv := predefinedKeys()
	chunk := []byte("abcd")
	block := EncryptBlock(chunk, pub)
	if len(block) != BlockSize(pub.N) {
		t.Fatalf("block length = %d, want %d", len(block), BlockSize(pub.N))
	}

	got, err := DecryptBlock(block, priv)
	if err != nil {
		t.Fatalf("DecryptBlock: %v", err)
	}
	if !bytes.Equal(got, chunk) {
		t.Errorf("DecryptBlock = %q, want %q", got, chunk)
	}
}

func TestEncryptDecryptBlockPreservesLeadingZeroChunk(t *testing.T) {
	pub, priv := predefinedKeys()
	chunk := []byte{0x00, 0x01, 0x02}
	block := EncryptBlock(chunk, pub)
	got, err := DecryptBlock(block, priv)
	if err != nil {
		t.Fatalf("DecryptBlock: %v", err)
	}
	if !bytes.Equal(got, chunk) {
		t.Errorf("DecryptBlock = % X, want % X", got, chunk)
	}
}

func TestDecryptBlockRejectsMissingSentinel(t *testing.T) {
	pub, priv := predefinedKeys()
	// Encrypt the integer 5 directly (no sentinel prefix) to produce a
	// block whose decrypted form starts with a non-sentinel, non-zero byte.
	c := rsakeys.EncryptNumber(big.NewInt(5), pub)
	block := leftPad(c.Bytes(), BlockSize(pub.N))

	if _, err := DecryptBlock(block, priv); err == nil {
		t.Error("expected error for missing sentinel byte")
	}
}
