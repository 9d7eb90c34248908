// Package keypair provides secp256k1 key pair sources for the generators.
package keypair

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/Amr-9/trongen/pkg/generator"
)

// Secp256k1Source generates random secp256k1 key pairs.
// Public keys are returned uncompressed (65 bytes, 0x04 marker).
type Secp256k1Source struct {
	rand io.Reader
}

// NewSecp256k1Source creates a source reading entropy from crypto/rand.
func NewSecp256k1Source() *Secp256k1Source {
	return &Secp256k1Source{rand: rand.Reader}
}

// NewSecp256k1SourceFromReader creates a source reading entropy from r.
// Only meant for deterministic tests.
func NewSecp256k1SourceFromReader(r io.Reader) *Secp256k1Source {
	return &Secp256k1Source{rand: r}
}

// Generate implements generator.KeyPairSource.
func (s *Secp256k1Source) Generate() (generator.KeyPair, error) {
	// Generate 32 bytes of random data for private key
	var privKeyBytes [32]byte
	if _, err := io.ReadFull(s.rand, privKeyBytes[:]); err != nil {
		return generator.KeyPair{}, fmt.Errorf("read entropy: %w", err)
	}

	return fromBytes(privKeyBytes[:])
}

// FromPrivateKeyHex rebuilds the key pair of an existing 32-byte private key.
// A leading 0x is accepted.
func FromPrivateKeyHex(privateKeyHex string) (generator.KeyPair, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")

	privKeyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil {
		return generator.KeyPair{}, fmt.Errorf("%w: private key: %v", generator.ErrInvalidInput, err)
	}
	if len(privKeyBytes) != btcec.PrivKeyBytesLen {
		return generator.KeyPair{}, fmt.Errorf("%w: private key is %d bytes, want %d",
			generator.ErrInvalidInput, len(privKeyBytes), btcec.PrivKeyBytesLen)
	}

	return fromBytes(privKeyBytes)
}

// fromBytes builds a key pair from 32 private key bytes, reduced mod N.
// Keys that reduce to zero are rejected.
func fromBytes(privKeyBytes []byte) (generator.KeyPair, error) {
	var scalar btcec.ModNScalar
	scalar.SetByteSlice(privKeyBytes)
	if scalar.IsZero() {
		return generator.KeyPair{}, fmt.Errorf("%w: zero private key", generator.ErrInvalidInput)
	}

	privKey := btcec.PrivKeyFromScalar(&scalar)
	return generator.KeyPair{
		PrivateKeyHex: hex.EncodeToString(privKey.Serialize()),
		PublicKeyHex:  hex.EncodeToString(privKey.PubKey().SerializeUncompressed()),
	}, nil
}

// StaticSource replays a fixed list of key pairs in order and then fails.
// It is safe for concurrent use.
type StaticSource struct {
	mu    sync.Mutex
	pairs []generator.KeyPair
	calls int
}

// NewStaticSource creates a source replaying pairs.
func NewStaticSource(pairs ...generator.KeyPair) *StaticSource {
	return &StaticSource{pairs: pairs}
}

// Generate implements generator.KeyPairSource.
func (s *StaticSource) Generate() (generator.KeyPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calls >= len(s.pairs) {
		s.calls++
		return generator.KeyPair{}, fmt.Errorf("static source exhausted after %d key pairs", len(s.pairs))
	}
	pair := s.pairs[s.calls]
	s.calls++
	return pair, nil
}

// Calls returns how many key pairs have been requested so far.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
