package tron

import (
	"encoding/hex"
	"fmt"

	"github.com/Amr-9/trongen/pkg/generator"
)

// Generator creates Tron addresses from fresh key pairs, retrying until the
// validator accepts one or generator.MaxAttempts key pairs have been tried.
// A Generator holds no per-call state and may be used from many goroutines
// if its key source and validator allow it.
type Generator struct {
	Keys      generator.KeyPairSource
	Validator generator.AddressValidator
	Codec     Codec
}

// NewGenerator creates a generator using DefaultCodec.
func NewGenerator(keys generator.KeyPairSource, validator generator.AddressValidator) *Generator {
	return &Generator{
		Keys:      keys,
		Validator: validator,
		Codec:     DefaultCodec,
	}
}

// Generate returns the private key, Base58 address and hex address of the
// first key pair whose address passes validation. It fails with
// generator.ErrGenerationExhausted after generator.MaxAttempts attempts.
func (g *Generator) Generate() (generator.Result, error) {
	var lastErr error

	for attempt := 1; attempt <= generator.MaxAttempts; attempt++ {
		result, ok, err := g.attempt()
		if err != nil {
			lastErr = err
			continue
		}
		if ok {
			return result, nil
		}
	}

	if lastErr != nil {
		return generator.Result{}, fmt.Errorf("%w after %d attempts (last error: %v)",
			generator.ErrGenerationExhausted, generator.MaxAttempts, lastErr)
	}
	return generator.Result{}, fmt.Errorf("%w after %d attempts",
		generator.ErrGenerationExhausted, generator.MaxAttempts)
}

// attempt runs the pipeline once for a new key pair. It returns ok=false
// when the address was rejected, and an error when the key pair could not
// be turned into an address at all.
func (g *Generator) attempt() (generator.Result, bool, error) {
	keyPair, err := g.Keys.Generate()
	if err != nil {
		return generator.Result{}, false, fmt.Errorf("generate key pair: %w", err)
	}

	// Odd-length hex cannot be decoded; skip straight to the next key pair
	if len(keyPair.PublicKeyHex)%2 != 0 {
		return generator.Result{}, false, fmt.Errorf("%w: public key hex has odd length %d",
			generator.ErrInvalidInput, len(keyPair.PublicKeyHex))
	}

	pubKeyBytes, err := hex.DecodeString(keyPair.PublicKeyHex)
	if err != nil {
		return generator.Result{}, false, fmt.Errorf("%w: %v", generator.ErrInvalidInput, err)
	}

	raw, err := g.Codec.DeriveAddress(pubKeyBytes)
	if err != nil {
		return generator.Result{}, false, err
	}

	address, err := g.Codec.EncodeChecksummed(raw)
	if err != nil {
		return generator.Result{}, false, err
	}

	if !g.Validator.IsWellFormed(address) || !g.Validator.IsAcceptedByNetwork(address) {
		return generator.Result{}, false, nil
	}

	return generator.Result{
		PrivateKey: keyPair.PrivateKeyHex,
		Address:    address,
		HexAddress: hex.EncodeToString(raw),
	}, true, nil
}
