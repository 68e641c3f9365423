package crypto

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrConfiguration is matched by every *ConfigurationError.
	ErrConfiguration = errors.New("affine: invalid configuration")

	// ErrInvalidSymbol is matched by every *InvalidSymbolError.
	ErrInvalidSymbol = errors.New("affine: invalid symbol")

	// ErrMalformedCiphertext is matched by every *MalformedCiphertextError.
	ErrMalformedCiphertext = errors.New("affine: malformed ciphertext")

	// ErrOverflow is matched by every *OverflowError.
	ErrOverflow = errors.New("affine: value overflows fixed width")
)

// ConfigurationError reports a cipher configuration that cannot produce an
// invertible transform. Multiplier and Modulus are set when the failure is a
// coprimality check.
type ConfigurationError struct {
	Multiplier *big.Int
	Modulus    *big.Int
	Reason     string
}

func (e *ConfigurationError) Error() string {
	if e.Multiplier != nil && e.Modulus != nil {
		return fmt.Sprintf("multiplier (%s) and max possible value (%s) are not coprime, please supply another multiplier",
			e.Multiplier, e.Modulus)
	}
	return "invalid cipher configuration: " + e.Reason
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvalidSymbolError reports a symbol outside the alphabet or digit domain
// expected by a codec step.
type InvalidSymbolError struct {
	Symbol   rune
	Value    int
	Position int
	Domain   string
}

func (e *InvalidSymbolError) Error() string {
	if e.Symbol != 0 {
		return fmt.Sprintf("symbol %q at position %d is outside %s", e.Symbol, e.Position, e.Domain)
	}
	return fmt.Sprintf("value %d at position %d is outside %s", e.Value, e.Position, e.Domain)
}

func (e *InvalidSymbolError) Is(target error) bool {
	return target == ErrInvalidSymbol
}

// MalformedCiphertextError reports ciphertext whose length does not frame
// into whole blocks.
type MalformedCiphertextError struct {
	Length    int
	BlockSize int
}

func (e *MalformedCiphertextError) Error() string {
	return fmt.Sprintf("ciphertext length %d is not a multiple of block size %d (%d trailing symbols)",
		e.Length, e.BlockSize, e.Length%e.BlockSize)
}

func (e *MalformedCiphertextError) Is(target error) bool {
	return target == ErrMalformedCiphertext
}

// OverflowError reports a value that needs more digits than its fixed width.
type OverflowError struct {
	Value *big.Int
	Width int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("value %s does not fit in %d decimal digits", e.Value, e.Width)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}
