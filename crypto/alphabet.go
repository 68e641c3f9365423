package crypto

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	// FirstSymbol is the symbol mapped to 0 in every alphabet.
	FirstSymbol = 'A'

	// PlaintextSize is the number of plaintext symbols, A through Z.
	PlaintextSize = 26

	// PaddingSymbol fills the final plaintext block on encode.
	PaddingSymbol = 'B'
)

// Alphabet maps a contiguous run of runes starting at FirstSymbol onto the
// integers [0, size).
type Alphabet struct {
	name string
	size int
}

// PlaintextAlphabet is A-Z.
func PlaintextAlphabet() Alphabet {
	return Alphabet{name: "A-Z", size: PlaintextSize}
}

// CiphertextAlphabet covers every value a digitWidth-digit group can hold,
// rendered as FirstSymbol plus the value.
func CiphertextAlphabet(digitWidth int) Alphabet {
	size := 1
	for i := 0; i < digitWidth; i++ {
		size *= 10
	}
	return Alphabet{
		name: fmt.Sprintf("ciphertext symbols %q..%q", rune(FirstSymbol), rune(FirstSymbol+size-1)),
		size: size,
	}
}

// Size returns the number of symbols in the alphabet.
func (a Alphabet) Size() int {
	return a.size
}

// MaxValue returns the integer of the last symbol.
func (a Alphabet) MaxValue() int {
	return a.size - 1
}

func (a Alphabet) String() string {
	return a.name
}

// ToIntegers maps each symbol to its index.
func (a Alphabet) ToIntegers(symbols string) ([]int, error) {
	values := make([]int, 0, len(symbols))
	pos := 0
	for _, r := range symbols {
		v := int(r - FirstSymbol)
		if v < 0 || v >= a.size {
			return nil, &InvalidSymbolError{Symbol: r, Value: v, Position: pos, Domain: a.name}
		}
		values = append(values, v)
		pos++
	}
	return values, nil
}

// ToSymbols is the inverse of ToIntegers.
func (a Alphabet) ToSymbols(values []int) (string, error) {
	var sb strings.Builder
	sb.Grow(len(values))
	for i, v := range values {
		if v < 0 || v >= a.size {
			return "", &InvalidSymbolError{Value: v, Position: i, Domain: a.name}
		}
		sb.WriteRune(rune(FirstSymbol + v))
	}
	return sb.String(), nil
}

// RenderFixedWidth renders value as exactly width zero-padded decimal digits.
func RenderFixedWidth(value *big.Int, width int) (string, error) {
	s := value.Text(10)
	if value.Sign() < 0 || len(s) > width {
		return "", &OverflowError{Value: new(big.Int).Set(value), Width: width}
	}
	return strings.Repeat("0", width-len(s)) + s, nil
}

// ParseFixedWidth parses a string of decimal digits. Leading zeros are allowed.
func ParseFixedWidth(digits string) (*big.Int, error) {
	if digits == "" {
		return nil, &InvalidSymbolError{Position: 0, Domain: "decimal digits (empty input)"}
	}
	for i, r := range digits {
		if r < '0' || r > '9' {
			return nil, &InvalidSymbolError{Symbol: r, Position: i, Domain: "decimal digits"}
		}
	}

	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("parse %q: %w", digits, ErrInvalidSymbol)
	}
	return value, nil
}
