// Package crypto contains Block Affine Encryption and Decryption
package crypto

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	DefaultBlockSize  = 3
	DefaultDigitWidth = 2

	// MaxBlockSize bounds the per-block big.Int work, which grows with the
	// square of the block size.
	MaxBlockSize = 64

	// MinDigitWidth is the narrowest width that can render the largest
	// plaintext symbol value (25).
	MinDigitWidth = 2

	// MaxDigitWidth keeps every ciphertext symbol below the UTF-16 surrogate
	// range so ciphertext survives a UTF-8 round trip.
	MaxDigitWidth = 4
)

// Config holds the parameters of a BlockAffine cipher. Zero BlockSize and
// DigitWidth select the defaults.
type Config struct {
	Multiplier int64
	Offset     int64
	BlockSize  int
	DigitWidth int
}

func (c Config) withDefaults() Config {
	if c.BlockSize == 0 {
		c.BlockSize = DefaultBlockSize
	}
	if c.DigitWidth == 0 {
		c.DigitWidth = DefaultDigitWidth
	}
	return c
}

// BlockAffine encrypts A-Z text in blocks of BlockSize symbols with
// y = m*x + b mod M. It holds no mutable state and is safe for concurrent use.
type BlockAffine struct {
	m          *big.Int
	b          *big.Int
	modulus    *big.Int
	mInverse   *big.Int
	blockSize  int
	digitWidth int
	plain      Alphabet
	cipher     Alphabet
}

// NewBlockAffine validates cfg and precomputes the modulus and the inverse of
// the multiplier. It fails with a *ConfigurationError before any transform
// can run.
func NewBlockAffine(cfg Config) (*BlockAffine, error) {
	cfg = cfg.withDefaults()

	if cfg.BlockSize < 1 || cfg.BlockSize > MaxBlockSize {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("block size must be between 1 and %d, got %d",
			MaxBlockSize, cfg.BlockSize)}
	}
	if cfg.DigitWidth < MinDigitWidth || cfg.DigitWidth > MaxDigitWidth {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("digit width must be between %d and %d, got %d",
			MinDigitWidth, MaxDigitWidth, cfg.DigitWidth)}
	}

	modulus, err := Modulus(cfg.BlockSize, cfg.DigitWidth)
	if err != nil {
		return nil, err
	}

	m := big.NewInt(cfg.Multiplier)
	if err := AssertCoprime(m, modulus); err != nil {
		return nil, err
	}
	mInverse, _ := ModularInverse(m, modulus)

	return &BlockAffine{
		m:          m,
		b:          big.NewInt(cfg.Offset),
		modulus:    modulus,
		mInverse:   mInverse,
		blockSize:  cfg.BlockSize,
		digitWidth: cfg.DigitWidth,
		plain:      PlaintextAlphabet(),
		cipher:     CiphertextAlphabet(cfg.DigitWidth),
	}, nil
}

// Modulus returns one more than the largest block value: blockSize copies of
// the last plaintext symbol, collapsed at digitWidth. For 3 and 2 that is
// 252525 + 1.
func Modulus(blockSize, digitWidth int) (*big.Int, error) {
	block := make([]int, blockSize)
	for i := range block {
		block[i] = PlaintextAlphabet().MaxValue()
	}
	maxValue, err := CollapseBlock(block, digitWidth)
	if err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	return maxValue.Add(maxValue, bigOne), nil
}

// Modulus returns a copy of M.
func (ba *BlockAffine) Modulus() *big.Int {
	return new(big.Int).Set(ba.modulus)
}

// Inverse returns a copy of the multiplier's inverse modulo M.
func (ba *BlockAffine) Inverse() *big.Int {
	return new(big.Int).Set(ba.mInverse)
}

func (ba *BlockAffine) BlockSize() int {
	return ba.blockSize
}

func (ba *BlockAffine) DigitWidth() int {
	return ba.digitWidth
}

// Pad appends PaddingSymbol until the symbol count is a multiple of the block
// size. Padding an already padded message is a no-op.
func (ba *BlockAffine) Pad(msg string) string {
	rem := utf8.RuneCountInString(msg) % ba.blockSize
	if rem == 0 {
		return msg
	}
	return msg + strings.Repeat(string(rune(PaddingSymbol)), ba.blockSize-rem)
}

// StripPadding removes every trailing PaddingSymbol. A plaintext that really
// ends in PaddingSymbol loses those symbols too.
func StripPadding(msg string) string {
	return strings.TrimRight(msg, string(rune(PaddingSymbol)))
}

// Sanitize drops every rune outside A-Z and reports how many were dropped.
func Sanitize(text string) (string, int) {
	removed := 0
	clean := strings.Map(func(r rune) rune {
		if r < FirstSymbol || r >= FirstSymbol+PlaintextSize {
			removed++
			return -1
		}
		return r
	}, text)
	return clean, removed
}

// Encrypt pads plaintext and encrypts it block by block. plaintext must
// contain only A-Z; run Sanitize first for untrusted input.
func (ba *BlockAffine) Encrypt(plaintext string) (string, error) {
	values, err := ba.plain.ToIntegers(ba.Pad(plaintext))
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	blocks := GroupIntoBlocks(values, ba.blockSize)
	encrypted := make([][]int, 0, len(blocks))
	for _, block := range blocks {
		x, err := CollapseBlock(block, ba.digitWidth)
		if err != nil {
			return "", fmt.Errorf("encrypt: %w", err)
		}
		y := ForwardMap(x, ba.m, ba.b, ba.modulus)
		groups, err := ExpandBlock(y, ba.digitWidth, ba.blockSize)
		if err != nil {
			return "", fmt.Errorf("encrypt: %w", err)
		}
		encrypted = append(encrypted, groups)
	}

	ciphertext, err := ba.cipher.ToSymbols(Flatten(encrypted))
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return ciphertext, nil
}

// EncryptText sanitizes text before encrypting it and returns the number of
// runes Sanitize removed.
func (ba *BlockAffine) EncryptText(text string) (string, int, error) {
	clean, removed := Sanitize(text)
	ciphertext, err := ba.Encrypt(clean)
	if err != nil {
		return "", removed, err
	}
	return ciphertext, removed, nil
}

// Decrypt reverses Encrypt and strips trailing padding.
func (ba *BlockAffine) Decrypt(ciphertext string) (string, error) {
	values, err := ba.cipher.ToIntegers(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	if len(values)%ba.blockSize != 0 {
		return "", fmt.Errorf("decrypt: %w", &MalformedCiphertextError{Length: len(values), BlockSize: ba.blockSize})
	}

	blocks := GroupIntoBlocks(values, ba.blockSize)
	decrypted := make([][]int, 0, len(blocks))
	for _, block := range blocks {
		y, err := CollapseBlock(block, ba.digitWidth)
		if err != nil {
			return "", fmt.Errorf("decrypt: %w", err)
		}
		x := InverseMap(y, ba.mInverse, ba.b, ba.modulus)
		groups, err := ExpandBlock(x, ba.digitWidth, ba.blockSize)
		if err != nil {
			return "", fmt.Errorf("decrypt: %w", err)
		}
		decrypted = append(decrypted, groups)
	}

	plaintext, err := ba.plain.ToSymbols(Flatten(decrypted))
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return StripPadding(plaintext), nil
}
