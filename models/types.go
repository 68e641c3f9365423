// Package models contain needed models
package models

import "affine-cipher-backend/crypto"

// CipherRequest represents the request for encrypting or decrypting text.
// Multiplier and Offset are pointers so an explicit 0 passes `required`.
type CipherRequest struct {
	Multiplier *int64 `json:"multiplier" binding:"required"`
	Offset     *int64 `json:"offset" binding:"required"`
	BlockSize  int    `json:"block_size" binding:"omitempty,min=1,max=64"`
	DigitWidth int    `json:"digit_width" binding:"omitempty,min=2,max=4"`
	Text       string `json:"text"`
}

// CipherResponse represents the response after encryption or decryption
type CipherResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	Result            string `json:"result"`
	Modulus           string `json:"modulus,omitempty"`
	Blocks            int    `json:"blocks"`
	RemovedCharacters int    `json:"removed_characters,omitempty"`
	Warning           string `json:"warning,omitempty"`
}

// KeyRequest represents the request for inspecting a multiplier
type KeyRequest struct {
	Multiplier *int64 `json:"multiplier" binding:"required"`
	BlockSize  int    `json:"block_size" binding:"omitempty,min=1,max=64"`
	DigitWidth int    `json:"digit_width" binding:"omitempty,min=2,max=4"`
}

// KeyResponse reports whether a multiplier is usable and its inverse
type KeyResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Coprime    bool   `json:"coprime"`
	Modulus    string `json:"modulus"`
	Inverse    string `json:"inverse,omitempty"`
	BlockSize  int    `json:"block_size"`
	DigitWidth int    `json:"digit_width"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// CipherConfig represents the resolved parameters for one cipher operation
type CipherConfig struct {
	Multiplier int64
	Offset     int64
	BlockSize  int
	DigitWidth int
}

// Crypto converts the parameters into a crypto.Config.
func (c CipherConfig) Crypto() crypto.Config {
	return crypto.Config{
		Multiplier: c.Multiplier,
		Offset:     c.Offset,
		BlockSize:  c.BlockSize,
		DigitWidth: c.DigitWidth,
	}
}
