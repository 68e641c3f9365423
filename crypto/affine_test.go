package crypto

import (
	"errors"
	mrand "math/rand"
	"strings"
	"testing"
)

func mustCipher(t *testing.T, cfg Config) *BlockAffine {
	t.Helper()
	ba, err := NewBlockAffine(cfg)
	if err != nil {
		t.Fatalf("NewBlockAffine(%+v): %v", cfg, err)
	}
	return ba
}

func TestModulus(t *testing.T) {
	testCases := []struct {
		blockSize, digitWidth int
		want                  int64
	}{
		{1, 2, 26},
		{2, 2, 2526},
		{3, 2, 252526},
		{3, 3, 25025026},
		{2, 4, 250026},
	}
	for _, tc := range testCases {
		m, err := Modulus(tc.blockSize, tc.digitWidth)
		if err != nil {
			t.Fatalf("Modulus(%d, %d): %v", tc.blockSize, tc.digitWidth, err)
		}
		if m.Int64() != tc.want {
			t.Errorf("Modulus(%d, %d) = %s, expected %d", tc.blockSize, tc.digitWidth, m, tc.want)
		}
	}
}

func TestNewBlockAffineDefaults(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})
	if ba.BlockSize() != DefaultBlockSize || ba.DigitWidth() != DefaultDigitWidth {
		t.Errorf("got block size %d digit width %d", ba.BlockSize(), ba.DigitWidth())
	}
	if ba.Modulus().Int64() != 252526 {
		t.Errorf("modulus %s, expected 252526", ba.Modulus())
	}
	if ba.Inverse().Int64() != 168351 {
		t.Errorf("inverse %s, expected 168351", ba.Inverse())
	}

	// accessors hand out copies
	ba.Modulus().SetInt64(1)
	if ba.Modulus().Int64() != 252526 {
		t.Error("modulus was mutated through accessor")
	}
}

func TestNewBlockAffineRejectsBadConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
	}{
		{"even_multiplier", Config{Multiplier: 2, Offset: 5}},
		{"shares_factor_31", Config{Multiplier: 31, Offset: 0}},
		{"multiple_of_modulus", Config{Multiplier: 252526, Offset: 1}},
		{"zero_multiplier", Config{Multiplier: 0, Offset: 1}},
		{"negative_block_size", Config{Multiplier: 3, BlockSize: -1}},
		{"block_size_too_large", Config{Multiplier: 3, BlockSize: MaxBlockSize + 1}},
		{"digit_width_too_small", Config{Multiplier: 3, DigitWidth: 1}},
		{"digit_width_too_large", Config{Multiplier: 3, DigitWidth: 5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ba, err := NewBlockAffine(tc.cfg)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if ba != nil {
				t.Error("expected no cipher on configuration error")
			}
		})
	}
}

func TestPad(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})

	testCases := []struct{ in, want string }{
		{"", ""},
		{"C", "CBB"},
		{"CA", "CAB"},
		{"CAT", "CAT"},
		{"HELLO", "HELLOB"},
	}
	for _, tc := range testCases {
		got := ba.Pad(tc.in)
		if got != tc.want {
			t.Errorf("Pad(%q) = %q, expected %q", tc.in, got, tc.want)
		}
		if again := ba.Pad(got); again != got {
			t.Errorf("Pad is not idempotent for %q: %q -> %q", tc.in, got, again)
		}
	}
}

func TestStripPadding(t *testing.T) {
	if got := StripPadding("HELLOB"); got != "HELLO" {
		t.Errorf("got %q", got)
	}
	if got := StripPadding("CBB"); got != "C" {
		t.Errorf("got %q", got)
	}
	if got := StripPadding("BBB"); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	clean, removed := Sanitize("Hello, WORLD!\n")
	if clean != "HWORLD" {
		t.Errorf("clean = %q, expected %q", clean, "HWORLD")
	}
	if removed != 8 {
		t.Errorf("removed = %d, expected 8", removed)
	}

	clean, removed = Sanitize("ATTACKATDAWN")
	if clean != "ATTACKATDAWN" || removed != 0 {
		t.Errorf("got (%q, %d) for clean input", clean, removed)
	}
}

func TestEncryptKnownVector(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})

	// CAT -> [2 0 19] -> 20019 -> 3*20019+5 = 60062 -> 06 00 62
	ciphertext, err := ba.Encrypt("CAT")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	want := string([]rune{'A' + 6, 'A' + 0, 'A' + 62})
	if ciphertext != want {
		t.Errorf("Encrypt(CAT) = %q, expected %q", ciphertext, want)
	}

	plaintext, err := ba.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plaintext != "CAT" {
		t.Errorf("Decrypt = %q, expected CAT", plaintext)
	}
}

func TestRoundTrip(t *testing.T) {
	rng := mrand.New(mrand.NewSource(1))
	configs := []Config{
		{Multiplier: 3, Offset: 5},
		{Multiplier: 1, Offset: 0},
		{Multiplier: 252525, Offset: 252525},
		{Multiplier: -7, Offset: -1000},
		{Multiplier: 9999991, Offset: 123456789},
		{Multiplier: 7, Offset: 11, BlockSize: 1},
		{Multiplier: 7, Offset: 11, BlockSize: 5, DigitWidth: 3},
		{Multiplier: 101, Offset: 3, BlockSize: 9, DigitWidth: 4},
		{Multiplier: 1, Offset: 7, BlockSize: MaxBlockSize},
	}

	for _, cfg := range configs {
		ba := mustCipher(t, cfg)
		for i := 0; i < 50; i++ {
			// whole blocks, so no padding is involved
			n := ba.BlockSize() * rng.Intn(20)
			var sb strings.Builder
			for i := 0; i < n; i++ {
				sb.WriteRune(rune('A' + rng.Intn(PlaintextSize)))
			}
			plaintext := sb.String()

			ciphertext, err := ba.Encrypt(plaintext)
			if err != nil {
				t.Fatalf("%+v: Encrypt(%q): %v", cfg, plaintext, err)
			}
			if got := len([]rune(ciphertext)); got != n {
				t.Fatalf("%+v: ciphertext has %d symbols, expected %d", cfg, got, n)
			}

			decrypted, err := ba.Decrypt(ciphertext)
			if err != nil {
				t.Fatalf("%+v: Decrypt: %v", cfg, err)
			}
			if decrypted != StripPadding(plaintext) {
				t.Fatalf("%+v: round trip %q -> %q", cfg, plaintext, decrypted)
			}
		}
	}
}

func TestRoundTripWithPadding(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})

	for _, plaintext := range []string{"HELLO", "ATTACKATDAWN", "Z", "QUIZ"} {
		ciphertext, err := ba.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", plaintext, err)
		}
		decrypted, err := ba.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if decrypted != plaintext {
			t.Errorf("round trip %q -> %q", plaintext, decrypted)
		}
	}

	// trailing B is indistinguishable from padding
	ciphertext, _ := ba.Encrypt("CAB")
	if decrypted, _ := ba.Decrypt(ciphertext); decrypted != "CA" {
		t.Errorf("expected CAB to decrypt as CA, got %q", decrypted)
	}
}

func TestEncryptText(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})

	ciphertext, removed, err := ba.EncryptText("cat CAT!")
	if err != nil {
		t.Fatalf("EncryptText: %v", err)
	}
	if removed != 5 {
		t.Errorf("removed = %d, expected 5", removed)
	}
	want, _ := ba.Encrypt("CAT")
	if ciphertext != want {
		t.Errorf("EncryptText = %q, expected %q", ciphertext, want)
	}
}

func TestEncryptRejectsUnsanitizedInput(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})
	if _, err := ba.Encrypt("cat"); !errors.Is(err, ErrInvalidSymbol) {
		t.Errorf("expected ErrInvalidSymbol, got %v", err)
	}
}

func TestDecryptErrors(t *testing.T) {
	ba := mustCipher(t, Config{Multiplier: 3, Offset: 5})
	ciphertext, err := ba.Encrypt("ATTACKATDAWN")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	runes := []rune(ciphertext)

	t.Run("partial_block", func(t *testing.T) {
		_, err := ba.Decrypt(string(runes[:len(runes)-1]))
		if !errors.Is(err, ErrMalformedCiphertext) {
			t.Fatalf("expected ErrMalformedCiphertext, got %v", err)
		}
		var malformed *MalformedCiphertextError
		if !errors.As(err, &malformed) || malformed.Length != 11 || malformed.BlockSize != 3 {
			t.Errorf("unexpected error detail: %v", err)
		}
	})

	t.Run("symbol_below_alphabet", func(t *testing.T) {
		if _, err := ba.Decrypt("AB?"); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("symbol_beyond_digit_range", func(t *testing.T) {
		tooHigh := string([]rune{'A', 'A', 'A' + 100})
		if _, err := ba.Decrypt(tooHigh); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("decrypted_group_outside_plaintext", func(t *testing.T) {
		identity := mustCipher(t, Config{Multiplier: 1, Offset: 0})
		if _, err := identity.Decrypt(string([]rune{'A', 'A', 'A' + 99})); !errors.Is(err, ErrInvalidSymbol) {
			t.Errorf("expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("empty", func(t *testing.T) {
		got, err := ba.Decrypt("")
		if err != nil || got != "" {
			t.Errorf("Decrypt(\"\") = %q, %v", got, err)
		}
	})
}
