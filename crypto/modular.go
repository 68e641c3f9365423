package crypto

import "math/big"

var bigOne = big.NewInt(1)

// ExtendedGCD runs the extended Euclidean algorithm and returns g, x and y
// such that a*x + b*y = g. Quotients are exact integer (Euclidean) divisions,
// so the identity holds for operands of any size. For non-negative operands g
// is gcd(a, b).
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldX, curX := big.NewInt(1), big.NewInt(0)
	oldY, curY := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	step := func(prev, cur *big.Int) (*big.Int, *big.Int) {
		next := new(big.Int).Mul(q, cur)
		return cur, next.Sub(prev, next)
	}

	for r.Sign() != 0 {
		q.Div(oldR, r)
		oldR, r = step(oldR, r)
		oldX, curX = step(oldX, curX)
		oldY, curY = step(oldY, curY)
	}

	return oldR, oldX, oldY
}

// ModularInverse returns the inverse of a modulo m and true, or nil and false
// when a and m are not coprime. The result lies in [0, m).
func ModularInverse(a, m *big.Int) (*big.Int, bool) {
	if m.Sign() <= 0 {
		return nil, false
	}

	reduced := new(big.Int).Mod(a, m)
	g, x, _ := ExtendedGCD(reduced, m)
	if g.Cmp(bigOne) != 0 {
		return nil, false
	}

	// (x mod m + m) mod m
	inv := new(big.Int).Mod(x, m)
	inv.Add(inv, m)
	return inv.Mod(inv, m), true
}

// AssertCoprime returns a *ConfigurationError when a has no inverse modulo m.
func AssertCoprime(a, m *big.Int) error {
	if _, ok := ModularInverse(a, m); !ok {
		return &ConfigurationError{
			Multiplier: new(big.Int).Set(a),
			Modulus:    new(big.Int).Set(m),
		}
	}
	return nil
}
