package crypto

import (
	"math/big"
	"strconv"
	"strings"
)

// GroupIntoBlocks splits values into consecutive chunks of k. The last chunk
// is shorter than k when len(values) is not a multiple of k.
func GroupIntoBlocks(values []int, k int) [][]int {
	blocks := make([][]int, 0, (len(values)+k-1)/k)
	for start := 0; start < len(values); start += k {
		end := min(start+k, len(values))
		blocks = append(blocks, values[start:end])
	}
	return blocks
}

// Flatten concatenates blocks in order.
func Flatten[T any](blocks [][]T) []T {
	n := 0
	for _, b := range blocks {
		n += len(b)
	}
	out := make([]T, 0, n)
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// CollapseBlock concatenates the width-digit renderings of each element and
// parses the result as one integer, e.g. [25 25 25] -> 252525.
func CollapseBlock(block []int, width int) (*big.Int, error) {
	var sb strings.Builder
	sb.Grow(len(block) * width)
	for _, v := range block {
		digits, err := RenderFixedWidth(big.NewInt(int64(v)), width)
		if err != nil {
			return nil, err
		}
		sb.WriteString(digits)
	}
	return ParseFixedWidth(sb.String())
}

// ExpandBlock is the inverse of CollapseBlock: value is zero-padded to
// width*k digits and split into k groups of width digits.
func ExpandBlock(value *big.Int, width, k int) ([]int, error) {
	digits, err := RenderFixedWidth(value, width*k)
	if err != nil {
		return nil, err
	}

	block := make([]int, k)
	for i := range block {
		// digits is already known to be decimal
		n, err := strconv.Atoi(digits[i*width : (i+1)*width])
		if err != nil {
			return nil, err
		}
		block[i] = n
	}
	return block, nil
}

// ForwardMap computes (m*value + b) mod modulus.
func ForwardMap(value, m, b, modulus *big.Int) *big.Int {
	y := new(big.Int).Mul(m, value)
	y.Add(y, b)
	return y.Mod(y, modulus)
}

// InverseMap computes (mInverse*(value - b)) mod modulus. big.Int.Mod is
// Euclidean, so the result is in [0, modulus) even when value < b.
func InverseMap(value, mInverse, b, modulus *big.Int) *big.Int {
	x := new(big.Int).Sub(value, b)
	x.Mul(mInverse, x)
	return x.Mod(x, modulus)
}
