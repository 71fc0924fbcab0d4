package sale

import "github.com/holiman/uint256"

const (
	feeDenominatorBps = 10_000
	maxProtocolFeeBps = 2_000
)

// SubTotal computes floor(amount * priceN / priceD) with a double-width
// intermediate so the product cannot silently wrap. A zero amount or zero
// numerator short-circuits to zero; a result that does not fit uint64 is a
// fatal arithmetic error.
func SubTotal(amount, priceN, priceD uint64) (uint64, error) {
	if amount == 0 || priceN == 0 {
		return 0, nil
	}
	if priceD == 0 {
		return 0, ErrInvalidPrice
	}
	product := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(priceN))
	result := new(uint256.Int).Div(product, uint256.NewInt(priceD))
	if !result.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return result.Uint64(), nil
}

// SystemFee computes the total skim on a redemption: the proportional
// protocol fee in basis points plus the flat sharing fee.
func SystemFee(cost, protocolFeeBps, sharingFee uint64) (uint64, error) {
	product := new(uint256.Int).Mul(uint256.NewInt(cost), uint256.NewInt(protocolFeeBps))
	proportional := new(uint256.Int).Div(product, uint256.NewInt(feeDenominatorBps))
	total := new(uint256.Int).Add(proportional, uint256.NewInt(sharingFee))
	if !total.IsUint64() {
		return 0, ErrArithmeticOverflow
	}
	return total.Uint64(), nil
}

// checkedAdd adds two counters, treating wraparound as a fatal arithmetic
// error rather than saturating.
func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, ErrArithmeticOverflow
	}
	return sum, nil
}
