package sale

import (
	"errors"
	"math"
	"testing"
)

func TestSubTotal(t *testing.T) {
	cases := []struct {
		name    string
		amount  uint64
		priceN  uint64
		priceD  uint64
		want    uint64
		wantErr error
	}{
		{"unit price", 20, 1000, 1, 20_000, nil},
		{"fractional price floors", 3, 1, 2, 1, nil},
		{"zero amount", 0, 1000, 1, 0, nil},
		{"zero numerator", 10, 0, 1, 0, nil},
		{"zero denominator", 10, 5, 0, 0, ErrInvalidPrice},
		{"wide intermediate survives", math.MaxUint64, 2, 4, math.MaxUint64 / 2, nil},
		{"result overflows", math.MaxUint64, 2, 1, 0, ErrArithmeticOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SubTotal(tc.amount, tc.priceN, tc.priceD)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Fatalf("SubTotal = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSystemFee(t *testing.T) {
	cases := []struct {
		name       string
		cost       uint64
		feeBps     uint64
		sharingFee uint64
		want       uint64
		wantErr    error
	}{
		{"no fee", 1000, 0, 0, 0, nil},
		{"proportional only", 1000, 2000, 0, 200, nil},
		{"proportional plus flat", 1000, 2000, 10, 210, nil},
		{"proportional floors", 999, 1, 0, 0, nil},
		{"total overflows", math.MaxUint64, 10_000, 1, 0, ErrArithmeticOverflow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SystemFee(tc.cost, tc.feeBps, tc.sharingFee)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if err == nil && got != tc.want {
				t.Fatalf("SystemFee = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCheckedAdd(t *testing.T) {
	if got, err := checkedAdd(1, 2); err != nil || got != 3 {
		t.Fatalf("checkedAdd(1,2) = %d, %v", got, err)
	}
	if _, err := checkedAdd(math.MaxUint64, 1); !errors.Is(err, ErrArithmeticOverflow) {
		t.Fatalf("expected ErrArithmeticOverflow, got %v", err)
	}
}

func TestPhaseAt(t *testing.T) {
	c := &Campaign{RegisterStart: 100, RegisterEnd: 200, RedeemStart: 200, RedeemEnd: 300}
	cases := []struct {
		now  int64
		want Phase
	}{
		{99, PhaseConfiguring},
		{100, PhaseRegistering},
		{199, PhaseRegistering},
		{200, PhaseRedeeming},
		{299, PhaseRedeeming},
		{300, PhaseClosed},
	}
	for _, tc := range cases {
		if got := c.PhaseAt(tc.now); got != tc.want {
			t.Fatalf("PhaseAt(%d) = %d, want %d", tc.now, got, tc.want)
		}
	}

	gapped := &Campaign{RegisterStart: 100, RegisterEnd: 200, RedeemStart: 250, RedeemEnd: 300}
	if got := gapped.PhaseAt(225); got != PhaseDormant {
		t.Fatalf("PhaseAt(225) = %d, want dormant", got)
	}
}
