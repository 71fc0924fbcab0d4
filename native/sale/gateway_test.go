package sale

import (
	"errors"
	"testing"

	"launchpad/core/types"
)

func TestHoldingCapabilityBinding(t *testing.T) {
	idA := CampaignID([]byte("a"))
	idB := CampaignID([]byte("b"))
	if DeriveHoldingAddress(idA) == DeriveHoldingAddress(idB) {
		t.Fatalf("distinct campaigns derived the same holding identity")
	}
	if DeriveHoldingAddress(idA) != DeriveHoldingAddress(idA) {
		t.Fatalf("holding derivation is not deterministic")
	}

	good := holdingCapability(idA)
	if !good.valid() {
		t.Fatalf("freshly derived capability rejected")
	}
	forged := HoldingCapability{campaign: idA, proof: [32]byte{0x01}}
	if forged.valid() {
		t.Fatalf("forged capability accepted")
	}
}

func TestAccountGatewayRejectsForgedCapability(t *testing.T) {
	state := newMockState()
	gateway := NewAccountGateway(state)
	id := CampaignID([]byte("a"))
	state.setAccount(DeriveHoldingAddress(id), &types.Account{BalanceBase: 100})

	forged := HoldingCapability{campaign: id}
	if err := gateway.TransferBaseAs(forged, userAddr, 10); !errors.Is(err, ErrInvalidHoldingAccess) {
		t.Fatalf("expected ErrInvalidHoldingAccess, got %v", err)
	}
	if err := gateway.TransferTokenAs(forged, saleToken, userAddr, 10); !errors.Is(err, ErrInvalidHoldingAccess) {
		t.Fatalf("expected ErrInvalidHoldingAccess, got %v", err)
	}
	if err := gateway.TransferBaseAs(holdingCapability(id), userAddr, 10); err != nil {
		t.Fatalf("valid capability rejected: %v", err)
	}
	if got := state.account(userAddr).BalanceBase; got != 10 {
		t.Fatalf("transfer not applied: %d", got)
	}
}

func TestAccountGatewayBalanceChecks(t *testing.T) {
	state := newMockState()
	gateway := NewAccountGateway(state)
	state.setAccount(userAddr, &types.Account{BalanceBase: 5, Tokens: map[string]uint64{saleToken: 5}})

	if err := gateway.TransferBase(userAddr, otherAddr, 6); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}
	if err := gateway.TransferToken(saleToken, userAddr, otherAddr, 6); !errors.Is(err, ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	// Zero-amount moves are no-ops, not errors.
	if err := gateway.TransferBase(userAddr, otherAddr, 0); err != nil {
		t.Fatalf("zero base transfer: %v", err)
	}
	if err := gateway.TransferToken(saleToken, userAddr, otherAddr, 0); err != nil {
		t.Fatalf("zero token transfer: %v", err)
	}

	if err := gateway.TransferBase(userAddr, otherAddr, 5); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if got := state.account(userAddr).BalanceBase; got != 0 {
		t.Fatalf("sender balance = %d, want 0", got)
	}
	if got := state.account(otherAddr).BalanceBase; got != 5 {
		t.Fatalf("receiver balance = %d, want 5", got)
	}

	base, err := gateway.BaseBalance(otherAddr)
	if err != nil || base != 5 {
		t.Fatalf("BaseBalance = %d, %v", base, err)
	}
	tokens, err := gateway.TokenBalance(userAddr, saleToken)
	if err != nil || tokens != 5 {
		t.Fatalf("TokenBalance = %d, %v", tokens, err)
	}
}

func TestAccountGatewayNormalizesTokenSymbols(t *testing.T) {
	state := newMockState()
	gateway := NewAccountGateway(state)
	state.setAccount(userAddr, &types.Account{Tokens: map[string]uint64{saleToken: 10}})

	if err := gateway.TransferToken(" sale ", userAddr, otherAddr, 4); err != nil {
		t.Fatalf("transfer with unnormalized symbol: %v", err)
	}
	if got := state.account(otherAddr).TokenBalance(saleToken); got != 4 {
		t.Fatalf("receiver token balance = %d, want 4", got)
	}
}
