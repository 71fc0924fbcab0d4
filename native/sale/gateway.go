package sale

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"launchpad/core/types"
)

// Domain tags keeping the derived identities of different record families
// disjoint.
var (
	campaignTag = []byte("launchpad/campaign/v1")
	holdingTag  = []byte("launchpad/holding/v1")
	accessTag   = []byte("launchpad/holding-access/v1")
)

// CampaignID derives the deterministic campaign identifier from its path.
func CampaignID(path []byte) [32]byte {
	var id [32]byte
	copy(id[:], ethcrypto.Keccak256(campaignTag, path))
	return id
}

// DeriveHoldingAddress maps a campaign identifier to its custodial holding
// identity. No private key exists for the address; the engine authorizes
// outbound transfers by re-deriving the same inputs into a capability.
func DeriveHoldingAddress(campaign [32]byte) [20]byte {
	digest := ethcrypto.Keccak256(holdingTag, campaign[:])
	var addr [20]byte
	copy(addr[:], digest[12:])
	return addr
}

// HoldingCapability is the opaque token proving the holder may move funds out
// of a campaign's holding identity. It is handed out once at campaign
// creation and re-derived internally by the engine; it carries no key
// material.
type HoldingCapability struct {
	campaign [32]byte
	proof    [32]byte
}

// Campaign returns the campaign the capability is bound to.
func (c HoldingCapability) Campaign() [32]byte { return c.campaign }

func holdingCapability(campaign [32]byte) HoldingCapability {
	var proof [32]byte
	copy(proof[:], ethcrypto.Keccak256(accessTag, campaign[:]))
	return HoldingCapability{campaign: campaign, proof: proof}
}

func (c HoldingCapability) valid() bool {
	return c == holdingCapability(c.campaign)
}

// TransferGateway abstracts the external asset-movement service. Inbound legs
// identify both parties; outbound legs from a holding identity require the
// campaign's capability instead of a sender address. Implementations must
// treat each call as atomic: on error no value moves.
type TransferGateway interface {
	TransferBase(from, to [20]byte, amount uint64) error
	TransferToken(token string, from, to [20]byte, amount uint64) error
	TransferBaseAs(cap HoldingCapability, to [20]byte, amount uint64) error
	TransferTokenAs(cap HoldingCapability, token string, to [20]byte, amount uint64) error
	BaseBalance(addr [20]byte) (uint64, error)
	TokenBalance(addr [20]byte, token string) (uint64, error)
}

func ensureAccount(acc *types.Account) *types.Account {
	if acc == nil {
		return &types.Account{}
	}
	return acc
}

// accountState is the slice of engine state the account gateway needs.
type accountState interface {
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

// AccountGateway implements TransferGateway directly against the host's
// account records. It is the default wiring for hosts that keep balances in
// engine-visible state; deployments fronting an external asset service
// substitute their own implementation.
type AccountGateway struct {
	state accountState
}

// NewAccountGateway constructs a gateway over the supplied account state.
func NewAccountGateway(state accountState) *AccountGateway {
	return &AccountGateway{state: state}
}

func (g *AccountGateway) TransferBase(from, to [20]byte, amount uint64) error {
	return g.moveBase(from, to, amount)
}

func (g *AccountGateway) TransferToken(token string, from, to [20]byte, amount uint64) error {
	return g.moveToken(token, from, to, amount)
}

func (g *AccountGateway) TransferBaseAs(cap HoldingCapability, to [20]byte, amount uint64) error {
	if !cap.valid() {
		return ErrInvalidHoldingAccess
	}
	return g.moveBase(DeriveHoldingAddress(cap.campaign), to, amount)
}

func (g *AccountGateway) TransferTokenAs(cap HoldingCapability, token string, to [20]byte, amount uint64) error {
	if !cap.valid() {
		return ErrInvalidHoldingAccess
	}
	return g.moveToken(token, DeriveHoldingAddress(cap.campaign), to, amount)
}

func (g *AccountGateway) BaseBalance(addr [20]byte) (uint64, error) {
	acc, err := g.state.GetAccount(addr[:])
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, nil
	}
	return acc.BalanceBase, nil
}

func (g *AccountGateway) TokenBalance(addr [20]byte, token string) (uint64, error) {
	normalized, err := NormalizeToken(token)
	if err != nil {
		return 0, err
	}
	acc, err := g.state.GetAccount(addr[:])
	if err != nil {
		return 0, err
	}
	if acc == nil {
		return 0, nil
	}
	return acc.TokenBalance(normalized), nil
}

func (g *AccountGateway) moveBase(from, to [20]byte, amount uint64) error {
	if g == nil || g.state == nil {
		return ErrNilState
	}
	if amount == 0 {
		return nil
	}
	fromAcc, err := g.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	toAcc, err := g.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	toAcc = ensureAccount(toAcc)
	if fromAcc.BalanceBase < amount {
		return ErrTransferFailed
	}
	received, err := checkedAdd(toAcc.BalanceBase, amount)
	if err != nil {
		return err
	}
	fromAcc.BalanceBase -= amount
	toAcc.BalanceBase = received
	if err := g.state.PutAccount(from[:], fromAcc); err != nil {
		return err
	}
	return g.state.PutAccount(to[:], toAcc)
}

func (g *AccountGateway) moveToken(token string, from, to [20]byte, amount uint64) error {
	if g == nil || g.state == nil {
		return ErrNilState
	}
	normalized, err := NormalizeToken(token)
	if err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	fromAcc, err := g.state.GetAccount(from[:])
	if err != nil {
		return err
	}
	toAcc, err := g.state.GetAccount(to[:])
	if err != nil {
		return err
	}
	fromAcc = ensureAccount(fromAcc)
	toAcc = ensureAccount(toAcc)
	if fromAcc.TokenBalance(normalized) < amount {
		return ErrTransferFailed
	}
	received, err := checkedAdd(toAcc.TokenBalance(normalized), amount)
	if err != nil {
		return err
	}
	fromAcc.SetTokenBalance(normalized, fromAcc.TokenBalance(normalized)-amount)
	toAcc.SetTokenBalance(normalized, received)
	if err := g.state.PutAccount(from[:], fromAcc); err != nil {
		return err
	}
	return g.state.PutAccount(to[:], toAcc)
}
