package sale

import (
	"fmt"
	"strings"
)

// AllowlistMode selects how campaign eligibility is proven.
type AllowlistMode uint8

const (
	// AllowlistNone makes every participant implicitly eligible.
	AllowlistNone AllowlistMode = iota
	// AllowlistMerkle proves membership against a Merkle root over
	// (index, participant) pairs.
	AllowlistMerkle
	// AllowlistSigner delegates eligibility to a detached signature from a
	// designated off-chain signer.
	AllowlistSigner
)

// Valid reports whether the mode value is within the supported range.
func (m AllowlistMode) Valid() bool {
	switch m {
	case AllowlistNone, AllowlistMerkle, AllowlistSigner:
		return true
	default:
		return false
	}
}

// AllowlistAuthority is the tagged union of the historical whitelist schemes:
// no allow-list, a Merkle root, or a delegated signer identity. Only the
// field matching Mode carries meaning.
type AllowlistAuthority struct {
	Mode   AllowlistMode
	Root   [32]byte
	Signer [20]byte
}

// Campaign is the single sale instance record. Timestamps are Unix seconds;
// window checks treat every window as half-open [start, end). Zero-valued
// caps (MinPerTx, MaxPerUser, TotalLimit, AmountLimitBase, ClaimStart) mean
// the corresponding constraint is disabled.
type Campaign struct {
	ID              [32]byte
	Owner           [20]byte
	PendingOwner    [20]byte
	Token           string
	IsActive        bool
	PriceN          uint64
	PriceD          uint64
	MinPerTx        uint64
	MaxPerUser      uint64
	TotalLimit      uint64
	AmountLimitBase uint64
	TotalSold       uint64
	TotalClaimed    uint64
	AmountSoldBase  uint64
	RegisterStart   int64
	RegisterEnd     int64
	RedeemStart     int64
	RedeemEnd       int64
	ClaimStart      int64
	Allowlist       AllowlistAuthority
	ProtocolFeeBps  uint64
	SharingFee      uint64
	CreatedAt       int64
}

// Clone returns a copy of the campaign record.
func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// Phase is the derived lifecycle position of a campaign at a point in time.
type Phase uint8

const (
	PhaseConfiguring Phase = iota
	PhaseRegistering
	PhaseDormant
	PhaseRedeeming
	PhaseClosed
)

// PhaseAt derives the campaign phase from the stored windows. Phases are
// never stored; they follow purely from wall-clock comparison.
func (c *Campaign) PhaseAt(now int64) Phase {
	switch {
	case now < c.RegisterStart:
		return PhaseConfiguring
	case now < c.RegisterEnd:
		return PhaseRegistering
	case now < c.RedeemStart:
		return PhaseDormant
	case now < c.RedeemEnd:
		return PhaseRedeeming
	default:
		return PhaseClosed
	}
}

// Purchase is the optional secondary-token leg attached to a campaign. It
// carries its own price ratio, caps and flat sharing fee; the proportional
// protocol fee comes from the parent campaign.
type Purchase struct {
	Campaign    [32]byte
	Token       string
	PriceN      uint64
	PriceD      uint64
	MinPerTx    uint64
	MaxPerUser  uint64
	AmountLimit uint64
	AmountSold  uint64
	SharingFee  uint64
}

// Clone returns a copy of the purchase record.
func (p *Purchase) Clone() *Purchase {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Profile is the per-participant, per-campaign record. RedeemedAmount is
// monotonically non-decreasing while the campaign runs; PendingAmount counts
// sale tokens owed but not yet delivered because claiming has not opened.
type Profile struct {
	Campaign       [32]byte
	User           [20]byte
	IsRegistered   bool
	RedeemedAmount uint64
	PendingAmount  uint64
}

// Clone returns a copy of the profile record.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// BlacklistEntry is the cross-campaign participant flag, mutated only by the
// root authority.
type BlacklistEntry struct {
	User          [20]byte
	IsBlacklisted bool
}

// Clone returns a copy of the blacklist entry.
func (b *BlacklistEntry) Clone() *BlacklistEntry {
	if b == nil {
		return nil
	}
	clone := *b
	return &clone
}

// NormalizeToken trims and upper-cases a token symbol and rejects symbols
// that cannot fit the fixed-width record field.
func NormalizeToken(symbol string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(symbol))
	if trimmed == "" {
		return "", fmt.Errorf("sale: token symbol required")
	}
	if len(trimmed) > tokenFieldWidth {
		return "", fmt.Errorf("sale: token symbol %q exceeds %d bytes", symbol, tokenFieldWidth)
	}
	return trimmed, nil
}

// SanitizeCampaign validates invariants every stored campaign must satisfy
// and returns a normalized clone. The original value is not mutated.
func SanitizeCampaign(c *Campaign) (*Campaign, error) {
	if c == nil {
		return nil, fmt.Errorf("sale: nil campaign")
	}
	clone := c.Clone()
	token, err := NormalizeToken(clone.Token)
	if err != nil {
		return nil, err
	}
	clone.Token = token
	if !clone.Allowlist.Mode.Valid() {
		return nil, fmt.Errorf("sale: invalid allowlist mode %d", clone.Allowlist.Mode)
	}
	if clone.ProtocolFeeBps > maxProtocolFeeBps {
		return nil, ErrMaxFeeReached
	}
	if clone.TotalLimit > 0 && clone.TotalSold > clone.TotalLimit {
		return nil, fmt.Errorf("sale: total sold exceeds limit")
	}
	if clone.TotalClaimed > clone.TotalSold {
		return nil, fmt.Errorf("sale: total claimed exceeds total sold")
	}
	return clone, nil
}

// SanitizeProfile validates the per-user cap invariant against the supplied
// campaign and returns a clone.
func SanitizeProfile(p *Profile) (*Profile, error) {
	if p == nil {
		return nil, fmt.Errorf("sale: nil profile")
	}
	return p.Clone(), nil
}
