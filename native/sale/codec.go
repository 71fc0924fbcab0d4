package sale

import (
	"encoding/binary"
	"fmt"
)

// Persisted records use a fixed-field-order little-endian layout sized
// exactly to the field list: numeric fields are 8 bytes, identities are
// fixed-width, flags are a single byte. Only the allow-list payload varies,
// tagged by its mode byte. The layout is part of the external storage
// contract and must stay stable across releases.

// tokenFieldWidth is the fixed on-disk width of a token symbol.
const tokenFieldWidth = 32

func appendU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendI64(buf []byte, v int64) []byte {
	return appendU64(buf, uint64(v))
}

func appendBool(buf []byte, v bool) []byte {
	if v {
		return append(buf, 1)
	}
	return append(buf, 0)
}

func appendToken(buf []byte, token string) []byte {
	var field [tokenFieldWidth]byte
	copy(field[:], token)
	return append(buf, field[:]...)
}

type recordReader struct {
	data []byte
	off  int
	err  error
}

func (r *recordReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("sale: record truncated at offset %d", r.off)
		return nil
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out
}

func (r *recordReader) u64() uint64 {
	b := r.take(8)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *recordReader) i64() int64 {
	return int64(r.u64())
}

func (r *recordReader) flag() bool {
	b := r.take(1)
	if r.err != nil {
		return false
	}
	return b[0] != 0
}

func (r *recordReader) u8() byte {
	b := r.take(1)
	if r.err != nil {
		return 0
	}
	return b[0]
}

func (r *recordReader) array32() [32]byte {
	var out [32]byte
	copy(out[:], r.take(32))
	return out
}

func (r *recordReader) array20() [20]byte {
	var out [20]byte
	copy(out[:], r.take(20))
	return out
}

func (r *recordReader) token() string {
	b := r.take(tokenFieldWidth)
	if r.err != nil {
		return ""
	}
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

func (r *recordReader) finish() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.data) {
		return fmt.Errorf("sale: %d trailing bytes in record", len(r.data)-r.off)
	}
	return nil
}

// EncodeCampaign serializes a campaign into its persisted byte layout.
func EncodeCampaign(c *Campaign) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("sale: nil campaign")
	}
	buf := make([]byte, 0, 256)
	buf = append(buf, c.ID[:]...)
	buf = append(buf, c.Owner[:]...)
	buf = append(buf, c.PendingOwner[:]...)
	buf = appendToken(buf, c.Token)
	buf = appendBool(buf, c.IsActive)
	buf = appendU64(buf, c.PriceN)
	buf = appendU64(buf, c.PriceD)
	buf = appendU64(buf, c.MinPerTx)
	buf = appendU64(buf, c.MaxPerUser)
	buf = appendU64(buf, c.TotalLimit)
	buf = appendU64(buf, c.AmountLimitBase)
	buf = appendU64(buf, c.TotalSold)
	buf = appendU64(buf, c.TotalClaimed)
	buf = appendU64(buf, c.AmountSoldBase)
	buf = appendI64(buf, c.RegisterStart)
	buf = appendI64(buf, c.RegisterEnd)
	buf = appendI64(buf, c.RedeemStart)
	buf = appendI64(buf, c.RedeemEnd)
	buf = appendI64(buf, c.ClaimStart)
	buf = appendU64(buf, c.ProtocolFeeBps)
	buf = appendU64(buf, c.SharingFee)
	buf = appendI64(buf, c.CreatedAt)
	buf = append(buf, byte(c.Allowlist.Mode))
	switch c.Allowlist.Mode {
	case AllowlistNone:
	case AllowlistMerkle:
		buf = append(buf, c.Allowlist.Root[:]...)
	case AllowlistSigner:
		buf = append(buf, c.Allowlist.Signer[:]...)
	default:
		return nil, fmt.Errorf("sale: invalid allowlist mode %d", c.Allowlist.Mode)
	}
	return buf, nil
}

// DecodeCampaign parses the persisted byte layout back into a campaign.
func DecodeCampaign(data []byte) (*Campaign, error) {
	r := &recordReader{data: data}
	c := &Campaign{}
	c.ID = r.array32()
	c.Owner = r.array20()
	c.PendingOwner = r.array20()
	c.Token = r.token()
	c.IsActive = r.flag()
	c.PriceN = r.u64()
	c.PriceD = r.u64()
	c.MinPerTx = r.u64()
	c.MaxPerUser = r.u64()
	c.TotalLimit = r.u64()
	c.AmountLimitBase = r.u64()
	c.TotalSold = r.u64()
	c.TotalClaimed = r.u64()
	c.AmountSoldBase = r.u64()
	c.RegisterStart = r.i64()
	c.RegisterEnd = r.i64()
	c.RedeemStart = r.i64()
	c.RedeemEnd = r.i64()
	c.ClaimStart = r.i64()
	c.ProtocolFeeBps = r.u64()
	c.SharingFee = r.u64()
	c.CreatedAt = r.i64()
	mode := AllowlistMode(r.u8())
	switch mode {
	case AllowlistNone:
	case AllowlistMerkle:
		c.Allowlist.Root = r.array32()
	case AllowlistSigner:
		c.Allowlist.Signer = r.array20()
	default:
		if r.err == nil {
			return nil, fmt.Errorf("sale: invalid allowlist mode %d", mode)
		}
	}
	c.Allowlist.Mode = mode
	if err := r.finish(); err != nil {
		return nil, err
	}
	return c, nil
}

// EncodePurchase serializes the secondary-token leg record.
func EncodePurchase(p *Purchase) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("sale: nil purchase")
	}
	buf := make([]byte, 0, 128)
	buf = append(buf, p.Campaign[:]...)
	buf = appendToken(buf, p.Token)
	buf = appendU64(buf, p.PriceN)
	buf = appendU64(buf, p.PriceD)
	buf = appendU64(buf, p.MinPerTx)
	buf = appendU64(buf, p.MaxPerUser)
	buf = appendU64(buf, p.AmountLimit)
	buf = appendU64(buf, p.AmountSold)
	buf = appendU64(buf, p.SharingFee)
	return buf, nil
}

// DecodePurchase parses the secondary-token leg record.
func DecodePurchase(data []byte) (*Purchase, error) {
	r := &recordReader{data: data}
	p := &Purchase{}
	p.Campaign = r.array32()
	p.Token = r.token()
	p.PriceN = r.u64()
	p.PriceD = r.u64()
	p.MinPerTx = r.u64()
	p.MaxPerUser = r.u64()
	p.AmountLimit = r.u64()
	p.AmountSold = r.u64()
	p.SharingFee = r.u64()
	if err := r.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodeProfile serializes a participant profile record.
func EncodeProfile(p *Profile) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("sale: nil profile")
	}
	buf := make([]byte, 0, 70)
	buf = append(buf, p.Campaign[:]...)
	buf = append(buf, p.User[:]...)
	buf = appendBool(buf, p.IsRegistered)
	buf = appendU64(buf, p.RedeemedAmount)
	buf = appendU64(buf, p.PendingAmount)
	return buf, nil
}

// DecodeProfile parses a participant profile record.
func DecodeProfile(data []byte) (*Profile, error) {
	r := &recordReader{data: data}
	p := &Profile{}
	p.Campaign = r.array32()
	p.User = r.array20()
	p.IsRegistered = r.flag()
	p.RedeemedAmount = r.u64()
	p.PendingAmount = r.u64()
	if err := r.finish(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodeBlacklistEntry serializes a blacklist record.
func EncodeBlacklistEntry(b *BlacklistEntry) ([]byte, error) {
	if b == nil {
		return nil, fmt.Errorf("sale: nil blacklist entry")
	}
	buf := make([]byte, 0, 21)
	buf = append(buf, b.User[:]...)
	buf = appendBool(buf, b.IsBlacklisted)
	return buf, nil
}

// DecodeBlacklistEntry parses a blacklist record.
func DecodeBlacklistEntry(data []byte) (*BlacklistEntry, error) {
	r := &recordReader{data: data}
	b := &BlacklistEntry{}
	b.User = r.array20()
	b.IsBlacklisted = r.flag()
	if err := r.finish(); err != nil {
		return nil, err
	}
	return b, nil
}
