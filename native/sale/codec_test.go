package sale

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleCampaign(mode AllowlistMode) *Campaign {
	c := &Campaign{
		ID:              CampaignID([]byte("codec-sale")),
		Owner:           newTestAddress(0x41),
		PendingOwner:    newTestAddress(0x42),
		Token:           "SALE",
		IsActive:        true,
		PriceN:          1000,
		PriceD:          3,
		MinPerTx:        10,
		MaxPerUser:      100,
		TotalLimit:      5000,
		AmountLimitBase: 9_000_000,
		TotalSold:       120,
		TotalClaimed:    80,
		AmountSoldBase:  40_000,
		RegisterStart:   100,
		RegisterEnd:     200,
		RedeemStart:     200,
		RedeemEnd:       300,
		ClaimStart:      400,
		ProtocolFeeBps:  150,
		SharingFee:      7,
		CreatedAt:       42,
	}
	c.Allowlist.Mode = mode
	switch mode {
	case AllowlistMerkle:
		c.Allowlist.Root = [32]byte{0xAA, 0xBB}
	case AllowlistSigner:
		c.Allowlist.Signer = newTestAddress(0x43)
	}
	return c
}

func TestCampaignCodecRoundTrip(t *testing.T) {
	for _, mode := range []AllowlistMode{AllowlistNone, AllowlistMerkle, AllowlistSigner} {
		original := sampleCampaign(mode)
		encoded, err := EncodeCampaign(original)
		require.NoError(t, err)
		decoded, err := DecodeCampaign(encoded)
		require.NoError(t, err)
		require.Equal(t, original, decoded)
	}
}

func TestCampaignCodecRejectsCorruptRecords(t *testing.T) {
	encoded, err := EncodeCampaign(sampleCampaign(AllowlistMerkle))
	require.NoError(t, err)

	_, err = DecodeCampaign(encoded[:len(encoded)-1])
	require.Error(t, err)

	_, err = DecodeCampaign(append(append([]byte(nil), encoded...), 0x00))
	require.Error(t, err)

	bad := append([]byte(nil), encoded...)
	bad[len(bad)-33] = 0xFF // allowlist mode tag
	_, err = DecodeCampaign(bad)
	require.Error(t, err)

	_, err = DecodeCampaign(nil)
	require.Error(t, err)
}

func TestCampaignCodecLayoutIsStable(t *testing.T) {
	encoded, err := EncodeCampaign(sampleCampaign(AllowlistNone))
	require.NoError(t, err)
	// 32 id + 2*20 identities + 32 token + 1 flag + 9*8 counters +
	// 5*8 timestamps + 2*8 fees + 8 created + 1 mode tag.
	require.Len(t, encoded, 32+20+20+32+1+9*8+5*8+2*8+8+1)
}

func TestPurchaseCodecRoundTrip(t *testing.T) {
	original := &Purchase{
		Campaign:    CampaignID([]byte("codec-sale")),
		Token:       "USDX",
		PriceN:      3,
		PriceD:      1,
		MinPerTx:    5,
		MaxPerUser:  50,
		AmountLimit: 700,
		AmountSold:  10,
		SharingFee:  2,
	}
	encoded, err := EncodePurchase(original)
	require.NoError(t, err)
	decoded, err := DecodePurchase(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)

	_, err = DecodePurchase(encoded[:10])
	require.Error(t, err)
}

func TestProfileCodecRoundTrip(t *testing.T) {
	original := &Profile{
		Campaign:       CampaignID([]byte("codec-sale")),
		User:           newTestAddress(0x44),
		IsRegistered:   true,
		RedeemedAmount: 33,
		PendingAmount:  12,
	}
	encoded, err := EncodeProfile(original)
	require.NoError(t, err)
	decoded, err := DecodeProfile(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}

func TestBlacklistCodecRoundTrip(t *testing.T) {
	original := &BlacklistEntry{User: newTestAddress(0x45), IsBlacklisted: true}
	encoded, err := EncodeBlacklistEntry(original)
	require.NoError(t, err)
	require.Len(t, encoded, 21)
	decoded, err := DecodeBlacklistEntry(encoded)
	require.NoError(t, err)
	require.Equal(t, original, decoded)
}
