package sale

import (
	"encoding/hex"
	"strconv"

	"launchpad/core/types"
)

const (
	EventTypeCampaignCreated      = "sale.campaign.created"
	EventTypeCampaignConfigured   = "sale.campaign.configured"
	EventTypeCampaignStatus       = "sale.campaign.status"
	EventTypeOwnershipTransferred = "sale.campaign.ownership_transferred"
	EventTypeOwnershipAccepted    = "sale.campaign.ownership_accepted"
	EventTypeRegistered           = "sale.registered"
	EventTypeRedeemed             = "sale.redeemed"
	EventTypeClaimed              = "sale.claimed"
	EventTypeWithdrawn            = "sale.withdrawn"
	EventTypeBlacklistUpdated     = "sale.blacklist.updated"
)

func campaignAttributes(c *Campaign) map[string]string {
	attrs := make(map[string]string)
	if c == nil {
		return attrs
	}
	attrs["id"] = hex.EncodeToString(c.ID[:])
	attrs["owner"] = hex.EncodeToString(c.Owner[:])
	attrs["token"] = c.Token
	attrs["active"] = strconv.FormatBool(c.IsActive)
	attrs["totalSold"] = strconv.FormatUint(c.TotalSold, 10)
	attrs["totalClaimed"] = strconv.FormatUint(c.TotalClaimed, 10)
	return attrs
}

// NewCampaignCreatedEvent returns the canonical payload for a newly created
// campaign.
func NewCampaignCreatedEvent(c *Campaign) *types.Event {
	return &types.Event{Type: EventTypeCampaignCreated, Attributes: campaignAttributes(c)}
}

// NewCampaignConfiguredEvent returns the payload emitted after a full
// configuration update.
func NewCampaignConfiguredEvent(c *Campaign) *types.Event {
	attrs := campaignAttributes(c)
	if c != nil {
		attrs["registerStart"] = strconv.FormatInt(c.RegisterStart, 10)
		attrs["registerEnd"] = strconv.FormatInt(c.RegisterEnd, 10)
		attrs["redeemStart"] = strconv.FormatInt(c.RedeemStart, 10)
		attrs["redeemEnd"] = strconv.FormatInt(c.RedeemEnd, 10)
	}
	return &types.Event{Type: EventTypeCampaignConfigured, Attributes: attrs}
}

// NewCampaignStatusEvent returns the payload emitted when the active flag
// changes.
func NewCampaignStatusEvent(c *Campaign) *types.Event {
	return &types.Event{Type: EventTypeCampaignStatus, Attributes: campaignAttributes(c)}
}

// NewOwnershipTransferEvent returns the payload emitted when a new owner is
// designated.
func NewOwnershipTransferEvent(c *Campaign, newOwner [20]byte) *types.Event {
	attrs := campaignAttributes(c)
	attrs["pendingOwner"] = hex.EncodeToString(newOwner[:])
	return &types.Event{Type: EventTypeOwnershipTransferred, Attributes: attrs}
}

// NewOwnershipAcceptedEvent returns the payload emitted when the pending
// owner completes the transfer.
func NewOwnershipAcceptedEvent(c *Campaign) *types.Event {
	return &types.Event{Type: EventTypeOwnershipAccepted, Attributes: campaignAttributes(c)}
}

// NewRegisteredEvent returns the payload emitted on successful registration.
func NewRegisteredEvent(c *Campaign, user [20]byte) *types.Event {
	attrs := campaignAttributes(c)
	attrs["user"] = hex.EncodeToString(user[:])
	return &types.Event{Type: EventTypeRegistered, Attributes: attrs}
}

// NewRedeemedEvent returns the payload emitted on a committed redemption of
// either leg.
func NewRedeemedEvent(c *Campaign, user [20]byte, amount, cost, fee uint64, leg string) *types.Event {
	attrs := campaignAttributes(c)
	attrs["user"] = hex.EncodeToString(user[:])
	attrs["amount"] = strconv.FormatUint(amount, 10)
	attrs["cost"] = strconv.FormatUint(cost, 10)
	attrs["fee"] = strconv.FormatUint(fee, 10)
	attrs["leg"] = leg
	return &types.Event{Type: EventTypeRedeemed, Attributes: attrs}
}

// NewClaimedEvent returns the payload emitted when deferred tokens are
// delivered.
func NewClaimedEvent(c *Campaign, user [20]byte, amount uint64) *types.Event {
	attrs := campaignAttributes(c)
	attrs["user"] = hex.EncodeToString(user[:])
	attrs["amount"] = strconv.FormatUint(amount, 10)
	return &types.Event{Type: EventTypeClaimed, Attributes: attrs}
}

// NewWithdrawnEvent returns the payload emitted when the owner withdraws
// proceeds. An empty token denotes the base currency.
func NewWithdrawnEvent(c *Campaign, token string, amount uint64) *types.Event {
	attrs := campaignAttributes(c)
	if token != "" {
		attrs["withdrawToken"] = token
	}
	attrs["amount"] = strconv.FormatUint(amount, 10)
	return &types.Event{Type: EventTypeWithdrawn, Attributes: attrs}
}

// NewBlacklistEvent returns the payload emitted when the root authority
// updates a participant flag.
func NewBlacklistEvent(entry *BlacklistEntry) *types.Event {
	attrs := make(map[string]string)
	if entry != nil {
		attrs["user"] = hex.EncodeToString(entry.User[:])
		attrs["blacklisted"] = strconv.FormatBool(entry.IsBlacklisted)
	}
	return &types.Event{Type: EventTypeBlacklistUpdated, Attributes: attrs}
}
