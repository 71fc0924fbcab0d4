package sale

import (
	"time"

	"launchpad/core/events"
	"launchpad/core/types"
)

// engineState is the narrow view of host state the engine reads and writes.
// The host serializes conflicting operations against the same records and
// discards every mutation of a call that returns an error, so the engine
// always recomputes caps from freshly read state and never rolls back
// manually.
type engineState interface {
	SaleCampaignPut(*Campaign) error
	SaleCampaignGet(id [32]byte) (*Campaign, bool)
	SalePurchasePut(*Purchase) error
	SalePurchaseGet(campaign [32]byte) (*Purchase, bool)
	SaleProfilePut(*Profile) error
	SaleProfileGet(campaign [32]byte, user [20]byte) (*Profile, bool)
	SaleBlacklistPut(*BlacklistEntry) error
	SaleBlacklistGet(user [20]byte) (*BlacklistEntry, bool)
	GetAccount(addr []byte) (*types.Account, error)
	PutAccount(addr []byte, account *types.Account) error
}

type saleEvent struct {
	evt *types.Event
}

func (e saleEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e saleEvent) Event() *types.Event { return e.evt }

// Engine orchestrates the launchpad sale state machine: campaign
// configuration, registration, the two redemption legs, deferred claims and
// proceeds withdrawal. It owns no persistence or transfer mechanics; those
// arrive through the state interface and the transfer gateway.
type Engine struct {
	state       engineState
	gateway     TransferGateway
	emitter     events.Emitter
	roots       map[[20]byte]struct{}
	feeReceiver [20]byte
	sigVerifier SignatureVerifier
	nowFn       func() int64
}

// NewEngine creates a sale engine with a no-op emitter and the built-in
// signature verifier. Callers wire state, gateway, roots and the fee receiver
// before use.
func NewEngine() *Engine {
	return &Engine{
		emitter:     events.NoopEmitter{},
		roots:       make(map[[20]byte]struct{}),
		sigVerifier: verifyDetachedSignature,
		nowFn:       func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetGateway configures the asset-transfer gateway used by the engine.
func (e *Engine) SetGateway(gateway TransferGateway) { e.gateway = gateway }

// SetRootAuthorities configures the deployment allow-list of root identities.
func (e *Engine) SetRootAuthorities(roots [][20]byte) {
	e.roots = make(map[[20]byte]struct{}, len(roots))
	for _, root := range roots {
		e.roots[root] = struct{}{}
	}
}

// SetFeeReceiver configures the identity that collects protocol and sharing
// fees.
func (e *Engine) SetFeeReceiver(addr [20]byte) { e.feeReceiver = addr }

// SetSignatureVerifier overrides the delegated-signature oracle. Passing nil
// restores the built-in secp256k1 recovery check.
func (e *Engine) SetSignatureVerifier(verifier SignatureVerifier) {
	if verifier == nil {
		e.sigVerifier = verifyDetachedSignature
		return
	}
	e.sigVerifier = verifier
}

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(saleEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) verifyRoot(caller [20]byte) error {
	if _, ok := e.roots[caller]; !ok {
		return ErrUnauthorized
	}
	return nil
}

func (e *Engine) requireNotBlacklisted(user [20]byte) error {
	if e.state == nil {
		return ErrNilState
	}
	entry, ok := e.state.SaleBlacklistGet(user)
	if ok && entry != nil && entry.IsBlacklisted {
		return ErrBlacklisted
	}
	return nil
}

func (e *Engine) loadCampaign(id [32]byte) (*Campaign, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	campaign, ok := e.state.SaleCampaignGet(id)
	if !ok {
		return nil, ErrCampaignNotFound
	}
	return campaign, nil
}

func (e *Engine) loadProfile(campaign [32]byte, user [20]byte) (*Profile, error) {
	profile, ok := e.state.SaleProfileGet(campaign, user)
	if !ok {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (e *Engine) storeCampaign(c *Campaign) error {
	sanitized, err := SanitizeCampaign(c)
	if err != nil {
		return err
	}
	return e.state.SaleCampaignPut(sanitized)
}

func (e *Engine) ensureReady() error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if e.gateway == nil {
		return ErrNilGateway
	}
	return nil
}

// CampaignParams carries the owner-settable configuration of a campaign.
type CampaignParams struct {
	PriceN          uint64
	PriceD          uint64
	MinPerTx        uint64
	MaxPerUser      uint64
	TotalLimit      uint64
	AmountLimitBase uint64
	RegisterStart   int64
	RegisterEnd     int64
	RedeemStart     int64
	RedeemEnd       int64
	ClaimStart      int64
	Allowlist       AllowlistAuthority
}

// PurchaseParams carries the owner-settable configuration of the secondary
// token leg.
type PurchaseParams struct {
	PriceN      uint64
	PriceD      uint64
	MinPerTx    uint64
	MaxPerUser  uint64
	AmountLimit uint64
	SharingFee  uint64
}

// CreateCampaign initialises a campaign record under the deterministic
// identifier derived from path and returns it together with the capability
// for its holding identity. Root-only.
func (e *Engine) CreateCampaign(caller [20]byte, path []byte, token string, owner [20]byte, protocolFeeBps, sharingFee uint64) (*Campaign, HoldingCapability, error) {
	if err := e.ensureReady(); err != nil {
		return nil, HoldingCapability{}, err
	}
	if err := e.verifyRoot(caller); err != nil {
		return nil, HoldingCapability{}, err
	}
	normalized, err := NormalizeToken(token)
	if err != nil {
		return nil, HoldingCapability{}, err
	}
	if protocolFeeBps > maxProtocolFeeBps {
		return nil, HoldingCapability{}, ErrMaxFeeReached
	}
	id := CampaignID(path)
	if _, ok := e.state.SaleCampaignGet(id); ok {
		return nil, HoldingCapability{}, ErrCampaignExists
	}
	campaign := &Campaign{
		ID:             id,
		Owner:          owner,
		Token:          normalized,
		ProtocolFeeBps: protocolFeeBps,
		SharingFee:     sharingFee,
		CreatedAt:      e.now(),
	}
	if err := e.storeCampaign(campaign); err != nil {
		return nil, HoldingCapability{}, err
	}
	e.emit(NewCampaignCreatedEvent(campaign))
	return campaign.Clone(), holdingCapability(id), nil
}

// SetCampaign applies the full sale configuration. Owner-only, and only
// while the campaign is still configuring: the new registration window must
// open in the future.
func (e *Engine) SetCampaign(caller [20]byte, id [32]byte, params CampaignParams) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	if params.RegisterStart >= params.RegisterEnd {
		return ErrInvalidRegistrationRange
	}
	if e.now() >= params.RegisterStart {
		return ErrFutureTimeRequired
	}
	if params.RedeemStart >= params.RedeemEnd {
		return ErrInvalidSaleRange
	}
	if params.RedeemStart < params.RegisterEnd {
		return ErrRegistrationSaleOverlap
	}
	if params.PriceN > 0 && params.PriceD == 0 {
		return ErrInvalidPrice
	}
	if params.ClaimStart != 0 && params.ClaimStart < params.RedeemStart {
		return ErrInvalidClaimStart
	}
	if !params.Allowlist.Mode.Valid() {
		return ErrNotWhitelisted
	}

	campaign.PriceN = params.PriceN
	campaign.PriceD = params.PriceD
	campaign.MinPerTx = params.MinPerTx
	campaign.MaxPerUser = params.MaxPerUser
	campaign.TotalLimit = params.TotalLimit
	campaign.AmountLimitBase = params.AmountLimitBase
	campaign.RegisterStart = params.RegisterStart
	campaign.RegisterEnd = params.RegisterEnd
	campaign.RedeemStart = params.RedeemStart
	campaign.RedeemEnd = params.RedeemEnd
	campaign.ClaimStart = params.ClaimStart
	campaign.Allowlist = params.Allowlist
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	e.emit(NewCampaignConfiguredEvent(campaign))
	return nil
}

// SetProtocolFee updates the proportional fee. Owner-only; allowed at any
// phase since it only affects future redemptions.
func (e *Engine) SetProtocolFee(caller [20]byte, id [32]byte, feeBps uint64) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	if feeBps > maxProtocolFeeBps {
		return ErrMaxFeeReached
	}
	campaign.ProtocolFeeBps = feeBps
	return e.storeCampaign(campaign)
}

// SetSharingFee updates the flat per-redemption fee. Owner-only.
func (e *Engine) SetSharingFee(caller [20]byte, id [32]byte, fee uint64) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	campaign.SharingFee = fee
	return e.storeCampaign(campaign)
}

// SetStatus toggles the campaign active flag. Owner-only.
func (e *Engine) SetStatus(caller [20]byte, id [32]byte, active bool) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	campaign.IsActive = active
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	e.emit(NewCampaignStatusEvent(campaign))
	return nil
}

// TransferOwnership records the designated new owner. Ownership does not
// move until that exact identity calls AcceptOwnership, so a mistyped or
// unreachable identity cannot take the campaign with it.
func (e *Engine) TransferOwnership(caller [20]byte, id [32]byte, newOwner [20]byte) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	campaign.PendingOwner = newOwner
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	e.emit(NewOwnershipTransferEvent(campaign, newOwner))
	return nil
}

// AcceptOwnership completes the two-phase transfer. Only the recorded
// pending owner may call it.
func (e *Engine) AcceptOwnership(caller [20]byte, id [32]byte) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.PendingOwner == ([20]byte{}) || campaign.PendingOwner != caller {
		return ErrUnauthorized
	}
	campaign.Owner = campaign.PendingOwner
	campaign.PendingOwner = [20]byte{}
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	e.emit(NewOwnershipAcceptedEvent(campaign))
	return nil
}

// CreatePurchase attaches the secondary-token leg to a campaign. Owner-only,
// at most one per campaign.
func (e *Engine) CreatePurchase(caller [20]byte, id [32]byte, token string) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	normalized, err := NormalizeToken(token)
	if err != nil {
		return err
	}
	if _, ok := e.state.SalePurchaseGet(id); ok {
		return ErrPurchaseExists
	}
	return e.state.SalePurchasePut(&Purchase{Campaign: id, Token: normalized})
}

// SetPurchase configures the secondary-token leg. Owner-only.
func (e *Engine) SetPurchase(caller [20]byte, id [32]byte, params PurchaseParams) error {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	purchase, ok := e.state.SalePurchaseGet(id)
	if !ok {
		return ErrPurchaseNotFound
	}
	if params.PriceN > 0 && params.PriceD == 0 {
		return ErrInvalidPrice
	}
	purchase.PriceN = params.PriceN
	purchase.PriceD = params.PriceD
	purchase.MinPerTx = params.MinPerTx
	purchase.MaxPerUser = params.MaxPerUser
	purchase.AmountLimit = params.AmountLimit
	purchase.SharingFee = params.SharingFee
	return e.state.SalePurchasePut(purchase)
}

// CreateProfile initialises the per-participant record for a campaign. The
// call is idempotent; an existing profile is left untouched.
func (e *Engine) CreateProfile(id [32]byte, user [20]byte) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if _, err := e.loadCampaign(id); err != nil {
		return err
	}
	if _, ok := e.state.SaleProfileGet(id, user); ok {
		return nil
	}
	return e.state.SaleProfilePut(&Profile{Campaign: id, User: user})
}

// SetBlacklist flags or clears a participant across all campaigns.
// Root-only.
func (e *Engine) SetBlacklist(caller [20]byte, user [20]byte, blacklisted bool) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if err := e.verifyRoot(caller); err != nil {
		return err
	}
	entry, ok := e.state.SaleBlacklistGet(user)
	if !ok || entry == nil {
		entry = &BlacklistEntry{User: user}
	}
	entry.IsBlacklisted = blacklisted
	if err := e.state.SaleBlacklistPut(entry); err != nil {
		return err
	}
	e.emit(NewBlacklistEvent(entry))
	return nil
}

// Register marks the participant as registered for the campaign, checking
// the allow-list when one is configured. Re-registering is harmless.
func (e *Engine) Register(id [32]byte, user [20]byte, material ProofMaterial) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if err := e.requireNotBlacklisted(user); err != nil {
		return err
	}
	if !campaign.IsActive {
		return ErrCampaignInactive
	}
	if campaign.PhaseAt(e.now()) != PhaseRegistering {
		return ErrNotInRegistrationTime
	}
	if err := e.verifyWhitelist(campaign, user, material); err != nil {
		return err
	}
	profile, err := e.loadProfile(id, user)
	if err != nil {
		return err
	}
	if profile.IsRegistered {
		return nil
	}
	profile.IsRegistered = true
	if err := e.state.SaleProfilePut(profile); err != nil {
		return err
	}
	e.emit(NewRegisteredEvent(campaign, user))
	return nil
}

// redeemChecks carries the validated figures a redemption commits.
type redeemChecks struct {
	campaign *Campaign
	profile  *Profile
	redeemed uint64
	cost     uint64
	fee      uint64
}

func (e *Engine) validateRedeem(id [32]byte, user [20]byte, amount, priceN, priceD, minPerTx, maxPerUser, sharingFee uint64) (*redeemChecks, error) {
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return nil, err
	}
	if err := e.requireNotBlacklisted(user); err != nil {
		return nil, err
	}
	if !campaign.IsActive {
		return nil, ErrCampaignInactive
	}
	profile, err := e.loadProfile(id, user)
	if err != nil {
		return nil, err
	}
	if !profile.IsRegistered {
		return nil, ErrNotRegistered
	}
	if campaign.PhaseAt(e.now()) != PhaseRedeeming {
		return nil, ErrNotInSaleTime
	}
	if minPerTx > 0 && amount < minPerTx {
		return nil, ErrMinAmountNotSatisfied
	}
	redeemed, err := checkedAdd(profile.RedeemedAmount, amount)
	if err != nil {
		return nil, err
	}
	if maxPerUser > 0 && redeemed > maxPerUser {
		return nil, ErrMaxAmountReached
	}
	sold, err := checkedAdd(campaign.TotalSold, amount)
	if err != nil {
		return nil, err
	}
	if campaign.TotalLimit > 0 && sold > campaign.TotalLimit {
		return nil, ErrTotalLimitReached
	}
	cost, err := SubTotal(amount, priceN, priceD)
	if err != nil {
		return nil, err
	}
	fee, err := SystemFee(cost, campaign.ProtocolFeeBps, sharingFee)
	if err != nil {
		return nil, err
	}
	if fee >= cost {
		return nil, ErrFeeExceedsCost
	}
	return &redeemChecks{campaign: campaign, profile: profile, redeemed: redeemed, cost: cost, fee: fee}, nil
}

// deliverOrDefer hands the sold amount to the participant, or books it as
// pending when claiming has not opened yet.
func (e *Engine) deliverOrDefer(checks *redeemChecks, user [20]byte, amount uint64) error {
	campaign := checks.campaign
	if campaign.ClaimStart != 0 && e.now() < campaign.ClaimStart {
		pending, err := checkedAdd(checks.profile.PendingAmount, amount)
		if err != nil {
			return err
		}
		checks.profile.PendingAmount = pending
		return nil
	}
	capability := holdingCapability(campaign.ID)
	if err := e.gateway.TransferTokenAs(capability, campaign.Token, user, amount); err != nil {
		return err
	}
	claimed, err := checkedAdd(campaign.TotalClaimed, amount)
	if err != nil {
		return err
	}
	campaign.TotalClaimed = claimed
	return nil
}

// RedeemByBase exchanges base currency for the sale token at the campaign
// price, skimming the system fee from the cost.
func (e *Engine) RedeemByBase(id [32]byte, user [20]byte, amount uint64) error {
	if err := e.ensureReady(); err != nil {
		return err
	}
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.PriceN == 0 {
		return ErrRedeemByBaseDisabled
	}
	checks, err := e.validateRedeem(id, user, amount, campaign.PriceN, campaign.PriceD, campaign.MinPerTx, campaign.MaxPerUser, campaign.SharingFee)
	if err != nil {
		return err
	}
	campaign = checks.campaign
	soldBase, err := checkedAdd(campaign.AmountSoldBase, amount)
	if err != nil {
		return err
	}
	if campaign.AmountLimitBase > 0 && soldBase > campaign.AmountLimitBase {
		return ErrBaseLimitReached
	}

	holding := DeriveHoldingAddress(id)
	capability := holdingCapability(id)
	if err := e.gateway.TransferBase(user, holding, checks.cost); err != nil {
		return err
	}
	if checks.fee > 0 {
		if e.feeReceiver == ([20]byte{}) {
			return ErrNilFeeReceiver
		}
		if err := e.gateway.TransferBaseAs(capability, e.feeReceiver, checks.fee); err != nil {
			return err
		}
	}
	campaign.TotalSold, err = checkedAdd(campaign.TotalSold, amount)
	if err != nil {
		return err
	}
	campaign.AmountSoldBase = soldBase
	checks.profile.RedeemedAmount = checks.redeemed
	if err := e.deliverOrDefer(checks, user, amount); err != nil {
		return err
	}
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	if err := e.state.SaleProfilePut(checks.profile); err != nil {
		return err
	}
	e.emit(NewRedeemedEvent(campaign, user, amount, checks.cost, checks.fee, "base"))
	return nil
}

// RedeemByToken exchanges the secondary token for the sale token using the
// purchase leg's own price and caps.
func (e *Engine) RedeemByToken(id [32]byte, user [20]byte, amount uint64) error {
	if err := e.ensureReady(); err != nil {
		return err
	}
	purchase, ok := e.state.SalePurchaseGet(id)
	if !ok {
		return ErrPurchaseNotFound
	}
	if purchase.PriceN == 0 {
		return ErrRedeemByTokenDisabled
	}
	checks, err := e.validateRedeem(id, user, amount, purchase.PriceN, purchase.PriceD, purchase.MinPerTx, purchase.MaxPerUser, purchase.SharingFee)
	if err != nil {
		return err
	}
	campaign := checks.campaign
	soldViaToken, err := checkedAdd(purchase.AmountSold, amount)
	if err != nil {
		return err
	}
	if purchase.AmountLimit > 0 && soldViaToken > purchase.AmountLimit {
		return ErrTotalLimitReached
	}

	holding := DeriveHoldingAddress(id)
	capability := holdingCapability(id)
	if err := e.gateway.TransferToken(purchase.Token, user, holding, checks.cost); err != nil {
		return err
	}
	if checks.fee > 0 {
		if e.feeReceiver == ([20]byte{}) {
			return ErrNilFeeReceiver
		}
		if err := e.gateway.TransferTokenAs(capability, purchase.Token, e.feeReceiver, checks.fee); err != nil {
			return err
		}
	}
	campaign.TotalSold, err = checkedAdd(campaign.TotalSold, amount)
	if err != nil {
		return err
	}
	purchase.AmountSold = soldViaToken
	checks.profile.RedeemedAmount = checks.redeemed
	if err := e.deliverOrDefer(checks, user, amount); err != nil {
		return err
	}
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	if err := e.state.SalePurchasePut(purchase); err != nil {
		return err
	}
	if err := e.state.SaleProfilePut(checks.profile); err != nil {
		return err
	}
	e.emit(NewRedeemedEvent(campaign, user, amount, checks.cost, checks.fee, "token"))
	return nil
}

// ClaimPending delivers previously deferred sale tokens once the claim window
// has opened.
func (e *Engine) ClaimPending(id [32]byte, user [20]byte, amount uint64) error {
	if err := e.ensureReady(); err != nil {
		return err
	}
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if err := e.requireNotBlacklisted(user); err != nil {
		return err
	}
	if campaign.ClaimStart != 0 && e.now() < campaign.ClaimStart {
		return ErrClaimNotOpen
	}
	profile, err := e.loadProfile(id, user)
	if err != nil {
		return err
	}
	if profile.PendingAmount < amount {
		return ErrInsufficientPending
	}
	capability := holdingCapability(id)
	if err := e.gateway.TransferTokenAs(capability, campaign.Token, user, amount); err != nil {
		return err
	}
	claimed, err := checkedAdd(campaign.TotalClaimed, amount)
	if err != nil {
		return err
	}
	campaign.TotalClaimed = claimed
	profile.PendingAmount -= amount
	if err := e.storeCampaign(campaign); err != nil {
		return err
	}
	if err := e.state.SaleProfilePut(profile); err != nil {
		return err
	}
	e.emit(NewClaimedEvent(campaign, user, amount))
	return nil
}

// WithdrawBase moves base-currency proceeds from the holding identity to the
// campaign owner. Owner-only, allowed from any phase.
func (e *Engine) WithdrawBase(caller [20]byte, id [32]byte, amount uint64) error {
	if err := e.ensureReady(); err != nil {
		return err
	}
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	capability := holdingCapability(id)
	if err := e.gateway.TransferBaseAs(capability, campaign.Owner, amount); err != nil {
		return err
	}
	e.emit(NewWithdrawnEvent(campaign, "", amount))
	return nil
}

// WithdrawToken moves token proceeds from the holding identity to the
// campaign owner. Withdrawing the sale token itself must leave enough balance
// behind to cover every sold-but-unclaimed unit; a violation aborts the whole
// call.
func (e *Engine) WithdrawToken(caller [20]byte, id [32]byte, token string, amount uint64) error {
	if err := e.ensureReady(); err != nil {
		return err
	}
	campaign, err := e.loadCampaign(id)
	if err != nil {
		return err
	}
	if campaign.Owner != caller {
		return ErrUnauthorized
	}
	normalized, err := NormalizeToken(token)
	if err != nil {
		return err
	}
	capability := holdingCapability(id)
	if err := e.gateway.TransferTokenAs(capability, normalized, campaign.Owner, amount); err != nil {
		return err
	}
	if normalized == campaign.Token {
		remaining, err := e.gateway.TokenBalance(DeriveHoldingAddress(id), normalized)
		if err != nil {
			return err
		}
		if remaining < campaign.TotalSold-campaign.TotalClaimed {
			return ErrObligationShortfall
		}
	}
	e.emit(NewWithdrawnEvent(campaign, normalized, amount))
	return nil
}
