package sale

import "errors"

var (
	ErrNilState         = errors.New("sale engine: state not configured")
	ErrNilGateway       = errors.New("sale engine: transfer gateway not configured")
	ErrNilFeeReceiver   = errors.New("sale engine: fee receiver not configured")
	ErrCampaignNotFound = errors.New("sale: campaign not found")
	ErrCampaignExists   = errors.New("sale: campaign already exists")
	ErrPurchaseNotFound = errors.New("sale: purchase leg not found")
	ErrPurchaseExists   = errors.New("sale: purchase leg already exists")
	ErrProfileNotFound  = errors.New("sale: participant profile not found")

	// Authorization failures.
	ErrUnauthorized   = errors.New("sale: unauthorized")
	ErrBlacklisted    = errors.New("sale: forbidden")
	ErrNotWhitelisted = errors.New("sale: not whitelisted")
	ErrNotRegistered  = errors.New("sale: not registered")

	// Configuration validation failures.
	ErrInvalidRegistrationRange = errors.New("sale: invalid registration time range")
	ErrInvalidSaleRange         = errors.New("sale: invalid sale time range")
	ErrRegistrationSaleOverlap  = errors.New("sale: registration and sale time overlap")
	ErrFutureTimeRequired       = errors.New("sale: time must be set in the future")
	ErrInvalidPrice             = errors.New("sale: price denominator required")
	ErrMaxFeeReached            = errors.New("sale: protocol fee above cap")
	ErrInvalidClaimStart        = errors.New("sale: claim start before sale start")

	// Timeframe failures, distinct from authorization so callers can tell
	// "not yet" from "never".
	ErrNotInRegistrationTime = errors.New("sale: only allowed during registration time")
	ErrNotInSaleTime         = errors.New("sale: only allowed during sale time")
	ErrClaimNotOpen          = errors.New("sale: claim not open")

	// Cap and limit failures; callers may retry with an adjusted amount.
	ErrCampaignInactive      = errors.New("sale: campaign inactive")
	ErrRedeemByBaseDisabled  = errors.New("sale: redeem by base currency not allowed")
	ErrRedeemByTokenDisabled = errors.New("sale: redeem by token not allowed")
	ErrMinAmountNotSatisfied = errors.New("sale: min amount not satisfied")
	ErrMaxAmountReached      = errors.New("sale: max amount reached")
	ErrTotalLimitReached     = errors.New("sale: total sale limit reached")
	ErrBaseLimitReached      = errors.New("sale: base currency limit reached")
	ErrFeeExceedsCost        = errors.New("sale: fee exceeds redemption cost")
	ErrInsufficientPending   = errors.New("sale: insufficient pending amount")

	// Fatal failures; the host aborts the whole operation.
	ErrArithmeticOverflow   = errors.New("sale: arithmetic overflow")
	ErrTransferFailed       = errors.New("sale: transfer failed")
	ErrObligationShortfall  = errors.New("sale: withdrawal breaks unclaimed obligation")
	ErrInvalidHoldingAccess = errors.New("sale: invalid holding capability")
)
