package types

// Account is the minimal ledger record the sale engine operates on. The host
// environment owns persistence and addressing; the engine only reads balances
// and writes updated ones back through its state interface. BalanceBase holds
// the native base currency, Tokens maps a token symbol to its balance.
type Account struct {
	Nonce       uint64            `json:"nonce"`
	BalanceBase uint64            `json:"balanceBase"`
	Tokens      map[string]uint64 `json:"tokens,omitempty"`
}

// TokenBalance returns the balance held for the given token symbol.
func (a *Account) TokenBalance(token string) uint64 {
	if a == nil || a.Tokens == nil {
		return 0
	}
	return a.Tokens[token]
}

// SetTokenBalance records the balance for the given token symbol, allocating
// the map on first use and dropping zero entries to keep records compact.
func (a *Account) SetTokenBalance(token string, amount uint64) {
	if a == nil {
		return
	}
	if amount == 0 {
		if a.Tokens != nil {
			delete(a.Tokens, token)
		}
		return
	}
	if a.Tokens == nil {
		a.Tokens = make(map[string]uint64)
	}
	a.Tokens[token] = amount
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return &Account{}
	}
	clone := &Account{Nonce: a.Nonce, BalanceBase: a.BalanceBase}
	if len(a.Tokens) > 0 {
		clone.Tokens = make(map[string]uint64, len(a.Tokens))
		for token, amount := range a.Tokens {
			clone.Tokens[token] = amount
		}
	}
	return clone
}

// Event represents a typed event emitted during state transitions.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
