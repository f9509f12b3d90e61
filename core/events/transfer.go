package events

import (
	"math/big"

	"ringlend/core/types"
	"ringlend/crypto"
)

const (
	// TypeTransfer is emitted whenever liquidity shares move between
	// accounts, including mint (from the zero address) and burn (to the
	// zero address).
	TypeTransfer = "share.transfer"
	// TypeApproval is emitted whenever a share allowance changes.
	TypeApproval = "share.approval"
)

// Transfer records a liquidity-share movement within a single pool.
type Transfer struct {
	PoolID string
	From   crypto.Address
	To     crypto.Address
	Value  *big.Int
}

func (Transfer) EventType() string { return TypeTransfer }

func (e Transfer) Event() *types.Event {
	return &types.Event{
		Type: TypeTransfer,
		Attributes: map[string]string{
			"pool":  e.PoolID,
			"from":  addressOrZero(e.From),
			"to":    addressOrZero(e.To),
			"value": formatAmount(e.Value),
		},
	}
}

// Approval records a change to a share-holder's allowance for a spender.
type Approval struct {
	PoolID  string
	Owner   crypto.Address
	Spender crypto.Address
	Amount  *big.Int
}

func (Approval) EventType() string { return TypeApproval }

func (e Approval) Event() *types.Event {
	return &types.Event{
		Type: TypeApproval,
		Attributes: map[string]string{
			"pool":    e.PoolID,
			"owner":   addressOrZero(e.Owner),
			"spender": addressOrZero(e.Spender),
			"amount":  formatAmount(e.Amount),
		},
	}
}

func addressOrZero(addr crypto.Address) string {
	if addr.IsZero() {
		return ""
	}
	return addr.String()
}
