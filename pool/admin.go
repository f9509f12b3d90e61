package pool

import (
	"crypto/sha256"

	"github.com/google/uuid"

	"ringlend/crypto"
	nativecommon "ringlend/native/common"
	"ringlend/pool/wideint"
)

// Admin is the deployment/governance shim: it splices new pools into a ring
// and pushes prices and parameters. Authorization policy itself and pause
// state are external collaborators; Admin only ever asks AdminAuth/PauseView
// for a yes/no.
type Admin struct {
	Ring  *Ring
	Auth  AdminAuth
	Pause nativecommon.PauseView
}

// NewAdmin wires an Admin shim around an existing ring.
func NewAdmin(ring *Ring, auth AdminAuth, pause nativecommon.PauseView) *Admin {
	return &Admin{Ring: ring, Auth: auth, Pause: pause}
}

// poolAddress derives a stable 20-byte identity for a pool from its id
// string, the same width crypto.Address expects for user keys.
func poolAddress(id string) crypto.Address {
	sum := sha256.Sum256([]byte(id))
	return crypto.MustNewAddress(crypto.PoolPrefix, sum[:20])
}

// SingleKeyAdmin is the simplest AdminAuth policy: exactly one identity,
// derived from a governance key generated with crypto.GeneratePrivateKey,
// is authorized to invoke the admin surface.
type SingleKeyAdmin struct {
	Admin crypto.Address
}

// IsAdmin reports whether caller is the configured governance identity.
func (s SingleKeyAdmin) IsAdmin(caller crypto.Address) bool {
	return caller.Equal(s.Admin)
}

// CreatePool mints a fresh pool identity (via uuid.New when id is empty),
// splices it into the ring, and returns the new pool's index.
func (a *Admin) CreatePool(caller crypto.Address, id, underlyingID string, token Underlying, gas NativeEscrow, params Params) (int, error) {
	if a.Auth == nil || !a.Auth.IsAdmin(caller) {
		return 0, ErrSetParamsUnauthorized
	}
	if err := nativecommon.Guard(a.Pause, "pool.create"); err != nil {
		return 0, err
	}
	if id == "" {
		id = uuid.New().String()
	}
	p := NewPool(id, underlyingID, token, gas, params)
	p.Addr = poolAddress(id)
	return a.Ring.Splice(p), nil
}

// SetPrice pushes a new (price, price_scaler) pair onto pool idx and
// returns the pool's next index so the admin can continue walking the
// ring.
func (a *Admin) SetPrice(caller crypto.Address, idx int, price, scaler *wideint.Amount) (int, error) {
	if a.Auth == nil || !a.Auth.IsAdmin(caller) {
		return 0, ErrSetPriceUnauthorized
	}
	if err := nativecommon.Guard(a.Pause, "pool.set_price"); err != nil {
		return 0, err
	}
	p := a.Ring.At(idx)
	p.Price = wideint.Clone(price)
	p.PriceScaler = wideint.Clone(scaler)
	return p.Next, nil
}

// SetParams overwrites pool idx's parameter set wholesale and returns the
// pool's next index.
func (a *Admin) SetParams(caller crypto.Address, idx int, params Params) (int, error) {
	if a.Auth == nil || !a.Auth.IsAdmin(caller) {
		return 0, ErrSetParamsUnauthorized
	}
	if err := nativecommon.Guard(a.Pause, "pool.set_params"); err != nil {
		return 0, err
	}
	p := a.Ring.At(idx)
	p.Params = params.Clone()
	return p.Next, nil
}

// TakeCash authorizes and delegates a flash loan through pool idx.
func (a *Admin) TakeCash(caller crypto.Address, idx int, amount *wideint.Amount, target crypto.Address, borrower FlashBorrower, data []byte) error {
	if err := nativecommon.Guard(a.Pause, "pool.take_cash"); err != nil {
		return err
	}
	return a.Ring.At(idx).TakeCash(a.Auth, caller, amount, target, borrower, data)
}
