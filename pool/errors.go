package pool

import "errors"

// Arithmetic errors: a checked operation would exceed or underflow the
// u128 range.
var (
	ErrDepositOverflow    = errors.New("pool: deposit would overflow total collateral")
	ErrWithdrawOverflow   = errors.New("pool: withdraw amount exceeds collateral balance")
	ErrMintOverflow       = errors.New("pool: mint would overflow total liquidity")
	ErrMintFeeOverflow    = errors.New("pool: mint fee would overflow the transfer amount")
	ErrBorrowOverflow     = errors.New("pool: borrow amount exceeds borrowable liquidity")
	ErrBorrowFeeOverflow  = errors.New("pool: borrow fee would overflow the returned amount")
	ErrBurnOverflow       = errors.New("pool: burn amount exceeds share balance")
	ErrBurnTooMuch        = errors.New("pool: burn would withdraw more than is borrowable")
	ErrRepayCashOverflow  = errors.New("pool: repay cash deposit would overflow caller's escrow")
	ErrDepositCashOverflow = errors.New("pool: deposit_cash would overflow caller's escrow")
	ErrTakeCashOverflow   = errors.New("pool: take_cash fee would overflow total liquidity")
)

// Precondition errors: the caller's position does not satisfy the
// operation's entry requirements.
var (
	ErrWithdrawWithoutDeposit          = errors.New("pool: caller has no collateral to withdraw")
	ErrRepayWithoutBorrow              = errors.New("pool: target user has no outstanding bonds")
	ErrLiquidateForNothing             = errors.New("pool: target user has no collateral or debt in the ring")
	ErrDepositWhileBorrowingNotAllowed = errors.New("pool: caller already holds a borrower position")
	ErrBorrowWhileDepositingNotAllowed = errors.New("pool: caller already holds a depositor position")
	ErrFirstDepositRequiresGasCollateral = errors.New("pool: first deposit requires exact gas collateral")
	ErrFirstBorrowRequiresGasCollateral  = errors.New("pool: first borrow requires exact gas collateral")
)

// Solvency errors: the anchor's post-commit aggregate valuation fails the
// cross-pool predicate. These are only ever raised by the anchor, never by
// a peer callback.
var (
	ErrCollateralValueTooLowAfterWithdraw = errors.New("pool: initial collateral value too low after withdraw")
	ErrCollateralValueTooLowAfterBorrow   = errors.New("pool: initial collateral value too low after borrow")
	ErrLiquidateTooEarly                  = errors.New("pool: maintenance debt value does not exceed maintenance collateral value")
	ErrLiquidateTooMuch                   = errors.New("pool: liquidation would leave initial collateral value at or above initial debt value")
)

// Share-surface errors: transfer_from debits allowance before balance.
var (
	ErrInsufficientAllowance = errors.New("pool: spender allowance is insufficient")
	ErrInsufficientBalance   = errors.New("pool: owner share balance is insufficient")
)

// Authorization errors: the caller is not the configured admin identity.
var (
	ErrSetPriceUnauthorized  = errors.New("pool: caller is not authorized to set price")
	ErrSetParamsUnauthorized = errors.New("pool: caller is not authorized to set params")
	ErrTakeCashUnauthorized  = errors.New("pool: caller is not authorized to take cash")
)

// wrapTransferErr tags an underlying-token transfer failure with the
// operation it occurred in, preserving the original error for errors.Is /
// errors.Unwrap.
func wrapTransferErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &transferError{op: op, err: err}
}

type transferError struct {
	op  string
	err error
}

func (e *transferError) Error() string {
	return "pool: " + e.op + " transfer failed: " + e.err.Error()
}

func (e *transferError) Unwrap() error { return e.err }
