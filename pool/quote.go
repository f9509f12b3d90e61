package pool

import "ringlend/pool/wideint"

// quoteFloor converts a raw underlying quantity into the pool's quoted
// value, `floor(amount * price / price_scaler)`, saturating at Max128 on
// overflow of the 256-bit intermediate.
func (p *Pool) quoteFloor(amount *wideint.Amount) *wideint.Amount {
	q, ok := wideint.DivFloor(wideint.Mul(amount, p.Price), p.PriceScaler)
	if !ok {
		return wideint.FromUint64(0)
	}
	return q
}

// quoteCeil is quoteFloor's ceiling counterpart, used wherever a debt-side
// quantity is rounded to favor the pool (borrow, update).
func (p *Pool) quoteCeil(amount *wideint.Amount) *wideint.Amount {
	q, ok := wideint.DivCeil(wideint.Mul(amount, p.Price), p.PriceScaler)
	if !ok {
		return wideint.FromUint64(0)
	}
	return q
}

// unquoteFloor converts a quoted value back to raw underlying units,
// `floor(q * price_scaler / price)`, used by liquidate to convert a repaid
// quote back into seized collateral.
func (p *Pool) unquoteFloor(q *wideint.Amount) *wideint.Amount {
	r, ok := wideint.DivFloor(wideint.Mul(q, p.PriceScaler), p.Price)
	if !ok {
		return wideint.FromUint64(0)
	}
	return r
}

// initialCollateralValue is icv_self = scale(qc * initial_haircut) for a
// given raw collateral amount.
func (p *Pool) initialCollateralValue(collateral *wideint.Amount) *wideint.Amount {
	qc := p.quoteFloor(collateral)
	return wideint.Scale(wideint.Mul(qc, p.Params.InitialHaircut))
}

// maintenanceCollateralValue is the maintenance-tier sibling of
// initialCollateralValue, using maintenance_haircut.
func (p *Pool) maintenanceCollateralValue(collateral *wideint.Amount) *wideint.Amount {
	qc := p.quoteFloor(collateral)
	return wideint.Scale(wideint.Mul(qc, p.Params.MaintenanceHaircut))
}

// initialDebtValue is idv = scale_up(qd * initial_margin) + qd for a given
// raw debt amount.
func (p *Pool) initialDebtValue(debt *wideint.Amount) *wideint.Amount {
	qd := p.quoteCeil(debt)
	return wideint.AddSaturating(wideint.ScaleUp(wideint.Mul(qd, p.Params.InitialMargin)), qd)
}

// maintenanceDebtValue is the maintenance-tier sibling of
// initialDebtValue, using maintenance_margin.
func (p *Pool) maintenanceDebtValue(debt *wideint.Amount) *wideint.Amount {
	qd := p.quoteCeil(debt)
	return wideint.AddSaturating(wideint.ScaleUp(wideint.Mul(qd, p.Params.MaintenanceMargin)), qd)
}
