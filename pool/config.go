package pool

import (
	"fmt"
	"math/big"

	"github.com/BurntSushi/toml"

	"ringlend/pool/wideint"
)

// paramsDoc is the TOML-decodable shape of Params: rates and fees are
// written as decimal strings ("0.02") rather than raw 2^-128 fixed-point
// integers, converted internally via *big.Rat before being packed into
// fixed point.
type paramsDoc struct {
	StandardRate       string `toml:"standard_rate"`
	StandardMinRate    string `toml:"standard_min_rate"`
	EmergencyRate      string `toml:"emergency_rate"`
	EmergencyMaxRate   string `toml:"emergency_max_rate"`
	InitialMargin      string `toml:"initial_margin"`
	MaintenanceMargin  string `toml:"maintenance_margin"`
	InitialHaircut     string `toml:"initial_haircut"`
	MaintenanceHaircut string `toml:"maintenance_haircut"`
	MintFee            string `toml:"mint_fee"`
	BorrowFee          string `toml:"borrow_fee"`
	TakeCashFee        string `toml:"take_cash_fee"`
	LiquidationReward  string `toml:"liquidation_reward"`
	GasCollateral      uint64 `toml:"gas_collateral"`
}

// RingConfig is a TOML document describing every pool to bootstrap into a
// ring at startup.
type RingConfig struct {
	Pools []PoolConfig `toml:"pool"`
}

// PoolConfig is one [[pool]] table entry in a RingConfig document.
type PoolConfig struct {
	ID           string    `toml:"id"`
	UnderlyingID string    `toml:"underlying"`
	Params       paramsDoc `toml:"params"`
}

// LoadParams decodes a single TOML document into a Params value, converting
// every decimal-fraction field into its binary 2^-128 fixed-point
// representation.
func LoadParams(path string) (Params, error) {
	var doc paramsDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return Params{}, fmt.Errorf("pool: decode params: %w", err)
	}
	return doc.toParams()
}

// LoadRingConfig decodes a TOML document listing every pool to bootstrap.
func LoadRingConfig(path string) (RingConfig, error) {
	var cfg RingConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return RingConfig{}, fmt.Errorf("pool: decode ring config: %w", err)
	}
	return cfg, nil
}

func (d paramsDoc) toParams() (Params, error) {
	fields := map[string]string{
		"standard_rate":       d.StandardRate,
		"standard_min_rate":   d.StandardMinRate,
		"emergency_rate":      d.EmergencyRate,
		"emergency_max_rate":  d.EmergencyMaxRate,
		"initial_margin":      d.InitialMargin,
		"maintenance_margin":  d.MaintenanceMargin,
		"initial_haircut":     d.InitialHaircut,
		"maintenance_haircut": d.MaintenanceHaircut,
		"mint_fee":            d.MintFee,
		"borrow_fee":          d.BorrowFee,
		"take_cash_fee":       d.TakeCashFee,
		"liquidation_reward":  d.LiquidationReward,
	}
	parsed := make(map[string]*wideint.Amount, len(fields))
	for name, raw := range fields {
		v, err := decimalToFixed128(raw)
		if err != nil {
			return Params{}, fmt.Errorf("pool: field %s: %w", name, err)
		}
		parsed[name] = v
	}
	return Params{
		StandardRate:       parsed["standard_rate"],
		StandardMinRate:    parsed["standard_min_rate"],
		EmergencyRate:      parsed["emergency_rate"],
		EmergencyMaxRate:   parsed["emergency_max_rate"],
		InitialMargin:      parsed["initial_margin"],
		MaintenanceMargin:  parsed["maintenance_margin"],
		InitialHaircut:     parsed["initial_haircut"],
		MaintenanceHaircut: parsed["maintenance_haircut"],
		MintFee:            parsed["mint_fee"],
		BorrowFee:          parsed["borrow_fee"],
		TakeCashFee:        parsed["take_cash_fee"],
		LiquidationReward:  parsed["liquidation_reward"],
		GasCollateral:      wideint.FromUint64(d.GasCollateral),
	}, nil
}

var fixed128Scale = new(big.Int).Lsh(big.NewInt(1), 128)

// decimalToFixed128 parses a decimal fraction string ("0.02") and scales it
// by 2^128, flooring to the nearest integer. An empty string defaults to
// zero so TOML documents may omit fields they don't need to override.
func decimalToFixed128(s string) (*wideint.Amount, error) {
	if s == "" {
		return wideint.FromUint64(0), nil
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid decimal fraction %q", s)
	}
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(fixed128Scale))
	q := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	return wideint.FromBig(q), nil
}
