package ibanledger

import (
	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=mocks/limits.go -package=mocks . LimitsProvider

// LimitsProvider supplies the supported currency set and the balance and
// transaction ceilings. Callers fetch values per call rather than capturing
// them at construction, so Forbidden messages always carry the limit in
// force at the time of the request.
type LimitsProvider interface {
	SupportedCurrencies() []string
	MaxAccountAmount() decimal.Decimal
	MaxTransactionAmount() decimal.Decimal
}

type staticLimits struct {
	currencies []string
	maxAcct    decimal.Decimal
	maxTxn     decimal.Decimal
}

var (
	_ LimitsProvider = (*staticLimits)(nil)
)

// NewStaticLimits builds a LimitsProvider from configuration values.
func NewStaticLimits(cfg LimitsConfig) (*staticLimits, error) {
	maxAcct, err := decimal.NewFromString(cfg.MaxAccountAmount)
	if err != nil {
		return nil, err
	}
	maxTxn, err := decimal.NewFromString(cfg.MaxTransactionAmount)
	if err != nil {
		return nil, err
	}
	return &staticLimits{
		currencies: cfg.Currencies,
		maxAcct:    maxAcct,
		maxTxn:     maxTxn,
	}, nil
}

func (s *staticLimits) SupportedCurrencies() []string {
	return s.currencies
}

func (s *staticLimits) MaxAccountAmount() decimal.Decimal {
	return s.maxAcct
}

func (s *staticLimits) MaxTransactionAmount() decimal.Decimal {
	return s.maxTxn
}
