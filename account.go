package ibanledger

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Account is the sole persisted entity. Balance mutations never update the
// struct in place; operations build a fresh value with the replaced balance
// and upsert it wholesale.
type Account struct {
	ID        snowflake.ID    `json:"id"`
	Iban      string          `json:"iban"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// WithBalance returns a copy of the account carrying the given balance.
func (a Account) WithBalance(b decimal.Decimal) Account {
	a.Balance = b
	return a
}

type CreateAccountReq struct {
	Currency string          `json:"currency" validate:"required,len=3,alpha"`
	Balance  decimal.Decimal `json:"balance"`
}

// ChargeReq carries a deposit or withdrawal against a single account.
type ChargeReq struct {
	Iban   string          `json:"iban" validate:"required,min=10,max=34"`
	Amount decimal.Decimal `json:"amount"`
}

type TransferReq struct {
	FromIban string          `json:"from_iban" validate:"required,min=10,max=34"`
	ToIban   string          `json:"to_iban" validate:"required,min=10,max=34"`
	Amount   decimal.Decimal `json:"amount"`
}

type StatementReq struct {
	Iban string `json:"iban" validate:"required,min=10,max=34"`
}
