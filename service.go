package ibanledger

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

//go:generate mockgen -destination=mocks/service.go -package=mocks . Service

// Service is the account manager. It orchestrates reads, business checks,
// and balance mutations against the Repository. Bounds and format checks on
// incoming requests are the validation middleware's responsibility; the
// service assumes amounts are positive and below the transaction ceiling.
type Service interface {
	GetByIban(ctx context.Context, iban string) (*Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	CreateAccount(ctx context.Context, req CreateAccountReq) (*Account, error)
	Deposit(ctx context.Context, req ChargeReq) (*Account, error)
	Withdraw(ctx context.Context, req ChargeReq) (*Account, error)
	// Transfer moves the amount between two same-currency accounts and
	// returns the updated pair, source first.
	Transfer(ctx context.Context, req TransferReq) ([]Account, error)
	Statement(ctx context.Context, w io.Writer, req StatementReq) error
}

func NewService(
	repo Repository,
	gen IbanGenerator,
	limits LimitsProvider,
	country string,
	log *zerolog.Logger,
) (*serviceImpl, error) {
	// Fail at startup rather than on the first create if the issuing
	// country is not one the generator can produce.
	if _, err := gen.Generate(country); err != nil {
		return nil, err
	}
	return &serviceImpl{
		repo:    repo,
		gen:     gen,
		limits:  limits,
		country: country,
		log:     log,
	}, nil
}

type serviceImpl struct {
	repo    Repository
	gen     IbanGenerator
	limits  LimitsProvider
	country string
	log     *zerolog.Logger
}

var (
	_ Service = (*serviceImpl)(nil)
)

func (s *serviceImpl) GetByIban(ctx context.Context, iban string) (*Account, error) {
	return s.repo.GetByIban(ctx, iban)
}

func (s *serviceImpl) GetAll(ctx context.Context) ([]Account, error) {
	return s.repo.GetAll(ctx)
}

func (s *serviceImpl) CreateAccount(ctx context.Context, req CreateAccountReq) (*Account, error) {
	iban, err := s.gen.Generate(s.country)
	if err != nil {
		return nil, ErrUnexpected{Cause: err}
	}
	acct := Account{
		Iban:      iban,
		Currency:  req.Currency,
		Balance:   req.Balance,
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Upsert(ctx, acct)
}

func (s *serviceImpl) Deposit(ctx context.Context, req ChargeReq) (*Account, error) {
	acct, err := s.repo.GetByIban(ctx, req.Iban)
	if err != nil {
		return nil, err
	}

	limit := s.limits.MaxAccountAmount()
	newBal := acct.Balance.Add(req.Amount)
	if newBal.GreaterThan(limit) {
		return nil, ErrForbidden{
			Description: fmt.Sprintf("The account amount must not exceed %s.", limit),
		}
	}

	return s.repo.Upsert(ctx, acct.WithBalance(newBal))
}

func (s *serviceImpl) Withdraw(ctx context.Context, req ChargeReq) (*Account, error) {
	acct, err := s.repo.GetByIban(ctx, req.Iban)
	if err != nil {
		return nil, err
	}

	if acct.Balance.LessThan(req.Amount) {
		return nil, ErrForbidden{
			Description: "This account does not have enough amount to withdraw.",
		}
	}

	return s.repo.Upsert(ctx, acct.WithBalance(acct.Balance.Sub(req.Amount)))
}

func (s *serviceImpl) Transfer(ctx context.Context, req TransferReq) ([]Account, error) {
	from, err := s.repo.GetByIban(ctx, req.FromIban)
	if err != nil {
		return nil, err
	}
	// Funds are checked before the destination is even read; an overdraft
	// is the likeliest failure and needs no second round trip.
	if from.Balance.LessThan(req.Amount) {
		return nil, ErrForbidden{
			Description: "This account does not have enough amount to withdraw.",
		}
	}

	to, err := s.repo.GetByIban(ctx, req.ToIban)
	if err != nil {
		return nil, err
	}
	if to.Currency != from.Currency {
		return nil, ErrForbidden{
			Description: "Transfer between accounts with different currencies is not supported.",
		}
	}

	limit := s.limits.MaxAccountAmount()
	credited := to.Balance.Add(req.Amount)
	if credited.GreaterThan(limit) {
		return nil, ErrForbidden{
			Description: fmt.Sprintf("The account amount must not exceed %s.", limit),
		}
	}

	// Single atomic batch; a crash between independent writes would destroy
	// or mint money.
	return s.repo.UpsertMany(ctx, []Account{
		from.WithBalance(from.Balance.Sub(req.Amount)),
		to.WithBalance(credited),
	})
}
