package ibanledger_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hryvna/ibanledger"
	"github.com/hryvna/ibanledger/mocks"
)

func newTestService(t *testing.T, repo ibanledger.Repository, limits ibanledger.LimitsProvider) ibanledger.Service {
	t.Helper()
	log := zerolog.Nop()
	svc, err := ibanledger.NewService(repo, ibanledger.NewIbanGenerator(), limits, "UA", &log)
	require.NoError(t, err)
	return svc
}

func TestNewService(t *testing.T) {
	t.Run("returns an error when the issuing country is unknown", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		log := zerolog.Nop()
		_, err := ibanledger.NewService(repo, ibanledger.NewIbanGenerator(), limits, "XX", &log)
		as.NotNil(err)
	})
}

func TestCreateAccount(t *testing.T) {
	t.Run("creates an account retrievable by its IBAN", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		initial := decimal.New(1000, -1)
		var stored ibanledger.Account
		repo.EXPECT().
			Upsert(gomock.Any(), gomock.AssignableToTypeOf(ibanledger.Account{})).
			DoAndReturn(func(_ context.Context, a ibanledger.Account) (*ibanledger.Account, error) {
				a.ID = 7241301734201495552
				stored = a
				return &a, nil
			})
		acct, err := svc.CreateAccount(context.Background(), ibanledger.CreateAccountReq{
			Currency: "USD",
			Balance:  initial,
		})
		reqrd.Nil(err)
		as.True(strings.HasPrefix(acct.Iban, "UA"))
		as.Len(acct.Iban, 29)
		as.Equal("USD", acct.Currency)
		as.True(initial.Equal(acct.Balance))
		as.False(acct.CreatedAt.IsZero())
		as.NotZero(acct.ID)

		repo.EXPECT().
			GetByIban(gomock.Any(), stored.Iban).
			Return(&stored, nil)
		got, err := svc.GetByIban(context.Background(), stored.Iban)
		reqrd.Nil(err)
		as.Equal("USD", got.Currency)
		as.True(initial.Equal(got.Balance))
	})
}

func TestGetByIban(t *testing.T) {
	t.Run("propagates not found from the store", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		repo.EXPECT().
			GetByIban(gomock.Any(), "UA000000000000000000000000000").
			Return(nil, ibanledger.ErrNotFound{Iban: "UA000000000000000000000000000"})
		_, err := svc.GetByIban(context.Background(), "UA000000000000000000000000000")
		as.ErrorAs(err, &ibanledger.ErrNotFound{})
	})

	t.Run("repeated reads with no mutation return identical values", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		acct := ibanledger.Account{
			Iban:     "UA903052992990004149123456789",
			Currency: "USD",
			Balance:  decimal.NewFromInt(100),
		}
		repo.EXPECT().
			GetByIban(gomock.Any(), acct.Iban).
			Return(&acct, nil).
			Times(2)
		first, err := svc.GetByIban(context.Background(), acct.Iban)
		as.Nil(err)
		second, err := svc.GetByIban(context.Background(), acct.Iban)
		as.Nil(err)
		as.Equal(first, second)
	})
}

func TestDeposit(t *testing.T) {
	iban := "UA903052992990004149123456789"

	t.Run("adds the amount to the balance", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		acct := ibanledger.Account{Iban: iban, Currency: "USD", Balance: decimal.NewFromInt(100)}
		repo.EXPECT().
			GetByIban(gomock.Any(), iban).
			Return(&acct, nil)
		limits.EXPECT().
			MaxAccountAmount().
			Return(decimal.NewFromInt(200))
		repo.EXPECT().
			Upsert(gomock.Any(), gomock.AssignableToTypeOf(ibanledger.Account{})).
			DoAndReturn(func(_ context.Context, a ibanledger.Account) (*ibanledger.Account, error) {
				return &a, nil
			})

		updated, err := svc.Deposit(context.Background(), ibanledger.ChargeReq{
			Iban:   iban,
			Amount: decimal.NewFromInt(50),
		})
		reqrd.Nil(err)
		as.True(decimal.NewFromInt(150).Equal(updated.Balance))
	})

	t.Run("fails forbidden when the account ceiling would be exceeded", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		acct := ibanledger.Account{Iban: iban, Currency: "USD", Balance: decimal.NewFromInt(100)}
		repo.EXPECT().
			GetByIban(gomock.Any(), iban).
			Return(&acct, nil)
		limits.EXPECT().
			MaxAccountAmount().
			Return(decimal.NewFromInt(200))

		_, err := svc.Deposit(context.Background(), ibanledger.ChargeReq{
			Iban:   iban,
			Amount: decimal.NewFromInt(150),
		})
		fbdn := ibanledger.ErrForbidden{}
		as.ErrorAs(err, &fbdn)
		as.Equal("The account amount must not exceed 200.", fbdn.Description)
	})

	t.Run("propagates not found unchanged", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		repo.EXPECT().
			GetByIban(gomock.Any(), iban).
			Return(nil, ibanledger.ErrNotFound{Iban: iban})
		_, err := svc.Deposit(context.Background(), ibanledger.ChargeReq{
			Iban:   iban,
			Amount: decimal.NewFromInt(50),
		})
		as.ErrorAs(err, &ibanledger.ErrNotFound{})
	})
}

func TestWithdraw(t *testing.T) {
	iban := "UA903052992990004149123456789"

	t.Run("subtracts the amount from the balance", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		acct := ibanledger.Account{Iban: iban, Currency: "USD", Balance: decimal.NewFromInt(100)}
		repo.EXPECT().
			GetByIban(gomock.Any(), iban).
			Return(&acct, nil)
		repo.EXPECT().
			Upsert(gomock.Any(), gomock.AssignableToTypeOf(ibanledger.Account{})).
			DoAndReturn(func(_ context.Context, a ibanledger.Account) (*ibanledger.Account, error) {
				return &a, nil
			})

		updated, err := svc.Withdraw(context.Background(), ibanledger.ChargeReq{
			Iban:   iban,
			Amount: decimal.NewFromInt(30),
		})
		reqrd.Nil(err)
		as.True(decimal.NewFromInt(70).Equal(updated.Balance))
	})

	t.Run("fails forbidden on insufficient funds", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		acct := ibanledger.Account{Iban: iban, Currency: "USD", Balance: decimal.NewFromInt(50)}
		repo.EXPECT().
			GetByIban(gomock.Any(), iban).
			Return(&acct, nil)

		_, err := svc.Withdraw(context.Background(), ibanledger.ChargeReq{
			Iban:   iban,
			Amount: decimal.NewFromInt(100),
		})
		fbdn := ibanledger.ErrForbidden{}
		as.ErrorAs(err, &fbdn)
		as.Equal("This account does not have enough amount to withdraw.", fbdn.Description)
	})
}

func TestTransfer(t *testing.T) {
	fromIban := "UA903052992990004149123456789"
	toIban := "UA213223130000026007233566001"

	t.Run("moves the amount and conserves the total", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		from := ibanledger.Account{Iban: fromIban, Currency: "USD", Balance: decimal.NewFromInt(200)}
		to := ibanledger.Account{Iban: toIban, Currency: "USD", Balance: decimal.NewFromInt(100)}
		repo.EXPECT().GetByIban(gomock.Any(), fromIban).Return(&from, nil)
		repo.EXPECT().GetByIban(gomock.Any(), toIban).Return(&to, nil)
		limits.EXPECT().
			MaxAccountAmount().
			Return(decimal.NewFromInt(500))
		repo.EXPECT().
			UpsertMany(gomock.Any(), gomock.AssignableToTypeOf([]ibanledger.Account{})).
			DoAndReturn(func(_ context.Context, accts []ibanledger.Account) ([]ibanledger.Account, error) {
				return accts, nil
			})

		updated, err := svc.Transfer(context.Background(), ibanledger.TransferReq{
			FromIban: fromIban,
			ToIban:   toIban,
			Amount:   decimal.NewFromInt(50),
		})
		reqrd.Nil(err)
		reqrd.Len(updated, 2)
		as.Equal(fromIban, updated[0].Iban)
		as.Equal(toIban, updated[1].Iban)
		as.True(decimal.NewFromInt(150).Equal(updated[0].Balance))
		as.True(decimal.NewFromInt(150).Equal(updated[1].Balance))

		before := from.Balance.Add(to.Balance)
		after := updated[0].Balance.Add(updated[1].Balance)
		as.True(before.Equal(after))
	})

	t.Run("fails forbidden on currency mismatch and mutates neither account", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		from := ibanledger.Account{Iban: fromIban, Currency: "USD", Balance: decimal.NewFromInt(200)}
		to := ibanledger.Account{Iban: toIban, Currency: "EUR", Balance: decimal.NewFromInt(100)}
		repo.EXPECT().GetByIban(gomock.Any(), fromIban).Return(&from, nil)
		repo.EXPECT().GetByIban(gomock.Any(), toIban).Return(&to, nil)

		_, err := svc.Transfer(context.Background(), ibanledger.TransferReq{
			FromIban: fromIban,
			ToIban:   toIban,
			Amount:   decimal.NewFromInt(100),
		})
		fbdn := ibanledger.ErrForbidden{}
		as.ErrorAs(err, &fbdn)
		as.Equal("Transfer between accounts with different currencies is not supported.", fbdn.Description)
	})

	t.Run("checks funds before reading the destination", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		from := ibanledger.Account{Iban: fromIban, Currency: "USD", Balance: decimal.NewFromInt(10)}
		repo.EXPECT().GetByIban(gomock.Any(), fromIban).Return(&from, nil)

		_, err := svc.Transfer(context.Background(), ibanledger.TransferReq{
			FromIban: fromIban,
			ToIban:   toIban,
			Amount:   decimal.NewFromInt(50),
		})
		fbdn := ibanledger.ErrForbidden{}
		as.ErrorAs(err, &fbdn)
		as.Equal("This account does not have enough amount to withdraw.", fbdn.Description)
	})

	t.Run("fails forbidden when the destination would exceed the ceiling", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		from := ibanledger.Account{Iban: fromIban, Currency: "USD", Balance: decimal.NewFromInt(200)}
		to := ibanledger.Account{Iban: toIban, Currency: "USD", Balance: decimal.NewFromInt(480)}
		repo.EXPECT().GetByIban(gomock.Any(), fromIban).Return(&from, nil)
		repo.EXPECT().GetByIban(gomock.Any(), toIban).Return(&to, nil)
		limits.EXPECT().
			MaxAccountAmount().
			Return(decimal.NewFromInt(500))

		_, err := svc.Transfer(context.Background(), ibanledger.TransferReq{
			FromIban: fromIban,
			ToIban:   toIban,
			Amount:   decimal.NewFromInt(50),
		})
		fbdn := ibanledger.ErrForbidden{}
		as.ErrorAs(err, &fbdn)
		as.Equal("The account amount must not exceed 500.", fbdn.Description)
	})

	t.Run("propagates not found for the source account", func(tt *testing.T) {
		as := assert.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		repo.EXPECT().
			GetByIban(gomock.Any(), fromIban).
			Return(nil, ibanledger.ErrNotFound{Iban: fromIban})
		_, err := svc.Transfer(context.Background(), ibanledger.TransferReq{
			FromIban: fromIban,
			ToIban:   toIban,
			Amount:   decimal.NewFromInt(50),
		})
		as.ErrorAs(err, &ibanledger.ErrNotFound{})
	})
}

func TestStatement(t *testing.T) {
	t.Run("renders a PDF for an existing account", func(tt *testing.T) {
		as := assert.New(tt)
		reqrd := require.New(tt)
		ctrl := gomock.NewController(tt)
		repo := mocks.NewMockRepository(ctrl)
		limits := mocks.NewMockLimitsProvider(ctrl)
		svc := newTestService(tt, repo, limits)

		acct := ibanledger.Account{
			Iban:     "UA903052992990004149123456789",
			Currency: "USD",
			Balance:  decimal.NewFromInt(100),
		}
		repo.EXPECT().
			GetByIban(gomock.Any(), acct.Iban).
			Return(&acct, nil)

		buf := new(bytes.Buffer)
		err := svc.Statement(context.Background(), buf, ibanledger.StatementReq{Iban: acct.Iban})
		reqrd.Nil(err)
		as.True(bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	})
}
