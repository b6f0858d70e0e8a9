package ibanledger

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"
)

type Middleware func(Service) Service

//
// Validation middleware
//

// validationMiddleware rejects malformed or out-of-bounds requests before
// they reach the service. The service itself performs no shape or ceiling
// checks on inputs; everything user-supplied is vetted here.
type validationMiddleware struct {
	next     Service
	gen      IbanGenerator
	limits   LimitsProvider
	validate *validator.Validate
}

var (
	_ Service = (*validationMiddleware)(nil)
)

func NewValidationMiddleware(gen IbanGenerator, limits LimitsProvider) Middleware {
	validate := validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return func(svc Service) Service {
		return &validationMiddleware{
			next:     svc,
			gen:      gen,
			limits:   limits,
			validate: validate,
		}
	}
}

func (v *validationMiddleware) GetByIban(ctx context.Context, iban string) (*Account, error) {
	if err := v.gen.Validate(iban); err != nil {
		return nil, ErrBadRequest{Fields: map[string]string{"iban": err.Error()}}
	}
	return v.next.GetByIban(ctx, strings.ToUpper(iban))
}

func (v *validationMiddleware) GetAll(ctx context.Context) ([]Account, error) {
	return v.next.GetAll(ctx)
}

func (v *validationMiddleware) CreateAccount(ctx context.Context, req CreateAccountReq) (*Account, error) {
	if fields := v.structFields(req); fields != nil {
		return nil, ErrBadRequest{Fields: fields}
	}
	currency := strings.ToUpper(req.Currency)
	supported := v.limits.SupportedCurrencies()
	var ok bool
	for _, c := range supported {
		if c == currency {
			ok = true
			break
		}
	}
	if !ok {
		return nil, ErrBadRequest{Fields: map[string]string{
			"currency": fmt.Sprintf(
				"Currency %s is either invalid or not supported. Supported currencies are: %s",
				req.Currency, strings.Join(supported, ", ")),
		}}
	}
	maxAcct := v.limits.MaxAccountAmount()
	if req.Balance.IsNegative() || req.Balance.GreaterThan(maxAcct) {
		return nil, ErrBadRequest{Fields: map[string]string{
			"balance": fmt.Sprintf("must be between 0 and %s", maxAcct),
		}}
	}
	req.Currency = currency
	return v.next.CreateAccount(ctx, req)
}

func (v *validationMiddleware) Deposit(ctx context.Context, req ChargeReq) (*Account, error) {
	if err := v.checkCharge(&req); err != nil {
		return nil, err
	}
	return v.next.Deposit(ctx, req)
}

func (v *validationMiddleware) Withdraw(ctx context.Context, req ChargeReq) (*Account, error) {
	if err := v.checkCharge(&req); err != nil {
		return nil, err
	}
	return v.next.Withdraw(ctx, req)
}

func (v *validationMiddleware) Transfer(ctx context.Context, req TransferReq) ([]Account, error) {
	if fields := v.structFields(req); fields != nil {
		return nil, ErrBadRequest{Fields: fields}
	}
	if err := v.gen.Validate(req.FromIban); err != nil {
		return nil, ErrBadRequest{Fields: map[string]string{"from_iban": err.Error()}}
	}
	if err := v.gen.Validate(req.ToIban); err != nil {
		return nil, ErrBadRequest{Fields: map[string]string{"to_iban": err.Error()}}
	}
	if err := v.checkTxnAmount(req.Amount); err != nil {
		return nil, err
	}
	req.FromIban = strings.ToUpper(req.FromIban)
	req.ToIban = strings.ToUpper(req.ToIban)
	return v.next.Transfer(ctx, req)
}

func (v *validationMiddleware) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	if err := v.gen.Validate(req.Iban); err != nil {
		return ErrBadRequest{Fields: map[string]string{"iban": err.Error()}}
	}
	req.Iban = strings.ToUpper(req.Iban)
	return v.next.Statement(ctx, w, req)
}

func (v *validationMiddleware) checkCharge(req *ChargeReq) error {
	if fields := v.structFields(*req); fields != nil {
		return ErrBadRequest{Fields: fields}
	}
	if err := v.gen.Validate(req.Iban); err != nil {
		return ErrBadRequest{Fields: map[string]string{"iban": err.Error()}}
	}
	if err := v.checkTxnAmount(req.Amount); err != nil {
		return err
	}
	req.Iban = strings.ToUpper(req.Iban)
	return nil
}

// checkTxnAmount enforces the per-transaction ceiling, both bounds exclusive.
func (v *validationMiddleware) checkTxnAmount(amount decimal.Decimal) error {
	maxTxn := v.limits.MaxTransactionAmount()
	if !amount.IsPositive() || !amount.LessThan(maxTxn) {
		return ErrBadRequest{Fields: map[string]string{
			"amount": fmt.Sprintf("must be greater than 0 and less than %s", maxTxn),
		}}
	}
	return nil
}

func (v *validationMiddleware) structFields(req interface{}) map[string]string {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["request"] = err.Error()
		return fields
	}
	for _, fe := range verrs {
		fields[strings.ToLower(fe.Field())] = fmt.Sprintf("failed `%s` validation", fe.Tag())
	}
	return fields
}

//
// Rate limiting middlewares
//

// DefaultAcquireTimeout bounds how long a request waits for an in-flight
// slot before being shed.
const DefaultAcquireTimeout = 2 * time.Second

// limitMiddleware caps the number of in-flight requests per operation with
// weighted semaphores acquired under a short timeout. Limits are static and
// tuned per deployment in configuration.
type limitMiddleware struct {
	next    Service
	limits  *ServiceLimits
	timeout time.Duration
}

var (
	_ Service = (*limitMiddleware)(nil)
)

type ServiceLimits struct {
	CreateAccount *semaphore.Weighted
	Charge        *semaphore.Weighted
	Transfer      *semaphore.Weighted
	Read          *semaphore.Weighted
	Statement     *semaphore.Weighted
}

func NewServiceLimits(cfg ConcurrencyConfig) *ServiceLimits {
	return &ServiceLimits{
		CreateAccount: semaphore.NewWeighted(cfg.CreateAccount),
		Charge:        semaphore.NewWeighted(cfg.Charge),
		Transfer:      semaphore.NewWeighted(cfg.Transfer),
		Read:          semaphore.NewWeighted(cfg.Read),
		Statement:     semaphore.NewWeighted(cfg.Statement),
	}
}

func NewLimitMiddleware(limits *ServiceLimits, timeout time.Duration) Middleware {
	return func(next Service) Service {
		return &limitMiddleware{
			next:    next,
			limits:  limits,
			timeout: timeout,
		}
	}
}

func (l *limitMiddleware) acquire(ctx context.Context, sem *semaphore.Weighted) (func(), error) {
	actx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	if err := sem.Acquire(actx, 1); err != nil {
		return nil, ErrInternalServer
	}
	return func() { sem.Release(1) }, nil
}

func (l *limitMiddleware) GetByIban(ctx context.Context, iban string) (*Account, error) {
	release, err := l.acquire(ctx, l.limits.Read)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.GetByIban(ctx, iban)
}

func (l *limitMiddleware) GetAll(ctx context.Context) ([]Account, error) {
	release, err := l.acquire(ctx, l.limits.Read)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.GetAll(ctx)
}

func (l *limitMiddleware) CreateAccount(ctx context.Context, req CreateAccountReq) (*Account, error) {
	release, err := l.acquire(ctx, l.limits.CreateAccount)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.CreateAccount(ctx, req)
}

func (l *limitMiddleware) Deposit(ctx context.Context, req ChargeReq) (*Account, error) {
	release, err := l.acquire(ctx, l.limits.Charge)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Deposit(ctx, req)
}

func (l *limitMiddleware) Withdraw(ctx context.Context, req ChargeReq) (*Account, error) {
	release, err := l.acquire(ctx, l.limits.Charge)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Withdraw(ctx, req)
}

func (l *limitMiddleware) Transfer(ctx context.Context, req TransferReq) ([]Account, error) {
	release, err := l.acquire(ctx, l.limits.Transfer)
	if err != nil {
		return nil, err
	}
	defer release()
	return l.next.Transfer(ctx, req)
}

func (l *limitMiddleware) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	release, err := l.acquire(ctx, l.limits.Statement)
	if err != nil {
		return err
	}
	defer release()
	return l.next.Statement(ctx, w, req)
}

//
// Circuit breaker middleware
//

type ServiceBreaker struct {
	CreateAccount *gobreaker.TwoStepCircuitBreaker[*Account]
	Charge        *gobreaker.TwoStepCircuitBreaker[*Account]
	Transfer      *gobreaker.TwoStepCircuitBreaker[[]Account]
	Read          *gobreaker.TwoStepCircuitBreaker[interface{}]
}

func NewServiceBreaker() *ServiceBreaker {
	return &ServiceBreaker{
		CreateAccount: gobreaker.NewTwoStepCircuitBreaker[*Account](
			gobreaker.Settings{Name: "create_account"}),
		Charge: gobreaker.NewTwoStepCircuitBreaker[*Account](
			gobreaker.Settings{Name: "charge"}),
		Transfer: gobreaker.NewTwoStepCircuitBreaker[[]Account](
			gobreaker.Settings{Name: "transfer"}),
		Read: gobreaker.NewTwoStepCircuitBreaker[interface{}](
			gobreaker.Settings{Name: "read"}),
	}
}

// circuitBreakMiddleware short-circuits operations while the storage backend
// is struggling. Business errors (not found, forbidden, bad request) are
// reported as successes so user mistakes never trip the breaker; only
// infrastructure faults count against it.
type circuitBreakMiddleware struct {
	next  Service
	brkrs *ServiceBreaker
}

var (
	_ Service = (*circuitBreakMiddleware)(nil)
)

func NewCircuitBreakMiddleware(brkrs *ServiceBreaker) Middleware {
	return func(next Service) Service {
		return &circuitBreakMiddleware{
			next:  next,
			brkrs: brkrs,
		}
	}
}

func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	switch err.(type) {
	case ErrNotFound, ErrForbidden, ErrBadRequest:
		return true
	}
	return false
}

func (c *circuitBreakMiddleware) GetByIban(ctx context.Context, iban string) (*Account, error) {
	done, err := c.brkrs.Read.Allow()
	if err != nil {
		return nil, ErrInternalServer
	}
	acct, err := c.next.GetByIban(ctx, iban)
	done(breakerSuccess(err))
	return acct, err
}

func (c *circuitBreakMiddleware) GetAll(ctx context.Context) ([]Account, error) {
	done, err := c.brkrs.Read.Allow()
	if err != nil {
		return nil, ErrInternalServer
	}
	accts, err := c.next.GetAll(ctx)
	done(breakerSuccess(err))
	return accts, err
}

func (c *circuitBreakMiddleware) CreateAccount(ctx context.Context, req CreateAccountReq) (*Account, error) {
	done, err := c.brkrs.CreateAccount.Allow()
	if err != nil {
		return nil, ErrInternalServer
	}
	acct, err := c.next.CreateAccount(ctx, req)
	done(breakerSuccess(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Deposit(ctx context.Context, req ChargeReq) (*Account, error) {
	done, err := c.brkrs.Charge.Allow()
	if err != nil {
		return nil, ErrInternalServer
	}
	acct, err := c.next.Deposit(ctx, req)
	done(breakerSuccess(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Withdraw(ctx context.Context, req ChargeReq) (*Account, error) {
	done, err := c.brkrs.Charge.Allow()
	if err != nil {
		return nil, ErrInternalServer
	}
	acct, err := c.next.Withdraw(ctx, req)
	done(breakerSuccess(err))
	return acct, err
}

func (c *circuitBreakMiddleware) Transfer(ctx context.Context, req TransferReq) ([]Account, error) {
	done, err := c.brkrs.Transfer.Allow()
	if err != nil {
		return nil, ErrInternalServer
	}
	accts, err := c.next.Transfer(ctx, req)
	done(breakerSuccess(err))
	return accts, err
}

func (c *circuitBreakMiddleware) Statement(ctx context.Context, w io.Writer, req StatementReq) error {
	done, err := c.brkrs.Read.Allow()
	if err != nil {
		return ErrInternalServer
	}
	err = c.next.Statement(ctx, w, req)
	done(breakerSuccess(err))
	return err
}
