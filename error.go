package ibanledger

import (
	"errors"
	"fmt"
)

var (
	ErrInternalServer = errors.New("internal server error")
)

// ErrBadRequest is returned by the validation middleware when a request
// fails shape or bounds checks before reaching the service.
type ErrBadRequest struct {
	Fields map[string]string `json:"fields"`
}

func (e ErrBadRequest) Error() string {
	return fmt.Sprintf("missing/invalid params: %v", e.Fields)
}

// ErrNotFound is returned when the referenced IBAN does not exist.
type ErrNotFound struct {
	Iban string `json:"iban"`
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("Account with IBAN %s was not found", e.Iban)
}

// ErrForbidden is a business-rule violation: insufficient funds, a breached
// ceiling, or a cross-currency transfer. Description is user-facing and is
// carried losslessly to the HTTP response.
type ErrForbidden struct {
	Description string `json:"error"`
}

func (e ErrForbidden) Error() string {
	return e.Description
}

// ErrUnexpected wraps a storage or infrastructure fault. The underlying
// message is passed through verbatim.
type ErrUnexpected struct {
	Cause error
}

func (e ErrUnexpected) Error() string {
	return e.Cause.Error()
}

func (e ErrUnexpected) Unwrap() error {
	return e.Cause
}
