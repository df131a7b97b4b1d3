package httperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindSlotUnavailable
	KindInvalidTransition
	KindPersistence
	KindNotificationSend
)

type BusinessError struct {
	Kind Kind
	Code string
	Err  error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Err
}

// ErrBusiness marca uma entrada inválida (400)
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

// ErrSlotUnavailable carrega o motivo da indisponibilidade no Err
func ErrSlotUnavailable(reason string) error {
	return BusinessError{
		Kind: KindSlotUnavailable,
		Code: "slot_unavailable",
		Err:  errors.New(reason),
	}
}

func ErrInvalidTransition(from, to string) error {
	return BusinessError{
		Kind: KindInvalidTransition,
		Code: "invalid_transition",
		Err:  fmt.Errorf("%s -> %s", from, to),
	}
}

func ErrPersistence(err error) error {
	return BusinessError{Kind: KindPersistence, Code: "persistence_failed", Err: err}
}

func ErrNotificationSend(err error) error {
	return BusinessError{Kind: KindNotificationSend, Code: "notification_send_failed", Err: err}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

// Reason returns the wrapped detail of a business error ("" when none).
func Reason(err error) string {
	var be BusinessError
	if errors.As(err, &be) && be.Err != nil {
		return be.Err.Error()
	}
	return ""
}
