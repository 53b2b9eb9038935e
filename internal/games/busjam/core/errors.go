package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSeatsAvailable is returned when a customer is assigned to a full bus.
	ErrNoSeatsAvailable = errors.New("no seats available")
	// ErrNoStandAvailable is returned when every stand is occupied.
	ErrNoStandAvailable = errors.New("no stand available")
	// ErrUnresolvedNode is logged when a position maps to no navigation node.
	ErrUnresolvedNode = errors.New("position resolves to no navigation node")
	// ErrEmptyQueue is returned when an operation needs a current bus and there is none.
	ErrEmptyQueue = errors.New("bus queue is empty")
	// ErrInvalidConfig wraps every level configuration failure.
	ErrInvalidConfig = errors.New("invalid level configuration")
	// ErrCustomerUnavailable is returned when selecting a customer that cannot move.
	ErrCustomerUnavailable = errors.New("customer unavailable")
	// ErrUnknownCustomer is returned for ids that are not customers of the level.
	ErrUnknownCustomer = errors.New("unknown customer")
	// ErrLevelNotRunning is returned for input outside the running phase.
	ErrLevelNotRunning = errors.New("level is not running")
)

// ValidationError contains details about a configuration failure.
// It matches ErrInvalidConfig with errors.Is.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrInvalidConfig) match any ValidationError.
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func invalid(code, format string, args ...any) error {
	return ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}
