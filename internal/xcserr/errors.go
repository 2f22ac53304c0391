// Package xcserr defines the error taxonomy shared by the learning engine.
// Every validation failure wraps one of these sentinels so callers can
// classify failures with errors.Is. They signal caller mistakes, not
// recoverable runtime conditions.
package xcserr

import (
	"errors"
	"fmt"
)

var (
	ErrNilValue        = errors.New("required value is nil")
	ErrEmptyCollection = errors.New("collection is empty")
	ErrWrongType       = errors.New("wrong argument type")
	ErrOutOfRange      = errors.New("value out of range")
	ErrProtocol        = errors.New("protocol violation")
	ErrIncomparable    = errors.New("symbols are not comparable")
)

// Nil reports a required argument that was nil.
func Nil(name string) error {
	return fmt.Errorf("%w: %s", ErrNilValue, name)
}

// Empty reports a required collection that was empty.
func Empty(name string) error {
	return fmt.Errorf("%w: %s", ErrEmptyCollection, name)
}

// WrongType reports an argument whose dynamic type does not match the
// expected one.
func WrongType(name, want string) error {
	return fmt.Errorf("%w: %s is not %s", ErrWrongType, name, want)
}

// OutOfRange reports a numeric argument outside its documented interval.
func OutOfRange(name string, min, max, got float64) error {
	return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrOutOfRange, name, got, min, max)
}

// Protocol reports misuse of a stateful call sequence.
func Protocol(msg string) error {
	return fmt.Errorf("%w: %s", ErrProtocol, msg)
}
