package entitlement

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidKeyFormat = errors.New("invalid_key_format")
	ErrDuplicateKey     = errors.New("duplicate_key")
	ErrUnknownFeature   = errors.New("unknown_feature")
	ErrTypeMismatch     = errors.New("type_mismatch")
)

// KeyError wraps a sentinel with the feature key that triggered it.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Key)
}

func (e *KeyError) Unwrap() error { return e.Err }

// TypeMismatchError reports the expected and actual value types for a key.
type TypeMismatchError struct {
	Key  string
	Want DataType
	Got  DataType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type_mismatch: %s expects %s, got %s", e.Key, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

func keyError(key string, sentinel error) error {
	return &KeyError{Key: key, Err: sentinel}
}
