package core

import "errors"

var (
	ErrNotFound          = errors.New("harness: not found")
	ErrSpecNotFound      = errors.New("harness: spec not found")
	ErrComponentNotFound = errors.New("harness: component not found")
	ErrInvalidSpecName   = errors.New("harness: invalid spec name")
	ErrInvalidHeight     = errors.New("harness: invalid height")
	ErrCompile           = errors.New("harness: compile failed")
)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrSpecNotFound)
}
