package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrBalanceExceeded is also an ErrInvalidInput.
	ErrBalanceExceeded = fmt.Errorf("%w: invoice value exceeds contract balance", ErrInvalidInput)
)
