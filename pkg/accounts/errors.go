package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrAccountBorrowFailed = errors.New("AccountBorrowFailed")
	ErrInvalidRealloc      = errors.New("InvalidRealloc")

	ErrDataBorrowShared        = fmt.Errorf("%w: account data already borrowed", ErrAccountBorrowFailed)
	ErrDataBorrowExclusive     = fmt.Errorf("%w: account data already mutably borrowed", ErrAccountBorrowFailed)
	ErrLamportsBorrowShared    = fmt.Errorf("%w: account lamports already borrowed", ErrAccountBorrowFailed)
	ErrLamportsBorrowExclusive = fmt.Errorf("%w: account lamports already mutably borrowed", ErrAccountBorrowFailed)
)
