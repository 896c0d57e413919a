package database

import "errors"

// Set of error variables for constructing and signing ledger values.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrSigning         = errors.New("signing failed")
	ErrUnsigned        = errors.New("transaction is not signed")
)
