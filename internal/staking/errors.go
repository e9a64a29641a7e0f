package staking

import (
	"errors"
	"fmt"
)

// Base error kinds. Every failure raised by this package wraps exactly one of
// them, so callers can match on the kind or on the concrete failure.
var (
	ErrAuthorization     = errors.New("authorization error")
	ErrState             = errors.New("state error")
	ErrValidation        = errors.New("validation error")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrArithmetic        = errors.New("arithmetic overflow")
	ErrDecode            = errors.New("decode error")
)

var (
	ErrMissingSignature       = fmt.Errorf("%w: missing required signature", ErrAuthorization)
	ErrNotPoolOwner           = fmt.Errorf("%w: signer is not the pool owner", ErrAuthorization)
	ErrWrongPositionOwner     = fmt.Errorf("%w: position belongs to another participant", ErrAuthorization)
	ErrNotOwnedByProgram      = fmt.Errorf("%w: account is not owned by this program", ErrState)
	ErrPoolAccountNotFound    = fmt.Errorf("%w: pool account has not been allocated", ErrState)
	ErrPoolUninitialized      = fmt.Errorf("%w: pool is not initialized", ErrState)
	ErrPoolAlreadyInitialized = fmt.Errorf("%w: pool is already initialized", ErrState)
	ErrPositionUninitialized  = fmt.Errorf("%w: position is not initialized", ErrState)
	ErrMissingAccounts        = fmt.Errorf("%w: operation is missing required accounts", ErrValidation)
	ErrEpochOutOfOrder        = fmt.Errorf("%w: epoch start must be after the current epoch end", ErrValidation)
	ErrEmptyEpochWindow       = fmt.Errorf("%w: epoch end must be after epoch start", ErrValidation)
	ErrAlreadyClaimed         = fmt.Errorf("%w: reward already claimed for this epoch", ErrValidation)
)
