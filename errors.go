package mint

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound         = errors.New("mint: not found")
	ErrAlreadyExists    = errors.New("mint: already exists")
	ErrInvalidInput     = errors.New("mint: invalid input")
	ErrPermissionDenied = errors.New("mint: permission denied")

	// Economy errors
	ErrEconomyNotFound = errors.New("mint: economy not found")
	ErrEconomyExists   = errors.New("mint: currency name already in use")
	ErrGuildNotBound   = errors.New("mint: guild is not bound to an economy")
	ErrGuildBound      = errors.New("mint: guild is already bound to an economy")
	ErrOwnerGuild      = errors.New("mint: cannot unbind an economy's owner guild")

	// Account errors
	ErrAccountNotFound  = errors.New("mint: account not found")
	ErrAccountExists    = errors.New("mint: account name already in use")
	ErrAccountClosed    = errors.New("mint: account is closed")
	ErrUserAccountTaken = errors.New("mint: principal already owns a user account in this economy")
	ErrNameTooLong      = errors.New("mint: account name too long")

	// Transfer errors
	ErrInsufficientFunds = errors.New("mint: insufficient funds")
	ErrCrossEconomy      = errors.New("mint: accounts belong to different economies")
	ErrInvalidAmount     = errors.New("mint: amount must be positive")
	ErrTransferNotFound  = errors.New("mint: recurring transfer not found")
	ErrInvalidInterval   = errors.New("mint: interval must be positive")

	// Tax bracket errors
	ErrBracketNotFound     = errors.New("mint: tax bracket not found")
	ErrBracketExists       = errors.New("mint: tax bracket name already in use")
	ErrInvalidRate         = errors.New("mint: tax rate must be between 0 and 100")
	ErrInvalidBracketRange = errors.New("mint: bracket start must be below its end")

	// Store errors
	ErrStoreNotReady   = errors.New("mint: store not ready")
	ErrStoreClosed     = errors.New("mint: store is closed")
	ErrMigrationFailed = errors.New("mint: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("mint: validation failed for %s: %s", e.Field, e.Message)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEconomyNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrBracketNotFound) ||
		errors.Is(err, ErrTransferNotFound) ||
		errors.Is(err, ErrGuildNotBound)
}

// IsPermissionDenied returns true if the error is an authorization failure.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsInsufficientFunds returns true if the error is a balance shortfall.
func IsInsufficientFunds(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsConflict returns true if the error is a uniqueness or state conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEconomyExists) ||
		errors.Is(err, ErrAccountExists) ||
		errors.Is(err, ErrUserAccountTaken) ||
		errors.Is(err, ErrBracketExists)
}
