// Package vault provides error types for vault scanning.
package vault

import "errors"

// Sentinel errors for scope validation.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrScopeOutsideVault indicates the requested scope escapes the vault
	// root. Nothing is scanned or written when this is returned.
	ErrScopeOutsideVault = errors.New("scope outside vault root")

	// ErrScopeNotFound indicates the requested scope directory does not exist.
	ErrScopeNotFound = errors.New("scope not found")
)
