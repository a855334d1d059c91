// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a storage-level uniqueness conflict, typically two
// concurrent onboardings racing on the same tenant identifier or database name.
var ErrConflict = errors.New("conflict: unique constraint violated")

// ErrValidation indicates malformed input rejected before any side effect.
var ErrValidation = errors.New("validation failed")

// ErrTenantContext indicates tenant-scoped state was used before a tenant
// was resolved and bound to the request. This is a programming-contract
// violation, fatal for the request.
var ErrTenantContext = errors.New("no tenant bound to request context")
