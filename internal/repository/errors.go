// Package repository implements the tenant directory on top of MySQL. The
// sentinel values defined here let higher layers distinguish "the tenant
// does not exist" from transport failures; the authenticator deliberately
// collapses that distinction again before it reaches a client.
package repository

import "errors"

// ErrTenantNotFound is returned when no tenant matches the given key. The
// auth layer folds it into a generic invalid-credentials response so the
// API never reveals which access codes exist.
var ErrTenantNotFound = errors.New("tenant not found")
