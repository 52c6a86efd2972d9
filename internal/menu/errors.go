// Package menu implements the tenant menu core: schema validation of
// untrusted payloads, immutable edit operations on a working tree, the
// filtered search view and the pairing tier lookup. Error values defined
// here are shared contracts between the engine, the storage layer and the
// HTTP handlers; handlers translate them into status codes.
package menu

import (
    "errors"
    "fmt"
    "strings"
)

// ErrIndexOutOfRange is wrapped by IndexError so callers can match the
// whole class with errors.Is. Handlers should translate it into HTTP 422.
var ErrIndexOutOfRange = errors.New("menu index out of range")

// ErrPersistence is returned when the storage layer fails during a commit.
// It is deliberately generic: the underlying cause is logged internally and
// never forwarded to the caller.
var ErrPersistence = errors.New("menu could not be saved")

// ErrVersionConflict is returned by a Store when the tenant's stored menu
// has been replaced since the working tree was loaded. Handlers should
// translate it into HTTP 409.
var ErrVersionConflict = errors.New("menu version conflict")

// ErrUnknownTier signals a pairing lookup with a tier id that is not one of
// the three defined bands. Valid trees can never trigger it; seeing it means
// validation was bypassed somewhere upstream.
var ErrUnknownTier = errors.New("unknown pairing tier")

// IndexError reports which index pair an edit operation failed on. Item is
// -1 for operations that only address a category.
type IndexError struct {
    Category int
    Item     int
}

func (e *IndexError) Error() string {
    if e.Item < 0 {
        return fmt.Sprintf("menu index out of range: category %d", e.Category)
    }
    return fmt.Sprintf("menu index out of range: category %d, item %d", e.Category, e.Item)
}

// Unwrap lets errors.Is(err, ErrIndexOutOfRange) match.
func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// ValidationError aggregates every schema violation found in a candidate
// menu. Validation never stops at the first problem, so the caller can
// report the complete list in one go.
type ValidationError struct {
    Violations []string
}

func (e *ValidationError) Error() string {
    return "invalid menu: " + strings.Join(e.Violations, "; ")
}
