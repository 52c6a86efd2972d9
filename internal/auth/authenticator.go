// Package auth resolves a short access code to a tenant snapshot. The code
// is the sole credential; numeric fixed-length codes are a keypad
// convention, not something this package enforces.
package auth

import (
    "context"
    "errors"
    "log"
    "strings"

    "github.com/iliyamo/palate-sommelier/internal/menu"
    "github.com/iliyamo/palate-sommelier/internal/model"
    "github.com/iliyamo/palate-sommelier/internal/repository"
)

// ErrEmptyCode is returned for a blank code before any lookup happens.
var ErrEmptyCode = errors.New("access code required")

// ErrInvalidCredentials covers both "no such code" and "the directory could
// not be reached". The two are intentionally indistinguishable to the
// caller: a different answer for each would leak which codes exist and
// whether the backing store is up. The real cause is logged internally.
var ErrInvalidCredentials = errors.New("invalid access code")

// Directory is the slice of the tenant store the authenticator depends on.
// Injected rather than reached for globally so tests can swap in a double.
type Directory interface {
    FindByAccessCode(ctx context.Context, code string) (repository.TenantRow, error)
}

// Snapshot is the immutable point-in-time view of a tenant handed to a
// caller after a successful login. It is a copy: mutating it never touches
// the directory.
type Snapshot struct {
    TenantID    string
    DisplayName string
    Theme       string
    MenuVersion uint64
    Menu        []model.MenuCategory
}

// Authenticator performs access-code lookups. It has no side effects: it
// neither creates nor mutates sessions, that is the caller's job.
type Authenticator struct {
    dir Directory
}

func New(dir Directory) *Authenticator { return &Authenticator{dir: dir} }

// Authenticate resolves a candidate code to a tenant snapshot. The stored
// menu is an external payload and goes through full schema validation
// before it is trusted; a tenant whose stored menu is malformed fails the
// same way an unreachable directory does.
func (a *Authenticator) Authenticate(ctx context.Context, code string) (Snapshot, error) {
    if strings.TrimSpace(code) == "" {
        return Snapshot{}, ErrEmptyCode
    }
    row, err := a.dir.FindByAccessCode(ctx, code)
    if err != nil {
        if err != repository.ErrTenantNotFound {
            log.Printf("auth: tenant lookup failed: %v", err)
        }
        return Snapshot{}, ErrInvalidCredentials
    }
    tree, err := menu.ValidateJSON(row.MenuJSON)
    if err != nil {
        log.Printf("auth: stored menu for tenant %s is invalid: %v", row.ID, err)
        return Snapshot{}, ErrInvalidCredentials
    }
    return Snapshot{
        TenantID:    row.ID,
        DisplayName: row.Name,
        Theme:       row.Theme,
        MenuVersion: row.MenuVersion,
        Menu:        tree,
    }, nil
}
