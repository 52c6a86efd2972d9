package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strings"

    "github.com/iliyamo/palate-sommelier/internal/menu"
    "github.com/iliyamo/palate-sommelier/internal/model"
)

// TenantRow mirrors the 'tenants' table. The menu column is kept as raw
// JSON here: whatever sits in the database is an external payload and must
// pass menu.Validate before anything downstream trusts its shape.
type TenantRow struct {
    ID          string          // tenants.id
    Name        string          // tenants.name
    AccessCode  string          // tenants.access_code (unique)
    Theme       string          // tenants.theme
    MenuJSON    json.RawMessage // tenants.menu (JSON column)
    MenuVersion uint64          // tenants.menu_version
}

type TenantRepo struct{ DB *sql.DB }

func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{DB: db} }

// FindByAccessCode fetches a tenant by exact access-code match.
func (r *TenantRepo) FindByAccessCode(ctx context.Context, code string) (TenantRow, error) {
    var t TenantRow
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,name,access_code,theme,menu,menu_version FROM tenants WHERE access_code=? LIMIT 1",
        code).Scan(&t.ID, &t.Name, &t.AccessCode, &t.Theme, &t.MenuJSON, &t.MenuVersion)
    if err == sql.ErrNoRows {
        return TenantRow{}, ErrTenantNotFound
    }
    return t, err
}

// ReplaceMenu swaps the tenant's entire menu document in one atomic UPDATE,
// guarded by the version the caller loaded the working tree at. The version
// bump and the compare happen in the same statement, so two concurrent
// commits can never interleave: the second one sees no matching row and
// gets menu.ErrVersionConflict.
func (r *TenantRepo) ReplaceMenu(ctx context.Context, tenantID string, version uint64, tree []model.MenuCategory) error {
    doc, err := json.Marshal(tree)
    if err != nil {
        return err
    }
    res, err := r.DB.ExecContext(ctx,
        "UPDATE tenants SET menu=?, menu_version=menu_version+1 WHERE id=? AND menu_version=?",
        doc, tenantID, version)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        var cur uint64
        err := r.DB.QueryRowContext(ctx,
            "SELECT menu_version FROM tenants WHERE id=? LIMIT 1", tenantID).Scan(&cur)
        if err == sql.ErrNoRows {
            return ErrTenantNotFound
        }
        if err != nil {
            return err
        }
        return menu.ErrVersionConflict
    }
    return nil
}

// Upsert inserts or refreshes a tenant record. Used by the bulk loader; the
// access code is copied verbatim from the source file.
func (r *TenantRepo) Upsert(ctx context.Context, t TenantRow) error {
    if len(t.MenuJSON) == 0 {
        t.MenuJSON = json.RawMessage("[]")
    }
    _, err := r.DB.ExecContext(ctx,
        `INSERT INTO tenants (id, name, access_code, theme, menu)
         VALUES (?,?,?,?,?)
         ON DUPLICATE KEY UPDATE name=VALUES(name), access_code=VALUES(access_code),
            theme=VALUES(theme), menu=VALUES(menu)`,
        t.ID, strings.TrimSpace(t.Name), t.AccessCode, t.Theme, []byte(t.MenuJSON))
    return err
}
