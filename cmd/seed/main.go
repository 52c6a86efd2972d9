// Command seed bulk-loads a file-based tenant list into the MySQL tenant
// directory. It reads data/tenants.json plus one menu document per tenant
// from data/menus/<id>.json, copying each access code verbatim. A missing
// menu file gets an empty menu; a malformed one is reported and replaced
// with an empty menu as well. One bad tenant never aborts the batch.
package main

import (
    "context"
    "encoding/json"
    "log"
    "os"
    "path/filepath"
    "time"

    "github.com/joho/godotenv"

    "github.com/iliyamo/palate-sommelier/internal/config"
    "github.com/iliyamo/palate-sommelier/internal/database"
    "github.com/iliyamo/palate-sommelier/internal/menu"
    "github.com/iliyamo/palate-sommelier/internal/repository"
)

// seedTenant mirrors one entry of tenants.json.
type seedTenant struct {
    ID         string `json:"id"`
    Name       string `json:"name"`
    AccessCode string `json:"accessCode"`
    Theme      string `json:"theme"`
}

// menuFile matches the on-disk menu document wrapper ({"menu": [...]}).
type menuFile struct {
    Menu json.RawMessage `json:"menu"`
}

func main() {
    _ = godotenv.Load()
    cfg := config.Load()

    dataDir := os.Getenv("DATA_DIR")
    if dataDir == "" {
        dataDir = "data"
    }

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
    defer cancel()
    if err := database.EnsureSchema(ctx, db); err != nil {
        log.Fatalf("schema: %v", err)
    }

    raw, err := os.ReadFile(filepath.Join(dataDir, "tenants.json"))
    if err != nil {
        log.Fatalf("read tenants.json: %v", err)
    }
    var tenants []seedTenant
    if err := json.Unmarshal(raw, &tenants); err != nil {
        log.Fatalf("parse tenants.json: %v", err)
    }

    repo := repository.NewTenantRepo(db)
    ok := 0
    for _, t := range tenants {
        log.Printf("processing tenant %s (%s)", t.Name, t.ID)
        doc := loadMenu(filepath.Join(dataDir, "menus", t.ID+".json"), t.ID)
        err := repo.Upsert(ctx, repository.TenantRow{
            ID:         t.ID,
            Name:       t.Name,
            AccessCode: t.AccessCode,
            Theme:      t.Theme,
            MenuJSON:   doc,
        })
        if err != nil {
            log.Printf("  upsert %s failed: %v", t.ID, err)
            continue
        }
        ok++
    }
    log.Printf("seeding completed: %d/%d tenants synced", ok, len(tenants))
}

// loadMenu returns the validated menu document for one tenant, or "[]"
// when the file is missing or does not pass schema validation.
func loadMenu(path, tenantID string) json.RawMessage {
    empty := json.RawMessage("[]")
    raw, err := os.ReadFile(path)
    if err != nil {
        log.Printf("  warning: no menu file for %s, using empty menu", tenantID)
        return empty
    }
    var mf menuFile
    if err := json.Unmarshal(raw, &mf); err != nil || mf.Menu == nil {
        log.Printf("  warning: menu file for %s has no menu sequence, using empty menu", tenantID)
        return empty
    }
    if _, err := menu.ValidateJSON(mf.Menu); err != nil {
        log.Printf("  warning: menu for %s failed validation (%v), using empty menu", tenantID, err)
        return empty
    }
    return mf.Menu
}
