package handler

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/palate-sommelier/internal/auth"
    "github.com/iliyamo/palate-sommelier/internal/config"
    "github.com/iliyamo/palate-sommelier/internal/menu"
    "github.com/iliyamo/palate-sommelier/internal/model"
    "github.com/iliyamo/palate-sommelier/internal/repository"
    "github.com/iliyamo/palate-sommelier/internal/session"
)

// ----- test doubles -----

type memKV struct{ data map[string][]byte }

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
    raw, ok := m.data[key]
    if !ok {
        return nil, session.ErrKeyNotFound
    }
    return raw, nil
}
func (m *memKV) Set(_ context.Context, key string, val []byte, _ time.Duration) error {
    m.data[key] = val
    return nil
}
func (m *memKV) Del(_ context.Context, key string) error { delete(m.data, key); return nil }

type fakeDirectory struct {
    rows map[string]repository.TenantRow
    err  error
}

func (d *fakeDirectory) FindByAccessCode(_ context.Context, code string) (repository.TenantRow, error) {
    if d.err != nil {
        return repository.TenantRow{}, d.err
    }
    row, ok := d.rows[code]
    if !ok {
        return repository.TenantRow{}, repository.ErrTenantNotFound
    }
    return row, nil
}

type fakeStore struct {
    version uint64
    stored  []model.MenuCategory
}

func (s *fakeStore) ReplaceMenu(_ context.Context, _ string, version uint64, tree []model.MenuCategory) error {
    if version != s.version {
        return menu.ErrVersionConflict
    }
    s.version++
    s.stored = tree
    return nil
}

// ----- fixtures -----

func sampleMenu() []model.MenuCategory {
    wine := model.WinePairing{Name: "Chablis", Grape: "Chardonnay", Vintage: "2022", Price: "120", Note: "crisp"}
    return []model.MenuCategory{{
        Category: "Starters",
        Items: []model.MenuItem{{
            Dish: "Tartare", Price: "185",
            Pairings: model.Pairings{ByGlass: wine, MidRange: wine, Exclusive: wine},
        }},
    }}
}

func setupHandlers(t *testing.T) (*AuthHandler, *MenuHandler, *SommelierHandler, *fakeStore, *session.Cache) {
    t.Helper()
    cfg := config.Config{JWTSecret: "test-secret", SessionTTLHours: 1}

    raw, err := json.Marshal(sampleMenu())
    if err != nil {
        t.Fatalf("marshal menu: %v", err)
    }
    dir := &fakeDirectory{rows: map[string]repository.TenantRow{
        "4821": {ID: "bistro-nord", Name: "Bistro Nord", AccessCode: "4821", Theme: "slate", MenuJSON: raw, MenuVersion: 1},
    }}
    store := &fakeStore{version: 1}
    sessions := session.NewCache(&memKV{data: map[string][]byte{}}, time.Hour)

    return NewAuthHandler(cfg, auth.New(dir), sessions),
        NewMenuHandler(cfg, store, sessions),
        NewSommelierHandler(sessions),
        store, sessions
}

// call invokes an echo handler directly with an optional JSON body and an
// authenticated tenant already in context.
func call(t *testing.T, h echo.HandlerFunc, method, target, body string, authed bool) *httptest.ResponseRecorder {
    t.Helper()
    e := echo.New()
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, target, nil)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)
    if authed {
        c.Set("tenant_id", "bistro-nord")
        c.Set("tenant_name", "Bistro Nord")
    }
    if err := h(c); err != nil {
        t.Fatalf("handler returned error: %v", err)
    }
    return rec
}

// ----- tests -----

func TestLoginFlow(t *testing.T) {
    authH, _, _, _, _ := setupHandlers(t)

    tests := []struct {
        name     string
        body     string
        wantCode int
    }{
        {"success", `{"code":"4821"}`, http.StatusOK},
        {"empty code", `{"code":""}`, http.StatusBadRequest},
        {"unknown code", `{"code":"0000"}`, http.StatusUnauthorized},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            rec := call(t, authH.Login, http.MethodPost, "/v1/auth/login", tt.body, false)
            if rec.Code != tt.wantCode {
                t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantCode, rec.Body)
            }
        })
    }
}

func TestLoginPopulatesSession(t *testing.T) {
    authH, _, _, _, sessions := setupHandlers(t)
    rec := call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)
    if rec.Code != http.StatusOK {
        t.Fatalf("login failed: %d %s", rec.Code, rec.Body)
    }
    var resp struct {
        Token string `json:"token"`
        Menu  []model.MenuCategory
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode response: %v", err)
    }
    if resp.Token == "" {
        t.Error("no session token issued")
    }
    sess, err := sessions.Load(context.Background(), "bistro-nord")
    if err != nil {
        t.Fatalf("session not cached: %v", err)
    }
    if sess.RestaurantName != "Bistro Nord" || len(sess.MenuData.Menu) != 1 {
        t.Errorf("cached session wrong: %+v", sess)
    }
}

func TestEditCommitReload(t *testing.T) {
    authH, menuH, _, store, sessions := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    // Rename the dish on the cached working tree.
    rec := call(t, menuH.EditItem, http.MethodPatch, "/v1/admin/menu/items",
        `{"categoryIndex":0,"itemIndex":0,"patch":{"dish":"Beef Tartare"}}`, true)
    if rec.Code != http.StatusOK {
        t.Fatalf("edit failed: %d %s", rec.Code, rec.Body)
    }

    // Commit replaces the stored document wholesale.
    rec = call(t, menuH.Commit, http.MethodPut, "/v1/admin/menu", "", true)
    if rec.Code != http.StatusOK {
        t.Fatalf("commit failed: %d %s", rec.Code, rec.Body)
    }
    if len(store.stored) != 1 || store.stored[0].Items[0].Dish != "Beef Tartare" {
        t.Errorf("stored tree wrong: %+v", store.stored)
    }

    // The refreshed session carries the committed tree and the new version.
    sess, err := sessions.Load(context.Background(), "bistro-nord")
    if err != nil {
        t.Fatalf("session lost after commit: %v", err)
    }
    if sess.MenuVersion != 2 || sess.MenuData.Menu[0].Items[0].Dish != "Beef Tartare" {
        t.Errorf("session not refreshed: version=%d menu=%+v", sess.MenuVersion, sess.MenuData.Menu)
    }
}

func TestCommitConflictWhenAnotherWriterWon(t *testing.T) {
    authH, menuH, _, store, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    store.version = 5 // someone else committed since this session loaded

    rec := call(t, menuH.Commit, http.MethodPut, "/v1/admin/menu", "", true)
    if rec.Code != http.StatusConflict {
        t.Fatalf("status = %d, want 409 (%s)", rec.Code, rec.Body)
    }
}

func TestCommitRejectsInvalidTreeWithViolationList(t *testing.T) {
    authH, menuH, _, store, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    // An added-but-unfilled dish makes the tree invalid.
    rec := call(t, menuH.AddItem, http.MethodPost, "/v1/admin/menu/items", `{"categoryIndex":0}`, true)
    if rec.Code != http.StatusOK {
        t.Fatalf("add failed: %d %s", rec.Code, rec.Body)
    }
    rec = call(t, menuH.Commit, http.MethodPut, "/v1/admin/menu", "", true)
    if rec.Code != http.StatusUnprocessableEntity {
        t.Fatalf("status = %d, want 422 (%s)", rec.Code, rec.Body)
    }
    var resp struct {
        Violations []string `json:"violations"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp.Violations) == 0 {
        t.Errorf("expected violation list, got %s", rec.Body)
    }
    if store.stored != nil {
        t.Error("invalid tree reached storage")
    }
}

func TestRemoveItemRequiresConfirmation(t *testing.T) {
    authH, menuH, _, _, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    rec := call(t, menuH.RemoveItem, http.MethodDelete, "/v1/admin/menu/items",
        `{"categoryIndex":0,"itemIndex":0}`, true)
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("unconfirmed delete: status = %d, want 400", rec.Code)
    }
    rec = call(t, menuH.RemoveItem, http.MethodDelete, "/v1/admin/menu/items",
        `{"categoryIndex":0,"itemIndex":0,"confirm":true}`, true)
    if rec.Code != http.StatusOK {
        t.Fatalf("confirmed delete: status = %d (%s)", rec.Code, rec.Body)
    }
}

func TestEditIndexErrorIs422(t *testing.T) {
    authH, menuH, _, _, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    rec := call(t, menuH.EditItem, http.MethodPatch, "/v1/admin/menu/items",
        `{"categoryIndex":7,"itemIndex":0,"patch":{"price":"10"}}`, true)
    if rec.Code != http.StatusUnprocessableEntity {
        t.Fatalf("status = %d, want 422 (%s)", rec.Code, rec.Body)
    }
}

func TestSearchReturnsOriginalIndices(t *testing.T) {
    authH, menuH, _, _, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    rec := call(t, menuH.SearchMenu, http.MethodGet, "/v1/menu/search?q=tartare", "", true)
    if rec.Code != http.StatusOK {
        t.Fatalf("search failed: %d %s", rec.Code, rec.Body)
    }
    var resp struct {
        Results []menu.FilteredCategory `json:"results"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if len(resp.Results) != 1 || resp.Results[0].OriginalIndex != 0 || resp.Results[0].Items[0].OriginalIndex != 0 {
        t.Errorf("results = %+v", resp.Results)
    }
}

func TestPairingEndpointWorkedExample(t *testing.T) {
    authH, _, sommH, _, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    rec := call(t, sommH.GetPairing, http.MethodGet, "/v1/menu/pairing?category=0&item=0&tier=midRange", "", true)
    if rec.Code != http.StatusOK {
        t.Fatalf("pairing failed: %d %s", rec.Code, rec.Body)
    }
    var resp struct {
        Dish    string            `json:"dish"`
        Tier    string            `json:"tier"`
        Pairing model.WinePairing `json:"pairing"`
    }
    if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
        t.Fatalf("decode: %v", err)
    }
    if resp.Dish != "Tartare" || resp.Tier != "midRange" || resp.Pairing.Name != "Chablis" {
        t.Errorf("response = %+v", resp)
    }

    // Tier omitted -> byGlass.
    rec = call(t, sommH.GetPairing, http.MethodGet, "/v1/menu/pairing?category=0&item=0", "", true)
    if rec.Code != http.StatusOK {
        t.Fatalf("default tier failed: %d %s", rec.Code, rec.Body)
    }
}

func TestSessionEndpointsAfterCorruption(t *testing.T) {
    authH, _, _, _, sessions := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    // Simulate a broken stored value by writing garbage through the cache's
    // own KV path: overwrite with an old-format blob.
    if err := sessions.Save(context.Background(), model.Session{TenantID: "bistro-nord"}); err != nil {
        t.Fatalf("overwrite failed: %v", err)
    }
    // A Session zero value has menuData.menu == null, which fails the shape
    // check, so the restore endpoint must report a clean "no session".
    rec := call(t, authH.GetSession, http.MethodGet, "/v1/session", "", true)
    if rec.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404 (%s)", rec.Code, rec.Body)
    }
}

func TestLogoutClearsSession(t *testing.T) {
    authH, _, _, _, _ := setupHandlers(t)
    call(t, authH.Login, http.MethodPost, "/v1/auth/login", `{"code":"4821"}`, false)

    rec := call(t, authH.Logout, http.MethodDelete, "/v1/session", "", true)
    if rec.Code != http.StatusNoContent {
        t.Fatalf("logout: status = %d", rec.Code)
    }
    rec = call(t, authH.GetSession, http.MethodGet, "/v1/session", "", true)
    if rec.Code != http.StatusNotFound {
        t.Fatalf("session survived logout: %d %s", rec.Code, rec.Body)
    }
}
