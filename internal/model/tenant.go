package model

// Tenant represents one restaurant's isolated data scope as stored in the
// `tenants` table. The access code is the sole credential: diners and the
// restaurant admin both enter it on the keypad, so it is stored verbatim
// and looked up by exact match.
//
// Fields:
//  ID          – tenants.id, stable external identifier (e.g. "bistro-nord").
//  Name        – tenants.name, display name shown in the UI header.
//  AccessCode  – tenants.access_code, unique across all tenants.
//  Theme       – tenants.theme, presentation hint passed through untouched.
//  Menu        – tenants.menu, the full menu document (JSON column).
//  MenuVersion – tenants.menu_version, bumped on every menu replace and
//                compared at commit time to detect concurrent writers.
type Tenant struct {
    ID          string         `json:"id"`
    Name        string         `json:"name"`
    AccessCode  string         `json:"accessCode"`
    Theme       string         `json:"theme"`
    Menu        []MenuCategory `json:"menu"`
    MenuVersion uint64         `json:"-"`
}

// MenuDocument wraps the menu sequence the way the client stores and ships
// it ({"menu": [...]}). The session shape check keys off this wrapper.
type MenuDocument struct {
    Menu []MenuCategory `json:"menu"`
}

// Session is the point-in-time copy of a tenant's state that survives
// outside the tenant's own lifecycle. It is serialized under a single
// cache key and restored on reload so the admin does not re-enter the code.
//
// Fields:
//  TenantID       – owner of the snapshot.
//  RestaurantName – display name captured at login time.
//  MenuVersion    – version of the snapshot, carried into commit.
//  MenuData       – the menu snapshot itself.
type Session struct {
    TenantID       string       `json:"tenantId"`
    RestaurantName string       `json:"restaurantName"`
    MenuVersion    uint64       `json:"menuVersion"`
    MenuData       MenuDocument `json:"menuData"`
}
