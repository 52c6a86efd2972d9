// Package queue defines message payloads exchanged over the message broker.
package queue

// MenuUpdatedEvent is published after a tenant's menu is committed. It
// carries enough for downstream consumers to build an audit trail without
// querying the primary database.
type MenuUpdatedEvent struct {
    TenantID    string `json:"tenant_id"`
    TenantName  string `json:"tenant_name"`
    MenuVersion uint64 `json:"menu_version"`
    Categories  int    `json:"categories"`
    Items       int    `json:"items"`
    UpdatedAt   string `json:"updated_at"`
}
