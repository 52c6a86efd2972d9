package handler

import (
    "context"  // context with cancellation for lookup calls
    "log"      // internal logging of cache failures
    "net/http" // HTTP status codes and primitives
    "time"     // timeouts for lookup calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/iliyamo/palate-sommelier/internal/auth"    // access-code authenticator
    "github.com/iliyamo/palate-sommelier/internal/config"  // app configuration
    "github.com/iliyamo/palate-sommelier/internal/model"   // tenant and session records
    "github.com/iliyamo/palate-sommelier/internal/session" // client session cache
    "github.com/iliyamo/palate-sommelier/internal/utils"   // session token issuing
)

// AuthHandler bundles dependencies for the login and session endpoints.
type AuthHandler struct {
    Cfg      config.Config
    Auth     *auth.Authenticator
    Sessions *session.Cache
}

func NewAuthHandler(cfg config.Config, a *auth.Authenticator, s *session.Cache) *AuthHandler {
    return &AuthHandler{Cfg: cfg, Auth: a, Sessions: s}
}

// ----- DTOs -----

type loginReq struct {
    Code string `json:"code"`
}

type tenantPart struct {
    ID    string `json:"id"`
    Name  string `json:"name"`
    Theme string `json:"theme"`
}

type loginResp struct {
    Token       string               `json:"token"`
    Expires     time.Time            `json:"expires"`
    Tenant      tenantPart           `json:"tenant"`
    MenuVersion uint64               `json:"menuVersion"`
    Menu        []model.MenuCategory `json:"menu"`
}

// Login resolves an access code to a tenant snapshot, issues a session
// token and caches the session so a reload can restore it without the code.
// A blank code is rejected before any lookup; an unknown code and a
// directory outage get the same 401 so neither is probeable.
func (h *AuthHandler) Login(c echo.Context) error {
    var req loginReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    snap, err := h.Auth.Authenticate(ctx, req.Code)
    if err != nil {
        if err == auth.ErrEmptyCode {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "access code required"})
        }
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid access code"})
    }

    token, err := utils.NewSessionToken(h.Cfg.JWTSecret, snap.TenantID, snap.DisplayName, h.Cfg.SessionTTLHours)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
    }

    // Cache the snapshot. Losing the cache only costs a re-login, so a
    // failure here must not fail the login itself.
    sess := model.Session{
        TenantID:       snap.TenantID,
        RestaurantName: snap.DisplayName,
        MenuVersion:    snap.MenuVersion,
        MenuData:       model.MenuDocument{Menu: snap.Menu},
    }
    if err := h.Sessions.Save(ctx, sess); err != nil && err != session.ErrUnavailable {
        log.Printf("auth: caching session for tenant %s failed: %v", snap.TenantID, err)
    }

    return c.JSON(http.StatusOK, loginResp{
        Token:       token.Token,
        Expires:     token.Exp,
        Tenant:      tenantPart{ID: snap.TenantID, Name: snap.DisplayName, Theme: snap.Theme},
        MenuVersion: snap.MenuVersion,
        Menu:        snap.Menu,
    })
}

// GetSession restores the cached session for the authenticated tenant. A
// corrupt cached value has already been purged by the cache by the time it
// reports "no session", so the client just sees a fresh-login prompt.
func (h *AuthHandler) GetSession(c echo.Context) error {
    tenantID := tenantFromContext(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    sess, err := h.Sessions.Load(ctx, tenantID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }
    return c.JSON(http.StatusOK, sess)
}

// Logout destroys the cached session. The token itself simply expires.
func (h *AuthHandler) Logout(c echo.Context) error {
    tenantID := tenantFromContext(c)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Sessions.Clear(ctx, tenantID); err != nil && err != session.ErrUnavailable {
        log.Printf("auth: clearing session for tenant %s failed: %v", tenantID, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// tenantFromContext reads the tenant id injected by the session middleware.
func tenantFromContext(c echo.Context) string {
    if v, ok := c.Get("tenant_id").(string); ok {
        return v
    }
    return ""
}
