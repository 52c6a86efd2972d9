package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // the Echo web framework handles routing
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/palate-sommelier/internal/config"
    "github.com/iliyamo/palate-sommelier/internal/handler"
    "github.com/iliyamo/palate-sommelier/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication. Currently
// it exposes only a health check, used by load balancers and monitoring to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the login route and the session endpoints. Login
// lives outside the protected group and carries the token-bucket limiter:
// it is the only surface where an access code can be guessed, so it is the
// only surface worth sweeping. The session endpoints require a valid
// session token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, rdb *redis.Client, jwtSecret string) {
    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    e.POST("/v1/auth/login", a.Login, limiter)

    g := e.Group("/v1")
    g.Use(middleware.SessionAuth(jwtSecret))
    g.GET("/session", a.GetSession)
    g.DELETE("/session", a.Logout)
}

// RegisterMenu registers the menu surface under the session middleware:
// read endpoints shared by the admin and diner views, the admin edit
// operations on the working tree, and the commit.
func RegisterMenu(e *echo.Echo, m *handler.MenuHandler, s *handler.SommelierHandler, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.SessionAuth(jwtSecret))

    // Read-only views over the current snapshot.
    g.GET("/menu", m.GetMenu)
    g.GET("/menu/search", m.SearchMenu)
    g.GET("/menu/pairing", s.GetPairing)

    // Admin edits against the cached working tree. Nothing below touches
    // the stored menu until the commit.
    g.PATCH("/admin/menu/items", m.EditItem)
    g.POST("/admin/menu/items", m.AddItem)
    g.DELETE("/admin/menu/items", m.RemoveItem)
    g.PUT("/admin/menu", m.Commit)
}
