package main // Entry point package

import (
    "log"  // Logging library
    "time" // Session TTL arithmetic

    "github.com/joho/godotenv"    // .env loader for local development
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/palate-sommelier/internal/auth"       // access-code authenticator
    "github.com/iliyamo/palate-sommelier/internal/config"     // internal config loader
    "github.com/iliyamo/palate-sommelier/internal/database"   // MySQL connection
    "github.com/iliyamo/palate-sommelier/internal/handler"    // HTTP handlers
    "github.com/iliyamo/palate-sommelier/internal/queue"      // menu.updated audit consumer
    "github.com/iliyamo/palate-sommelier/internal/repository" // tenant directory
    "github.com/iliyamo/palate-sommelier/internal/router"     // route registration
    "github.com/iliyamo/palate-sommelier/internal/session"    // session cache
)

func main() {
    _ = godotenv.Load() // .env is optional; real deployments set the environment directly
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }

    // Redis backs the session cache and the login limiter. A nil client is
    // tolerated everywhere: the service runs, sessions just don't survive
    // reloads and the limiter disengages.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; session cache and rate limiting disabled")
    }
    var kv session.KV
    if rdb != nil {
        kv = session.NewRedisKV(rdb)
    }
    sessions := session.NewCache(kv, time.Duration(cfg.SessionTTLHours)*time.Hour)

    tenants := repository.NewTenantRepo(db)
    authn := auth.New(tenants)

    authH := handler.NewAuthHandler(cfg, authn, sessions)
    menuH := handler.NewMenuHandler(cfg, tenants, sessions)
    sommH := handler.NewSommelierHandler(sessions)

    e := echo.New()
    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, rdb, cfg.JWTSecret)
    router.RegisterMenu(e, menuH, sommH, cfg.JWTSecret)

    // The audit consumer reconnects on its own; it never takes the server down.
    go func() {
        if err := queue.StartMenuConsumer(); err != nil {
            log.Printf("menu-consumer: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
