package utils // package utils provides helpers for session token creation

import (
    "time" // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed HS256 JWT identifying an authenticated
// tenant along with its expiry. The Token field contains the JWT string.
// Clients send it in the Authorization header on every protected call; it
// shares its lifetime with the cached session snapshot.
type SessionToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a tenant. It takes the
// signing secret, the tenant id, the restaurant display name, and a TTL in
// hours. The JWT includes standard claims: subject (sub), name, expiration
// (exp) and issued at (iat).
func NewSessionToken(secret, tenantID, name string, ttlHours int) (SessionToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlHours) * time.Hour)
    claims := jwt.MapClaims{
        "sub":  tenantID,
        "name": name,
        "exp":  exp.Unix(),
        "iat":  time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return SessionToken{}, err
    }
    return SessionToken{Token: signed, Exp: exp}, nil
}
