package serverutils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LocalSessionID = "session_id"
	LocalUsername  = "username"
)

type TokenClaims struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

// SessionChecker tells the middleware whether a token's session is still
// logged in. A token outlives its session once the user logs out.
type SessionChecker interface {
	IsActive(ctx context.Context, sessionID string) bool
}

func GenerateToken(secret, sessionID, username string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		SessionID: sessionID,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JwtMiddleware accepts "Authorization: Bearer <token>" or, for browsers
// opening a WebSocket, a ?token= query parameter.
func JwtMiddleware(secret string, sessions SessionChecker) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}

		claims, err := ParseToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		if !sessions.IsActive(ctx.UserContext(), claims.SessionID) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Session expired"))
		}

		ctx.Locals(LocalSessionID, claims.SessionID)
		ctx.Locals(LocalUsername, claims.Username)
		return ctx.Next()
	}
}

func bearerToken(ctx *fiber.Ctx) string {
	if h := ctx.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ctx.Query("token")
}

// SessionID returns the session the middleware authenticated.
func SessionID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(LocalSessionID).(string)
	return id
}
