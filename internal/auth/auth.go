package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/people-console/internal"
	accountDatamodel "github.com/frahmantamala/people-console/internal/core/datamodel/account"
	"github.com/golang-jwt/jwt/v5"
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenGenerator creates and checks signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(email, sessionID string) (string, error)
	GenerateRefreshToken(email, sessionID string) (string, error)
	ValidateToken(tokenString string, kind TokenKind) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims carry the account email as subject and the session id as jti.
type Claims struct {
	Email string    `json:"email"`
	Kind  TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

func (c *Claims) SessionID() string {
	return c.ID
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

// AccountRepository persists sign-in identities.
type AccountRepository interface {
	Create(ctx context.Context, account *accountDatamodel.Account) error
	GetByEmail(ctx context.Context, email string) (*accountDatamodel.Account, error)
	ChangeEmail(ctx context.Context, oldEmail, newEmail string) error
}

// SessionStore remembers which sessions are signed in.
type SessionStore interface {
	Save(ctx context.Context, sessionID, email string, ttl time.Duration) error
	Exists(ctx context.Context, sessionID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

var ErrAccountNotFound = internal.NewNotFoundError("account not found", internal.ErrCodeRecordNotFound)
