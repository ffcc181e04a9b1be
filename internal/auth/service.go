package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/people-console/internal"
	accountDatamodel "github.com/frahmantamala/people-console/internal/core/datamodel/account"
	"github.com/frahmantamala/people-console/internal/core/events"
	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PermissionReader loads the permission entry of a signed-in account.
type PermissionReader interface {
	Get(ctx context.Context, email string) (*permission.Entry, error)
}

// Service signs accounts in and out and resolves request sessions.
type Service struct {
	accounts       AccountRepository
	sessions       SessionStore
	permissions    PermissionReader
	tokenGenerator *JWTTokenGenerator
	publisher      events.Publisher
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(accounts AccountRepository, sessions SessionStore, permissions PermissionReader, tokenGen *JWTTokenGenerator, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if publisher == nil {
		publisher = events.Discard
	}
	return &Service{
		accounts:       accounts,
		sessions:       sessions,
		permissions:    permissions,
		tokenGenerator: tokenGen,
		publisher:      publisher,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTTokenGenerator {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * 7 * time.Hour
	}
	return &JWTTokenGenerator{
		AccessTokenSecret:  []byte(accessSecret),
		RefreshTokenSecret: []byte(refreshSecret),
		AccessTokenTTL:     accessTTL,
		RefreshTokenTTL:    refreshTTL,
	}
}

// CreateAccount registers a sign-in identity. An address already in use is ErrEmailTaken.
func (s *Service) CreateAccount(ctx context.Context, email, password string) error {
	hash, err := s.HashPassword(password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.accounts.Create(ctx, &accountDatamodel.Account{Email: email, PasswordHash: hash}); err != nil {
		return err
	}
	s.logger.Info("account created", "email", email)
	return nil
}

// ChangeEmail moves the sign-in identity to a new address.
func (s *Service) ChangeEmail(ctx context.Context, oldEmail, newEmail string) error {
	if err := s.accounts.ChangeEmail(ctx, oldEmail, newEmail); err != nil {
		return err
	}
	s.logger.Info("account email changed", "old_email", oldEmail, "new_email", newEmail)
	return nil
}

// SignIn checks the frozen flag before the password, then opens a session.
func (s *Service) SignIn(ctx context.Context, dto LoginDTO) (*SignInResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	entry, err := s.entryFor(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if entry.Frozen {
		s.logger.Warn("sign in refused for frozen user", "email", dto.Email)
		return nil, internal.ErrUserFrozen
	}

	acc, err := s.accounts.GetByEmail(ctx, dto.Email)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, internal.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	tokens, sessionID, err := s.openSession(ctx, dto.Email)
	if err != nil {
		return nil, err
	}

	session := entry.Session()
	session.TokenID = sessionID
	s.publish(ctx, events.NewSessionEvent(events.EventTypeSessionSignedIn, dto.Email, sessionID))

	return &SignInResponse{AuthTokens: tokens, Session: session}, nil
}

// RefreshTokens rotates the session behind a refresh token.
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}
	claims, err := s.tokenGenerator.ValidateToken(dto.RefreshToken, RefreshToken)
	if err != nil {
		return AuthTokens{}, err
	}
	if err := s.requireSession(ctx, claims.SessionID()); err != nil {
		return AuthTokens{}, err
	}

	entry, err := s.entryFor(ctx, claims.Email)
	if err != nil {
		return AuthTokens{}, err
	}
	if entry.Frozen {
		_ = s.sessions.Revoke(ctx, claims.SessionID())
		return AuthTokens{}, internal.ErrUserFrozen
	}

	if err := s.sessions.Revoke(ctx, claims.SessionID()); err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to rotate session", err)
	}
	tokens, _, err := s.openSession(ctx, claims.Email)
	return tokens, err
}

// SignOut revokes the session behind an access token.
func (s *Service) SignOut(ctx context.Context, session *internal.Session) error {
	if err := s.sessions.Revoke(ctx, session.TokenID); err != nil {
		return internal.NewInternalError("failed to revoke session", err)
	}
	s.publish(ctx, events.NewSessionEvent(events.EventTypeSessionSignedOut, session.Email, session.TokenID))
	return nil
}

// Authenticate turns an access token into the request session. Capabilities are
// read on every call so a freeze or a matrix change applies to the next request.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.Session, error) {
	claims, err := s.tokenGenerator.ValidateToken(token, AccessToken)
	if err != nil {
		return nil, err
	}
	if err := s.requireSession(ctx, claims.SessionID()); err != nil {
		return nil, err
	}

	entry, err := s.entryFor(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if entry.Frozen {
		return nil, internal.ErrUserFrozen
	}

	session := entry.Session()
	session.TokenID = claims.SessionID()
	return session, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "type", event.EventType(), "error", err)
	}
}

// entryFor loads the permission row of email. No row means no capabilities.
func (s *Service) entryFor(ctx context.Context, email string) (*permission.Entry, error) {
	entry, err := s.permissions.Get(ctx, email)
	if err == nil {
		return entry, nil
	}
	if errors.Is(err, permission.ErrPermissionNotFound) {
		empty := permission.NewEntry(email, "", false)
		return &empty, nil
	}
	return nil, err
}

func (s *Service) requireSession(ctx context.Context, sessionID string) error {
	ok, err := s.sessions.Exists(ctx, sessionID)
	if err != nil {
		return internal.NewInternalError("failed to check session", err)
	}
	if !ok {
		return internal.ErrInvalidToken
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, email string) (AuthTokens, string, error) {
	sessionID := uuid.NewString()

	accessToken, err := s.tokenGenerator.GenerateAccessToken(email, sessionID)
	if err != nil {
		return AuthTokens{}, "", internal.NewInternalError("failed to sign access token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(email, sessionID)
	if err != nil {
		return AuthTokens{}, "", internal.NewInternalError("failed to sign refresh token", err)
	}

	if err := s.sessions.Save(ctx, sessionID, email, s.tokenGenerator.RefreshTokenTTL); err != nil {
		return AuthTokens{}, "", internal.NewInternalError("failed to store session", err)
	}

	return AuthTokens{AccessToken: accessToken, RefreshToken: refreshToken}, sessionID, nil
}

// GenerateAccessToken creates a new access token
func (j *JWTTokenGenerator) GenerateAccessToken(email, sessionID string) (string, error) {
	return j.sign(email, sessionID, AccessToken, j.AccessTokenTTL, j.AccessTokenSecret)
}

// GenerateRefreshToken creates a new refresh token
func (j *JWTTokenGenerator) GenerateRefreshToken(email, sessionID string) (string, error) {
	return j.sign(email, sessionID, RefreshToken, j.RefreshTokenTTL, j.RefreshTokenSecret)
}

func (j *JWTTokenGenerator) sign(email, sessionID string, kind TokenKind, ttl time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateToken validates a JWT token of the given kind and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string, kind TokenKind) (*Claims, error) {
	secret := j.AccessTokenSecret
	if kind == RefreshToken {
		secret = j.RefreshTokenSecret
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Kind != kind || claims.ID == "" {
		return nil, internal.ErrInvalidToken
	}
	return claims, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
