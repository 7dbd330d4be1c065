package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authrepo "github.com/vael-labs/vael-backend/internal/data/repos/auth"
	userrepo "github.com/vael-labs/vael-backend/internal/data/repos/user"
	authdomain "github.com/vael-labs/vael-backend/internal/domain/auth"
	userdomain "github.com/vael-labs/vael-backend/internal/domain/user"
	"github.com/vael-labs/vael-backend/internal/pkg/ctxutil"
	pkgerrors "github.com/vael-labs/vael-backend/internal/pkg/errors"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

type AuthConfig struct {
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type AuthService struct {
	db     *gorm.DB
	users  userrepo.Repo
	tokens authrepo.UserTokenRepo
	cfg    AuthConfig
	log    *logger.Logger
}

func NewAuthService(db *gorm.DB, users userrepo.Repo, tokens authrepo.UserTokenRepo, cfg AuthConfig, log *logger.Logger) *AuthService {
	return &AuthService{db: db, users: users, tokens: tokens, cfg: cfg, log: log}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) RegisterUser(ctx context.Context, email, password string) (*userdomain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", pkgerrors.ErrInvalidArgument)
	}

	exists, err := s.users.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", pkgerrors.ErrAlreadyExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &userdomain.User{Email: email, Password: string(hashed)}
	if err := s.users.Create(ctx, nil, u); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	s.log.Info("Registered user", "user_id", u.ID)
	return u, nil
}

// LoginUser verifies credentials and issues an access JWT plus a refresh
// token, persisting the pair as one session row.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = normalizeEmail(email)
	users, err := s.users.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", fmt.Errorf("looking up user: %w", err)
	}
	if len(users) == 0 {
		return "", "", pkgerrors.ErrUnauthorized
	}
	u := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", pkgerrors.ErrUnauthorized
	}

	access, err := s.mintAccessToken(u.ID)
	if err != nil {
		return "", "", fmt.Errorf("signing access token: %w", err)
	}
	refresh := uuid.NewString()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.tokens.Create(ctx, tx, &authdomain.UserToken{
			UserID:       u.ID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    time.Now().UTC().Add(s.cfg.RefreshTTL),
		})
	})
	if err != nil {
		return "", "", fmt.Errorf("persisting session: %w", err)
	}
	return access, refresh, nil
}

// RefreshUser exchanges a valid refresh token for a fresh access/refresh
// pair, revoking the old session row.
func (s *AuthService) RefreshUser(ctx context.Context, refreshToken string) (string, string, error) {
	tokens, err := s.tokens.GetByRefreshTokens(ctx, nil, []string{refreshToken})
	if err != nil {
		return "", "", fmt.Errorf("looking up refresh token: %w", err)
	}
	if len(tokens) == 0 {
		return "", "", pkgerrors.ErrUnauthorized
	}
	session := tokens[0]
	if time.Now().UTC().After(session.ExpiresAt) {
		return "", "", pkgerrors.ErrUnauthorized
	}

	access, err := s.mintAccessToken(session.UserID)
	if err != nil {
		return "", "", fmt.Errorf("signing access token: %w", err)
	}
	refresh := uuid.NewString()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.FullDeleteByTokens(ctx, tx, []string{session.AccessToken}); err != nil {
			return err
		}
		return s.tokens.Create(ctx, tx, &authdomain.UserToken{
			UserID:       session.UserID,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresAt:    time.Now().UTC().Add(s.cfg.RefreshTTL),
		})
	})
	if err != nil {
		return "", "", fmt.Errorf("rotating session: %w", err)
	}
	return access, refresh, nil
}

func (s *AuthService) LogoutUser(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return pkgerrors.ErrUnauthorized
	}
	if err := s.tokens.FullDeleteByTokens(ctx, nil, []string{accessToken}); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// SetContextFromToken validates the access JWT, confirms the session row
// still exists, and attaches the caller identity to the context.
func (s *AuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	userID, err := s.parseAccessToken(tokenString)
	if err != nil {
		return ctx, pkgerrors.ErrUnauthorized
	}
	sessions, err := s.tokens.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return ctx, fmt.Errorf("looking up session: %w", err)
	}
	if len(sessions) == 0 {
		return ctx, pkgerrors.ErrUnauthorized
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:       userID,
		TokenString:  tokenString,
		RefreshToken: sessions[0].RefreshToken,
	}), nil
}

func (s *AuthService) GetAccessTTL() time.Duration { return s.cfg.AccessTTL }

func (s *AuthService) mintAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) parseAccessToken(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, pkgerrors.ErrUnauthorized
	}
	return userID, nil
}
