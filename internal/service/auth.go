package service

import (
	"context"
	"errors"
	"time"

	"github.com/mkravets/agency_crm/internal/models"
	"github.com/mkravets/agency_crm/internal/repo"
	"github.com/mkravets/agency_crm/pkg/hash"
	"github.com/mkravets/agency_crm/pkg/logging"
	"github.com/mkravets/agency_crm/pkg/tokens"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password;
	// callers must never distinguish the two.
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthorized       = errors.New("invalid or expired session")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("account already exists")
)

type AuthService struct {
	Repo      repo.GormRepo
	JWTSecret []byte
}

// Identity is the currently-valid user record backing a token. It is
// re-resolved from storage on every request; the token's embedded email
// and role are only a snapshot.
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
}

func (s *AuthService) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		Role:         "member",
		Active:       true,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			l.Warn("register_failed", "reason", "email taken")
			return nil, ErrConflict
		}
		l.Error("register_failed", "error", err)
		return nil, err
	}
	return &user, nil
}

// Login exchanges verified credentials for a signed session token. All
// failure paths collapse into ErrInvalidCredentials so account existence
// cannot be probed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "reason", "invalid credentials")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "error", err)
		return nil, err
	}

	if !user.Active || !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "invalid credentials")
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := tokens.NewSessionClaims(user.ID, user.Email, user.Role, now)
	token, err := tokens.Sign(claims, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Authenticate turns a presented token back into a trusted identity.
// Signature and expiry are checked before any storage lookup; on
// structural success the subject is re-resolved so a deleted or
// deactivated account is locked out even with an unexpired token.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*Identity, error) {
	claims, err := tokens.Parse(tokenStr, s.JWTSecret)
	if err != nil {
		return nil, ErrUnauthorized
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUnauthorized
	}

	return &Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}, nil
}
