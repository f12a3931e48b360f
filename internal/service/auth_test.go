package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mkravets/agency_crm/internal/models"
	"github.com/mkravets/agency_crm/internal/repo"
	"github.com/mkravets/agency_crm/pkg/hash"
	"github.com/mkravets/agency_crm/pkg/tokens"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.Membership{},
		&models.Client{},
		&models.Contract{},
		&models.Campaign{},
	))
	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	return &AuthService{
		Repo:      repo.GormRepo{DB: newTestDB(t)},
		JWTSecret: []byte("test-jwt-secret"),
	}
}

func createUser(t *testing.T, svc *AuthService, email, password string, active bool) *models.User {
	t.Helper()

	pwHash, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := models.User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: pwHash,
		Role:         "member",
		Active:       active,
	}
	require.NoError(t, svc.Repo.DB.Create(&user).Error)
	return &user
}

func TestAuthService_LoginAndAuthenticate_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	user := createUser(t, svc, "a@b.com", "correct", true)

	res, err := svc.Login(ctx, "a@b.com", "correct")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	assert.WithinDuration(t, time.Now().Add(tokens.SessionTTL), res.ExpiresAt, 5*time.Second)

	identity, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "a@b.com", identity.Email)
	assert.Equal(t, "member", identity.Role)

	// Repeated validation is idempotent, no state changes between calls.
	again, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity, again)
}

func TestAuthService_Login_GenericFailure(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	createUser(t, svc, "a@b.com", "correct", true)

	// Wrong password and unknown email collapse into one error.
	_, wrongPw := svc.Login(ctx, "a@b.com", "wrong")
	_, unknown := svc.Login(ctx, "nobody@b.com", "whatever")

	require.Error(t, wrongPw)
	require.Error(t, unknown)
	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	createUser(t, svc, "gone@b.com", "correct", false)

	_, err := svc.Login(context.Background(), "gone@b.com", "correct")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "empty email", email: "", password: "secret"},
		{name: "empty password", email: "a@b.com", password: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(ctx, tt.email, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_Authenticate_TamperedSignature(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	createUser(t, svc, "a@b.com", "correct", true)

	res, err := svc.Login(ctx, "a@b.com", "correct")
	require.NoError(t, err)

	parts := strings.Split(res.AccessToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	identity, err := svc.Authenticate(ctx, tampered)
	require.Error(t, err)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Authenticate_DeactivatedAfterIssuance(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	user := createUser(t, svc, "a@b.com", "correct", true)

	res, err := svc.Login(ctx, "a@b.com", "correct")
	require.NoError(t, err)

	// Token stays structurally valid, but the account state wins.
	require.NoError(t, svc.Repo.DB.Model(&models.User{}).
		Where("id = ?", user.ID).Update("active", false).Error)

	identity, err := svc.Authenticate(ctx, res.AccessToken)
	require.Error(t, err)
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Authenticate_DeletedSubject(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	user := createUser(t, svc, "a@b.com", "correct", true)

	res, err := svc.Login(ctx, "a@b.com", "correct")
	require.NoError(t, err)

	require.NoError(t, svc.Repo.DB.Delete(&models.User{}, user.ID).Error)

	_, err = svc.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Authenticate_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()
	user := createUser(t, svc, "a@b.com", "correct", true)

	claims := tokens.NewSessionClaims(user.ID, user.Email, user.Role, time.Now().Add(-2*tokens.SessionTTL))
	expired, err := tokens.Sign(claims, svc.JWTSecret)
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthService_Register_Conflict(t *testing.T) {
	t.Parallel()

	svc := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@b.com", "First", "secret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@b.com", "Second", "secret")
	assert.ErrorIs(t, err, ErrConflict)
}
