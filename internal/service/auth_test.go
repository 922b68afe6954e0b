package service

import (
	"context"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booknotesapp/booknotes-server/internal/auth"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/store/sqlite"
)

// setupAuthTest creates services backed by temporary storage.
func setupAuthTest(t *testing.T) (*AuthService, *auth.TokenService) {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(
		hex.EncodeToString(authKey),
		15*time.Minute,
		30*24*time.Hour,
	)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, nil)

	return authService, tokenService
}

func registerTestUser(t *testing.T, authService *AuthService, email string) *AuthResponse {
	t.Helper()

	resp, err := authService.Register(context.Background(), RegisterRequest{
		Name:     "Test User",
		Email:    email,
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)
	return resp
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	resp, err := authService.Register(ctx, RegisterRequest{
		Name:     "Reader One",
		Email:    "reader@example.com",
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)

	assert.NotNil(t, resp.User)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "Reader One", resp.User.Name)
	assert.Equal(t, "reader@example.com", resp.User.Email)

	// Registration logs the user straight in
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.SessionID)
	assert.Greater(t, resp.ExpiresIn, 0)

	// The persisted user is retrievable
	user, err := authService.CurrentUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	registerTestUser(t, authService, "reader@example.com")

	_, err := authService.Register(ctx, RegisterRequest{
		Name:     "Someone Else",
		Email:    "Reader@Example.COM", // Same address, different case
		Password: "AnotherPassword123!",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email already in use")
}

func TestAuthService_Register_ValidationErrors(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{
			name: "missing name",
			req:  RegisterRequest{Email: "a@example.com", Password: "SecurePassword123!"},
		},
		{
			name: "invalid email",
			req:  RegisterRequest{Name: "A", Email: "not-an-email", Password: "SecurePassword123!"},
		},
		{
			name: "short password",
			req:  RegisterRequest{Name: "A", Email: "a@example.com", Password: "short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(ctx, tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	registered := registerTestUser(t, authService, "reader@example.com")

	resp, err := authService.Login(ctx, LoginRequest{
		Email:     "reader@example.com",
		Password:  "SecurePassword123!",
		IPAddress: "192.168.1.1",
	})
	require.NoError(t, err)

	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEmpty(t, resp.SessionID)
}

func TestAuthService_Login_CaseInsensitiveEmail(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	registered := registerTestUser(t, authService, "reader@example.com")

	resp, err := authService.Login(ctx, LoginRequest{
		Email:    "READER@example.com",
		Password: "SecurePassword123!",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	registerTestUser(t, authService, "reader@example.com")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: "SecurePassword123!",
		},
		{
			name:     "wrong password",
			email:    "reader@example.com",
			password: "WrongPassword123!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Login(ctx, LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
			// Both failures present the same message
			assert.Contains(t, err.Error(), "invalid email or password")
		})
	}
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	loginResp := registerTestUser(t, authService, "reader@example.com")

	// New tokens carry different timestamps
	time.Sleep(10 * time.Millisecond)

	refreshResp, err := authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	require.NoError(t, err)

	assert.NotEqual(t, loginResp.AccessToken, refreshResp.AccessToken)
	assert.NotEqual(t, loginResp.RefreshToken, refreshResp.RefreshToken)
	assert.Equal(t, loginResp.SessionID, refreshResp.SessionID)

	// The old refresh token is invalidated
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestAuthService_RefreshTokens_InvalidToken(t *testing.T) {
	authService, _ := setupAuthTest(t)

	_, err := authService.RefreshTokens(context.Background(), RefreshRequest{
		RefreshToken: "invalid-token-12345",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired")
}

func TestAuthService_Logout(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	loginResp := registerTestUser(t, authService, "reader@example.com")

	err := authService.Logout(ctx, loginResp.SessionID)
	require.NoError(t, err)

	// The session's refresh token no longer works
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: loginResp.RefreshToken,
	})
	assert.Error(t, err)

	// Logging out again is not an error
	err = authService.Logout(ctx, loginResp.SessionID)
	assert.NoError(t, err)
}

func TestAuthService_CurrentUser_NotFound(t *testing.T) {
	authService, _ := setupAuthTest(t)

	_, err := authService.CurrentUser(context.Background(), "no-such-user")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAuthService_VerifyAccessToken_Success(t *testing.T) {
	authService, tokenService := setupAuthTest(t)
	ctx := context.Background()

	registered := registerTestUser(t, authService, "reader@example.com")

	token, err := tokenService.GenerateAccessToken(registered.User)
	require.NoError(t, err)

	user, claims, err := authService.VerifyAccessToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Equal(t, registered.User.ID, claims.UserID)
	assert.Equal(t, registered.User.Name, claims.Name)
}

func TestAuthService_VerifyAccessToken_InvalidToken(t *testing.T) {
	authService, _ := setupAuthTest(t)

	_, _, err := authService.VerifyAccessToken(context.Background(), "invalid-token")
	assert.Error(t, err)
}
