package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
)

func TestRegister_ReturnsTokens(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Reader One",
		"email":    "reader@example.com",
		"password": "SecurePassword123!",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.NotEmpty(t, envelope.Data.SessionID)
	assert.Equal(t, "Reader One", envelope.Data.User.Name)

	// The token is immediately usable
	claims, err := ts.tokenService.VerifyAccessToken(envelope.Data.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, envelope.Data.User.ID, claims.UserID)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ts := setupTestServer(t, nil)

	ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Someone Else",
		"email":    "Reader@Example.com",
		"password": "AnotherPassword123!",
	})
	require.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	assert.Equal(t, string(domainerrors.CodeAlreadyExists), envelope.Code)
	assert.Contains(t, envelope.Message, "email already in use")
}

func TestRegister_ValidationError(t *testing.T) {
	ts := setupTestServer(t, nil)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"name":     "Reader",
		"email":    "reader@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.False(t, envelope.Success)
	assert.Equal(t, string(domainerrors.CodeValidation), envelope.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t, nil)

	_, registered := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "reader@example.com",
		"password": "SecurePassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, registered.User.ID, envelope.Data.User.ID)
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := setupTestServer(t, nil)

	ts.registerTestUser(t, "reader@example.com")

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "SecurePassword123!"},
		{"wrong password", "reader@example.com", "WrongPassword123!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/auth/login", map[string]any{
				"email":    tt.email,
				"password": tt.password,
			})
			require.Equal(t, http.StatusUnauthorized, resp.Code)

			var envelope testEnvelope[struct{}]
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

			assert.Equal(t, string(domainerrors.CodeInvalidCredentials), envelope.Code)
			assert.Contains(t, envelope.Message, "invalid email or password")
		})
	}
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t, nil)

	_, registered := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.NotEqual(t, registered.RefreshToken, envelope.Data.RefreshToken)
	assert.Equal(t, registered.SessionID, envelope.Data.SessionID)

	// Replaying the old token fails
	replay := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, replay.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t, nil)

	_, registered := ts.registerTestUser(t, "reader@example.com")

	resp := ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": registered.SessionID,
	})
	require.Equal(t, http.StatusOK, resp.Code)

	refresh := ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": registered.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, refresh.Code)
}
