package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSignIn(endpoint string) *PasswordSignIn {
	return &PasswordSignIn{
		apiKey:     "test-key",
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
}

func TestSignInSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "owner@zahab.shop", body["email"])
		assert.Equal(t, true, body["returnSecureToken"])

		json.NewEncoder(w).Encode(map[string]string{
			"localId": "uid-1",
			"email":   "owner@zahab.shop",
			"idToken": "issued-token",
		})
	}))
	defer server.Close()

	result, err := newTestSignIn(server.URL).SignIn(context.Background(), "owner@zahab.shop", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", result.UID)
	assert.Equal(t, "owner@zahab.shop", result.Email)
	assert.Equal(t, "issued-token", result.IDToken)
}

func TestSignInWrongPassword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "INVALID_PASSWORD"},
		})
	}))
	defer server.Close()

	_, err := newTestSignIn(server.URL).SignIn(context.Background(), "owner@zahab.shop", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInUnknownEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "EMAIL_NOT_FOUND"},
		})
	}))
	defer server.Close()

	_, err := newTestSignIn(server.URL).SignIn(context.Background(), "ghost@zahab.shop", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInProviderOutage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "INTERNAL_ERROR"},
		})
	}))
	defer server.Close()

	_, err := newTestSignIn(server.URL).SignIn(context.Background(), "owner@zahab.shop", "secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInMissingAPIKey(t *testing.T) {
	s := &PasswordSignIn{endpoint: defaultSignInURL, httpClient: http.DefaultClient}
	_, err := s.SignIn(context.Background(), "owner@zahab.shop", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_API_KEY")
}

func TestSignInMissingIDToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"localId": "uid-1"})
	}))
	defer server.Close()

	_, err := newTestSignIn(server.URL).SignIn(context.Background(), "owner@zahab.shop", "secret123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no ID token")
}

func TestIsCredentialError(t *testing.T) {
	assert.True(t, isCredentialError("INVALID_LOGIN_CREDENTIALS"))
	assert.True(t, isCredentialError("USER_DISABLED"))
	assert.True(t, isCredentialError("TOO_MANY_ATTEMPTS_TRY_LATER : INVALID_PASSWORD"))
	assert.False(t, isCredentialError("INTERNAL_ERROR"))
	assert.False(t, isCredentialError(""))
}
