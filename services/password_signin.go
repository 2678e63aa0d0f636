// services/password_signin.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// The Admin SDK has no password grant, so sign-in goes straight to the
// identitytoolkit REST endpoint with the project's web API key, exactly as
// the provider documents it.
const defaultSignInURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// ErrInvalidCredentials is returned for wrong password, unknown email, or a
// disabled account. Callers map it to 401 without leaking which one it was.
var ErrInvalidCredentials = errors.New("invalid email or password")

// SignInResult is the slice of the provider's response the login handler uses.
type SignInResult struct {
	UID     string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

// PasswordSignIn verifies email/password credentials against the identity
// provider's REST API and returns the issued ID token.
type PasswordSignIn struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewPasswordSignIn reads the API key from the environment. A missing key is
// logged at construction so the gap shows up at startup, not at first login.
func NewPasswordSignIn() *PasswordSignIn {
	apiKey := os.Getenv("FIREBASE_API_KEY")
	if apiKey == "" {
		log.Printf("WARNING: FIREBASE_API_KEY is not set; password login will fail")
	}

	return &PasswordSignIn{
		apiKey:   apiKey,
		endpoint: defaultSignInURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SignIn exchanges credentials for an ID token.
func (s *PasswordSignIn) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if s.apiKey == "" {
		return nil, errors.New("missing FIREBASE_API_KEY environment variable")
	}

	payload := map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sign-in request: %w", err)
	}

	url := s.endpoint + "?key=" + s.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
			return nil, fmt.Errorf("sign-in failed with status %d", resp.StatusCode)
		}
		if isCredentialError(errBody.Error.Message) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("sign-in failed: %s", errBody.Error.Message)
	}

	var result SignInResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode sign-in response: %w", err)
	}
	if result.IDToken == "" {
		return nil, errors.New("no ID token received from identity provider")
	}

	return &result, nil
}

// isCredentialError matches the provider's error codes that mean the caller
// got the credentials wrong rather than the service failing.
func isCredentialError(message string) bool {
	for _, code := range []string{
		"EMAIL_NOT_FOUND",
		"INVALID_PASSWORD",
		"INVALID_LOGIN_CREDENTIALS",
		"USER_DISABLED",
	} {
		if strings.Contains(message, code) {
			return true
		}
	}
	return false
}
