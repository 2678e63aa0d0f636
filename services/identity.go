// services/identity.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"

	"github.com/zahabshop/zahab_backend/models"
)

var (
	// ErrEmailExists is returned when the identity provider already has a
	// credential for the email.
	ErrEmailExists = errors.New("email already in use")
	// ErrInvalidToken covers every verification failure: bad signature,
	// expiry, revocation, or missing required claims.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// IdentityProvider is the slice of the identity service this backend uses:
// credential lifecycle, claim management, and token verification. Password
// storage and token issuance stay entirely on the provider's side.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, idToken string) (*models.Principal, error)
	CreateUser(ctx context.Context, email, password string) (string, error)
	DeleteUser(ctx context.Context, uid string) error
	SetUserClaims(ctx context.Context, uid string, role models.Role, branchID string) error
	RevokeTokens(ctx context.Context, uid string) error
}

// FirebaseIdentity implements IdentityProvider on the Firebase Admin SDK.
type FirebaseIdentity struct {
	client *auth.Client
}

// NewFirebaseIdentity builds the auth client from an initialized app handle.
func NewFirebaseIdentity(app *firebase.App) (*FirebaseIdentity, error) {
	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("firebase auth client: %w", err)
	}
	return &FirebaseIdentity{client: client}, nil
}

// VerifyToken validates signature, expiry and revocation, then decodes the
// role/branch custom claims into a Principal. A token without a uid or a
// known role is treated as invalid, not as an authenticated-but-forbidden
// request.
func (f *FirebaseIdentity) VerifyToken(ctx context.Context, idToken string) (*models.Principal, error) {
	token, err := f.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if token.UID == "" {
		return nil, ErrInvalidToken
	}

	rawRole, _ := token.Claims["role"].(string)
	if rawRole == "" {
		return nil, ErrInvalidToken
	}
	role, err := models.ParseRole(rawRole)
	if err != nil {
		log.Printf("Token for uid %s carries unknown role %q", token.UID, rawRole)
		return nil, ErrInvalidToken
	}

	branchID, _ := token.Claims["branchId"].(string)
	firstName, _ := token.Claims["firstName"].(string)

	return &models.Principal{
		UID:       token.UID,
		Role:      role,
		BranchID:  branchID,
		FirstName: firstName,
	}, nil
}

// CreateUser registers an email/password credential and returns the new uid.
func (f *FirebaseIdentity) CreateUser(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		EmailVerified(false).
		Disabled(false)

	record, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("create auth user: %w", err)
	}
	return record.UID, nil
}

// DeleteUser removes the auth credential. Used both for the compensating
// cleanup when a profile write fails and never for soft deletes, which keep
// the credential so the uid stays resolvable.
func (f *FirebaseIdentity) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("delete auth user %s: %w", uid, err)
	}
	return nil
}

// SetUserClaims writes the role/branch custom claims the verifier reads back.
func (f *FirebaseIdentity) SetUserClaims(ctx context.Context, uid string, role models.Role, branchID string) error {
	claims := map[string]interface{}{
		"role":     string(role),
		"branchId": branchID,
	}
	if err := f.client.SetCustomUserClaims(ctx, uid, claims); err != nil {
		return fmt.Errorf("set custom claims for %s: %w", uid, err)
	}
	return nil
}

// RevokeTokens invalidates every refresh token for the uid. Outstanding ID
// tokens die at their natural expiry; the middleware's Redis denylist covers
// the gap.
func (f *FirebaseIdentity) RevokeTokens(ctx context.Context, uid string) error {
	if err := f.client.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("revoke refresh tokens for %s: %w", uid, err)
	}
	return nil
}
