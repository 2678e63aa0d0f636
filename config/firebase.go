// config/firebase.go
package config

import (
	"context"
	"encoding/base64"
	"log"
	"os"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// InitFirebase initializes the Firebase Admin SDK and returns the app handle.
// The app is passed to whoever needs it instead of living in a package
// variable, so tests and callers can substitute their own.
func InitFirebase() *firebase.App {
	ctx := context.Background()

	cfg := &firebase.Config{
		ProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
	}

	// Base64 encoded credentials take precedence; they are the deploy-time
	// friendly option.
	if base64Creds := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); base64Creds != "" {
		log.Printf("Using Firebase credentials from base64 environment variable")
		decoded, err := base64.StdEncoding.DecodeString(base64Creds)
		if err != nil {
			log.Fatalf("Error decoding base64 credentials: %v", err)
		}

		app, err := firebase.NewApp(ctx, cfg, option.WithCredentialsJSON(decoded))
		if err != nil {
			log.Fatalf("error initializing firebase app: %v", err)
		}
		return app
	}

	credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credFile == "" {
		log.Fatal("Firebase credentials not configured. Set FIREBASE_CREDENTIALS_BASE64 or GOOGLE_APPLICATION_CREDENTIALS")
	}

	log.Printf("Using Firebase credentials file: %s", credFile)

	app, err := firebase.NewApp(ctx, cfg, option.WithCredentialsFile(credFile))
	if err != nil {
		log.Fatalf("error initializing firebase app: %v", err)
	}
	return app
}
