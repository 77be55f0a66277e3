package auth

import (
	"context"
	"fmt"
	"net/http"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// IDTokenVerifier is the part of the Firebase Auth client the resolver uses.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// InitializeFirebase initializes the Firebase Admin SDK and returns an Auth client
func InitializeFirebase(ctx context.Context, credentialsPath string) (*fbauth.Client, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("FIREBASE_CREDENTIALS_PATH is required")
	}

	opt := option.WithCredentialsFile(credentialsPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get Auth client: %w", err)
	}

	return authClient, nil
}

// FirebaseResolver verifies Firebase ID tokens sent as bearer tokens.
type FirebaseResolver struct {
	verifier IDTokenVerifier
}

func NewFirebaseResolver(v IDTokenVerifier) *FirebaseResolver {
	return &FirebaseResolver{verifier: v}
}

func (f *FirebaseResolver) Resolve(r *http.Request) (*Session, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}

	decoded, err := f.verifier.VerifyIDToken(r.Context(), token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if decoded.UID == "" {
		return nil, fmt.Errorf("%w: uid", ErrMissingClaim)
	}

	s := &Session{User: User{ID: decoded.UID}}
	if email, ok := decoded.Claims["email"].(string); ok {
		s.User.Email = email
	}
	return s, nil
}
