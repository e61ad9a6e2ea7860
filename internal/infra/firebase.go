// README: Bearer token verification for run API callers; Firebase ID tokens are one backend.
package infra

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Token is the verified identity of a run API caller. UID owns submitted runs
// and is the key of the insight quota; Claims may carry a "role".
type Token struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier turns a raw bearer token into a caller identity.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier accepts ID tokens minted for projectID. Service-account
// JSON is read from credentialsFile when set, else application-default
// credentials apply.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase verifier: project id is required")
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	tok, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("firebase token: %w", err)
	}
	if tok.UID == "" {
		return nil, errors.New("firebase token: empty uid")
	}
	return &Token{UID: tok.UID, Claims: tok.Claims}, nil
}
