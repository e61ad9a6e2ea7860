// README: HS256 bearer token verifier and verifier chaining.
package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoVerifier = errors.New("no token verifier configured")

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier accepts HS256 tokens signed with secret. The subject claim
// becomes the caller UID.
func NewJWTVerifier(secret string) TokenVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) VerifyIDToken(_ context.Context, raw string) (*Token, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return nil, err
	}
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return &Token{UID: sub, Claims: claims}, nil
}

// SignJWT issues an HS256 token for uid; used by tooling and tests.
func SignJWT(secret, uid string, claims map[string]interface{}) (string, error) {
	mc := jwt.MapClaims{"sub": uid}
	for k, v := range claims {
		mc[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(secret))
}

type chainVerifier []TokenVerifier

// ChainVerifiers tries each verifier in order and returns the first success.
// Nil entries are skipped.
func ChainVerifiers(vs ...TokenVerifier) TokenVerifier {
	var out chainVerifier
	for _, v := range vs {
		if v != nil {
			out = append(out, v)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (c chainVerifier) VerifyIDToken(ctx context.Context, raw string) (*Token, error) {
	if len(c) == 0 {
		return nil, ErrNoVerifier
	}
	var errs []error
	for _, v := range c {
		tok, err := v.VerifyIDToken(ctx, raw)
		if err == nil {
			return tok, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}
