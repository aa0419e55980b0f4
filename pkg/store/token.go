package store

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNoToken is returned by TokenSource when the store holds no token.
var ErrNoToken = errors.New("store: no access token")

// TokenExpiry reads the exp claim of a JWT access token without verifying it.
// Opaque tokens report ok=false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

type tokenSource struct {
	ctx   context.Context
	store Store
}

// TokenSource exposes the stored token as an oauth2.TokenSource, so the same
// state can authorize clients built with oauth2.NewClient.
func TokenSource(ctx context.Context, s Store) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, store: s}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	state, err := ts.store.State(ts.ctx)
	if err != nil {
		return nil, err
	}
	if state.Token == "" {
		return nil, ErrNoToken
	}
	tok := &oauth2.Token{AccessToken: state.Token, TokenType: "Bearer"}
	if exp, ok := TokenExpiry(state.Token); ok {
		tok.Expiry = exp
	}
	return tok, nil
}
