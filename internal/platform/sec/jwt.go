// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec signs and verifies the browser identifier cookie.
//
// # Architecture
//
// The admin server never sees a password. The only secret it owns is the key
// that makes the rr_sid cookie tamper-proof: a short HS256 JWT whose subject
// is the browser id. Everything a browser is allowed to do is looked up by
// that id, so a forged id must never verify.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidBrowserToken is returned for any cookie value that does not verify.
var ErrInvalidBrowserToken = errors.New("sec: invalid browser token")

// BrowserClaims is the payload of a browser identifier token.
type BrowserClaims struct {
	jwt.RegisteredClaims
}

// BrowserTokens issues and verifies browser identifier tokens.
type BrowserTokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewBrowserTokens creates a signer. ttl bounds how long a cookie stays valid.
func NewBrowserTokens(secret, issuer string, ttl time.Duration) *BrowserTokens {
	return &BrowserTokens{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the time source; tests use it to check expiry.
func (tokens *BrowserTokens) WithClock(now func() time.Time) *BrowserTokens {
	clone := *tokens
	clone.now = now
	return &clone
}

// NewBrowserID returns a fresh, time-ordered browser identifier.
func NewBrowserID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("sec: generate browser id: %w", err)
	}
	return id.String(), nil
}

// Issue signs a token for browserID.
func (tokens *BrowserTokens) Issue(browserID string) (string, error) {
	currentTime := tokens.now()
	claims := BrowserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   browserID,
			Issuer:    tokens.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(tokens.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tokens.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign browser token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns the browser id it carries.
func (tokens *BrowserTokens) Parse(tokenString string) (string, error) {
	claims := &BrowserClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return tokens.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokens.issuer),
		jwt.WithTimeFunc(tokens.now),
	)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidBrowserToken, err)
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: subject is not a browser id", ErrInvalidBrowserToken)
	}

	return claims.Subject, nil
}
