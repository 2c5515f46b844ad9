package corporate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bitbucket.org/crgw/transfers-web/internal/schema"
	"bitbucket.org/crgw/transfers-web/internal/tools/client"
	"github.com/golang-jwt/jwt/v4"
)

var ErrTokenExpired = errors.New("session token expired")

type Claims struct {
	UserID    string `json:"userId"`
	AccountID string `json:"accountId"`
	jwt.RegisteredClaims
}

// DecodeClaims reads the token claims without checking the signature, the auth
// service stays the only authority on validity. Expired tokens are rejected.
func DecodeClaims(token string, now time.Time) (*Claims, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("could not parse session token: %w", err)
	}

	if claims.ExpiresAt != nil && !now.Before(claims.ExpiresAt.Time) {
		return claims, ErrTokenExpired
	}

	return claims, nil
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, credentials schema.Credentials) (schema.LoginResult, error) {
	var result schema.LoginResult
	err := c.client.Post(ctx, "/auth/login", credentials, &result)
	if err != nil {
		return result, err
	}

	if result.Token == "" {
		return result, schema.APIError{StatusCode: http.StatusBadGateway, Err: errors.New("missing token in login response")}
	}

	if result.ExpiresAt.IsZero() {
		claims, err := DecodeClaims(result.Token, time.Now())
		if err != nil {
			return result, err
		}
		if claims.ExpiresAt != nil {
			result.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	return result, nil
}

// VerifySession asks the auth service who the token belongs to.
func (c *Client) VerifySession(ctx context.Context, token string) (schema.VerifiedSession, error) {
	var verified schema.VerifiedSession
	err := c.client.Get(ctx, "/auth/session", &verified, client.WithBearer(token))
	return verified, err
}
