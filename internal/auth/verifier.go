// Package auth verifies identity tokens and talks to the identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/pricofy/games-api/internal/domain"
)

// ErrInvalidToken is returned for every verification failure: transport
// errors while fetching keys, malformed or expired tokens, unknown key ids
// and signature mismatches all map to it.
var ErrInvalidToken = errors.New("invalid identity token")

const signingAlgorithm = "RS256"

// Verifier validates identity tokens issued by a Cognito user pool.
type Verifier struct {
	jwksURL    string
	issuer     string
	httpClient *http.Client
	attempts   int
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithHTTPClient replaces the client used to fetch signing keys.
func WithHTTPClient(c *http.Client) VerifierOption {
	return func(v *Verifier) { v.httpClient = c }
}

// WithFetchAttempts bounds how many times the key set is fetched before
// giving up. Values below one are ignored.
func WithFetchAttempts(n int) VerifierOption {
	return func(v *Verifier) {
		if n > 0 {
			v.attempts = n
		}
	}
}

// WithEndpoints overrides the key set URL and expected issuer.
func WithEndpoints(jwksURL, issuer string) VerifierOption {
	return func(v *Verifier) {
		v.jwksURL = jwksURL
		v.issuer = issuer
	}
}

// NewVerifier creates a Verifier for the given user pool.
func NewVerifier(region, userPoolID string, opts ...VerifierOption) *Verifier {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, userPoolID)
	v := &Verifier{
		jwksURL:    issuer + "/.well-known/jwks.json",
		issuer:     issuer,
		httpClient: &http.Client{Timeout: 3 * time.Second},
		attempts:   1,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

type idTokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify checks rawToken and returns its claims. Any failure yields
// ErrInvalidToken; callers treat it as unauthenticated.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*domain.Claim, error) {
	if rawToken == "" {
		return nil, ErrInvalidToken
	}

	jwks, err := v.fetchKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims idTokenClaims
	token, err := jwt.ParseWithClaims(rawToken, &claims, jwks.Keyfunc,
		jwt.WithValidMethods([]string{signingAlgorithm}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing subject or email", ErrInvalidToken)
	}

	return &domain.Claim{Subject: claims.Subject, Email: claims.Email}, nil
}

// fetchKeys downloads the issuer's key set. The key used for a token is
// chosen by the kid in its header; a token without a matching kid fails.
func (v *Verifier) fetchKeys(ctx context.Context) (*keyfunc.JWKS, error) {
	var lastErr error
	for i := 0; i < v.attempts; i++ {
		body, err := v.get(ctx)
		if err == nil {
			return keyfunc.NewJSON(body)
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("failed to fetch signing keys: %w", lastErr)
}

func (v *Verifier) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
