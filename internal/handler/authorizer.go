package handler

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/games-api/internal/auth"
	"github.com/pricofy/games-api/internal/logger"
)

// Authorizer is an API Gateway REQUEST authorizer keyed on the token cookie.
type Authorizer struct {
	verifier TokenVerifier
}

// NewAuthorizer creates an Authorizer.
func NewAuthorizer(v TokenVerifier) *Authorizer {
	return &Authorizer{verifier: v}
}

// Authorize returns an Allow policy carrying sub and email for a valid
// token, and a Deny policy otherwise.
func (a *Authorizer) Authorize(ctx context.Context, req events.APIGatewayCustomAuthorizerRequestTypeRequest) (events.APIGatewayCustomAuthorizerResponse, error) {
	token, ok := auth.TokenFromCookieHeader(cookieHeader(req.Headers, req.MultiValueHeaders))
	if !ok {
		logger.Log.Infow("authorizer denied request", "reason", "missing token cookie", "methodArn", req.MethodArn)
		return policy("anonymous", "Deny", req.MethodArn, nil), nil
	}

	claim, err := a.verifier.Verify(ctx, token)
	if err != nil {
		logger.Log.Infow("authorizer denied request", "reason", err.Error(), "methodArn", req.MethodArn)
		return policy("anonymous", "Deny", req.MethodArn, nil), nil
	}

	return policy(claim.Subject, "Allow", req.MethodArn, map[string]interface{}{
		"sub":   claim.Subject,
		"email": claim.Email,
	}), nil
}

func policy(principal, effect, resource string, ctx map[string]interface{}) events.APIGatewayCustomAuthorizerResponse {
	return events.APIGatewayCustomAuthorizerResponse{
		PrincipalID: principal,
		PolicyDocument: events.APIGatewayCustomAuthorizerPolicy{
			Version: "2012-10-17",
			Statement: []events.IAMPolicyStatement{{
				Action:   []string{"execute-api:Invoke"},
				Effect:   effect,
				Resource: []string{resource},
			}},
		},
		Context: ctx,
	}
}

// cookieHeader finds the Cookie header regardless of case.
func cookieHeader(headers map[string]string, multi map[string][]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "Cookie") {
			return v
		}
	}
	for k, v := range multi {
		if strings.EqualFold(k, "Cookie") && len(v) > 0 {
			return strings.Join(v, "; ")
		}
	}
	return ""
}
