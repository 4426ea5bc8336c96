package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/auth"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/logger"
)

func (h *Handler) signIn(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body domain.SignInRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	token, err := h.deps.Identity.SignIn(ctx, body.Username, body.Password)
	if errors.Is(err, auth.ErrSignInRejected) {
		return events.APIGatewayProxyResponse{}, &apperr.Error{
			Kind:    apperr.KindAuthentication,
			Code:    apperr.CodeSignInRejected,
			Message: "incorrect username or password",
			Err:     err,
		}
	}
	if err != nil {
		return events.APIGatewayProxyResponse{}, apperr.Dependency("sign-in failed", err)
	}

	logger.Log.Infow("user signed in", "username", body.Username)
	resp := respond(http.StatusOK, "signed in", nil)
	return withCookie(resp, auth.SignInCookie(token, h.deps.CookieMaxAge)), nil
}

func (h *Handler) confirmSignUp(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var body domain.ConfirmSignUpRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	err := h.deps.Identity.ConfirmSignUp(ctx, body.Username, body.Code)
	if errors.Is(err, auth.ErrConfirmationRejected) {
		return events.APIGatewayProxyResponse{}, apperr.Validation("invalid or expired confirmation code", err)
	}
	if err != nil {
		return events.APIGatewayProxyResponse{}, apperr.Dependency("sign-up confirmation failed", err)
	}
	return respond(http.StatusOK, "user "+body.Username+" confirmed", nil), nil
}

func (h *Handler) signOut(_ context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp := respond(http.StatusOK, "signed out", nil)
	return withCookie(resp, auth.SignOutCookie()), nil
}
