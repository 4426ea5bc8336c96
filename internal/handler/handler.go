// Package handler turns API Gateway proxy events into use-case calls and
// shapes their results into JSON responses.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/auth"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/pricofy/games-api/internal/memo"
	"github.com/pricofy/games-api/internal/service"
)

// TokenVerifier validates the identity token carried by the cookie.
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*domain.Claim, error)
}

// IdentityProvider issues and confirms credentials.
type IdentityProvider interface {
	SignIn(ctx context.Context, username, password string) (string, error)
	ConfirmSignUp(ctx context.Context, username, code string) error
}

// Deps are the collaborators a Handler dispatches to.
type Deps struct {
	Verifier     TokenVerifier
	Identity     IdentityProvider
	Profiles     *service.ProfileService
	Games        *service.GameService
	Translations *memo.Service
	CookieMaxAge time.Duration
}

type routeFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Handler routes proxy events by resource template and method.
type Handler struct {
	deps   Deps
	routes map[string]routeFunc
}

// New creates a Handler.
func New(deps Deps) *Handler {
	h := &Handler{deps: deps}
	h.routes = map[string]routeFunc{
		"GET /games":                               h.listGames,
		"POST /games":                              h.createGame,
		"GET /games/{userId}":                      h.listUserGames,
		"PUT /games/{userId}":                      h.updateGame,
		"DELETE /games/{userId}":                   h.deleteGame,
		"GET /games/{userId}/{gameId}":             h.getGame,
		"GET /games/{userId}/{gameId}/translation": h.translateGame,
		"GET /profile":                             h.getProfile,
		"POST /profile":                            h.createProfile,
		"PUT /profile":                             h.updateProfile,
		"PUT /profile/{userId}":                    h.updateProfile,
		"DELETE /profile":                          h.deleteProfile,
		"POST /auth/signin":                        h.signIn,
		"POST /auth/signup/confirm":                h.confirmSignUp,
		"POST /auth/signout":                       h.signOut,
	}
	return h
}

// Routes returns the "METHOD /resource" keys the handler serves.
func (h *Handler) Routes() []string {
	keys := make([]string, 0, len(h.routes))
	for k := range h.routes {
		keys = append(keys, k)
	}
	return keys
}

// Handle serves one proxy event. Every failure becomes exactly one
// response; the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if req.HTTPMethod == http.MethodOptions {
		return respond(http.StatusOK, "ok", nil), nil
	}

	route, ok := h.routes[req.HTTPMethod+" "+req.Resource]
	if !ok {
		return respondError(req, apperr.NotFound("route")), nil
	}

	resp, err := route(ctx, req)
	if err != nil {
		return respondError(req, err), nil
	}
	return resp, nil
}

// authenticate verifies the token cookie. Missing and invalid tokens are
// both unauthenticated.
func (h *Handler) authenticate(ctx context.Context, req events.APIGatewayProxyRequest) (domain.Claim, error) {
	token, ok := auth.TokenFromCookieHeader(cookieHeader(req.Headers, req.MultiValueHeaders))
	if !ok {
		return domain.Claim{}, apperr.Unauthenticated("missing token cookie, sign in first", nil)
	}
	claim, err := h.deps.Verifier.Verify(ctx, token)
	if err != nil {
		return domain.Claim{}, apperr.Unauthenticated("invalid or expired token, sign in again", err)
	}
	return *claim, nil
}

// decodeBody strictly decodes the JSON body into dst and validates it.
func decodeBody(req events.APIGatewayProxyRequest, dst any) error {
	body := req.Body
	if req.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return apperr.Validation("invalid request body", err)
		}
		body = string(raw)
	}
	if strings.TrimSpace(body) == "" {
		return apperr.Validation("request body is required", nil)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid request body", err)
	}
	if err := domain.Validate(dst); err != nil {
		return apperr.Validation(domain.ValidationMessage(err), err)
	}
	return nil
}

func pathParam(req events.APIGatewayProxyRequest, name string) (string, error) {
	v := req.PathParameters[name]
	if v == "" {
		return "", apperr.Validation(name+" path parameter is required", nil)
	}
	return v, nil
}

func queryParam(req events.APIGatewayProxyRequest, name string) (string, error) {
	v := req.QueryStringParameters[name]
	if v == "" {
		return "", apperr.Validation(name+" query parameter is required", nil)
	}
	return v, nil
}

func logRequestError(req events.APIGatewayProxyRequest, e *apperr.Error) {
	fields := []any{
		"method", req.HTTPMethod,
		"resource", req.Resource,
		"status", e.Status(),
		"code", e.Code,
	}
	if e.Err != nil {
		fields = append(fields, "error", e.Err)
	}
	if e.Status() >= http.StatusInternalServerError {
		logger.Log.Errorw(e.Message, fields...)
		return
	}
	logger.Log.Infow(e.Message, fields...)
}
