package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/games-api/internal/auth"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/guard"
	"github.com/pricofy/games-api/internal/memo"
	"github.com/pricofy/games-api/internal/service"
	"github.com/pricofy/games-api/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier accepts tokens named after the claims it knows.
type fakeVerifier struct {
	claims map[string]domain.Claim
}

func (f fakeVerifier) Verify(_ context.Context, token string) (*domain.Claim, error) {
	c, ok := f.claims[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &c, nil
}

type fakeIdentity struct {
	token      string
	signInErr  error
	confirmErr error
}

func (f fakeIdentity) SignIn(context.Context, string, string) (string, error) {
	return f.token, f.signInErr
}

func (f fakeIdentity) ConfirmSignUp(context.Context, string, string) error {
	return f.confirmErr
}

type echoTranslator struct {
	calls int
}

func (e *echoTranslator) Translate(_ context.Context, text, _, target string) (string, error) {
	e.calls++
	return text + "@" + target, nil
}

type testEnv struct {
	store      *memory.Store
	handler    *Handler
	translator *echoTranslator
}

func newEnv(t *testing.T, identity fakeIdentity) *testEnv {
	t.Helper()
	s := memory.New()
	g := guard.New(s, s)
	tr := &echoTranslator{}

	h := New(Deps{
		Verifier: fakeVerifier{claims: map[string]domain.Claim{
			"alice-token": {Subject: "sub-a", Email: "alice@example.com"},
			"bob-token":   {Subject: "sub-b", Email: "bob@example.com"},
		}},
		Identity:     identity,
		Profiles:     service.NewProfileService(s, g),
		Games:        service.NewGameService(s, g),
		Translations: memo.New(s, s, tr),
		CookieMaxAge: time.Hour,
	})
	return &testEnv{store: s, handler: h, translator: tr}
}

func (e *testEnv) do(t *testing.T, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, map[string]json.RawMessage) {
	t.Helper()
	resp, err := e.handler.Handle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return resp, body
}

func as(token string, req events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
	if req.Headers == nil {
		req.Headers = map[string]string{}
	}
	req.Headers["cookie"] = "theme=dark; token=" + token
	return req
}

func errorCode(t *testing.T, body map[string]json.RawMessage) string {
	t.Helper()
	var detail ErrorDetail
	require.Contains(t, body, "error")
	require.NoError(t, json.Unmarshal(body["error"], &detail))
	return detail.Code
}

func decodeData(t *testing.T, body map[string]json.RawMessage, dst any) {
	t.Helper()
	require.Contains(t, body, "data")
	require.NoError(t, json.Unmarshal(body["data"], dst))
}

const gameBody = `{"title":"Space Adventure","genre":"RPG","description":"Explore","releaseYear":2020,"platform":["PC"],"popularity":85,"sourceLanguage":"en"}`

func (e *testEnv) createProfile(t *testing.T, token, username string) domain.UserProfile {
	t.Helper()
	resp, body := e.do(t, as(token, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Resource: "/profile",
		Body: `{"username":"` + username + `","name":"Test"}`,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	var p domain.UserProfile
	decodeData(t, body, &p)
	return p
}

func (e *testEnv) createGame(t *testing.T, token string) domain.Game {
	t.Helper()
	resp, body := e.do(t, as(token, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Resource: "/games", Body: gameBody,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode, resp.Body)
	var g domain.Game
	decodeData(t, body, &g)
	return g
}

func TestHandle_UnknownRoute(t *testing.T) {
	env := newEnv(t, fakeIdentity{})

	resp, body := env.do(t, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPatch, Resource: "/games"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestHandle_Preflight(t *testing.T) {
	env := newEnv(t, fakeIdentity{})

	resp, _ := env.do(t, events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions, Resource: "/games"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Headers"])
}

func TestHandle_MutationsRequireValidToken(t *testing.T) {
	routes := []events.APIGatewayProxyRequest{
		{HTTPMethod: http.MethodPost, Resource: "/games", Body: gameBody},
		{HTTPMethod: http.MethodPut, Resource: "/games/{userId}", PathParameters: map[string]string{"userId": "u1"}, QueryStringParameters: map[string]string{"gameId": "G1"}, Body: gameBody},
		{HTTPMethod: http.MethodDelete, Resource: "/games/{userId}", PathParameters: map[string]string{"userId": "u1"}, QueryStringParameters: map[string]string{"gameId": "G1"}},
		{HTTPMethod: http.MethodPost, Resource: "/profile", Body: `{"username":"alice","name":"A"}`},
		{HTTPMethod: http.MethodPut, Resource: "/profile/{userId}", PathParameters: map[string]string{"userId": "u1"}, Body: `{"username":"alice","name":"A"}`},
		{HTTPMethod: http.MethodDelete, Resource: "/profile", QueryStringParameters: map[string]string{"userId": "u1"}},
		{HTTPMethod: http.MethodGet, Resource: "/games/{userId}/{gameId}/translation", PathParameters: map[string]string{"userId": "u1", "gameId": "G1"}, QueryStringParameters: map[string]string{"language": "French"}},
	}

	for _, req := range routes {
		t.Run(req.HTTPMethod+" "+req.Resource, func(t *testing.T) {
			env := newEnv(t, fakeIdentity{})
			require.NoError(t, env.store.SeedUsers(context.Background(), []domain.UserProfile{{UserID: "u1", Username: "alice", Email: "alice@example.com"}}))
			require.NoError(t, env.store.SeedGames(context.Background(), []domain.Game{{UserID: "u1", GameID: "G1", Title: "Keep", SourceLanguage: "en"}}))

			for _, r := range []events.APIGatewayProxyRequest{req, as("forged", req)} {
				resp, body := env.do(t, r)
				assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
				assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
			}

			g, err := env.store.GetGame(context.Background(), "u1", "G1")
			require.NoError(t, err)
			assert.Equal(t, "Keep", g.Title)
			p, err := env.store.GetUser(context.Background(), "u1")
			require.NoError(t, err)
			assert.Equal(t, "alice", p.Username)
			games, err := env.store.ListGames(context.Background())
			require.NoError(t, err)
			assert.Len(t, games, 1)
		})
	}
}

func TestHandle_ProfileLifecycle(t *testing.T) {
	env := newEnv(t, fakeIdentity{})
	p := env.createProfile(t, "alice-token", "alice")
	assert.Equal(t, "alice@example.com", p.Email)

	resp, body := env.do(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet, Resource: "/profile",
		QueryStringParameters: map[string]string{"username": "alice"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got domain.UserProfile
	decodeData(t, body, &got)
	assert.Equal(t, p.UserID, got.UserID)

	resp, body = env.do(t, as("alice-token", events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Resource: "/profile", Body: `{"username":"again","name":"A"}`,
	}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))

	resp, _ = env.do(t, as("bob-token", events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut, Resource: "/profile",
		QueryStringParameters: map[string]string{"userId": p.UserID},
		Body:                  `{"username":"mallory","name":"M"}`,
	}))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.do(t, as("alice-token", events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut, Resource: "/profile/{userId}",
		PathParameters: map[string]string{"userId": p.UserID},
		Body:           `{"username":"alice","name":"Alice Liddell","favoriteGenres":["RPG"]}`,
	}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, body, &got)
	assert.Equal(t, "Alice Liddell", got.Name)

	resp, _ = env.do(t, as("alice-token", events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodDelete, Resource: "/profile",
		QueryStringParameters: map[string]string{"userId": p.UserID},
	}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet, Resource: "/profile",
		QueryStringParameters: map[string]string{"username": "alice"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandle_BodyValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "empty body", body: "", wantMessage: "request body is required"},
		{name: "malformed json", body: "{", wantMessage: "invalid request body"},
		{name: "unknown field", body: `{"username":"alice","name":"A","email":"x@example.com"}`, wantMessage: "invalid request body"},
		{name: "missing name", body: `{"username":"alice"}`, wantMessage: "name is required"},
		{name: "short username", body: `{"username":"al","name":"A"}`, wantMessage: "username must be at least 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, fakeIdentity{})
			resp, body := env.do(t, as("alice-token", events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost, Resource: "/profile", Body: tt.body,
			}))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var detail ErrorDetail
			require.NoError(t, json.Unmarshal(body["error"], &detail))
			assert.Equal(t, "VALIDATION_ERROR", detail.Code)
			assert.Equal(t, tt.wantMessage, detail.Message)
		})
	}
}

func TestHandle_GameLifecycle(t *testing.T) {
	env := newEnv(t, fakeIdentity{})
	alice := env.createProfile(t, "alice-token", "alice")
	env.createProfile(t, "bob-token", "bob")
	g := env.createGame(t, "alice-token")
	assert.Equal(t, alice.UserID, g.UserID)
	assert.NotEmpty(t, g.GameID)

	resp, body := env.do(t, events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Resource: "/games"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var games []domain.Game
	decodeData(t, body, &games)
	assert.Len(t, games, 1)

	resp, body = env.do(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet, Resource: "/games",
		QueryStringParameters: map[string]string{"gameId": g.GameID},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, body, &games)
	assert.Len(t, games, 1)

	resp, _ = env.do(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet, Resource: "/games/{userId}/{gameId}",
		PathParameters: map[string]string{"userId": g.UserID, "gameId": g.GameID},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	update := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut, Resource: "/games/{userId}",
		PathParameters:        map[string]string{"userId": g.UserID},
		QueryStringParameters: map[string]string{"gameId": g.GameID},
		Body:                  strings.Replace(gameBody, "Space Adventure", "Space Odyssey", 1),
	}
	resp, _ = env.do(t, as("bob-token", update))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.do(t, as("alice-token", update))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated domain.Game
	decodeData(t, body, &updated)
	assert.Equal(t, "Space Odyssey", updated.Title)

	del := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodDelete, Resource: "/games/{userId}",
		PathParameters:        map[string]string{"userId": g.UserID},
		QueryStringParameters: map[string]string{"gameId": g.GameID},
	}
	resp, _ = env.do(t, as("bob-token", del))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = env.do(t, as("alice-token", del))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, as("alice-token", del))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandle_UpdateGameRequiresGameID(t *testing.T) {
	env := newEnv(t, fakeIdentity{})

	resp, body := env.do(t, as("alice-token", events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPut, Resource: "/games/{userId}",
		PathParameters: map[string]string{"userId": "u1"},
		Body:           gameBody,
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, body))
}

func TestHandle_GameFilters(t *testing.T) {
	env := newEnv(t, fakeIdentity{})
	require.NoError(t, env.store.SeedGames(context.Background(), []domain.Game{
		{UserID: "u1", GameID: "G1", Genre: "RPG", Popularity: 90},
		{UserID: "u1", GameID: "G2", Genre: "RPG", Popularity: 80},
		{UserID: "u1", GameID: "G3", Genre: "Action", Popularity: 99},
		{UserID: "u2", GameID: "G4", Genre: "RPG", Popularity: 99},
	}))

	tests := []struct {
		name       string
		query      map[string]string
		wantStatus int
		wantIDs    []string
		wantCode   string
	}{
		{name: "no filter", query: nil, wantStatus: http.StatusOK, wantIDs: []string{"G1", "G2", "G3"}},
		{name: "genre and gt", query: map[string]string{"genre": "RPG", "popularity": "80", "filter": "gt"}, wantStatus: http.StatusOK, wantIDs: []string{"G1"}},
		{name: "et", query: map[string]string{"popularity": "80", "filter": "et"}, wantStatus: http.StatusOK, wantIDs: []string{"G2"}},
		{name: "invalid operator", query: map[string]string{"popularity": "80", "filter": "ge"}, wantStatus: http.StatusBadRequest, wantCode: "INVALID_FILTER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := env.do(t, events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodGet, Resource: "/games/{userId}",
				PathParameters:        map[string]string{"userId": "u1"},
				QueryStringParameters: tt.query,
			})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, body))
				assert.Contains(t, resp.Body, "ge")
				return
			}
			var games []domain.Game
			decodeData(t, body, &games)
			ids := make([]string, 0, len(games))
			for _, g := range games {
				ids = append(ids, g.GameID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestHandle_Translation(t *testing.T) {
	env := newEnv(t, fakeIdentity{})
	env.createProfile(t, "alice-token", "alice")
	g := env.createGame(t, "alice-token")

	req := func(language string) events.APIGatewayProxyRequest {
		return as("bob-token", events.APIGatewayProxyRequest{
			HTTPMethod: http.MethodGet, Resource: "/games/{userId}/{gameId}/translation",
			PathParameters:        map[string]string{"userId": g.UserID, "gameId": g.GameID},
			QueryStringParameters: map[string]string{"language": language},
		})
	}

	resp, body := env.do(t, req("Klingon"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_LANGUAGE", errorCode(t, body))

	resp, body = env.do(t, req("French"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first domain.TranslationResult
	decodeData(t, body, &first)
	assert.True(t, first.Translated)
	assert.Equal(t, "Space Adventure@fr", first.Data.Title)

	resp, body = env.do(t, req("French"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second domain.TranslationResult
	decodeData(t, body, &second)
	assert.True(t, second.CacheUsed)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 3, env.translator.calls)

	resp, body = env.do(t, req("English"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var same domain.TranslationResult
	decodeData(t, body, &same)
	assert.False(t, same.Translated)
	assert.False(t, same.CacheUsed)
	assert.Equal(t, "Space Adventure", same.Data.Title)
}

func TestHandle_SignIn(t *testing.T) {
	env := newEnv(t, fakeIdentity{token: "jwt-value"})

	resp, _ := env.do(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Resource: "/auth/signin",
		Body: `{"username":"alice","password":"secret"}`,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "token=jwt-value; SameSite=None; Secure; HttpOnly; Path=/; Max-Age=3600;", resp.Headers["Set-Cookie"])
	assert.NotContains(t, resp.Body, "jwt-value")
}

func TestHandle_SignInRejected(t *testing.T) {
	env := newEnv(t, fakeIdentity{signInErr: auth.ErrSignInRejected})

	resp, body := env.do(t, events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost, Resource: "/auth/signin",
		Body: `{"username":"alice","password":"wrong"}`,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "SIGN_IN_FAILED", errorCode(t, body))
	assert.Empty(t, resp.Headers["Set-Cookie"])
}

func TestHandle_ConfirmSignUp(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "confirmed", wantStatus: http.StatusOK},
		{name: "bad code", err: auth.ErrConfirmationRejected, wantStatus: http.StatusBadRequest},
		{name: "provider down", err: errors.New("timeout"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newEnv(t, fakeIdentity{confirmErr: tt.err})
			resp, _ := env.do(t, events.APIGatewayProxyRequest{
				HTTPMethod: http.MethodPost, Resource: "/auth/signup/confirm",
				Body: `{"username":"alice","code":"123456"}`,
			})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.NotContains(t, resp.Body, "timeout")
		})
	}
}

func TestHandle_SignOut(t *testing.T) {
	env := newEnv(t, fakeIdentity{})

	resp, _ := env.do(t, events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Resource: "/auth/signout"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Headers["Set-Cookie"], "expires=Thu, 01 Jan 1970 00:00:00 GMT")
}

func TestAuthorizer(t *testing.T) {
	a := NewAuthorizer(fakeVerifier{claims: map[string]domain.Claim{
		"alice-token": {Subject: "sub-a", Email: "alice@example.com"},
	}})
	arn := "arn:aws:execute-api:eu-west-1:123:api/dev/GET/games"

	tests := []struct {
		name       string
		headers    map[string]string
		wantEffect string
	}{
		{name: "valid cookie", headers: map[string]string{"Cookie": "token=alice-token"}, wantEffect: "Allow"},
		{name: "lowercase header", headers: map[string]string{"cookie": "token=alice-token"}, wantEffect: "Allow"},
		{name: "invalid token", headers: map[string]string{"Cookie": "token=bogus"}, wantEffect: "Deny"},
		{name: "no cookie", headers: nil, wantEffect: "Deny"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := a.Authorize(context.Background(), events.APIGatewayCustomAuthorizerRequestTypeRequest{
				MethodArn: arn,
				Headers:   tt.headers,
			})
			require.NoError(t, err)
			require.Len(t, resp.PolicyDocument.Statement, 1)
			stmt := resp.PolicyDocument.Statement[0]
			assert.Equal(t, tt.wantEffect, stmt.Effect)
			assert.Equal(t, []string{arn}, stmt.Resource)
			assert.Equal(t, []string{"execute-api:Invoke"}, stmt.Action)
			if tt.wantEffect == "Allow" {
				assert.Equal(t, "sub-a", resp.PrincipalID)
				assert.Equal(t, "alice@example.com", resp.Context["email"])
			} else {
				assert.Nil(t, resp.Context)
			}
		})
	}
}
