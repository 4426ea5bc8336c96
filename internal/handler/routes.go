package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/service"
)

func (h *Handler) listGames(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if gameID := req.QueryStringParameters["gameId"]; gameID != "" {
		games, err := h.deps.Games.FindByID(ctx, gameID)
		if err != nil {
			return events.APIGatewayProxyResponse{}, err
		}
		return respond(http.StatusOK, "games found", games), nil
	}

	games, err := h.deps.Games.List(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "games found", games), nil
}

func (h *Handler) listUserGames(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := pathParam(req, "userId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	q := req.QueryStringParameters
	filter, err := service.ParseFilter(q["genre"], q["popularity"], q["filter"])
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	games, err := h.deps.Games.ListByUser(ctx, userID, filter)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "games found", games), nil
}

func (h *Handler) getGame(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	userID, err := pathParam(req, "userId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	gameID, err := pathParam(req, "gameId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	g, err := h.deps.Games.Get(ctx, userID, gameID)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "game found", g), nil
}

func (h *Handler) createGame(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claim, err := h.authenticate(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	var body domain.GameRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	g, err := h.deps.Games.Create(ctx, claim, body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusCreated, "game created", g), nil
}

func (h *Handler) updateGame(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claim, err := h.authenticate(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	userID, err := pathParam(req, "userId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	gameID, err := queryParam(req, "gameId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	var body domain.GameRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	g, err := h.deps.Games.Update(ctx, claim, userID, gameID, body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "game updated", g), nil
}

func (h *Handler) deleteGame(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claim, err := h.authenticate(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	userID, err := pathParam(req, "userId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	gameID, err := queryParam(req, "gameId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	if err := h.deps.Games.Delete(ctx, claim, userID, gameID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "game deleted", nil), nil
}

func (h *Handler) translateGame(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if _, err := h.authenticate(ctx, req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	userID, err := pathParam(req, "userId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	gameID, err := pathParam(req, "gameId")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	language, err := queryParam(req, "language")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	res, err := h.deps.Translations.Translate(ctx, userID, gameID, language)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "translation ready", res), nil
}

func (h *Handler) getProfile(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	username, err := queryParam(req, "username")
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	p, err := h.deps.Profiles.GetByUsername(ctx, username)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "profile found", p), nil
}

func (h *Handler) createProfile(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claim, err := h.authenticate(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	var body domain.CreateProfileRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	p, err := h.deps.Profiles.Create(ctx, claim, body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusCreated, "profile created", p), nil
}

// profileID reads the target profile from the path, falling back to ?userId=.
func profileID(req events.APIGatewayProxyRequest) (string, error) {
	if id := req.PathParameters["userId"]; id != "" {
		return id, nil
	}
	return queryParam(req, "userId")
}

func (h *Handler) updateProfile(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claim, err := h.authenticate(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	userID, err := profileID(req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	var body domain.UpdateProfileRequest
	if err := decodeBody(req, &body); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	p, err := h.deps.Profiles.Update(ctx, claim, userID, body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "profile updated", p), nil
}

func (h *Handler) deleteProfile(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	claim, err := h.authenticate(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	userID, err := profileID(req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	if err := h.deps.Profiles.Delete(ctx, claim, userID); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return respond(http.StatusOK, "profile and games deleted", nil), nil
}
