package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/guard"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/pricofy/games-api/internal/store"
)

// GameService manages catalog entries.
type GameService struct {
	games store.GameStore
	guard *guard.Guard
	newID func() string
}

// NewGameService creates a GameService.
func NewGameService(games store.GameStore, g *guard.Guard) *GameService {
	return &GameService{games: games, guard: g, newID: uuid.NewString}
}

// ParseFilter builds a game filter from raw query parameters. popularity
// and op must be given together.
func ParseFilter(genre, popularity, op string) (domain.GameFilter, error) {
	f := domain.GameFilter{Genre: genre}

	if op != "" {
		parsed, err := domain.ParsePopularityOp(op)
		if err != nil {
			return domain.GameFilter{}, apperr.InvalidFilter(op)
		}
		f.Op = parsed
	}

	if popularity != "" {
		n, err := strconv.Atoi(popularity)
		if err != nil {
			return domain.GameFilter{}, apperr.Validation("popularity must be an integer", err)
		}
		f.Popularity = &n
	}

	if (f.Popularity == nil) != (f.Op == "") {
		return domain.GameFilter{}, apperr.Validation("popularity and filter must be given together", nil)
	}
	return f, nil
}

// List returns every game.
func (s *GameService) List(ctx context.Context) ([]domain.Game, error) {
	games, err := s.games.ListGames(ctx)
	if err != nil {
		return nil, apperr.Dependency("failed to list games", err)
	}
	return games, nil
}

// ListByUser returns one user's games narrowed by f.
func (s *GameService) ListByUser(ctx context.Context, userID string, f domain.GameFilter) ([]domain.Game, error) {
	games, err := s.games.ListUserGames(ctx, userID, f)
	if err != nil {
		return nil, apperr.Dependency("failed to query games", err)
	}
	return games, nil
}

// FindByID returns the games stored under gameID, across owners.
func (s *GameService) FindByID(ctx context.Context, gameID string) ([]domain.Game, error) {
	games, err := s.games.FindGamesByID(ctx, gameID)
	if err != nil {
		return nil, apperr.Dependency("failed to query games", err)
	}
	if len(games) == 0 {
		return nil, apperr.NotFound("game")
	}
	return games, nil
}

// Get returns one game.
func (s *GameService) Get(ctx context.Context, userID, gameID string) (*domain.Game, error) {
	g, err := s.games.GetGame(ctx, userID, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("game")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to load game", err)
	}
	return g, nil
}

// Create stores a new game under the caller's profile.
func (s *GameService) Create(ctx context.Context, claim domain.Claim, req domain.GameRequest) (*domain.Game, error) {
	owner, err := s.guard.Owner(ctx, claim)
	if err != nil {
		return nil, err
	}

	g := applyGame(domain.Game{UserID: owner.UserID, GameID: s.newID()}, req)
	err = s.games.CreateGame(ctx, g)
	if errors.Is(err, store.ErrConflict) {
		return nil, apperr.Conflict("game already exists", err)
	}
	if err != nil {
		return nil, apperr.Dependency("failed to create game", err)
	}

	logger.Log.Infow("game created", "userId", g.UserID, "gameId", g.GameID)
	return &g, nil
}

// Update replaces the mutable fields of a game the caller owns.
func (s *GameService) Update(ctx context.Context, claim domain.Claim, userID, gameID string, req domain.GameRequest) (*domain.Game, error) {
	existing, err := s.guard.CanMutateGame(ctx, claim, userID, gameID)
	if err != nil {
		return nil, err
	}

	g := applyGame(*existing, req)
	err = s.games.UpdateGame(ctx, g)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("game")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to update game", err)
	}

	logger.Log.Infow("game updated", "userId", g.UserID, "gameId", g.GameID)
	return &g, nil
}

// Delete removes a game the caller owns.
func (s *GameService) Delete(ctx context.Context, claim domain.Claim, userID, gameID string) error {
	g, err := s.guard.CanMutateGame(ctx, claim, userID, gameID)
	if err != nil {
		return err
	}
	if err := s.games.DeleteGame(ctx, g.UserID, g.GameID); err != nil {
		return apperr.Dependency("failed to delete game", err)
	}

	logger.Log.Infow("game deleted", "userId", g.UserID, "gameId", g.GameID)
	return nil
}

func applyGame(g domain.Game, req domain.GameRequest) domain.Game {
	g.Title = req.Title
	g.Genre = req.Genre
	g.Description = req.Description
	g.ReleaseYear = req.ReleaseYear
	g.Platform = req.Platform
	if req.Popularity != nil {
		g.Popularity = *req.Popularity
	}
	g.SourceLanguage = req.SourceLanguage
	return g
}
