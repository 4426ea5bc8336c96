// Package guard decides whether a verified identity may mutate a profile
// or a game. Existence is checked before ownership, so a missing resource
// is reported as not found rather than forbidden.
package guard

import (
	"context"
	"errors"

	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/store"
)

// Profiles is the profile lookup the guard needs.
type Profiles interface {
	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
}

// Games is the game lookup the guard needs.
type Games interface {
	GetGame(ctx context.Context, userID, gameID string) (*domain.Game, error)
}

// Guard authorizes mutations against the profile email anchor.
type Guard struct {
	profiles Profiles
	games    Games
}

// New creates a Guard.
func New(profiles Profiles, games Games) *Guard {
	return &Guard{profiles: profiles, games: games}
}

// CanCreateProfile allows profile creation only when no profile holds the
// claim's email.
func (g *Guard) CanCreateProfile(ctx context.Context, claim domain.Claim) error {
	_, err := g.profiles.GetUserByEmail(ctx, claim.Email)
	switch {
	case err == nil:
		return apperr.Conflict("a profile already exists for this email", nil)
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return apperr.Dependency("failed to look up profile", err)
	}
}

// CanMutateProfile returns the profile if claim owns it.
func (g *Guard) CanMutateProfile(ctx context.Context, claim domain.Claim, userID string) (*domain.UserProfile, error) {
	p, err := g.profiles.GetUser(ctx, userID)
	if err != nil {
		return nil, lookupError("profile", err)
	}
	if p.Email != claim.Email {
		return nil, apperr.Forbidden("you can only modify your own profile")
	}
	return p, nil
}

// Owner resolves the caller's own profile. Creating a game requires one.
func (g *Guard) Owner(ctx context.Context, claim domain.Claim) (*domain.UserProfile, error) {
	p, err := g.profiles.GetUserByEmail(ctx, claim.Email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Forbidden("create a profile before adding games")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to look up profile", err)
	}
	return p, nil
}

// CanMutateGame returns the game if claim owns the profile the game is
// stored under.
func (g *Guard) CanMutateGame(ctx context.Context, claim domain.Claim, userID, gameID string) (*domain.Game, error) {
	game, err := g.games.GetGame(ctx, userID, gameID)
	if err != nil {
		return nil, lookupError("game", err)
	}

	owner, err := g.profiles.GetUser(ctx, game.UserID)
	if errors.Is(err, store.ErrNotFound) {
		// nobody can own a game whose profile is gone
		return nil, apperr.Forbidden("you can only modify your own games")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to look up game owner", err)
	}
	if owner.Email != claim.Email {
		return nil, apperr.Forbidden("you can only modify your own games")
	}
	return game, nil
}

func lookupError(resource string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return apperr.Dependency("failed to look up "+resource, err)
}
