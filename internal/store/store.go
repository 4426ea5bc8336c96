// Package store defines the persistence contracts for profiles, games and
// translation memos. Implementations live in the dynamo and memory
// subpackages.
package store

import (
	"context"
	"errors"

	"github.com/pricofy/games-api/internal/domain"
)

var (
	// ErrNotFound is returned when a keyed item does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrConflict is returned when a conditional write loses: the item or
	// a uniqueness guard already exists.
	ErrConflict = errors.New("conditional write failed")
)

// UserStore persists user profiles. Email and username are unique.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.UserProfile, error)
	// CreateUser writes the profile only if no profile holds its id,
	// email or username.
	CreateUser(ctx context.Context, p domain.UserProfile) error
	// UpdateUser replaces prev with next. The email never changes.
	UpdateUser(ctx context.Context, prev, next domain.UserProfile) error
	// DeleteUser removes every game owned by p and then p itself. A
	// retry after a partial failure converges to the same end state.
	DeleteUser(ctx context.Context, p domain.UserProfile) error
}

// GameStore persists games keyed by (userId, gameId).
type GameStore interface {
	GetGame(ctx context.Context, userID, gameID string) (*domain.Game, error)
	ListGames(ctx context.Context) ([]domain.Game, error)
	ListUserGames(ctx context.Context, userID string, filter domain.GameFilter) ([]domain.Game, error)
	FindGamesByID(ctx context.Context, gameID string) ([]domain.Game, error)
	CreateGame(ctx context.Context, g domain.Game) error
	UpdateGame(ctx context.Context, g domain.Game) error
	DeleteGame(ctx context.Context, userID, gameID string) error
}

// TranslationStore persists write-once translation memos.
type TranslationStore interface {
	GetTranslation(ctx context.Context, gameID, language string) (*domain.TranslationMemo, error)
	// PutTranslation returns ErrConflict if a memo already exists.
	PutTranslation(ctx context.Context, m domain.TranslationMemo) error
}

// Seeder bulk-loads fixtures without going through the use cases.
type Seeder interface {
	SeedUsers(ctx context.Context, users []domain.UserProfile) error
	SeedGames(ctx context.Context, games []domain.Game) error
}
