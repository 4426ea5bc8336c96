package dynamo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/store"
)

// Secondary index names.
const (
	GameIDIndex   = "GameIdIndex"
	UsernameIndex = "UsernameIndex"
	EmailIndex    = "EmailIndex"
)

// Uniqueness guard items share the users table, keyed by prefix.
const (
	emailGuardPrefix    = "EMAIL#"
	usernameGuardPrefix = "USERNAME#"
)

// guardItem reserves an email or username for one profile.
type guardItem struct {
	UserID  string `dynamodbav:"userId"`
	OwnerID string `dynamodbav:"ownerId"`
}

// Tables names the three tables used by Store.
type Tables struct {
	Games        string
	Users        string
	Translations string
}

// Store implements the store contracts on DynamoDB.
type Store struct {
	api          API
	games        *Table
	users        *Table
	translations *Table
}

var (
	_ store.UserStore        = (*Store)(nil)
	_ store.GameStore        = (*Store)(nil)
	_ store.TranslationStore = (*Store)(nil)
	_ store.Seeder           = (*Store)(nil)
)

// New creates a Store over the given client and tables.
func New(api API, tables Tables) *Store {
	return &Store{
		api:          api,
		games:        NewTable(api, tables.Games),
		users:        NewTable(api, tables.Users),
		translations: NewTable(api, tables.Translations),
	}
}

func userKey(userID string) Key {
	return StringKey("userId", userID)
}

func gameKey(userID, gameID string) Key {
	return StringKey("userId", userID, "gameId", gameID)
}

func emailGuardKey(email string) string {
	return emailGuardPrefix + email
}

func usernameGuardKey(username string) string {
	return usernameGuardPrefix + username
}

// GetUser reads a profile by id.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	// guard items are not profiles
	if strings.Contains(userID, "#") {
		return nil, store.ErrNotFound
	}
	var p domain.UserProfile
	if err := s.users.GetByKey(ctx, userKey(userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetUserByEmail resolves a profile through the email index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	return s.userByIndex(ctx, EmailIndex, "email", email)
}

// GetUserByUsername resolves a profile through the username index.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.UserProfile, error) {
	return s.userByIndex(ctx, UsernameIndex, "username", username)
}

func (s *Store) userByIndex(ctx context.Context, index, attr, value string) (*domain.UserProfile, error) {
	keyCond := expression.Key(attr).Equal(expression.Value(value))
	var found []domain.UserProfile
	if err := s.users.QueryByIndex(ctx, index, keyCond, 1, &found); err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, store.ErrNotFound
	}
	return &found[0], nil
}

// CreateUser writes the profile together with its email and username guards
// in one transaction. Any existing holder returns store.ErrConflict.
func (s *Store) CreateUser(ctx context.Context, p domain.UserProfile) error {
	profile, err := s.users.putItem(p, notExists("userId"))
	if err != nil {
		return err
	}
	email, err := s.users.putItem(guardItem{UserID: emailGuardKey(p.Email), OwnerID: p.UserID}, notExists("userId"))
	if err != nil {
		return err
	}
	username, err := s.users.putItem(guardItem{UserID: usernameGuardKey(p.Username), OwnerID: p.UserID}, notExists("userId"))
	if err != nil {
		return err
	}
	return transactWrite(ctx, s.api, []types.TransactWriteItem{profile, email, username})
}

func profileUpdate(p domain.UserProfile) expression.UpdateBuilder {
	u := expression.Set(expression.Name("username"), expression.Value(p.Username)).
		Set(expression.Name("name"), expression.Value(p.Name)).
		Set(expression.Name("favoriteGenres"), expression.Value(p.FavoriteGenres))
	if p.JoinedDate != "" {
		u = u.Set(expression.Name("joinedDate"), expression.Value(p.JoinedDate))
	}
	return u
}

// UpdateUser rewrites the mutable profile fields. A username change moves
// the username guard in the same transaction.
func (s *Store) UpdateUser(ctx context.Context, prev, next domain.UserProfile) error {
	if prev.Username == next.Username {
		err := s.users.Update(ctx, userKey(prev.UserID), profileUpdate(next), exists("userId"))
		if errors.Is(err, store.ErrConflict) {
			return store.ErrNotFound
		}
		return err
	}

	profile, err := s.users.updateItem(userKey(prev.UserID), profileUpdate(next), exists("userId"))
	if err != nil {
		return err
	}
	claim, err := s.users.putItem(guardItem{UserID: usernameGuardKey(next.Username), OwnerID: prev.UserID}, notExists("userId"))
	if err != nil {
		return err
	}
	release := s.users.deleteItem(userKey(usernameGuardKey(prev.Username)))
	return transactWrite(ctx, s.api, []types.TransactWriteItem{profile, claim, release})
}

// DeleteUser removes the user's games, guards and profile. When everything
// fits in one transaction it is removed atomically. Otherwise games go
// first and the profile last, so a retry after a failure finishes the job.
func (s *Store) DeleteUser(ctx context.Context, p domain.UserProfile) error {
	var games []domain.Game
	keyCond := expression.Key("userId").Equal(expression.Value(p.UserID))
	if err := s.games.QueryByPartition(ctx, keyCond, nil, &games); err != nil {
		return err
	}

	tail := []Key{
		userKey(emailGuardKey(p.Email)),
		userKey(usernameGuardKey(p.Username)),
		userKey(p.UserID),
	}

	if len(games)+len(tail) <= maxTransactItems {
		items := make([]types.TransactWriteItem, 0, len(games)+len(tail))
		for _, g := range games {
			items = append(items, s.games.deleteItem(gameKey(g.UserID, g.GameID)))
		}
		for _, k := range tail {
			items = append(items, s.users.deleteItem(k))
		}
		return transactWrite(ctx, s.api, items)
	}

	for _, g := range games {
		if err := s.games.Delete(ctx, gameKey(g.UserID, g.GameID)); err != nil {
			return fmt.Errorf("delete games of %s: %w", p.UserID, err)
		}
	}
	for _, k := range tail {
		if err := s.users.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// GetGame reads one game.
func (s *Store) GetGame(ctx context.Context, userID, gameID string) (*domain.Game, error) {
	var g domain.Game
	if err := s.games.GetByKey(ctx, gameKey(userID, gameID), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGames scans every game.
func (s *Store) ListGames(ctx context.Context) ([]domain.Game, error) {
	games := []domain.Game{}
	if err := s.games.Scan(ctx, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// GameFilterCondition translates f into a filter expression. The boolean is
// false when f applies no condition.
func GameFilterCondition(f domain.GameFilter) (expression.ConditionBuilder, bool) {
	var conds []expression.ConditionBuilder
	if f.Genre != "" {
		conds = append(conds, expression.Name("genre").Equal(expression.Value(f.Genre)))
	}
	if f.HasPopularity() {
		name := expression.Name("popularity")
		value := expression.Value(*f.Popularity)
		switch f.Op {
		case domain.PopularityGreater:
			conds = append(conds, name.GreaterThan(value))
		case domain.PopularityLess:
			conds = append(conds, name.LessThan(value))
		case domain.PopularityEqual:
			conds = append(conds, name.Equal(value))
		}
	}

	switch len(conds) {
	case 0:
		return expression.ConditionBuilder{}, false
	case 1:
		return conds[0], true
	default:
		return expression.And(conds[0], conds[1], conds[2:]...), true
	}
}

// ListUserGames queries one user's partition, filtered server side.
func (s *Store) ListUserGames(ctx context.Context, userID string, filter domain.GameFilter) ([]domain.Game, error) {
	keyCond := expression.Key("userId").Equal(expression.Value(userID))

	var cond *expression.ConditionBuilder
	if c, ok := GameFilterCondition(filter); ok {
		cond = &c
	}

	games := []domain.Game{}
	if err := s.games.QueryByPartition(ctx, keyCond, cond, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// FindGamesByID queries the game id index.
func (s *Store) FindGamesByID(ctx context.Context, gameID string) ([]domain.Game, error) {
	keyCond := expression.Key("gameId").Equal(expression.Value(gameID))
	games := []domain.Game{}
	if err := s.games.QueryByIndex(ctx, GameIDIndex, keyCond, 0, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// CreateGame writes a new game. An existing key returns store.ErrConflict.
func (s *Store) CreateGame(ctx context.Context, g domain.Game) error {
	return s.games.Put(ctx, g, notExists("gameId"))
}

// UpdateGame rewrites the mutable fields of an existing game.
func (s *Store) UpdateGame(ctx context.Context, g domain.Game) error {
	update := expression.Set(expression.Name("title"), expression.Value(g.Title)).
		Set(expression.Name("genre"), expression.Value(g.Genre)).
		Set(expression.Name("description"), expression.Value(g.Description)).
		Set(expression.Name("releaseYear"), expression.Value(g.ReleaseYear)).
		Set(expression.Name("platform"), expression.Value(g.Platform)).
		Set(expression.Name("popularity"), expression.Value(g.Popularity)).
		Set(expression.Name("sourceLanguage"), expression.Value(g.SourceLanguage))

	err := s.games.Update(ctx, gameKey(g.UserID, g.GameID), update, exists("gameId"))
	if errors.Is(err, store.ErrConflict) {
		return store.ErrNotFound
	}
	return err
}

// DeleteGame removes one game.
func (s *Store) DeleteGame(ctx context.Context, userID, gameID string) error {
	return s.games.Delete(ctx, gameKey(userID, gameID))
}

// GetTranslation reads a memo.
func (s *Store) GetTranslation(ctx context.Context, gameID, language string) (*domain.TranslationMemo, error) {
	var m domain.TranslationMemo
	key := StringKey("gameId", gameID, "targetLanguage", language)
	if err := s.translations.GetByKey(ctx, key, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// PutTranslation writes a memo once.
func (s *Store) PutTranslation(ctx context.Context, m domain.TranslationMemo) error {
	return s.translations.Put(ctx, m, notExists("gameId"))
}

// SeedUsers batch-writes profiles with their uniqueness guards.
func (s *Store) SeedUsers(ctx context.Context, users []domain.UserProfile) error {
	items := make([]any, 0, len(users)*3)
	for _, u := range users {
		items = append(items,
			u,
			guardItem{UserID: emailGuardKey(u.Email), OwnerID: u.UserID},
			guardItem{UserID: usernameGuardKey(u.Username), OwnerID: u.UserID},
		)
	}
	return s.users.BatchPut(ctx, items)
}

// SeedGames batch-writes games.
func (s *Store) SeedGames(ctx context.Context, games []domain.Game) error {
	items := make([]any, 0, len(games))
	for _, g := range games {
		items = append(items, g)
	}
	return s.games.BatchPut(ctx, items)
}
