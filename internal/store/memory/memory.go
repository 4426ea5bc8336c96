// Package memory provides an in-process implementation of the store
// contracts for tests and the local dev server.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/store"
)

type gameKey struct {
	userID, gameID string
}

type memoKey struct {
	gameID, language string
}

// Store keeps everything in maps behind one mutex.
type Store struct {
	mu    sync.RWMutex
	users map[string]domain.UserProfile
	games map[gameKey]domain.Game
	memos map[memoKey]domain.TranslationMemo
}

var (
	_ store.UserStore        = (*Store)(nil)
	_ store.GameStore        = (*Store)(nil)
	_ store.TranslationStore = (*Store)(nil)
	_ store.Seeder           = (*Store)(nil)
)

// New returns an empty Store.
func New() *Store {
	return &Store{
		users: make(map[string]domain.UserProfile),
		games: make(map[gameKey]domain.Game),
		memos: make(map[memoKey]domain.TranslationMemo),
	}
}

func (s *Store) GetUser(_ context.Context, userID string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	return s.findUser(func(p domain.UserProfile) bool { return p.Email == email })
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.UserProfile, error) {
	return s.findUser(func(p domain.UserProfile) bool { return p.Username == username })
}

func (s *Store) findUser(match func(domain.UserProfile) bool) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.users {
		if match(p) {
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

// taken reports whether another profile than selfID holds the email or username.
func (s *Store) taken(selfID, email, username string) bool {
	for id, p := range s.users {
		if id == selfID {
			continue
		}
		if p.Email == email || p.Username == username {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(_ context.Context, p domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; ok {
		return store.ErrConflict
	}
	if s.taken(p.UserID, p.Email, p.Username) {
		return store.ErrConflict
	}
	s.users[p.UserID] = p
	return nil
}

func (s *Store) UpdateUser(_ context.Context, prev, next domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.users[prev.UserID]
	if !ok {
		return store.ErrNotFound
	}
	if s.taken(prev.UserID, cur.Email, next.Username) {
		return store.ErrConflict
	}
	next.UserID = cur.UserID
	next.Email = cur.Email
	if next.JoinedDate == "" {
		next.JoinedDate = cur.JoinedDate
	}
	s.users[prev.UserID] = next
	return nil
}

func (s *Store) DeleteUser(_ context.Context, p domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k := range s.games {
		if k.userID == p.UserID {
			delete(s.games, k)
		}
	}
	delete(s.users, p.UserID)
	return nil
}

func (s *Store) GetGame(_ context.Context, userID, gameID string) (*domain.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[gameKey{userID, gameID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (s *Store) ListGames(_ context.Context) ([]domain.Game, error) {
	return s.selectGames(func(domain.Game) bool { return true }), nil
}

func (s *Store) ListUserGames(_ context.Context, userID string, filter domain.GameFilter) ([]domain.Game, error) {
	return s.selectGames(func(g domain.Game) bool {
		return g.UserID == userID && filter.Matches(g)
	}), nil
}

func (s *Store) FindGamesByID(_ context.Context, gameID string) ([]domain.Game, error) {
	return s.selectGames(func(g domain.Game) bool { return g.GameID == gameID }), nil
}

// selectGames returns matching games ordered by key, like a table query.
func (s *Store) selectGames(match func(domain.Game) bool) []domain.Game {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Game{}
	for _, g := range s.games {
		if match(g) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		return out[i].GameID < out[j].GameID
	})
	return out
}

func (s *Store) CreateGame(_ context.Context, g domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := gameKey{g.UserID, g.GameID}
	if _, ok := s.games[k]; ok {
		return store.ErrConflict
	}
	s.games[k] = g
	return nil
}

func (s *Store) UpdateGame(_ context.Context, g domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := gameKey{g.UserID, g.GameID}
	if _, ok := s.games[k]; !ok {
		return store.ErrNotFound
	}
	s.games[k] = g
	return nil
}

func (s *Store) DeleteGame(_ context.Context, userID, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.games, gameKey{userID, gameID})
	return nil
}

func (s *Store) GetTranslation(_ context.Context, gameID, language string) (*domain.TranslationMemo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memos[memoKey{gameID, language}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &m, nil
}

func (s *Store) PutTranslation(_ context.Context, m domain.TranslationMemo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := memoKey{m.GameID, m.TargetLanguage}
	if _, ok := s.memos[k]; ok {
		return store.ErrConflict
	}
	s.memos[k] = m
	return nil
}

func (s *Store) SeedUsers(_ context.Context, users []domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range users {
		s.users[u.UserID] = u
	}
	return nil
}

func (s *Store) SeedGames(_ context.Context, games []domain.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range games {
		s.games[gameKey{g.UserID, g.GameID}] = g
	}
	return nil
}
