// Package memo produces translated game bundles, caching each
// (game, language) result in a write-once memo.
package memo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/pricofy/games-api/internal/store"
	"github.com/pricofy/games-api/internal/translator"
)

// Translator translates one text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Games is the game lookup the memoizer needs.
type Games interface {
	GetGame(ctx context.Context, userID, gameID string) (*domain.Game, error)
}

// Service is the translation memoizer.
type Service struct {
	games      Games
	memos      store.TranslationStore
	translator Translator
}

// New creates a Service.
func New(games Games, memos store.TranslationStore, t Translator) *Service {
	return &Service{games: games, memos: memos, translator: t}
}

// Translate returns the game's title, genre and description in language,
// a supported language name such as "French".
func (s *Service) Translate(ctx context.Context, userID, gameID, language string) (*domain.TranslationResult, error) {
	target, ok := translator.CodeFor(language)
	if !ok {
		return nil, apperr.InvalidLanguage(language)
	}

	game, err := s.games.GetGame(ctx, userID, gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("game")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to load game", err)
	}

	result := &domain.TranslationResult{Language: language, GameID: game.GameID}

	if game.SourceLanguage == target {
		result.Data = domain.BundleOf(*game)
		return result, nil
	}

	memo, err := s.memos.GetTranslation(ctx, game.GameID, target)
	switch {
	case err == nil:
		bundle, err := decodeBundle(memo.Text)
		if err != nil {
			return nil, apperr.Dependency("failed to read cached translation", err)
		}
		result.CacheUsed = true
		result.Data = bundle
		return result, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Dependency("failed to look up cached translation", err)
	}

	bundle, err := s.translateBundle(ctx, *game, target)
	if err != nil {
		return nil, apperr.TranslationFailed(err)
	}

	text, err := json.Marshal(bundle)
	if err != nil {
		return nil, apperr.Dependency("failed to encode translation", err)
	}
	err = s.memos.PutTranslation(ctx, domain.TranslationMemo{
		GameID:         game.GameID,
		TargetLanguage: target,
		Text:           string(text),
	})
	switch {
	case errors.Is(err, store.ErrConflict):
		// a concurrent request memoized first; its bundle is equivalent
		logger.Log.Infow("translation memo already present", "gameId", game.GameID, "language", target)
	case err != nil:
		return nil, apperr.Dependency("failed to store translation", err)
	}

	logger.Log.Infow("translated game", "gameId", game.GameID, "source", game.SourceLanguage, "target", target)
	result.Translated = true
	result.Data = bundle
	return result, nil
}

// translateBundle translates title, genre and description in that order.
// The first failure aborts.
func (s *Service) translateBundle(ctx context.Context, g domain.Game, target string) (domain.Bundle, error) {
	var b domain.Bundle
	fields := []struct {
		name string
		text string
		dst  *string
	}{
		{"title", g.Title, &b.Title},
		{"genre", g.Genre, &b.Genre},
		{"description", g.Description, &b.Description},
	}

	for _, f := range fields {
		out, err := s.translator.Translate(ctx, f.text, g.SourceLanguage, target)
		if err != nil {
			return domain.Bundle{}, fmt.Errorf("translate %s: %w", f.name, err)
		}
		*f.dst = out
	}
	return b, nil
}

func decodeBundle(text string) (domain.Bundle, error) {
	var b domain.Bundle
	if err := json.Unmarshal([]byte(text), &b); err != nil {
		return domain.Bundle{}, fmt.Errorf("decode memo: %w", err)
	}
	return b, nil
}
