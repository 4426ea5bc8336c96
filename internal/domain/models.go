// Package domain contains the core domain types for the games API.
package domain

import "sort"

// Claim is the verified identity behind a request. It lives for one
// request only and is never persisted.
type Claim struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

// UserProfile is an identity-owned profile. Email is the ownership anchor.
type UserProfile struct {
	UserID         string   `json:"userId" dynamodbav:"userId"`
	Username       string   `json:"username" dynamodbav:"username"`
	Name           string   `json:"name" dynamodbav:"name"`
	Email          string   `json:"email" dynamodbav:"email"`
	JoinedDate     string   `json:"joinedDate,omitempty" dynamodbav:"joinedDate,omitempty"`
	FavoriteGenres []string `json:"favoriteGenres" dynamodbav:"favoriteGenres"`
}

// Game is a catalog entry keyed by (UserID, GameID).
type Game struct {
	UserID         string   `json:"userId" dynamodbav:"userId"`
	GameID         string   `json:"gameId" dynamodbav:"gameId"`
	Title          string   `json:"title" dynamodbav:"title"`
	Genre          string   `json:"genre" dynamodbav:"genre"`
	Description    string   `json:"description" dynamodbav:"description"`
	ReleaseYear    int      `json:"releaseYear" dynamodbav:"releaseYear"`
	Platform       []string `json:"platform" dynamodbav:"platform"`
	Popularity     int      `json:"popularity" dynamodbav:"popularity"`
	SourceLanguage string   `json:"sourceLanguage" dynamodbav:"sourceLanguage"`
}

// Bundle is the translatable part of a game.
type Bundle struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
}

// BundleOf returns the translatable fields of g.
func BundleOf(g Game) Bundle {
	return Bundle{Title: g.Title, Genre: g.Genre, Description: g.Description}
}

// TranslationMemo is a cached translation keyed by (GameID, TargetLanguage).
// Text holds the JSON-encoded Bundle. Memos are write-once.
type TranslationMemo struct {
	GameID         string `json:"gameId" dynamodbav:"gameId"`
	TargetLanguage string `json:"targetLanguage" dynamodbav:"targetLanguage"`
	Text           string `json:"text" dynamodbav:"text"`
}

// TranslationResult is what the translation endpoint returns.
type TranslationResult struct {
	Language   string `json:"language"`
	GameID     string `json:"gameId"`
	Translated bool   `json:"translated"`
	CacheUsed  bool   `json:"cacheUsed"`
	Data       Bundle `json:"translatedData"`
}

// UniqueStrings returns the distinct values of in, sorted. Used for
// set-valued attributes such as favorite genres.
func UniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
