// Package service implements the profile and game use cases on top of the
// store contracts and the ownership guard.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pricofy/games-api/internal/apperr"
	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/guard"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/pricofy/games-api/internal/store"
)

const dateLayout = "2006-01-02"

// ProfileService manages user profiles.
type ProfileService struct {
	users store.UserStore
	guard *guard.Guard
	now   func() time.Time
	newID func() string
}

// NewProfileService creates a ProfileService.
func NewProfileService(users store.UserStore, g *guard.Guard) *ProfileService {
	return &ProfileService{
		users: users,
		guard: g,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// GetByUsername returns the profile with the given username.
func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.UserProfile, error) {
	if username == "" {
		return nil, apperr.Validation("username query parameter is required", nil)
	}
	p, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("profile")
	}
	if err != nil {
		return nil, apperr.Dependency("failed to load profile", err)
	}
	return p, nil
}

// Create stores the caller's profile. The email comes from the claim.
func (s *ProfileService) Create(ctx context.Context, claim domain.Claim, req domain.CreateProfileRequest) (*domain.UserProfile, error) {
	if err := s.guard.CanCreateProfile(ctx, claim); err != nil {
		return nil, err
	}

	p := domain.UserProfile{
		UserID:         s.newID(),
		Username:       req.Username,
		Name:           req.Name,
		Email:          claim.Email,
		JoinedDate:     req.JoinedDate,
		FavoriteGenres: domain.UniqueStrings(req.FavoriteGenres),
	}
	if p.JoinedDate == "" {
		p.JoinedDate = s.now().UTC().Format(dateLayout)
	}

	err := s.users.CreateUser(ctx, p)
	if errors.Is(err, store.ErrConflict) {
		return nil, apperr.Conflict("email or username is already taken", err)
	}
	if err != nil {
		return nil, apperr.Dependency("failed to create profile", err)
	}

	logger.Log.Infow("profile created", "userId", p.UserID)
	return &p, nil
}

// Update replaces the mutable fields of the caller's profile.
func (s *ProfileService) Update(ctx context.Context, claim domain.Claim, userID string, req domain.UpdateProfileRequest) (*domain.UserProfile, error) {
	prev, err := s.guard.CanMutateProfile(ctx, claim, userID)
	if err != nil {
		return nil, err
	}

	next := *prev
	next.Username = req.Username
	next.Name = req.Name
	next.FavoriteGenres = domain.UniqueStrings(req.FavoriteGenres)
	if req.JoinedDate != "" {
		next.JoinedDate = req.JoinedDate
	}

	err = s.users.UpdateUser(ctx, *prev, next)
	switch {
	case errors.Is(err, store.ErrConflict):
		return nil, apperr.Conflict("username is already taken", err)
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound("profile")
	case err != nil:
		return nil, apperr.Dependency("failed to update profile", err)
	}

	logger.Log.Infow("profile updated", "userId", next.UserID)
	return &next, nil
}

// Delete removes the caller's profile and every game it owns.
func (s *ProfileService) Delete(ctx context.Context, claim domain.Claim, userID string) error {
	p, err := s.guard.CanMutateProfile(ctx, claim, userID)
	if err != nil {
		return err
	}
	if err := s.users.DeleteUser(ctx, *p); err != nil {
		return apperr.Dependency("failed to delete profile", err)
	}

	logger.Log.Infow("profile deleted", "userId", p.UserID)
	return nil
}
