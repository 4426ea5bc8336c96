// Package seed holds the demo catalogue and loads it into a store.
package seed

import (
	"context"
	"fmt"

	"github.com/pricofy/games-api/internal/domain"
	"github.com/pricofy/games-api/internal/logger"
	"github.com/pricofy/games-api/internal/store"
)

// Users are the demo profiles.
var Users = []domain.UserProfile{
	{
		UserID:         "user123",
		Username:       "alicejohnson21",
		Name:           "Alice Johnson",
		Email:          "alice.johnson@example.com",
		FavoriteGenres: []string{"Adventure", "RPG"},
	},
	{
		UserID:         "user234",
		Username:       "bobsmith87",
		Name:           "Bob Smith",
		Email:          "bob.smith@example.com",
		FavoriteGenres: []string{"Puzzle", "Survival"},
	},
	{
		UserID:         "user567",
		Username:       "ethanhunt007",
		Name:           "Ethan Hunt",
		Email:          "ethan.hunt@example.com",
		FavoriteGenres: []string{"Action", "Adventure"},
	},
}

// Games are the demo catalogue entries, owned by Users.
var Games = []domain.Game{
	{GameID: "G001", UserID: "user123", Title: "Adventure Quest", Genre: "RPG",
		Description: "Embark on an epic adventure to save the kingdom from the ancient curse.",
		ReleaseYear: 2022, Platform: []string{"PC", "PlayStation", "Xbox"}, Popularity: 87, SourceLanguage: "en"},
	{GameID: "G002", UserID: "user123", Title: "Mystery of the Ancients", Genre: "Puzzle",
		Description: "Solve ancient puzzles to uncover the secrets of a long-lost civilization.",
		ReleaseYear: 2021, Platform: []string{"PC", "Nintendo Switch"}, Popularity: 75, SourceLanguage: "en"},
	{GameID: "G003", UserID: "user234", Title: "Space Odyssey", Genre: "Sci-Fi",
		Description: "Explore the vast universe and battle alien species to protect humanity.",
		ReleaseYear: 2003, Platform: []string{"PC", "PlayStation"}, Popularity: 92, SourceLanguage: "en"},
	{GameID: "G004", UserID: "user234", Title: "Farm Frenzy", Genre: "Simulation",
		Description: "Manage a farm, grow crops, and raise animals in this relaxing simulation game.",
		ReleaseYear: 2015, Platform: []string{"PC", "Mobile"}, Popularity: 65, SourceLanguage: "en"},
	{GameID: "G005", UserID: "user567", Title: "Battle Arena", Genre: "Action",
		Description: "Fight in a variety of arenas and prove your skills in intense battles.",
		ReleaseYear: 2014, Platform: []string{"PC", "PlayStation", "Xbox", "Nintendo Switch"}, Popularity: 80, SourceLanguage: "en"},
	{GameID: "G006", UserID: "user567", Title: "Zombie Survival", Genre: "Horror",
		Description: "Survive against waves of zombies in a post-apocalyptic world.",
		ReleaseYear: 2021, Platform: []string{"PC", "Xbox"}, Popularity: 78, SourceLanguage: "en"},
	{GameID: "G007", UserID: "user123", Title: "Magic Realms", Genre: "Fantasy",
		Description: "Journey through magical realms, mastering spells and defeating mythical creatures.",
		ReleaseYear: 2022, Platform: []string{"PlayStation", "Nintendo Switch"}, Popularity: 85, SourceLanguage: "en"},
	{GameID: "G008", UserID: "user567", Title: "Galactic Conquest", Genre: "Strategy",
		Description: "Expand your empire across the galaxy in this strategic space simulation.",
		ReleaseYear: 2009, Platform: []string{"PC", "Xbox"}, Popularity: 85, SourceLanguage: "en"},
	{GameID: "G009", UserID: "user234", Title: "Alien Invasion", Genre: "Sci-Fi",
		Description: "Defend Earth from alien invaders in this fast-paced action shooter.",
		ReleaseYear: 2012, Platform: []string{"PC", "PlayStation", "Xbox"}, Popularity: 82, SourceLanguage: "en"},
	{GameID: "G010", UserID: "user567", Title: "Cyber Runner", Genre: "Action",
		Description: "Run through cyberpunk cities, dodging obstacles and fighting enemies.",
		ReleaseYear: 2013, Platform: []string{"Mobile", "Nintendo Switch"}, Popularity: 83, SourceLanguage: "en"},
	{GameID: "G011", UserID: "user123", Title: "Medieval Kingdoms", Genre: "Strategy",
		Description: "Command armies and build your kingdom in a historical medieval setting.",
		ReleaseYear: 2008, Platform: []string{"PC", "Mobile"}, Popularity: 70, SourceLanguage: "en"},
	{GameID: "G012", UserID: "user567", Title: "Space Colonization", Genre: "Sci-Fi",
		Description: "Establish and manage a human colony on a distant planet, overcoming various challenges.",
		ReleaseYear: 2003, Platform: []string{"PC", "PlayStation", "Xbox"}, Popularity: 90, SourceLanguage: "en"},
}

// Load writes Users and then Games. Existing items with the same keys are
// overwritten.
func Load(ctx context.Context, s store.Seeder) error {
	if err := s.SeedUsers(ctx, Users); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.SeedGames(ctx, Games); err != nil {
		return fmt.Errorf("seed games: %w", err)
	}
	logger.Log.Infow("seed data loaded", "users", len(Users), "games", len(Games))
	return nil
}
