package domain

// CreateProfileRequest is the body of POST /profile. The email always
// comes from the verified claim, never from the body.
type CreateProfileRequest struct {
	Username       string   `json:"username" validate:"required,min=3,max=32"`
	Name           string   `json:"name" validate:"required,max=128"`
	JoinedDate     string   `json:"joinedDate" validate:"omitempty,datetime=2006-01-02"`
	FavoriteGenres []string `json:"favoriteGenres" validate:"omitempty,dive,required"`
}

// UpdateProfileRequest is the body of PUT /profile. Email is not updatable.
type UpdateProfileRequest struct {
	Username       string   `json:"username" validate:"required,min=3,max=32"`
	Name           string   `json:"name" validate:"required,max=128"`
	JoinedDate     string   `json:"joinedDate" validate:"omitempty,datetime=2006-01-02"`
	FavoriteGenres []string `json:"favoriteGenres" validate:"omitempty,dive,required"`
}

// GameRequest is the body of POST /games and PUT /games/{userId}.
// Owner and game identifiers are never taken from the body.
type GameRequest struct {
	Title          string   `json:"title" validate:"required,max=256"`
	Genre          string   `json:"genre" validate:"required,max=64"`
	Description    string   `json:"description" validate:"required"`
	ReleaseYear    int      `json:"releaseYear" validate:"required,gte=1950,lte=2100"`
	Platform       []string `json:"platform" validate:"required,min=1,dive,required"`
	Popularity     *int     `json:"popularity" validate:"required,gte=0,lte=100"`
	SourceLanguage string   `json:"sourceLanguage" validate:"required,oneof=en fr es de"`
}

// SignInRequest is the body of POST /auth/signin.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ConfirmSignUpRequest is the body of POST /auth/signup/confirm.
type ConfirmSignUpRequest struct {
	Username string `json:"username" validate:"required"`
	Code     string `json:"code" validate:"required"`
}
