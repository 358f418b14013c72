package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	// ListUsers returns the users with the given ids; all users when ids is empty.
	ListUsers(ctx context.Context, ids []string) ([]User, error)
	UpdateUser(ctx context.Context, u User) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, r Review) error
	GetReview(ctx context.Context, id string) (Review, error)
	ListReviews(ctx context.Context, q ReviewsQuery) ([]Review, error)
	UpdateReview(ctx context.Context, r Review) error
	DeleteReview(ctx context.Context, id string) error

	// AddLike records userID's like; false when it was already there.
	AddLike(ctx context.Context, reviewID, userID string) (bool, error)
	RemoveLike(ctx context.Context, reviewID, userID string) (bool, error)

	ReviewedMovieIDs(ctx context.Context) ([]int64, error)
}

type CommunityRepository interface {
	CreateCommunity(ctx context.Context, c Community) error
	GetCommunity(ctx context.Context, id string) (Community, error)
	ListCommunities(ctx context.Context, q CommunitiesQuery) ([]Community, error)
	UpdateCommunity(ctx context.Context, c Community) error
	DeleteCommunity(ctx context.Context, id string) error

	AddMember(ctx context.Context, communityID, userID string) (bool, error)
	RemoveMember(ctx context.Context, communityID, userID string) (bool, error)

	RecommendedMovieIDs(ctx context.Context) ([]int64, error)
}

// Store is everything the API needs from persistence.
type Store interface {
	UserRepository
	ReviewRepository
	CommunityRepository
}

type MovieCatalog interface {
	SearchMovies(ctx context.Context, query string, page int) (MoviesPage, error)
	GetMovie(ctx context.Context, id int64) (Movie, error)
	NowPlaying(ctx context.Context, page int) (MoviesPage, error)
	SearchPeople(ctx context.Context, query string, page int) (PeoplePage, error)
	GetPerson(ctx context.Context, id int64) (Person, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
	Parse(token string) (string, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Check reports whether password matches hash.
	Check(password, hash string) bool
}

// EventRecorder counts domain events such as a review being liked.
type EventRecorder interface {
	Record(entity, event string)
}

// NoEvents discards every event.
type NoEvents struct{}

func (NoEvents) Record(string, string) {}
