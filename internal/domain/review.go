package domain

import "time"

type Review struct {
	ID           string    `json:"_id"`
	Author       string    `json:"author"`
	MovieAPIID   int64     `json:"movieApiId"`
	MovieTitle   string    `json:"movieTitle,omitempty"` // copied from TMDB at create time
	Content      string    `json:"content"`
	Rate         int       `json:"rate"`
	LikesCounter int       `json:"likesCounter"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

const (
	MinRate = 0
	MaxRate = 10
)

type ReviewInput struct {
	MovieAPIID int64  `json:"movieApiId" validate:"required,gt=0"`
	Content    string `json:"content" validate:"required,max=5000"`
	Rate       *int   `json:"rate" validate:"required,gte=0,lte=10"`
}

type ReviewPatch struct {
	Content *string `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Rate    *int    `json:"rate,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// ReviewCard is a review with its author and movie resolved.
type ReviewCard struct {
	Review
	AuthorData *UserSummary `json:"authorData,omitempty"`
	MovieData  *Movie       `json:"movieData,omitempty"`
}

type ReviewFilter string

const (
	FilterAll ReviewFilter = "all"
	FilterTop ReviewFilter = "top"
)

type ReviewsQuery struct {
	Filter     ReviewFilter
	Movie      string // case-insensitive substring of MovieTitle
	Author     string
	MovieAPIID int64
	Limit      int
}
