package domain

import "time"

type Community struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Cover           string    `json:"cover"`
	Genres          []string  `json:"genres"`
	Decades         []int     `json:"decades"`
	FetishActors    []int64   `json:"fetishActors"`
	FetishDirectors []int64   `json:"fetishDirectors"`
	MoviesAPIIDs    []int64   `json:"moviesApiIds"`
	Users           []string  `json:"users"`
	Owner           string    `json:"owner"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsMember reports whether userID follows the community.
func (c Community) IsMember(userID string) bool {
	for _, u := range c.Users {
		if u == userID {
			return true
		}
	}
	return false
}

type CommunityInput struct {
	Title           string   `json:"title" validate:"required,max=120"`
	Description     string   `json:"description" validate:"required,max=2000"`
	Cover           string   `json:"cover" validate:"omitempty,url"`
	Genres          []string `json:"genres" validate:"dive,required"`
	Decades         []int    `json:"decades" validate:"dive,gte=1880,lte=2100"`
	FetishActors    []int64  `json:"fetishActors" validate:"dive,gt=0"`
	FetishDirectors []int64  `json:"fetishDirectors" validate:"dive,gt=0"`
	MoviesAPIIDs    []int64  `json:"moviesApiIds" validate:"dive,gt=0"`
}

// CommunityDetails is the "full data" view: every reference resolved.
type CommunityDetails struct {
	ID              string        `json:"_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Cover           string        `json:"cover"`
	Genres          []string      `json:"genres"`
	Decades         []int         `json:"decades"`
	FetishActors    []Person      `json:"fetishActors"`
	FetishDirectors []Person      `json:"fetishDirectors"`
	Movies          []Movie       `json:"movies"`
	MoviesAPIIDs    []int64       `json:"moviesApiIds"`
	Users           []UserSummary `json:"users"`
	Owner           UserSummary   `json:"owner"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type CommunitiesQuery struct {
	Q      string
	Genre  string
	Decade int
	Member string
	Limit  int
}
