package client

import "cinefilia/internal/domain"

// Wire types are shared with the server so both sides agree on field names.
type (
	Review           = domain.Review
	ReviewInput      = domain.ReviewInput
	ReviewPatch      = domain.ReviewPatch
	ReviewCard       = domain.ReviewCard
	ReviewFilter     = domain.ReviewFilter
	ReviewsQuery     = domain.ReviewsQuery
	Community        = domain.Community
	CommunityInput   = domain.CommunityInput
	CommunityDetails = domain.CommunityDetails
	CommunitiesQuery = domain.CommunitiesQuery
	User             = domain.User
	UserSummary      = domain.UserSummary
	UserPatch        = domain.UserPatch
	SignupInput      = domain.SignupInput
	LoginInput       = domain.LoginInput
	Session          = domain.Session
	Movie            = domain.Movie
	Person           = domain.Person
	MoviesPage       = domain.MoviesPage
	PeoplePage       = domain.PeoplePage
)

const (
	FilterAll = domain.FilterAll
	FilterTop = domain.FilterTop
)

var (
	ErrNotFound     = domain.ErrNotFound
	ErrUnauthorized = domain.ErrUnauthorized
	ErrForbidden    = domain.ErrForbidden
	ErrConflict     = domain.ErrConflict
	ErrInvalid      = domain.ErrInvalid
)
