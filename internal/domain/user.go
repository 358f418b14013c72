package domain

import "time"

type User struct {
	ID           string    `json:"_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserSummary is the public projection shown next to reviews and members.
type UserSummary struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar,omitempty"`
	FirstName string `json:"firstName,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Avatar: u.Avatar, FirstName: u.FirstName}
}

type SignupInput struct {
	Username  string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"max=64"`
	LastName  string `json:"lastName" validate:"max=64"`
	Avatar    string `json:"avatar" validate:"omitempty,url"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserPatch struct {
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=32,alphanum"`
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,max=64"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=64"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

type Session struct {
	AuthToken string `json:"authToken"`
	User      User   `json:"user"`
}
