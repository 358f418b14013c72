package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cinefilia/internal/domain"
)

type UserService struct {
	repo   domain.UserRepository
	tokens domain.TokenIssuer
	hasher domain.PasswordHasher
	events domain.EventRecorder
	now    func() time.Time
}

func NewUserService(r domain.UserRepository, t domain.TokenIssuer, h domain.PasswordHasher, ev domain.EventRecorder) *UserService {
	return &UserService{repo: r, tokens: t, hasher: h, events: eventsOrNoop(ev), now: time.Now}
}

func (s *UserService) Signup(ctx context.Context, in domain.SignupInput) (domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	if err := check(ctx, in); err != nil {
		return domain.User{}, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, err
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		Avatar:       in.Avatar,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	s.events.Record("user", "signup")
	log.Info().Str("user", u.ID).Str("username", u.Username).Msg("user signed up")
	return u, nil
}

func (s *UserService) Login(ctx context.Context, in domain.LoginInput) (domain.Session, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := check(ctx, in); err != nil {
		return domain.Session{}, err
	}
	u, err := s.repo.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Session{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	if err != nil {
		return domain.Session{}, err
	}
	if !s.hasher.Check(in.Password, u.PasswordHash) {
		log.Warn().Str("user", u.ID).Msg("login with wrong password")
		return domain.Session{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}
	tok, _, err := s.tokens.Issue(u.ID)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{AuthToken: tok, User: u}, nil
}

// Verify resolves a bearer token to its user.
func (s *UserService) Verify(ctx context.Context, token string) (domain.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return domain.User{}, err
	}
	u, err := s.repo.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
	}
	return u, err
}

func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers returns users by id (all when ids is empty); unknown ids are skipped.
func (s *UserService) ListUsers(ctx context.Context, ids []string) ([]domain.User, error) {
	us, err := s.repo.ListUsers(ctx, uniqueStrings(ids))
	if err != nil {
		return nil, err
	}
	return orEmpty(us), nil
}

func (s *UserService) EditUser(ctx context.Context, caller, id string, p domain.UserPatch) (domain.User, error) {
	if caller == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	if caller != id {
		return domain.User{}, fmt.Errorf("%w: users can only edit their own profile", domain.ErrForbidden)
	}
	if err := check(ctx, p); err != nil {
		return domain.User{}, err
	}
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if p.Username != nil {
		u.Username = strings.TrimSpace(*p.Username)
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	return u, nil
}
