package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/users-admin/internal/model"
	"github.com/maxviazov/users-admin/internal/repository"
)

type userService struct {
	users repository.UserRepository
	log   zerolog.Logger
}

func NewUserService(users repository.UserRepository, logger zerolog.Logger) UserService {
	l := logger.With().Str("module", "service").Str("component", "user").Logger()
	return &userService{users: users, log: l}
}

func (s *userService) ListUsers(ctx context.Context, page repository.Page) (repository.PageResult[model.User], error) {
	p := normalizePage(page)
	res, err := s.users.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("page", p.Number).Int("page_size", p.Size).Msg("list users failed")
		return repository.PageResult[model.User]{}, err
	}
	return res, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (model.User, error) {
	if id <= 0 {
		return model.User{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.users.GetByID(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, id int64, u model.UserUpdate) (model.User, error) {
	start := time.Now()
	raw := u

	// Normalize early so validation and the upstream see canonical values.
	u = normalizeUpdate(u)

	var ferrs []FieldError
	if id <= 0 {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must be > 0"})
	}
	ferrs = append(ferrs, validateUpdate(u)...)
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Str("email_raw", raw.Email).Msg("user validation failed")
		return model.User{}, err
	}

	out, err := s.users.Update(ctx, id, u)
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", id).Msg("update user failed")
		return model.User{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("user_id", out.ID).Msg("user updated")
	return out, nil
}
