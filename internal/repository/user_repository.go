package repository

import (
	"context"
	"strings"

	"campusconnect/internal/errors"
	"campusconnect/internal/model"
)

// UserRepository looks up application users.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.AppUser, error)
	FindByEmail(ctx context.Context, email string) (*model.AppUser, error)
	List(ctx context.Context) ([]model.AppUser, error)
}

type userRepository struct {
	users []model.AppUser
}

// NewUserRepository builds a repository over a fixed user directory.
func NewUserRepository(users []model.AppUser) UserRepository {
	return &userRepository{users: users}
}

func (r *userRepository) FindByID(_ context.Context, id string) (*model.AppUser, error) {
	for _, u := range r.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

// FindByEmail matches emails case-insensitively.
func (r *userRepository) FindByEmail(_ context.Context, email string) (*model.AppUser, error) {
	email = strings.TrimSpace(email)
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (r *userRepository) List(_ context.Context) ([]model.AppUser, error) {
	out := make([]model.AppUser, len(r.users))
	copy(out, r.users)
	return out, nil
}
