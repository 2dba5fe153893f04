package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campusconnect/internal/cache"
	"campusconnect/internal/model"
	"campusconnect/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService exposes the user directory.
type UserService interface {
	GetUser(ctx context.Context, id string) (*model.AppUser, error)
	ListUsers(ctx context.Context) ([]model.AppUser, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id string) string {
	return fmt.Sprintf("user:%s", id)
}

func (s *userService) GetUser(ctx context.Context, id string) (*model.AppUser, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.AppUser
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.AppUser, error) {
	return s.repo.List(ctx)
}
