package service

import (
	"context"
	"errors"

	"quiz-engine-service/internal/apierr"
	"quiz-engine-service/internal/models"
	"quiz-engine-service/internal/repository"
)

type UserService struct {
	Repo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{Repo: repo}
}

func (s *UserService) GetGamification(ctx context.Context, userID string) (*models.Gamification, error) {
	user, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("User not found")
		}
		return nil, err
	}
	return &user.Gamification, nil
}
