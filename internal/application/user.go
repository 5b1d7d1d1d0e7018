package app

import (
	"context"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

type UserService struct {
	repo          port.UserRepository
	defaultLocale catalog.Locale
}

func NewUserService(repo port.UserRepository, defaultLocale catalog.Locale) *UserService {
	if defaultLocale == "" {
		defaultLocale = catalog.DefaultLocale
	}
	return &UserService{repo: repo, defaultLocale: defaultLocale}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginTest(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingTestImage)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// SetLocale переключает язык; неизвестный код заменяется языком по умолчанию.
func (s *UserService) SetLocale(ctx context.Context, userID, chatID int64, locale string) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetLocale(string(catalog.ParseLocale(locale)))
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Locale язык пользователя или язык по умолчанию, если он не выбран
func (s *UserService) Locale(user *entity.User) catalog.Locale {
	if user == nil || user.Locale == "" {
		return s.defaultLocale
	}
	return catalog.ParseLocale(user.Locale)
}
