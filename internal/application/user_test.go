package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/infrastructure/storage"
)

func TestUserService_BeginTestAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo, catalog.LocaleAR)
	ctx := context.Background()

	user, err := svc.BeginTest(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingTestImage, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo, "")
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_Locale(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo, catalog.LocaleEN)
	ctx := context.Background()

	user, err := svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, catalog.LocaleEN, svc.Locale(user))

	user, err = svc.SetLocale(ctx, 3, 30, "AR")
	require.NoError(t, err)
	require.Equal(t, catalog.LocaleAR, svc.Locale(user))

	user, err = svc.SetLocale(ctx, 3, 30, "klingon")
	require.NoError(t, err)
	require.Equal(t, "ar", user.Locale)
}
