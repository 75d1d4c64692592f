package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/storage"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestListUsers_LimitClamped(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	// limit<=0 и limit>100 приводятся к 50; offset<0 — к 0.
	st.EXPECT().ListUsers(gomock.Any(), 50, 0).
		Return([]models.User{{ID: uuid.New()}}, nil).Times(2)
	st.EXPECT().ListUsers(gomock.Any(), 10, 20).
		Return(nil, nil)

	_, err := svc.ListUsers(context.Background(), 0, -5)
	require.NoError(t, err)

	_, err = svc.ListUsers(context.Background(), 500, 0)
	require.NoError(t, err)

	_, err = svc.ListUsers(context.Background(), 10, 20)
	require.NoError(t, err)
}

func TestSuspendUser_OK_SessionsDeleted(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().SetUserSuspended(gomock.Any(), id, true).Return(nil)
	st.EXPECT().DeleteRefreshTokensByUser(gomock.Any(), id).Return(int64(2), nil)

	require.NoError(t, svc.SuspendUser(context.Background(), id))
}

func TestSuspendUser_NotFound(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().SetUserSuspended(gomock.Any(), id, true).Return(storage.ErrNotFound)

	err := svc.SuspendUser(context.Background(), id)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSuspendUser_SessionCleanupFailure_NotFatal(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().SetUserSuspended(gomock.Any(), id, true).Return(nil)
	st.EXPECT().DeleteRefreshTokensByUser(gomock.Any(), id).
		Return(int64(0), errors.New("db down"))

	// Аккаунт уже заблокирован — сбой очистки сессий не отменяет операцию.
	require.NoError(t, svc.SuspendUser(context.Background(), id))
}

func TestUnsuspendUser_OK(t *testing.T) {
	t.Parallel()

	svc, st, ctrl := newSvc(t)
	defer ctrl.Finish()

	id := uuid.New()
	st.EXPECT().SetUserSuspended(gomock.Any(), id, false).Return(nil)

	require.NoError(t, svc.UnsuspendUser(context.Background(), id))
}
