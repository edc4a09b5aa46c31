package service

import (
	"context"
	"errors"
	"testing"

	userserrors "dialoom/internal/users/errors"
	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, userserrors.ErrNotFound
}

func TestGetByID(t *testing.T) {
	host := &model.User{ID: "host1", Email: "host@example.com", HostVerificationStatus: model.HostVerified}

	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{name: "found", id: "host1"},
		{name: "empty id", id: "", wantCode: apperrors.CodeInvalidInput},
		{name: "not found", id: "ghost", repoErr: userserrors.ErrNotFound, wantCode: apperrors.CodeNotFound},
		{name: "database failure", id: "host1", repoErr: errors.New("socket closed"), wantCode: apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserService(&mockUserRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return host, nil
				},
			}, logger.NewNop())

			user, err := svc.GetByID(context.Background(), tt.id)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tt.wantCode), "got %v", err)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, host, user)
		})
	}
}

func TestGetHostProfile(t *testing.T) {
	svc := NewUserService(&mockUserRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{
				ID:       id,
				Email:    "private@example.com",
				IsAdmin:  true,
				TimeZone: "Europe/Madrid",
				RateCard: &model.RateCard{HourlyRate: decimal.RequireFromString("60"), Currency: "EUR"},
			}, nil
		},
	}, logger.NewNop())

	profile, err := svc.GetHostProfile(context.Background(), "host1")
	require.NoError(t, err)
	assert.Equal(t, "host1", profile.ID)
	assert.Equal(t, model.HostUnregistered, profile.HostVerificationStatus)
	assert.Equal(t, "Europe/Madrid", profile.TimeZone)
	assert.True(t, profile.RateCard.HourlyRate.Equal(decimal.NewFromInt(60)))
}

func TestGetHostProfile_NotFound(t *testing.T) {
	svc := NewUserService(&mockUserRepository{}, logger.NewNop())

	_, err := svc.GetHostProfile(context.Background(), "ghost")
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, 404, appErr.HTTPStatus)
	assert.Contains(t, appErr.Message, "Host")
}
