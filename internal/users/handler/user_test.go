package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dialoom/pkg/auth"
	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/logger"
	"dialoom/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	getByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	getHostProfileFunc func(ctx context.Context, id string) (*model.HostProfile, error)
}

func (m *mockUserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserService) GetHostProfile(ctx context.Context, id string) (*model.HostProfile, error) {
	return m.getHostProfileFunc(ctx, id)
}

func newRouter(svc *mockUserService) *httprouter.Router {
	router := httprouter.New()
	NewUserHandler(svc, logger.NewNop()).RegisterRoutes(router)
	return router
}

func TestMe(t *testing.T) {
	router := newRouter(&mockUserService{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "guest@example.com"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), auth.Identity{UserID: "guest1"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data model.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "guest1", body.Data.ID)
}

func TestMe_Unauthenticated(t *testing.T) {
	router := newRouter(&mockUserService{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetHost(t *testing.T) {
	router := newRouter(&mockUserService{
		getHostProfileFunc: func(ctx context.Context, id string) (*model.HostProfile, error) {
			if id != "host1" {
				return nil, apperrors.NotFoundWithID("Host", id)
			}
			return &model.HostProfile{ID: id, HostVerificationStatus: model.HostVerified}, nil
		},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hosts/host1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"hostVerificationStatus":"verified"`)
	assert.NotContains(t, rec.Body.String(), "email")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/hosts/ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apperrors.CodeNotFound)
}
