package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
)

type unavailableUsers struct{}

func (unavailableUsers) Create(context.Context, string, string, string) (*domain.User, error) {
	return nil, errors.New("db down")
}

func (unavailableUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("db down")
}

func (unavailableUsers) FindByID(context.Context, int64) (*domain.User, error) {
	return nil, errors.New("db down")
}

func TestRequireAuthLogsStoreFailures(t *testing.T) {
	auth := service.NewAuthService(unavailableUsers{}, service.AuthConfig{
		Secret:   "test-secret",
		TokenTTL: time.Minute,
	})
	token, _, err := auth.IssueToken("alice@example.com", time.Minute)
	require.NoError(t, err)

	rec := &recordingLogger{}
	e := NewRouter([]string{"*"}, rec)
	e.GET("/private", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RequireAuth(auth, rec))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	require.Equal(t, http.StatusInternalServerError, res.Code)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	var found *logEntry
	for i := range rec.entries {
		if rec.entries[i].msg == "resolve current user" {
			found = &rec.entries[i]
		}
	}
	require.NotNil(t, found, "store failure must go through the structured logger")
	assert.Equal(t, "error", found.level)
	assert.NotEmpty(t, found.fields["request_id"])
	assert.ErrorContains(t, found.fields["error"].(error), "db down")
}
