package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/njprem/ShipRequest_BackEnd/internal/domain"
	"github.com/njprem/ShipRequest_BackEnd/internal/logging"
	"github.com/njprem/ShipRequest_BackEnd/internal/repository/memory"
	"github.com/njprem/ShipRequest_BackEnd/internal/service"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestServer(t *testing.T) (*echo.Echo, *testClock) {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{now: time.Now().UTC()}
	auth := service.NewAuthService(store.Users(), service.AuthConfig{
		Secret:     "test-secret",
		TokenTTL:   30 * time.Minute,
		BcryptCost: bcrypt.MinCost,
		Now:        clock.Now,
	})
	shipments := service.NewShipmentService(store.Shipments())
	log := logging.NewNop()

	e := NewRouter([]string{"*"}, log)
	RegisterAuth(e, auth, log, false)
	RegisterShipping(e, auth, shipments, log)
	require.NoError(t, RegisterPages(e, auth, shipments, log))
	RegisterSwagger(e)
	return e, clock
}

type call struct {
	method  string
	target  string
	json    any
	form    url.Values
	bearer  string
	cookies []*http.Cookie
}

func serve(t *testing.T, e *echo.Echo, in call) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	switch {
	case in.json != nil:
		body, err := json.Marshal(in.json)
		require.NoError(t, err)
		req = httptest.NewRequest(in.method, in.target, strings.NewReader(string(body)))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	case in.form != nil:
		req = httptest.NewRequest(in.method, in.target, strings.NewReader(in.form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	default:
		req = httptest.NewRequest(in.method, in.target, nil)
	}
	if in.bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+in.bearer)
	}
	for _, c := range in.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func registerJSON(t *testing.T, e *echo.Echo, username, email, password string) *domain.User {
	t.Helper()
	rec := serve(t, e, call{method: http.MethodPost, target: "/register", json: RegisterRequest{
		Username: username, Email: email, Password: password,
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[UserResponse](t, rec).User
}

func tokenFor(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := serve(t, e, call{method: http.MethodPost, target: "/token", form: url.Values{
		"username": {email}, "password": {password},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[TokenResponse](t, rec)
	require.Equal(t, "bearer", res.TokenType)
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func TestShippingRequestLifecycle(t *testing.T) {
	e, _ := newTestServer(t)

	user := registerJSON(t, e, "alice", "alice@example.com", "pw1")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	token := tokenFor(t, e, "alice@example.com", "pw1")

	rec := serve(t, e, call{method: http.MethodPost, target: "/shipping-requests", bearer: token,
		json: map[string]any{"product_name": "Laptop", "weight": 2.5, "value": 1200}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	laptop := decode[domain.ShipmentRequest](t, rec)
	assert.Equal(t, "Laptop", laptop.ProductName)
	assert.Equal(t, 2.5, laptop.Weight)
	assert.Equal(t, 1200.0, laptop.Value)
	assert.Equal(t, user.ID, laptop.UserID)

	rec = serve(t, e, call{method: http.MethodPost, target: "/shipping-requests", bearer: token,
		form: url.Values{"product_name": {"Books"}, "weight": {"4"}, "value": {"80"}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	books := decode[domain.ShipmentRequest](t, rec)

	rec = serve(t, e, call{method: http.MethodGet, target: "/shipping-requests", bearer: token})
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]domain.ShipmentRequest](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, laptop.ID, list[0].ID)
	assert.Equal(t, books.ID, list[1].ID)

	target := "/shipping-requests/" + itoa(laptop.ID) + "?product_name=Gaming+Laptop&weight=3&value=1500"
	rec = serve(t, e, call{method: http.MethodPut, target: target, bearer: token})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[domain.ShipmentRequest](t, rec)
	assert.Equal(t, laptop.ID, updated.ID)
	assert.Equal(t, "Gaming Laptop", updated.ProductName)
	assert.Equal(t, 3.0, updated.Weight)
	assert.Equal(t, 1500.0, updated.Value)
	assert.True(t, laptop.CreatedAt.Equal(updated.CreatedAt))

	rec = serve(t, e, call{method: http.MethodGet, target: "/shipping-requests", bearer: token})
	list = decode[[]domain.ShipmentRequest](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "Gaming Laptop", list[0].ProductName)
	assert.Equal(t, "Books", list[1].ProductName)
}

func TestWebLoginUsesCookie(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(t, e, call{method: http.MethodPost, target: "/register", form: url.Values{
		"username": {"bob"}, "email": {"bob@example.com"}, "password": {"hunter2"},
	}})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/login-page", rec.Header().Get(echo.HeaderLocation))

	rec = serve(t, e, call{method: http.MethodPost, target: "/login", form: url.Values{
		"email": {"bob@example.com"}, "password": {"hunter2"},
	}})
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == accessCookie {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.True(t, strings.HasPrefix(session.Value, "Bearer "))
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.Equal(t, 1800, session.MaxAge)

	rec = serve(t, e, call{method: http.MethodPost, target: "/shipping-requests", cookies: []*http.Cookie{session},
		form: url.Values{"product_name": {"Lamp"}, "weight": {"1.2"}, "value": {"30"}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(t, e, call{method: http.MethodGet, target: "/dashboard", cookies: []*http.Cookie{session}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "bob@example.com")
	assert.Contains(t, rec.Body.String(), "Lamp")

	rec = serve(t, e, call{method: http.MethodGet, target: "/me", cookies: []*http.Cookie{session}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = serve(t, e, call{method: http.MethodPost, target: "/logout", cookies: []*http.Cookie{session}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login-page", rec.Header().Get(echo.HeaderLocation))
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, accessCookie, cleared[0].Name)
	assert.Equal(t, "", cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestDuplicateRegistrationKeepsFirstUser(t *testing.T) {
	e, _ := newTestServer(t)
	registerJSON(t, e, "alice", "alice@example.com", "first")

	rec := serve(t, e, call{method: http.MethodPost, target: "/register", json: RegisterRequest{
		Username: "alice2", Email: "ALICE@example.com", Password: "second",
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decode[ErrorResponse](t, rec).Error)

	rec = serve(t, e, call{method: http.MethodPost, target: "/register", json: RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: "second",
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already taken", decode[ErrorResponse](t, rec).Error)

	tokenFor(t, e, "alice@example.com", "first")
	rec = serve(t, e, call{method: http.MethodPost, target: "/token", form: url.Values{
		"username": {"alice@example.com"}, "password": {"second"},
	}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterFormErrorRendersPage(t *testing.T) {
	e, _ := newTestServer(t)
	rec := serve(t, e, call{method: http.MethodPost, target: "/register", form: url.Values{
		"username": {"carol"}, "email": {""}, "password": {"pw"},
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email is required")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
}

func TestLoginFailures(t *testing.T) {
	e, _ := newTestServer(t)
	registerJSON(t, e, "alice", "alice@example.com", "pw1")

	rec := serve(t, e, call{method: http.MethodPost, target: "/token", form: url.Values{
		"username": {"alice@example.com"}, "password": {"wrong"},
	}})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
	assert.Equal(t, msgBadCredentials, decode[ErrorResponse](t, rec).Error)

	rec = serve(t, e, call{method: http.MethodPost, target: "/token", form: url.Values{
		"username": {"nobody@example.com"}, "password": {"pw1"},
	}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(t, e, call{method: http.MethodPost, target: "/login", form: url.Values{
		"email": {"alice@example.com"}, "password": {"wrong"},
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), msgBadCredentials)
	assert.Empty(t, rec.Result().Cookies())
}

func TestShippingRoutesRequireAuthentication(t *testing.T) {
	e, clock := newTestServer(t)
	registerJSON(t, e, "alice", "alice@example.com", "pw1")
	token := tokenFor(t, e, "alice@example.com", "pw1")

	cases := []struct {
		name string
		in   call
		msg  string
	}{
		{name: "no credential", in: call{method: http.MethodGet, target: "/shipping-requests"}, msg: "could not validate credentials"},
		{name: "garbage token", in: call{method: http.MethodGet, target: "/shipping-requests", bearer: "not.a.jwt"}, msg: "could not validate credentials"},
		{name: "garbage cookie", in: call{method: http.MethodPost, target: "/shipping-requests",
			cookies: []*http.Cookie{{Name: accessCookie, Value: "Bearer nope"}}}, msg: "could not validate credentials"},
		{name: "dashboard", in: call{method: http.MethodGet, target: "/dashboard"}, msg: "could not validate credentials"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(t, e, tc.in)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
			assert.Equal(t, tc.msg, decode[ErrorResponse](t, rec).Error)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		rec := serve(t, e, call{method: http.MethodGet, target: "/shipping-requests", bearer: token})
		require.Equal(t, http.StatusOK, rec.Code)

		clock.Advance(31 * time.Minute)
		rec = serve(t, e, call{method: http.MethodGet, target: "/shipping-requests", bearer: token})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "token expired", decode[ErrorResponse](t, rec).Error)
	})
}

func TestUpdateIsScopedToOwner(t *testing.T) {
	e, _ := newTestServer(t)
	registerJSON(t, e, "alice", "alice@example.com", "pw1")
	registerJSON(t, e, "bob", "bob@example.com", "pw2")
	alice := tokenFor(t, e, "alice@example.com", "pw1")
	bob := tokenFor(t, e, "bob@example.com", "pw2")

	rec := serve(t, e, call{method: http.MethodPost, target: "/shipping-requests", bearer: alice,
		json: map[string]any{"product_name": "Vase", "weight": 1, "value": 50}})
	require.Equal(t, http.StatusOK, rec.Code)
	vase := decode[domain.ShipmentRequest](t, rec)

	payload := map[string]any{"product_name": "Stolen", "weight": 0, "value": 0}
	foreign := serve(t, e, call{method: http.MethodPut, target: "/shipping-requests/" + itoa(vase.ID), bearer: bob, json: payload})
	missing := serve(t, e, call{method: http.MethodPut, target: "/shipping-requests/9999", bearer: bob, json: payload})
	require.Equal(t, http.StatusNotFound, foreign.Code)
	require.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, missing.Body.String(), foreign.Body.String())

	rec = serve(t, e, call{method: http.MethodGet, target: "/shipping-requests", bearer: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = serve(t, e, call{method: http.MethodGet, target: "/shipping-requests", bearer: alice})
	list := decode[[]domain.ShipmentRequest](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Vase", list[0].ProductName)
}

func TestShippingInputValidation(t *testing.T) {
	e, _ := newTestServer(t)
	registerJSON(t, e, "alice", "alice@example.com", "pw1")
	token := tokenFor(t, e, "alice@example.com", "pw1")

	cases := []struct {
		name string
		in   call
	}{
		{name: "json missing weight", in: call{method: http.MethodPost, target: "/shipping-requests",
			json: map[string]any{"product_name": "X", "value": 1}}},
		{name: "json blank name", in: call{method: http.MethodPost, target: "/shipping-requests",
			json: map[string]any{"product_name": "  ", "weight": 1, "value": 1}}},
		{name: "form non-numeric weight", in: call{method: http.MethodPost, target: "/shipping-requests",
			form: url.Values{"product_name": {"X"}, "weight": {"heavy"}, "value": {"1"}}}},
		{name: "form NaN value", in: call{method: http.MethodPost, target: "/shipping-requests",
			form: url.Values{"product_name": {"X"}, "weight": {"1"}, "value": {"NaN"}}}},
		{name: "non-integer id", in: call{method: http.MethodPut, target: "/shipping-requests/abc",
			json: map[string]any{"product_name": "X", "weight": 1, "value": 1}}},
		{name: "update without fields", in: call{method: http.MethodPut, target: "/shipping-requests/1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.bearer = token
			rec := serve(t, e, tc.in)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[ErrorResponse](t, rec).Error)
		})
	}

	rec := serve(t, e, call{method: http.MethodPost, target: "/shipping-requests", bearer: token,
		json: map[string]any{"product_name": "Refund", "weight": -1, "value": -20}})
	require.Equal(t, http.StatusOK, rec.Code, "weight and value are stored as given")
}

func TestPublicEndpoints(t *testing.T) {
	e, _ := newTestServer(t)

	rec := serve(t, e, call{method: http.MethodGet, target: "/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())

	for _, page := range []string{"/login-page", "/register-page"} {
		rec = serve(t, e, call{method: http.MethodGet, target: page})
		require.Equal(t, http.StatusOK, rec.Code, page)
		assert.Contains(t, rec.Body.String(), "<form", page)
	}

	rec = serve(t, e, call{method: http.MethodGet, target: "/"})
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = serve(t, e, call{method: http.MethodGet, target: "/swagger/doc.json"})
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode[map[string]any](t, rec)
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/shipping-requests/{id}")
}

func TestSwaggerSpecConversionError(t *testing.T) {
	e := echo.New()
	registerSwaggerSpec(e, []byte("paths: [unterminated"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
