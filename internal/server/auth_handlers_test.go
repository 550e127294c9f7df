package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"dawgsocial/internal/config"
	"dawgsocial/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeForm(t *testing.T, resp *http.Response) (form string, code string, errors map[string]any) {
	t.Helper()
	var body struct {
		Form   string         `json:"form"`
		Code   string         `json:"code"`
		Errors map[string]any `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Form, body.Code, body.Errors
}

func TestLoginForm(t *testing.T) {
	_, app := newTestServer(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, LoginPath, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin_ValidCredentials(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "testuser")

	resp, err := app.Test(formRequest(http.MethodPost, LoginPath, url.Values{
		"username": {"testuser"},
		"password": {"testpassword"},
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, FeedPath, resp.Header.Get("Location"))
	assert.NotEmpty(t, sessionCookieValue(resp), "successful login must start a session")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "testuser")

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "invalid_user", "invalid_password"},
		{"wrong password", "testuser", "invalid_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(formRequest(http.MethodPost, LoginPath, url.Values{
				"username": {tt.username},
				"password": {tt.password},
			}))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode, "failed login re-renders the form")
			assert.Empty(t, sessionCookieValue(resp), "failed login must not start a session")

			_, code, _ := decodeForm(t, resp)
			assert.Equal(t, models.CodeInvalidCredentials, code)
		})
	}
}

func TestRegister_Success(t *testing.T) {
	s, app := newTestServer(t)

	resp, err := app.Test(formRequest(http.MethodPost, RegisterPath, url.Values{
		"username":   {"newuser"},
		"first_name": {"New"},
		"last_name":  {"User"},
		"email":      {"newuser@example.com"},
		"password1":  {"testpassword"},
		"password2":  {"testpassword"},
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, FeedPath, resp.Header.Get("Location"))
	assert.NotEmpty(t, sessionCookieValue(resp), "registration logs the new user in")

	user, repoErr := s.userRepo.GetByUsername(context.Background(), "newuser")
	require.NoError(t, repoErr)
	require.NotNil(t, user)
	assert.Equal(t, "newuser@example.com", user.Email)
	assert.NotEqual(t, "testpassword", user.Password, "password must be stored hashed")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	s, app := newTestServer(t)

	resp, err := app.Test(formRequest(http.MethodPost, RegisterPath, url.Values{
		"username":   {"newuser"},
		"first_name": {"New"},
		"last_name":  {"User"},
		"email":      {"newuser@example.com"},
		"password1":  {"testpassword"},
		"password2":  {"different_password"},
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, sessionCookieValue(resp))

	_, code, _ := decodeForm(t, resp)
	assert.Equal(t, models.CodePasswordMismatch, code)

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Where("username = ?", "newuser").Count(&count).Error)
	assert.Zero(t, count, "failed registration must not create a user")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "testuser")

	resp, err := app.Test(formRequest(http.MethodPost, RegisterPath, url.Values{
		"username":   {"testuser"},
		"first_name": {"Other"},
		"last_name":  {"User"},
		"email":      {"other@example.com"},
		"password1":  {"testpassword"},
		"password2":  {"testpassword"},
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_, code, _ := decodeForm(t, resp)
	assert.Equal(t, models.CodeDuplicateUsername, code)

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegister_InvalidFields(t *testing.T) {
	_, app := newTestServer(t)

	tests := []struct {
		name     string
		override func(url.Values)
	}{
		{"short username", func(v url.Values) { v.Set("username", "ab") }},
		{"bad email", func(v url.Values) { v.Set("email", "not-an-email") }},
		{"short password", func(v url.Values) {
			v.Set("password1", "short")
			v.Set("password2", "short")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{
				"username":   {"newuser"},
				"first_name": {"New"},
				"last_name":  {"User"},
				"email":      {"newuser@example.com"},
				"password1":  {"testpassword"},
				"password2":  {"testpassword"},
			}
			tt.override(form)

			resp, err := app.Test(formRequest(http.MethodPost, RegisterPath, form))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			_, code, _ := decodeForm(t, resp)
			assert.Equal(t, models.CodeValidation, code)
		})
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// A registration can lose the race between the pre-check and the insert.
// The unique constraint still rejects it, and that rejection must come
// back as the taken-username form, not a 500.
func TestRegister_ConcurrentDuplicateUsername(t *testing.T) {
	repo := &userRepoStub{
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, user *models.User) error {
			return models.NewDuplicateUsernameError(user.Username)
		},
	}
	s := &Server{
		config:   &config.Config{SessionSecret: "test_secret", SessionTTLhrs: 1, Env: "test"},
		userRepo: repo,
	}
	app := fiber.New()
	app.Post(RegisterPath, s.Register)

	resp, err := app.Test(formRequest(http.MethodPost, RegisterPath, url.Values{
		"username":   {"testuser"},
		"first_name": {"Test"},
		"last_name":  {"User"},
		"email":      {"testuser@example.com"},
		"password1":  {"testpassword"},
		"password2":  {"testpassword"},
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, sessionCookieValue(resp))

	_, code, _ := decodeForm(t, resp)
	assert.Equal(t, models.CodeDuplicateUsername, code)
}

func TestLogout(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "testuser")
	token := login(t, app, "testuser", "testpassword")

	resp, err := app.Test(withSession(formRequest(http.MethodPost, LogoutPath, url.Values{}), token))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, LoginPath, resp.Header.Get("Location"))
	assert.Empty(t, sessionCookieValue(resp), "logout clears the session cookie")
}
