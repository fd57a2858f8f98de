package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yamadayuki/task-tracker-api/internal/constants"
	"github.com/yamadayuki/task-tracker-api/internal/database"
	"github.com/yamadayuki/task-tracker-api/internal/dto"
	"github.com/yamadayuki/task-tracker-api/internal/middleware"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"github.com/yamadayuki/task-tracker-api/internal/repository"
	"github.com/yamadayuki/task-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
	router      *gin.Engine
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.Task{})
	require.NoError(t, err)

	// RequireAuth resolves the principal through the global handle.
	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionName, store))
	r.POST("/api/auth/register", handler.Register)
	r.POST("/api/auth/login", handler.Login)
	r.POST("/api/auth/logout", handler.Logout)
	r.GET("/api/auth/me", middleware.RequireAuth(), handler.GetCurrentUser)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
		router:      r,
	}
}

func postJSON(t *testing.T, r *gin.Engine, url string, payload any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	w := postJSON(t, env.router, "/api/auth/register", map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "new@example.com", response.Email)
	require.Equal(t, models.RoleEmployee, response.Role)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	payload := map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "supersecret",
	}

	w := postJSON(t, env.router, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, env.router, "/api/auth/register", payload, nil)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_LoginAndGetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}, nil)

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	me := httptest.NewRecorder()
	env.router.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &response))
	require.Equal(t, "existing@example.com", response.Email)
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Name:     "Existing",
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	w := postJSON(t, env.router, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrong",
	}, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	env := setupAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}
