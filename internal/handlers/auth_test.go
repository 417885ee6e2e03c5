package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/middleware"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
	"github.com/rentamaq/api/internal/security"
	"github.com/rentamaq/api/internal/service"
)

type memUsuarioStore struct {
	usuarios map[string]models.Usuario
}

func (m *memUsuarioStore) Create(_ context.Context, u models.Usuario) error {
	m.usuarios[u.ID] = u
	return nil
}

func (m *memUsuarioStore) FindActiveByLogin(_ context.Context, login string) (models.Usuario, error) {
	for _, u := range m.usuarios {
		if u.Activo && (u.Username == login || u.Email == login) {
			return u, nil
		}
	}
	return models.Usuario{}, repository.ErrUsuarioNotFound
}

func (m *memUsuarioStore) RecordLoginFailure(_ context.Context, id string, intentos int, hasta *time.Time) error {
	u := m.usuarios[id]
	u.IntentosFallidos = intentos
	u.BloqueadoHasta = hasta
	m.usuarios[id] = u
	return nil
}

func (m *memUsuarioStore) RecordLoginSuccess(_ context.Context, id string) error {
	u := m.usuarios[id]
	u.IntentosFallidos = 0
	u.BloqueadoHasta = nil
	m.usuarios[id] = u
	return nil
}

type memSesionStore struct {
	sesiones map[string]models.Sesion
	usuarios *memUsuarioStore
}

func (m *memSesionStore) Create(_ context.Context, s models.Sesion) error {
	m.sesiones[s.ID] = s
	return nil
}

func (m *memSesionStore) FindActiveByTokenHash(_ context.Context, hash []byte) (models.Sesion, models.Usuario, error) {
	for _, s := range m.sesiones {
		if s.Activa && bytes.Equal(s.TokenHash, hash) {
			if u, ok := m.usuarios.usuarios[s.UsuarioID]; ok && u.Activo {
				return s, u, nil
			}
		}
	}
	return models.Sesion{}, models.Usuario{}, repository.ErrSesionNotFound
}

func (m *memSesionStore) Deactivate(_ context.Context, id string) error {
	s := m.sesiones[id]
	s.Activa = false
	m.sesiones[id] = s
	return nil
}

func (m *memSesionStore) DeleteExpired(context.Context) (int64, error) { return 0, nil }

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := security.HashPasswordWithParams("secreto123", security.Argon2Params{
		Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	usuarios := &memUsuarioStore{usuarios: map[string]models.Usuario{
		"usr-1": {ID: "usr-1", Username: "admin", Email: "admin@rentamaq.cl", PasswordHash: hash, Rol: models.RolAdmin, Activo: true},
	}}
	sesiones := &memSesionStore{sesiones: make(map[string]models.Sesion), usuarios: usuarios}

	cfg := &config.AppConfig{Environment: "development"}
	h := HandlerSet{
		log:         zerolog.Nop(),
		cfg:         cfg,
		authService: service.NewAuthService(usuarios, sesiones, cfg, zerolog.Nop()),
	}

	router := gin.New()
	api := router.Group("/api")
	v1 := api.Group("/v1")
	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)

	me := auth.Group("")
	me.Use(middleware.Auth(h.authService, cfg.Production()))
	me.GET("/me", h.Me)

	return router
}

func doLogin(t *testing.T, router *gin.Engine, login, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"login": login, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()

	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	t.Fatal("session_token cookie not set")
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	router := newAuthRouter(t)

	rec := doLogin(t, router, "admin", "secreto123")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	cookie := sessionCookie(t, rec)
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("Path = %q, want /", cookie.Path)
	}
	if cookie.Secure {
		t.Error("cookie marked Secure outside production")
	}
	if len(cookie.Value) != 64 {
		t.Errorf("token length = %d, want 64", len(cookie.Value))
	}
	if cookie.MaxAge < 23*3600 || cookie.MaxAge > 24*3600 {
		t.Errorf("MaxAge = %d, want about 24h", cookie.MaxAge)
	}
}

func TestLoginFailureReturns401(t *testing.T) {
	router := newAuthRouter(t)

	rec := doLogin(t, router, "admin", "incorrecta")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Credenciales inválidas" {
		t.Fatalf("error = %q", body["error"])
	}
}

func TestSessionCookieRoundTrip(t *testing.T) {
	router := newAuthRouter(t)
	cookie := sessionCookie(t, doLogin(t, router, "admin", "secreto123"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Usuario usuarioResponse `json:"usuario"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Usuario.Username != "admin" {
		t.Fatalf("username = %q", body.Usuario.Username)
	}
}

func TestMeWithoutCookieReturns401(t *testing.T) {
	router := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogoutClearsCookieAndSession(t *testing.T) {
	router := newAuthRouter(t)
	cookie := sessionCookie(t, doLogin(t, router, "admin", "secreto123"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	cleared := sessionCookie(t, rec)
	if cleared.MaxAge >= 0 {
		t.Fatalf("MaxAge = %d, want negative to clear", cleared.MaxAge)
	}

	// The old token no longer authenticates.
	meReq := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	meReq.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, meReq)
	if meRec.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", meRec.Code)
	}
}
