package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/ids"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
	"github.com/rentamaq/api/internal/security"
)

// Fixed login policy: five failed attempts lock the account for thirty
// minutes; sessions live for twenty-four hours.
const (
	MaxIntentosFallidos = 5
	DuracionBloqueo     = 30 * time.Minute
	SesionTTL           = 24 * time.Hour
)

// UsuarioStore is the slice of the user repository the auth flow needs.
type UsuarioStore interface {
	Create(ctx context.Context, usuario models.Usuario) error
	FindActiveByLogin(ctx context.Context, login string) (models.Usuario, error)
	RecordLoginFailure(ctx context.Context, id string, intentos int, bloqueadoHasta *time.Time) error
	RecordLoginSuccess(ctx context.Context, id string) error
}

// SesionStore is injected into handlers and middleware; there is no ambient
// session state.
type SesionStore interface {
	Create(ctx context.Context, sesion models.Sesion) error
	FindActiveByTokenHash(ctx context.Context, tokenHash []byte) (models.Sesion, models.Usuario, error)
	Deactivate(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type AuthService struct {
	usuarios UsuarioStore
	sesiones SesionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(usuarios UsuarioStore, sesiones SesionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		usuarios: usuarios,
		sesiones: sesiones,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type LoginInput struct {
	Login    string // username or email
	Password string
}

type LoginResult struct {
	Usuario   models.Usuario
	Token     string
	ExpiresAt time.Time
}

// Login checks credentials, maintains the failed-attempt counter and lockout,
// and issues a new session on success. Every failure other than an active
// lockout surfaces as ErrCredencialesInvalidas.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	login := strings.TrimSpace(strings.ToLower(input.Login))
	if login == "" || input.Password == "" {
		return LoginResult{}, ErrCredencialesInvalidas
	}

	usuario, err := s.usuarios.FindActiveByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, repository.ErrUsuarioNotFound) {
			return LoginResult{}, ErrCredencialesInvalidas
		}
		return LoginResult{}, err
	}

	now := s.now()
	if usuario.Bloqueado(now) {
		return LoginResult{}, ErrCuentaBloqueada
	}

	ok, err := security.VerifyPassword(input.Password, usuario.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, s.registrarFallo(ctx, usuario, now)
	}

	if err := s.usuarios.RecordLoginSuccess(ctx, usuario.ID); err != nil {
		return LoginResult{}, err
	}

	token, tokenHash, err := security.GenerateSessionToken()
	if err != nil {
		return LoginResult{}, err
	}

	sesion := models.Sesion{
		ID:        ids.New(),
		UsuarioID: usuario.ID,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(SesionTTL),
		Activa:    true,
	}
	if err := s.sesiones.Create(ctx, sesion); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Usuario:   usuario,
		Token:     token,
		ExpiresAt: sesion.ExpiresAt,
	}, nil
}

func (s *AuthService) registrarFallo(ctx context.Context, usuario models.Usuario, now time.Time) error {
	intentos := usuario.IntentosFallidos + 1

	var bloqueadoHasta *time.Time
	if intentos >= MaxIntentosFallidos {
		hasta := now.Add(DuracionBloqueo)
		bloqueadoHasta = &hasta
		s.log.Warn().
			Str("usuario_id", usuario.ID).
			Time("bloqueado_hasta", hasta).
			Msg("cuenta bloqueada por intentos fallidos")
	}

	if err := s.usuarios.RecordLoginFailure(ctx, usuario.ID, intentos, bloqueadoHasta); err != nil {
		return err
	}
	return ErrCredencialesInvalidas
}

// Validate resolves a session token to its user. An expired session is
// lazily deactivated on access; there is no background reaper authority.
func (s *AuthService) Validate(ctx context.Context, token string) (models.Usuario, models.Sesion, error) {
	if token == "" {
		return models.Usuario{}, models.Sesion{}, ErrSesionInvalida
	}

	sesion, usuario, err := s.sesiones.FindActiveByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSesionNotFound) {
			return models.Usuario{}, models.Sesion{}, ErrSesionInvalida
		}
		return models.Usuario{}, models.Sesion{}, err
	}

	if sesion.Expirada(s.now()) {
		if err := s.sesiones.Deactivate(ctx, sesion.ID); err != nil {
			s.log.Error().Err(err).Str("sesion_id", sesion.ID).Msg("no se pudo desactivar sesión expirada")
		}
		return models.Usuario{}, models.Sesion{}, ErrSesionInvalida
	}

	return usuario, sesion, nil
}

// Logout deactivates the session behind the token. Unknown tokens are not an
// error: logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sesion, _, err := s.sesiones.FindActiveByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSesionNotFound) {
			return nil
		}
		return err
	}
	return s.sesiones.Deactivate(ctx, sesion.ID)
}

// PurgeExpiredSessions backs the nightly cleanup job.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sesiones.DeleteExpired(ctx)
}

// EnsureAdmin creates the bootstrap administrator when it does not exist yet.
// A missing bootstrap password leaves the user store untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context) error {
	b := s.cfg.Bootstrap
	if b.AdminUsername == "" || b.AdminPassword == "" {
		return nil
	}

	if _, err := s.usuarios.FindActiveByLogin(ctx, strings.ToLower(b.AdminUsername)); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUsuarioNotFound) {
		return err
	}

	hash, err := security.HashPassword(b.AdminPassword)
	if err != nil {
		return err
	}

	usuario := models.Usuario{
		ID:           ids.New(),
		Username:     strings.ToLower(b.AdminUsername),
		Email:        strings.ToLower(b.AdminEmail),
		PasswordHash: hash,
		Nombre:       b.AdminNombre,
		Rol:          models.RolAdmin,
		Activo:       true,
	}
	if err := s.usuarios.Create(ctx, usuario); err != nil {
		return err
	}

	s.log.Info().Str("username", usuario.Username).Msg("usuario administrador creado")
	return nil
}
