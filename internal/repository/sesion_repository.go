package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrSesionNotFound = errors.New("sesión no encontrada")

type SesionRepository struct {
	pool *pgxpool.Pool
}

func NewSesionRepository(pool *pgxpool.Pool) *SesionRepository {
	return &SesionRepository{pool: pool}
}

func (r *SesionRepository) Create(ctx context.Context, sesion models.Sesion) error {
	const query = `
		INSERT INTO sesiones (id, usuario_id, token_hash, expires_at, activa, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		sesion.ID,
		sesion.UsuarioID,
		sesion.TokenHash,
		sesion.ExpiresAt,
		sesion.Activa,
	)
	return err
}

// FindActiveByTokenHash resolves an active session together with its owning
// active user in one round trip.
func (r *SesionRepository) FindActiveByTokenHash(ctx context.Context, tokenHash []byte) (models.Sesion, models.Usuario, error) {
	const query = `
		SELECT s.id, s.usuario_id, s.token_hash, s.expires_at, s.activa, s.created_at,
		       ` + usuarioJoinColumns + `
		FROM sesiones s
		JOIN usuarios u ON u.id = s.usuario_id AND u.activo = TRUE
		WHERE s.token_hash = $1 AND s.activa = TRUE
	`

	row := r.pool.QueryRow(ctx, query, tokenHash)
	var (
		s models.Sesion
		u models.Usuario
	)
	if err := row.Scan(
		&s.ID,
		&s.UsuarioID,
		&s.TokenHash,
		&s.ExpiresAt,
		&s.Activa,
		&s.CreatedAt,
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Nombre,
		&u.Rol,
		&u.Activo,
		&u.IntentosFallidos,
		&u.BloqueadoHasta,
		&u.UltimoAcceso,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Sesion{}, models.Usuario{}, ErrSesionNotFound
		}
		return models.Sesion{}, models.Usuario{}, err
	}
	return s, u, nil
}

const usuarioJoinColumns = `
	u.id, u.username, u.email, u.password_hash, u.nombre, u.rol, u.activo,
	u.intentos_fallidos, u.bloqueado_hasta, u.ultimo_acceso, u.created_at, u.updated_at
`

func (r *SesionRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE sesiones SET activa = FALSE WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSesionNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired or were deactivated. It backs
// the nightly cleanup job; per-request validation does not depend on it.
func (r *SesionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM sesiones WHERE expires_at < NOW() OR activa = FALSE`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
