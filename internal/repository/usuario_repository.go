package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrUsuarioNotFound = errors.New("usuario no encontrado")

type UsuarioRepository struct {
	pool *pgxpool.Pool
}

func NewUsuarioRepository(pool *pgxpool.Pool) *UsuarioRepository {
	return &UsuarioRepository{pool: pool}
}

const usuarioColumns = `
	id, username, email, password_hash, nombre, rol, activo,
	intentos_fallidos, bloqueado_hasta, ultimo_acceso, created_at, updated_at
`

func scanUsuario(row pgx.Row) (models.Usuario, error) {
	var u models.Usuario
	if err := row.Scan(
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
			return models.Usuario{}, ErrUsuarioNotFound
		}
		return models.Usuario{}, err
	}
	return u, nil
}

func (r *UsuarioRepository) Create(ctx context.Context, usuario models.Usuario) error {
	const query = `
		INSERT INTO usuarios (
			id, username, email, password_hash, nombre, rol, activo,
			intentos_fallidos, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, 0, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		usuario.ID,
		usuario.Username,
		usuario.Email,
		usuario.PasswordHash,
		usuario.Nombre,
		usuario.Rol,
		usuario.Activo,
	)
	return err
}

// FindActiveByLogin matches an active account by username or email.
func (r *UsuarioRepository) FindActiveByLogin(ctx context.Context, login string) (models.Usuario, error) {
	const query = `
		SELECT ` + usuarioColumns + `
		FROM usuarios
		WHERE (username = $1 OR email = $1) AND activo = TRUE
	`
	return scanUsuario(r.pool.QueryRow(ctx, query, login))
}

func (r *UsuarioRepository) GetByID(ctx context.Context, id string) (models.Usuario, error) {
	const query = `
		SELECT ` + usuarioColumns + `
		FROM usuarios WHERE id = $1
	`
	return scanUsuario(r.pool.QueryRow(ctx, query, id))
}

// RecordLoginFailure persists the failed-attempt counter and, when the
// threshold was reached, the lockout deadline.
func (r *UsuarioRepository) RecordLoginFailure(ctx context.Context, id string, intentos int, bloqueadoHasta *time.Time) error {
	const query = `
		UPDATE usuarios
		SET intentos_fallidos = $2, bloqueado_hasta = $3, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, intentos, bloqueadoHasta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUsuarioNotFound
	}
	return nil
}

// RecordLoginSuccess resets the failed-attempt counter, clears the lockout and
// stamps the last access time.
func (r *UsuarioRepository) RecordLoginSuccess(ctx context.Context, id string) error {
	const query = `
		UPDATE usuarios
		SET intentos_fallidos = 0, bloqueado_hasta = NULL, ultimo_acceso = NOW(), updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUsuarioNotFound
	}
	return nil
}
