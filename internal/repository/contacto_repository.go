package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrMensajeNotFound = errors.New("mensaje no encontrado")

type ContactoRepository struct {
	pool *pgxpool.Pool
}

func NewContactoRepository(pool *pgxpool.Pool) *ContactoRepository {
	return &ContactoRepository{pool: pool}
}

func (r *ContactoRepository) Create(ctx context.Context, mensaje models.MensajeContacto) error {
	const query = `
		INSERT INTO mensajes_contacto (id, nombre, email, telefono, mensaje, leido, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		mensaje.ID,
		mensaje.Nombre,
		mensaje.Email,
		mensaje.Telefono,
		mensaje.Mensaje,
	)
	return err
}

func (r *ContactoRepository) List(ctx context.Context, soloNoLeidos bool) ([]models.MensajeContacto, error) {
	const query = `
		SELECT id, nombre, email, telefono, mensaje, leido, created_at
		FROM mensajes_contacto
		WHERE leido = FALSE OR NOT $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, soloNoLeidos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mensajes []models.MensajeContacto
	for rows.Next() {
		var m models.MensajeContacto
		if err := rows.Scan(&m.ID, &m.Nombre, &m.Email, &m.Telefono, &m.Mensaje, &m.Leido, &m.CreatedAt); err != nil {
			return nil, err
		}
		mensajes = append(mensajes, m)
	}
	return mensajes, rows.Err()
}

func (r *ContactoRepository) MarcarLeido(ctx context.Context, id string) error {
	const query = `UPDATE mensajes_contacto SET leido = TRUE WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMensajeNotFound
	}
	return nil
}
