package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrConfiguracionNotFound = errors.New("configuración no encontrada")

type ConfiguracionRepository struct {
	pool *pgxpool.Pool
}

func NewConfiguracionRepository(pool *pgxpool.Pool) *ConfiguracionRepository {
	return &ConfiguracionRepository{pool: pool}
}

func (r *ConfiguracionRepository) Get(ctx context.Context, clave string) (models.Configuracion, error) {
	const query = `
		SELECT clave, valor, tipo, grupo, descripcion, fecha_actualizacion
		FROM configuracion WHERE clave = $1
	`

	var c models.Configuracion
	if err := r.pool.QueryRow(ctx, query, clave).Scan(
		&c.Clave,
		&c.Valor,
		&c.Tipo,
		&c.Grupo,
		&c.Descripcion,
		&c.FechaActualizacion,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Configuracion{}, ErrConfiguracionNotFound
		}
		return models.Configuracion{}, err
	}
	return c, nil
}

func (r *ConfiguracionRepository) List(ctx context.Context, grupo string) ([]models.Configuracion, error) {
	const query = `
		SELECT clave, valor, tipo, grupo, descripcion, fecha_actualizacion
		FROM configuracion
		WHERE $1 = '' OR grupo = $1
		ORDER BY grupo, clave
	`

	rows, err := r.pool.Query(ctx, query, grupo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Configuracion
	for rows.Next() {
		var c models.Configuracion
		if err := rows.Scan(&c.Clave, &c.Valor, &c.Tipo, &c.Grupo, &c.Descripcion, &c.FechaActualizacion); err != nil {
			return nil, err
		}
		entries = append(entries, c)
	}
	return entries, rows.Err()
}

// Upsert inserts the key or, when it exists, updates the value and touches
// fecha_actualizacion. Tipo, grupo and descripcion are only written on insert.
func (r *ConfiguracionRepository) Upsert(ctx context.Context, entry models.Configuracion) error {
	const query = `
		INSERT INTO configuracion (clave, valor, tipo, grupo, descripcion, fecha_actualizacion)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (clave)
		DO UPDATE SET valor = EXCLUDED.valor, fecha_actualizacion = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		entry.Clave,
		entry.Valor,
		entry.Tipo,
		entry.Grupo,
		entry.Descripcion,
	)
	return err
}
