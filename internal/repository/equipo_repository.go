package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrEquipoNotFound = errors.New("equipo no encontrado")

type EquipoRepository struct {
	pool *pgxpool.Pool
}

func NewEquipoRepository(pool *pgxpool.Pool) *EquipoRepository {
	return &EquipoRepository{pool: pool}
}

const equipoColumns = `
	id, categoria_id, codigo, nombre, descripcion, estado, stock,
	precio_dia, precio_semana, precio_mes, imagen_url, activo,
	created_at, updated_at
`

func scanEquipo(row pgx.Row) (models.Equipo, error) {
	var e models.Equipo
	if err := row.Scan(
		&e.ID,
		&e.CategoriaID,
		&e.Codigo,
		&e.Nombre,
		&e.Descripcion,
		&e.Estado,
		&e.Stock,
		&e.PrecioDia,
		&e.PrecioSemana,
		&e.PrecioMes,
		&e.ImagenURL,
		&e.Activo,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Equipo{}, ErrEquipoNotFound
		}
		return models.Equipo{}, err
	}
	return e, nil
}

func (r *EquipoRepository) Create(ctx context.Context, equipo models.Equipo) error {
	const query = `
		INSERT INTO equipos (
			id, categoria_id, codigo, nombre, descripcion, estado, stock,
			precio_dia, precio_semana, precio_mes, imagen_url, activo,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		equipo.ID,
		equipo.CategoriaID,
		equipo.Codigo,
		equipo.Nombre,
		equipo.Descripcion,
		equipo.Estado,
		equipo.Stock,
		equipo.PrecioDia,
		equipo.PrecioSemana,
		equipo.PrecioMes,
		equipo.ImagenURL,
		equipo.Activo,
	)
	return err
}

func (r *EquipoRepository) GetByID(ctx context.Context, id string) (models.Equipo, error) {
	const query = `SELECT ` + equipoColumns + ` FROM equipos WHERE id = $1`
	return scanEquipo(r.pool.QueryRow(ctx, query, id))
}

func (r *EquipoRepository) FindByCodigo(ctx context.Context, codigo string) (models.Equipo, error) {
	const query = `SELECT ` + equipoColumns + ` FROM equipos WHERE codigo = $1`
	return scanEquipo(r.pool.QueryRow(ctx, query, codigo))
}

type EquipoFilter struct {
	CategoriaID      string
	Estado           models.EstadoEquipo
	IncluirInactivos bool
}

func (r *EquipoRepository) List(ctx context.Context, filter EquipoFilter) ([]models.Equipo, error) {
	const query = `
		SELECT ` + equipoColumns + `
		FROM equipos
		WHERE (activo = TRUE OR $1)
		  AND ($2 = '' OR categoria_id = $2)
		  AND ($3 = '' OR estado = $3)
		ORDER BY nombre
	`

	rows, err := r.pool.Query(ctx, query, filter.IncluirInactivos, filter.CategoriaID, string(filter.Estado))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var equipos []models.Equipo
	for rows.Next() {
		e, err := scanEquipo(rows)
		if err != nil {
			return nil, err
		}
		equipos = append(equipos, e)
	}
	return equipos, rows.Err()
}

// ListDisponibles backs the public catalog: active equipment only.
func (r *EquipoRepository) ListDisponibles(ctx context.Context) ([]models.Equipo, error) {
	return r.List(ctx, EquipoFilter{Estado: models.EquipoDisponible})
}

func (r *EquipoRepository) Update(ctx context.Context, equipo models.Equipo) error {
	const query = `
		UPDATE equipos
		SET categoria_id = $2, nombre = $3, descripcion = $4, stock = $5,
		    precio_dia = $6, precio_semana = $7, precio_mes = $8, imagen_url = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		equipo.ID,
		equipo.CategoriaID,
		equipo.Nombre,
		equipo.Descripcion,
		equipo.Stock,
		equipo.PrecioDia,
		equipo.PrecioSemana,
		equipo.PrecioMes,
		equipo.ImagenURL,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEquipoNotFound
	}
	return nil
}

func (r *EquipoRepository) UpdateEstado(ctx context.Context, id string, estado models.EstadoEquipo) error {
	const query = `UPDATE equipos SET estado = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, estado)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEquipoNotFound
	}
	return nil
}

func (r *EquipoRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE equipos SET activo = FALSE, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrEquipoNotFound
	}
	return nil
}
