package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrCategoriaNotFound = errors.New("categoría no encontrada")

type CategoriaRepository struct {
	pool *pgxpool.Pool
}

func NewCategoriaRepository(pool *pgxpool.Pool) *CategoriaRepository {
	return &CategoriaRepository{pool: pool}
}

func (r *CategoriaRepository) Create(ctx context.Context, categoria models.Categoria) error {
	const query = `
		INSERT INTO categorias (id, nombre, descripcion, activo)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, categoria.ID, categoria.Nombre, categoria.Descripcion, categoria.Activo)
	return err
}

func (r *CategoriaRepository) GetByID(ctx context.Context, id string) (models.Categoria, error) {
	const query = `SELECT id, nombre, descripcion, activo FROM categorias WHERE id = $1`

	var c models.Categoria
	if err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Activo); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Categoria{}, ErrCategoriaNotFound
		}
		return models.Categoria{}, err
	}
	return c, nil
}

func (r *CategoriaRepository) List(ctx context.Context) ([]models.Categoria, error) {
	const query = `SELECT id, nombre, descripcion, activo FROM categorias WHERE activo = TRUE ORDER BY nombre`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categorias []models.Categoria
	for rows.Next() {
		var c models.Categoria
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Activo); err != nil {
			return nil, err
		}
		categorias = append(categorias, c)
	}
	return categorias, rows.Err()
}
