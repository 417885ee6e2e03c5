package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var ErrClienteNotFound = errors.New("cliente no encontrado")

type ClienteRepository struct {
	pool *pgxpool.Pool
}

func NewClienteRepository(pool *pgxpool.Pool) *ClienteRepository {
	return &ClienteRepository{pool: pool}
}

const clienteColumns = `
	id, tipo, rut, nombre, email, telefono, direccion,
	credito_aprobado, limite_credito, descuento_porcentaje, activo,
	created_at, updated_at
`

func scanCliente(row pgx.Row) (models.Cliente, error) {
	var c models.Cliente
	if err := row.Scan(
		&c.ID,
		&c.Tipo,
		&c.RUT,
		&c.Nombre,
		&c.Email,
		&c.Telefono,
		&c.Direccion,
		&c.CreditoAprobado,
		&c.LimiteCredito,
		&c.DescuentoPorcentaje,
		&c.Activo,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Cliente{}, ErrClienteNotFound
		}
		return models.Cliente{}, err
	}
	return c, nil
}

func (r *ClienteRepository) Create(ctx context.Context, cliente models.Cliente) error {
	const query = `
		INSERT INTO clientes (
			id, tipo, rut, nombre, email, telefono, direccion,
			credito_aprobado, limite_credito, descuento_porcentaje, activo,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		cliente.ID,
		cliente.Tipo,
		cliente.RUT,
		cliente.Nombre,
		cliente.Email,
		cliente.Telefono,
		cliente.Direccion,
		cliente.CreditoAprobado,
		cliente.LimiteCredito,
		cliente.DescuentoPorcentaje,
		cliente.Activo,
	)
	return err
}

func (r *ClienteRepository) GetByID(ctx context.Context, id string) (models.Cliente, error) {
	const query = `SELECT ` + clienteColumns + ` FROM clientes WHERE id = $1`
	return scanCliente(r.pool.QueryRow(ctx, query, id))
}

// FindByRUT matches by tax id regardless of the activo flag: a soft-deleted
// client still reserves its RUT.
func (r *ClienteRepository) FindByRUT(ctx context.Context, rut string) (models.Cliente, error) {
	const query = `SELECT ` + clienteColumns + ` FROM clientes WHERE rut = $1`
	return scanCliente(r.pool.QueryRow(ctx, query, rut))
}

func (r *ClienteRepository) List(ctx context.Context, incluirInactivos bool) ([]models.Cliente, error) {
	const query = `
		SELECT ` + clienteColumns + `
		FROM clientes
		WHERE activo = TRUE OR $1
		ORDER BY nombre
	`

	rows, err := r.pool.Query(ctx, query, incluirInactivos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clientes []models.Cliente
	for rows.Next() {
		c, err := scanCliente(rows)
		if err != nil {
			return nil, err
		}
		clientes = append(clientes, c)
	}
	return clientes, rows.Err()
}

// Update persists the mutable fields. RUT is deliberately excluded.
func (r *ClienteRepository) Update(ctx context.Context, cliente models.Cliente) error {
	const query = `
		UPDATE clientes
		SET tipo = $2, nombre = $3, email = $4, telefono = $5, direccion = $6,
		    credito_aprobado = $7, limite_credito = $8, descuento_porcentaje = $9,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		cliente.ID,
		cliente.Tipo,
		cliente.Nombre,
		cliente.Email,
		cliente.Telefono,
		cliente.Direccion,
		cliente.CreditoAprobado,
		cliente.LimiteCredito,
		cliente.DescuentoPorcentaje,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClienteNotFound
	}
	return nil
}

func (r *ClienteRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE clientes SET activo = FALSE, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrClienteNotFound
	}
	return nil
}
