package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentamaq/api/internal/models"
)

var (
	ErrArriendoNotFound = errors.New("arriendo no encontrado")
	// ErrArriendoActivo guards the delete cascade: an active contract may not
	// be removed.
	ErrArriendoActivo = errors.New("no se puede eliminar un arriendo activo")
)

type ArriendoRepository struct {
	pool *pgxpool.Pool
}

func NewArriendoRepository(pool *pgxpool.Pool) *ArriendoRepository {
	return &ArriendoRepository{pool: pool}
}

const arriendoColumns = `
	id, cliente_id, numero_contrato, estado, fecha_inicio, fecha_fin,
	total, observaciones, created_at, updated_at
`

func scanArriendo(row pgx.Row) (models.Arriendo, error) {
	var a models.Arriendo
	if err := row.Scan(
		&a.ID,
		&a.ClienteID,
		&a.NumeroContrato,
		&a.Estado,
		&a.FechaInicio,
		&a.FechaFin,
		&a.Total,
		&a.Observaciones,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Arriendo{}, ErrArriendoNotFound
		}
		return models.Arriendo{}, err
	}
	return a, nil
}

// Create inserts the contract and its line items in one transaction.
func (r *ArriendoRepository) Create(ctx context.Context, arriendo models.Arriendo) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertArriendo = `
		INSERT INTO arriendos (
			id, cliente_id, numero_contrato, estado, fecha_inicio, fecha_fin,
			total, observaciones, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`
	if _, err := tx.Exec(ctx, insertArriendo,
		arriendo.ID,
		arriendo.ClienteID,
		arriendo.NumeroContrato,
		arriendo.Estado,
		arriendo.FechaInicio,
		arriendo.FechaFin,
		arriendo.Total,
		arriendo.Observaciones,
	); err != nil {
		return err
	}

	const insertItem = `
		INSERT INTO arriendo_items (id, arriendo_id, equipo_id, cantidad, precio_unitario)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range arriendo.Items {
		if _, err := tx.Exec(ctx, insertItem,
			item.ID,
			arriendo.ID,
			item.EquipoID,
			item.Cantidad,
			item.PrecioUnitario,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *ArriendoRepository) GetByID(ctx context.Context, id string) (models.Arriendo, error) {
	const query = `SELECT ` + arriendoColumns + ` FROM arriendos WHERE id = $1`

	arriendo, err := scanArriendo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return models.Arriendo{}, err
	}

	if arriendo.Items, err = r.listItems(ctx, id); err != nil {
		return models.Arriendo{}, err
	}
	if arriendo.Pagos, err = r.listPagos(ctx, id); err != nil {
		return models.Arriendo{}, err
	}
	return arriendo, nil
}

func (r *ArriendoRepository) listItems(ctx context.Context, arriendoID string) ([]models.ArriendoItem, error) {
	const query = `
		SELECT id, arriendo_id, equipo_id, cantidad, precio_unitario
		FROM arriendo_items WHERE arriendo_id = $1
	`
	rows, err := r.pool.Query(ctx, query, arriendoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ArriendoItem
	for rows.Next() {
		var it models.ArriendoItem
		if err := rows.Scan(&it.ID, &it.ArriendoID, &it.EquipoID, &it.Cantidad, &it.PrecioUnitario); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *ArriendoRepository) listPagos(ctx context.Context, arriendoID string) ([]models.Pago, error) {
	const query = `
		SELECT id, arriendo_id, monto, metodo, fecha_pago, referencia
		FROM pagos WHERE arriendo_id = $1
		ORDER BY fecha_pago
	`
	rows, err := r.pool.Query(ctx, query, arriendoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pagos []models.Pago
	for rows.Next() {
		var p models.Pago
		if err := rows.Scan(&p.ID, &p.ArriendoID, &p.Monto, &p.Metodo, &p.FechaPago, &p.Referencia); err != nil {
			return nil, err
		}
		pagos = append(pagos, p)
	}
	return pagos, rows.Err()
}

type ArriendoFilter struct {
	ClienteID string
	Estado    models.EstadoArriendo
}

func (r *ArriendoRepository) List(ctx context.Context, filter ArriendoFilter) ([]models.Arriendo, error) {
	const query = `
		SELECT ` + arriendoColumns + `
		FROM arriendos
		WHERE ($1 = '' OR cliente_id = $1)
		  AND ($2 = '' OR estado = $2)
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, filter.ClienteID, string(filter.Estado))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var arriendos []models.Arriendo
	for rows.Next() {
		a, err := scanArriendo(rows)
		if err != nil {
			return nil, err
		}
		arriendos = append(arriendos, a)
	}
	return arriendos, rows.Err()
}

// UpdateEstado writes the contract status and applies the implied equipment
// side effect in the same transaction. Releasing to disponible skips
// equipment that is still a line item of another activo contract.
func (r *ArriendoRepository) UpdateEstado(ctx context.Context, id string, estado models.EstadoArriendo) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const updateArriendo = `UPDATE arriendos SET estado = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := tx.Exec(ctx, updateArriendo, id, estado)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrArriendoNotFound
	}

	if efecto, ok := estado.EfectoEnEquipos(); ok {
		if efecto == models.EquipoDisponible {
			const release = `
				UPDATE equipos e
				SET estado = $2, updated_at = NOW()
				WHERE e.id IN (SELECT equipo_id FROM arriendo_items WHERE arriendo_id = $1)
				  AND NOT EXISTS (
					SELECT 1
					FROM arriendo_items ai
					JOIN arriendos a ON a.id = ai.arriendo_id
					WHERE ai.equipo_id = e.id AND a.estado = 'activo' AND a.id <> $1
				  )
			`
			if _, err := tx.Exec(ctx, release, id, efecto); err != nil {
				return err
			}
		} else {
			const mark = `
				UPDATE equipos SET estado = $2, updated_at = NOW()
				WHERE id IN (SELECT equipo_id FROM arriendo_items WHERE arriendo_id = $1)
			`
			if _, err := tx.Exec(ctx, mark, id, efecto); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

// DeleteCascade removes a non-active contract and everything it owns, in
// order: release equipment, line items, payments, the contract row.
func (r *ArriendoRepository) DeleteCascade(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const lockRow = `SELECT estado FROM arriendos WHERE id = $1 FOR UPDATE`
	var estado models.EstadoArriendo
	if err := tx.QueryRow(ctx, lockRow, id).Scan(&estado); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrArriendoNotFound
		}
		return err
	}
	if estado == models.ArriendoActivo {
		return ErrArriendoActivo
	}

	const release = `
		UPDATE equipos e
		SET estado = 'disponible', updated_at = NOW()
		WHERE e.id IN (SELECT equipo_id FROM arriendo_items WHERE arriendo_id = $1)
		  AND NOT EXISTS (
			SELECT 1
			FROM arriendo_items ai
			JOIN arriendos a ON a.id = ai.arriendo_id
			WHERE ai.equipo_id = e.id AND a.estado = 'activo' AND a.id <> $1
		  )
	`
	if _, err := tx.Exec(ctx, release, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM arriendo_items WHERE arriendo_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM pagos WHERE arriendo_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM arriendos WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ArriendoRepository) AddPago(ctx context.Context, pago models.Pago) error {
	const query = `
		INSERT INTO pagos (id, arriendo_id, monto, metodo, fecha_pago, referencia)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		pago.ID,
		pago.ArriendoID,
		pago.Monto,
		pago.Metodo,
		pago.FechaPago,
		pago.Referencia,
	)
	return err
}

func estadosAsStrings(estados []models.EstadoArriendo) []string {
	out := make([]string, len(estados))
	for i, e := range estados {
		out[i] = string(e)
	}
	return out
}

// CountPorCliente counts the client's contracts in any of the given states.
func (r *ArriendoRepository) CountPorCliente(ctx context.Context, clienteID string, estados []models.EstadoArriendo) (int, error) {
	const query = `SELECT COUNT(*) FROM arriendos WHERE cliente_id = $1 AND estado = ANY($2)`

	var count int
	if err := r.pool.QueryRow(ctx, query, clienteID, estadosAsStrings(estados)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountPorEquipo counts contracts in any of the given states that reference
// the equipment through a line item.
func (r *ArriendoRepository) CountPorEquipo(ctx context.Context, equipoID string, estados []models.EstadoArriendo) (int, error) {
	const query = `
		SELECT COUNT(DISTINCT a.id)
		FROM arriendos a
		JOIN arriendo_items ai ON ai.arriendo_id = a.id
		WHERE ai.equipo_id = $1 AND a.estado = ANY($2)
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, equipoID, estadosAsStrings(estados)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
