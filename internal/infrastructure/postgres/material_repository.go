package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo lectura de materias primas (tabla materiales) para chequeos de dependencia.
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// CountActiveByCategory cuenta materiales activos clasificados en la categoría.
func (r *MaterialRepo) CountActiveByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM materiales WHERE categoria_id = $1 AND activo`, categoryID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count materials: %w", err)
	}
	return n, nil
}

// ListByCategory lista materiales de la categoría por código. stock_actual usa el codec decimal del pool.
func (r *MaterialRepo) ListByCategory(ctx context.Context, categoryID string, includeInactive bool) ([]*entity.Material, error) {
	query := `
		SELECT id::text, institucion_id, categoria_id::text, codigo, nombre, unidad_medida, stock_actual,
			activo, created_at, updated_at
		FROM materiales
		WHERE categoria_id = $1 AND ($2 OR activo)
		ORDER BY codigo`
	rows, err := r.q.Query(ctx, query, categoryID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.Material
	for rows.Next() {
		var m entity.Material
		if err := rows.Scan(&m.ID, &m.InstitutionID, &m.CategoryID, &m.Code, &m.Name, &m.UnitMeasure,
			&m.Stock, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
