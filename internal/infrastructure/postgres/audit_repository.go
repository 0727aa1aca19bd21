package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora de operaciones sobre categorías (tabla categorias_auditoria).
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Record inserta una entrada; detalle se guarda como JSONB.
func (r *AuditRepo) Record(ctx context.Context, e *entity.AuditEntry) error {
	query := `
		INSERT INTO categorias_auditoria (id, institucion_id, categoria_id, operacion, usuario_id, ruta_completa, nivel, detalle, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.InstitutionID, e.CategoryID, e.Operation, e.UserID, e.FullPath, e.Level, e.Detail, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListByCategory devuelve las entradas más recientes primero.
func (r *AuditRepo) ListByCategory(ctx context.Context, institutionID int, categoryID string, limit int) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id::text, institucion_id, categoria_id::text, operacion, usuario_id, ruta_completa, nivel, detalle, created_at
		FROM categorias_auditoria
		WHERE institucion_id = $1 AND categoria_id = $2
		ORDER BY created_at DESC, id
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, institutionID, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		if err := rows.Scan(&e.ID, &e.InstitutionID, &e.CategoryID, &e.Operation, &e.UserID,
			&e.FullPath, &e.Level, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
