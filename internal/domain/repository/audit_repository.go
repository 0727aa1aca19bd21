package repository

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// AuditRepository persiste la bitácora de operaciones sobre categorías.
type AuditRepository interface {
	Record(ctx context.Context, entry *entity.AuditEntry) error
	ListByCategory(ctx context.Context, institutionID int, categoryID string, limit int) ([]*entity.AuditEntry, error)
}
