package repository

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// MaterialRepository puerto de lectura de materias primas vinculadas a categorías.
type MaterialRepository interface {
	CountActiveByCategory(ctx context.Context, categoryID string) (int, error)
	ListByCategory(ctx context.Context, categoryID string, includeInactive bool) ([]*entity.Material, error)
}
