package repository

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si la categoría no existe.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Category, error)
	ListByInstitution(ctx context.Context, institutionID int, includeInactive bool) ([]*entity.Category, error)
	// ListByParent lista hijas directas; parentID nil lista las raíces de la institución.
	ListByParent(ctx context.Context, institutionID int, parentID *string, includeInactive bool) ([]*entity.Category, error)
	// ListSubtree devuelve todos los descendientes de id (sin incluirlo), activos e inactivos.
	ListSubtree(ctx context.Context, id string) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	// UpdateHierarchy persiste padre, nivel, ruta y orden de varias categorías en una sola escritura por lotes.
	UpdateHierarchy(ctx context.Context, categories []*entity.Category) error
	// UpdateOrders persiste solo el orden de varias categorías en una sola escritura por lotes.
	UpdateOrders(ctx context.Context, categories []*entity.Category) error
	CountActiveChildren(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
