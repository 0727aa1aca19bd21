package category

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error la transacción se revierte completa: nodo, descendientes y auditoría.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		categories repository.CategoryRepository,
		materials repository.MaterialRepository,
		audit repository.AuditRepository,
	) error) error
}

// TreeReportGenerator genera el reporte imprimible de la jerarquía de una institución.
type TreeReportGenerator interface {
	GenerateTreeReport(ctx context.Context, institutionID int, roots []*entity.CategoryTreeNode, report *hierarchy.Report) ([]byte, error)
}
