package category

import (
	"context"
	"errors"

	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
)

// ErrReportsDisabled se devuelve por ExportReport cuando no hay generador configurado.
var ErrReportsDisabled = errors.New("generación de reportes no configurada")

// ValidateHierarchy barre toda la jerarquía de la institución (activas e inactivas) y
// reporta conteos y problemas de consistencia. Solo lectura.
func (uc *CategoryUseCase) ValidateHierarchy(ctx context.Context, institutionID int) (*hierarchy.Report, error) {
	list, err := uc.ListFlat(ctx, institutionID, true)
	if err != nil {
		return nil, err
	}
	report := hierarchy.Diagnose(list)
	if len(report.Problems) > 0 {
		uc.log.Warn().
			Int("institucion_id", institutionID).
			Int("problemas", len(report.Problems)).
			Msg("jerarquía con inconsistencias")
	}
	return report, nil
}

// ExportReport genera el PDF con el árbol completo y el resultado del diagnóstico.
func (uc *CategoryUseCase) ExportReport(ctx context.Context, institutionID int) ([]byte, error) {
	if uc.reports == nil {
		return nil, ErrReportsDisabled
	}
	list, err := uc.ListFlat(ctx, institutionID, true)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateTreeReport(ctx, institutionID, hierarchy.BuildTree(list), hierarchy.Diagnose(list))
}
