// Package pdf implementa el reporte imprimible de la jerarquía de categorías de una institución.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Institución  │  Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total / Activas / Inactivas / Raíces / por nivel   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ÁRBOL: Nivel | Categoría (sangrada) | Orden | Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  INCONSISTENCIAS: tipo + mensaje (o "jerarquía consistente") │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/gestion-almacen/internal/application/category"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
)

var _ category.TreeReportGenerator = (*MarotoTreeReport)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarning = &props.Color{Red: 170, Green: 40, Blue: 20}
)

// indentPerLevel sangría (mm) por nivel en la tabla del árbol.
const indentPerLevel = 5

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoTreeReport implementa category.TreeReportGenerator usando Maroto v2.
type MarotoTreeReport struct {
	author string
	now    func() time.Time
}

// NewMarotoTreeReport construye el generador; author se usa en los metadatos del PDF.
func NewMarotoTreeReport(author string) *MarotoTreeReport {
	return &MarotoTreeReport{author: author, now: time.Now}
}

// GenerateTreeReport genera el PDF y devuelve sus bytes.
func (g *MarotoTreeReport) GenerateTreeReport(
	ctx context.Context,
	institutionID int,
	roots []*entity.CategoryTreeNode,
	report *hierarchy.Report,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Jerarquía de categorías", true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(institutionID, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(report)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(treeRows(roots, 0)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(problemRows(report)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(institutionID int, at time.Time) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New("JERARQUÍA DE CATEGORÍAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Institución: %d", institutionID), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(at.Format("02/01/2006 15:04"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func summaryRows(report *hierarchy.Report) []core.Row {
	levels := make([]int, 0, len(report.Levels))
	for l := range report.Levels {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	parts := make([]string, 0, len(levels))
	for _, l := range levels {
		parts = append(parts, fmt.Sprintf("N%d: %d", l, report.Levels[l]))
	}

	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("RESUMEN", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Total: %d   |   Activas: %d   |   Inactivas: %d   |   Raíces: %d",
				report.Total, report.Active, report.Inactive, report.Roots,
			), props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New("Por nivel: "+nonEmpty(strings.Join(parts, "   "), "—"), props.Text{
				Size: 8, Top: 1, Color: colorGray,
			}),
		)),
	}
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Nivel", 1, align.Center),
		h("Categoría", 7, align.Left),
		h("Orden", 2, align.Center),
		h("Estado", 2, align.Center),
	)
}

// treeRows una fila por categoría en preorden, sangrada según su profundidad en el bosque.
func treeRows(nodes []*entity.CategoryTreeNode, depth int) []core.Row {
	var result []core.Row
	for _, n := range nodes {
		c := n.Category
		status := "Activa"
		var textColor *props.Color
		if !c.Active {
			status = "Inactiva"
			textColor = colorGray
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", c.Level), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(7).Add(text.New(c.Name, props.Text{
				Size: 8, Top: 1, Left: 1 + float64(depth*indentPerLevel), Color: textColor,
			})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", c.Order), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(status, props.Text{Size: 8, Align: align.Center, Top: 1, Color: textColor})),
		))
		result = append(result, treeRows(n.Children, depth+1)...)
	}
	return result
}

func problemRows(report *hierarchy.Report) []core.Row {
	if len(report.Problems) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Jerarquía consistente: niveles y rutas coinciden con la cadena de padres.", props.Text{
				Size: 8, Top: 2, Color: colorGray,
			}),
		))}
	}
	rows := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New(fmt.Sprintf("INCONSISTENCIAS (%d)", len(report.Problems)), props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWarning, Top: 1,
		}),
	))}
	for _, p := range report.Problems {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(p.Kind, props.Text{Style: fontstyle.Bold, Size: 7, Top: 1})),
			col.New(9).Add(text.New(p.Message, props.Text{Size: 7, Top: 1, Color: colorGray})),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
