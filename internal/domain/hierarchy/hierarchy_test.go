package hierarchy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func cat(id string, parent *entity.Category, name string, order int) *entity.Category {
	c := &entity.Category{ID: id, InstitutionID: 1, Name: name, Order: order, Active: true, Level: 1, FullPath: name}
	if parent != nil {
		pid := parent.ID
		c.ParentID = &pid
		c.Level = parent.Level + 1
		c.FullPath = parent.FullPath + "/" + name
	}
	return c
}

func lookupFrom(cats ...*entity.Category) hierarchy.Lookup {
	index := make(map[string]*entity.Category, len(cats))
	for _, c := range cats {
		index[c.ID] = c
	}
	return func(_ context.Context, id string) (*entity.Category, error) {
		return index[id], nil
	}
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Rutas y niveles
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildPathYParentPath(t *testing.T) {
	assert.Equal(t, "A", hierarchy.BuildPath("", "A"))
	assert.Equal(t, "A/B", hierarchy.BuildPath("A", "B"))
	assert.Equal(t, "A/B", hierarchy.ParentPath("A/B/C"))
	assert.Equal(t, "", hierarchy.ParentPath("A"))
}

func TestLevelFor_RechazaNivelCinco(t *testing.T) {
	level, err := hierarchy.LevelFor(3)
	require.NoError(t, err)
	assert.Equal(t, 4, level)

	_, err = hierarchy.LevelFor(4)
	var depthErr *domain.DepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, 5, depthErr.Level)
	assert.True(t, errors.Is(err, domain.ErrDepthExceeded))
}

func TestRecompute_MueveSubarbolBajoNuevaRaiz(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)
	d := cat("d", nil, "D", 2)

	changed, err := hierarchy.Recompute(b, d.FullPath, d.Level, []*entity.Category{c})
	require.NoError(t, err)
	require.Len(t, changed, 2)
	assert.Equal(t, "b", changed[0].ID, "el nodo movido va primero")

	assert.Equal(t, 2, b.Level)
	assert.Equal(t, "D/B", b.FullPath)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, "D/B/C", c.FullPath)
}

func TestRecompute_ComoRaiz(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)

	_, err := hierarchy.Recompute(b, "", 0, []*entity.Category{c})
	require.NoError(t, err)
	assert.Equal(t, 1, b.Level)
	assert.Equal(t, "B", b.FullPath)
	assert.Equal(t, "B/C", c.FullPath)
}

func TestRecompute_ProfundidadExcedidaNoModificaNada(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)
	x := cat("x", nil, "X", 2)
	y := cat("y", x, "Y", 1)
	z := cat("z", y, "Z", 1)

	// Mover A (altura 3) bajo Z (nivel 3) dejaría a C en nivel 6.
	_, err := hierarchy.Recompute(a, z.FullPath, z.Level, []*entity.Category{b, c})
	var depthErr *domain.DepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, "c", depthErr.ID, "se reporta el descendiente más profundo")
	assert.Equal(t, 6, depthErr.Level)

	assert.Equal(t, 1, a.Level)
	assert.Equal(t, "A/B/C", c.FullPath)
	assert.Equal(t, 3, c.Level)
}

func TestRecompute_IgnoraNodosAjenosAlSubarbol(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	other := cat("o", nil, "Otro", 2)

	changed, err := hierarchy.Recompute(a, "", 0, []*entity.Category{b, other})
	require.NoError(t, err)
	assert.Len(t, changed, 2)
	assert.Equal(t, "Otro", other.FullPath)
}

// ──────────────────────────────────────────────────────────────────────────────
// Construcción del árbol
// ──────────────────────────────────────────────────────────────────────────────

func TestBuildTree_OrdenaHermanasYAnida(t *testing.T) {
	a := cat("a", nil, "A", 2)
	z := cat("z", nil, "Z", 1)
	b2 := cat("b2", a, "Segunda", 2)
	b1 := cat("b1", a, "Primera", 1)
	c := cat("c", b1, "C", 1)

	roots := hierarchy.BuildTree([]*entity.Category{c, b2, a, b1, z})
	require.Len(t, roots, 2)
	assert.Equal(t, "z", roots[0].ID)
	assert.Equal(t, "a", roots[1].ID)
	require.Len(t, roots[1].Children, 2)
	assert.Equal(t, "b1", roots[1].Children[0].ID)
	assert.Equal(t, "b2", roots[1].Children[1].ID)
	require.Len(t, roots[1].Children[0].Children, 1)
	assert.Equal(t, "c", roots[1].Children[0].Children[0].ID)
}

func TestBuildTree_HuerfanosComoRaices(t *testing.T) {
	a := cat("a", nil, "A", 1)
	orphan := cat("h", nil, "Huérfana", 2)
	orphan.ParentID = strPtr("no-existe")

	roots := hierarchy.BuildTree([]*entity.Category{a, orphan})
	require.Len(t, roots, 2, "el huérfano no se descarta")
	ids := []string{roots[0].ID, roots[1].ID}
	assert.ElementsMatch(t, []string{"a", "h"}, ids)
}

func TestBuildTree_CicloCorruptoNoPierdeNodos(t *testing.T) {
	x := &entity.Category{ID: "x", Name: "X", ParentID: strPtr("y"), Active: true}
	y := &entity.Category{ID: "y", Name: "Y", ParentID: strPtr("x"), Active: true}

	roots := hierarchy.BuildTree([]*entity.Category{x, y})
	require.Len(t, roots, 1)
	assert.Len(t, hierarchy.Flatten(roots), 2)
}

func TestFlatten_Preorden(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)
	d := cat("d", a, "D", 2)

	var ids []string
	for _, n := range hierarchy.Flatten(hierarchy.BuildTree([]*entity.Category{d, c, b, a})) {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ancestros
// ──────────────────────────────────────────────────────────────────────────────

func TestIsDescendant(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)
	d := cat("d", nil, "D", 2)
	lookup := lookupFrom(a, b, c, d)
	ctx := context.Background()

	ok, err := hierarchy.IsDescendant(ctx, lookup, "c", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hierarchy.IsDescendant(ctx, lookup, "a", "c")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hierarchy.IsDescendant(ctx, lookup, "d", "a")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = hierarchy.IsDescendant(ctx, lookup, "a", "a")
	require.NoError(t, err)
	assert.False(t, ok, "un nodo no es descendiente de sí mismo")
}

func TestIsDescendant_TerminaEnCiclo(t *testing.T) {
	x := &entity.Category{ID: "x", ParentID: strPtr("y")}
	y := &entity.Category{ID: "y", ParentID: strPtr("x")}

	ok, err := hierarchy.IsDescendant(context.Background(), lookupFrom(x, y), "x", "z")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsDescendant_PropagaErrorDeBusqueda(t *testing.T) {
	boom := errors.New("db caída")
	lookup := func(context.Context, string) (*entity.Category, error) { return nil, boom }

	_, err := hierarchy.IsDescendant(context.Background(), lookup, "x", "y")
	assert.ErrorIs(t, err, boom)
}

func TestAncestorChain(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)

	chain, err := hierarchy.AncestorChain(context.Background(), lookupFrom(a, b, c), c)
	require.NoError(t, err)
	segs := hierarchy.Segments(chain)
	require.Len(t, segs, 3)
	assert.Equal(t, entity.PathSegment{ID: "a", Name: "A", Level: 1}, segs[0])
	assert.Equal(t, entity.PathSegment{ID: "c", Name: "C", Level: 3}, segs[2])
}

func TestAncestorChain_AncestroInexistente(t *testing.T) {
	b := &entity.Category{ID: "b", Name: "B", ParentID: strPtr("borrada"), Level: 2}
	c := cat("c", b, "C", 1)

	chain, err := hierarchy.AncestorChain(context.Background(), lookupFrom(b, c), c)
	require.NoError(t, err)
	require.Len(t, chain, 2)
	assert.Equal(t, "b", chain[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Nombres y diagnóstico
// ──────────────────────────────────────────────────────────────────────────────

func TestNameKey_IgnoraMayusculasYEspacios(t *testing.T) {
	assert.True(t, hierarchy.SameName("  Harinas ", "HARINAS"))
	assert.True(t, hierarchy.SameName("Ñame", "ñame"))
	assert.False(t, hierarchy.SameName("Harinas", "Harina"))
}

func TestDiagnose_JerarquiaSana(t *testing.T) {
	a := cat("a", nil, "A", 1)
	b := cat("b", a, "B", 1)
	c := cat("c", b, "C", 1)
	inactive := cat("i", a, "Vieja", 2)
	inactive.Active = false

	r := hierarchy.Diagnose([]*entity.Category{a, b, c, inactive})
	assert.Equal(t, 4, r.Total)
	assert.Equal(t, 3, r.Active)
	assert.Equal(t, 1, r.Inactive)
	assert.Equal(t, 1, r.Roots)
	assert.Equal(t, map[int]int{1: 1, 2: 2, 3: 1}, r.Levels)
	assert.Empty(t, r.Problems)
}

func TestDiagnose_ReportaProblemas(t *testing.T) {
	a := cat("a", nil, "A", 1)
	dup1 := cat("d1", a, "Granos", 1)
	dup2 := cat("d2", a, "granos", 2)
	inactiveDup := cat("d3", a, "GRANOS", 3)
	inactiveDup.Active = false
	orphan := &entity.Category{ID: "o", Name: "O", ParentID: strPtr("nada"), Level: 2, FullPath: "X/O", Active: true}
	badPath := cat("p", a, "P", 4)
	badPath.FullPath = "Z/P"
	deep := &entity.Category{ID: "deep", Name: "Honda", Level: 5, FullPath: "Honda", Active: true}

	r := hierarchy.Diagnose([]*entity.Category{a, dup1, dup2, inactiveDup, orphan, badPath, deep})

	kinds := map[string][]string{}
	for _, p := range r.Problems {
		kinds[p.Kind] = append(kinds[p.Kind], p.CategoryIDs...)
	}
	assert.ElementsMatch(t, []string{"d1", "d2"}, kinds[hierarchy.ProblemDuplicateName], "las inactivas no cuentan como duplicado")
	assert.Equal(t, []string{"o"}, kinds[hierarchy.ProblemOrphan])
	assert.Equal(t, []string{"p"}, kinds[hierarchy.ProblemPathMismatch])
	assert.Equal(t, []string{"deep"}, kinds[hierarchy.ProblemDepthExceeded])
	assert.Equal(t, []string{"deep"}, kinds[hierarchy.ProblemLevelMismatch])
}
