package category_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-almacen/internal/application/category"
	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
	"github.com/jhoicas/gestion-almacen/internal/infrastructure/memory"
	"github.com/jhoicas/gestion-almacen/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testInstitution = 1
	testUser        = "bodeguero-1"
)

func newManager(t *testing.T, opts ...memory.Option) (*category.CategoryUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore(opts...)
	uc := category.NewCategoryUseCase(store.Categories(), store.Materials(), store.Audit(), store, nil, logger.Nop())
	return uc, store
}

// create crea name bajo parent (nil = raíz) en la institución de prueba.
func create(t *testing.T, uc *category.CategoryUseCase, parent *entity.Category, name string) *entity.Category {
	t.Helper()
	in := category.CreateInput{InstitutionID: testInstitution, Name: name}
	if parent != nil {
		in.ParentID = &parent.ID
	}
	c, err := uc.Create(context.Background(), in, testUser)
	require.NoError(t, err, "crear %s", name)
	return c
}

func get(t *testing.T, uc *category.CategoryUseCase, id string) *entity.Category {
	t.Helper()
	c, err := uc.GetByID(context.Background(), id, true)
	require.NoError(t, err)
	return c
}

// assertConsistent verifica nivel y ruta de toda la institución contra la cadena de ancestros.
func assertConsistent(t *testing.T, uc *category.CategoryUseCase) {
	t.Helper()
	report, err := uc.ValidateHierarchy(context.Background(), testInstitution)
	require.NoError(t, err)
	assert.Empty(t, report.Problems)
	for level := range report.Levels {
		assert.LessOrEqual(t, level, entity.MaxLevel)
	}
}

// failingCategories escribe solo el primer elemento del lote y luego falla.
type failingCategories struct {
	repository.CategoryRepository
	fail *bool
}

func (f failingCategories) UpdateHierarchy(ctx context.Context, cats []*entity.Category) error {
	if !*f.fail {
		return f.CategoryRepository.UpdateHierarchy(ctx, cats)
	}
	if err := f.CategoryRepository.UpdateHierarchy(ctx, cats[:1]); err != nil {
		return err
	}
	return errors.New("conexión perdida a mitad del lote")
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario literal A/B/C/D
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_CrearMoverYCiclo(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()

	a := create(t, uc, nil, "A")
	assert.Equal(t, 1, a.Level)
	assert.Equal(t, "A", a.FullPath)

	b := create(t, uc, a, "B")
	assert.Equal(t, 2, b.Level)
	assert.Equal(t, "A/B", b.FullPath)

	c := create(t, uc, b, "C")
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, "A/B/C", c.FullPath)

	d := create(t, uc, nil, "D")
	moved, err := uc.Move(ctx, b.ID, &d.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, moved.Level)
	assert.Equal(t, "D/B", moved.FullPath)

	c = get(t, uc, c.ID)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, "D/B/C", c.FullPath)

	// C cuelga ahora de D; se reconstruye A/B/C para el intento de ciclo.
	b2 := create(t, uc, a, "B")
	c2 := create(t, uc, b2, "C")
	_, err = uc.Move(ctx, a.ID, &c2.ID, testUser)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCycle))
	var cycle *domain.CycleError
	require.ErrorAs(t, err, &cycle)
	assert.Equal(t, a.ID, cycle.ID)
	assert.Equal(t, c2.ID, cycle.NewParentID)

	assertConsistent(t, uc)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_AsignaOrdenConsecutivo(t *testing.T) {
	uc, _ := newManager(t)
	a := create(t, uc, nil, "Harinas")
	b := create(t, uc, nil, "Azúcares")
	assert.Equal(t, 1, a.Order)
	assert.Equal(t, 2, b.Order)

	child := create(t, uc, a, "Trigo")
	assert.Equal(t, 1, child.Order)
}

func TestCreate_OrdenExplicitoOcupado(t *testing.T) {
	uc, _ := newManager(t)
	create(t, uc, nil, "Harinas")

	order := 1
	_, err := uc.Create(context.Background(), category.CreateInput{InstitutionID: testInstitution, Name: "Azúcares", Order: &order}, testUser)
	assert.True(t, errors.Is(err, domain.ErrInvalidOrder))
}

func TestCreate_ValidaEntrada(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	bad := "no-es-uuid"

	cases := []struct {
		name string
		in   category.CreateInput
	}{
		{"sin institución", category.CreateInput{Name: "A"}},
		{"nombre vacío", category.CreateInput{InstitutionID: testInstitution, Name: "   "}},
		{"nombre con separador", category.CreateInput{InstitutionID: testInstitution, Name: "A/B"}},
		{"padre con formato inválido", category.CreateInput{InstitutionID: testInstitution, Name: "A", ParentID: &bad}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.in, testUser)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestCreate_PadreInexistenteOInactivo(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()

	missing := uuid.NewString()
	_, err := uc.Create(ctx, category.CreateInput{InstitutionID: testInstitution, Name: "X", ParentID: &missing}, testUser)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	parent := create(t, uc, nil, "Empaques")
	_, err = uc.ToggleActive(ctx, parent.ID, false, testUser)
	require.NoError(t, err)
	_, err = uc.Create(ctx, category.CreateInput{InstitutionID: testInstitution, Name: "Cajas", ParentID: &parent.ID}, testUser)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_PadreDeOtraInstitucion(t *testing.T) {
	uc, _ := newManager(t)
	parent := create(t, uc, nil, "Empaques")

	_, err := uc.Create(context.Background(), category.CreateInput{InstitutionID: 2, Name: "Cajas", ParentID: &parent.ID}, testUser)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreate_NivelCincoRechazado(t *testing.T) {
	uc, _ := newManager(t)
	l1 := create(t, uc, nil, "N1")
	l2 := create(t, uc, l1, "N2")
	l3 := create(t, uc, l2, "N3")
	l4 := create(t, uc, l3, "N4")
	assert.Equal(t, 4, l4.Level)

	_, err := uc.Create(context.Background(), category.CreateInput{InstitutionID: testInstitution, Name: "N5", ParentID: &l4.ID}, testUser)
	assert.True(t, errors.Is(err, domain.ErrDepthExceeded))

	list, err := uc.ListFlat(context.Background(), testInstitution, true)
	require.NoError(t, err)
	assert.Len(t, list, 4, "no debe persistirse nada")
}

// Propiedad 5: unicidad entre hermanas activas.
func TestCreate_NombreDuplicadoEntreHermanas(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	parent := create(t, uc, nil, "Lácteos")
	first := create(t, uc, parent, "Quesos")

	_, err := uc.Create(ctx, category.CreateInput{InstitutionID: testInstitution, Name: " quesos ", ParentID: &parent.ID}, testUser)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	var dup *domain.DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, first.ID, dup.ExistingID)

	// Mismo nombre en otra rama u otra institución sí se permite.
	create(t, uc, nil, "Quesos")
	_, err = uc.Create(ctx, category.CreateInput{InstitutionID: 2, Name: "Lácteos"}, testUser)
	require.NoError(t, err)

	// Tras la baja lógica de la primera, el nombre queda libre.
	require.NoError(t, uc.Delete(ctx, first.ID, false, testUser))
	again := create(t, uc, parent, "Quesos")
	assert.NotEqual(t, first.ID, again.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edit
// ──────────────────────────────────────────────────────────────────────────────

func TestEdit_RenombrarPropagaRuta(t *testing.T) {
	uc, _ := newManager(t)
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")
	c := create(t, uc, b, "C")
	d := create(t, uc, c, "D")

	name, desc := "Bebidas", "líquidos"
	edited, err := uc.Edit(context.Background(), b.ID, category.EditInput{Name: &name, Description: &desc}, testUser)
	require.NoError(t, err)
	assert.Equal(t, "A/Bebidas", edited.FullPath)
	assert.Equal(t, "líquidos", edited.Description)
	assert.Equal(t, 2, edited.Level)

	assert.Equal(t, "A/Bebidas/C", get(t, uc, c.ID).FullPath)
	assert.Equal(t, "A/Bebidas/C/D", get(t, uc, d.ID).FullPath)
	assert.Equal(t, "A", get(t, uc, a.ID).FullPath)
	assertConsistent(t, uc)
}

func TestEdit_SinCambiosYNombreDuplicado(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	create(t, uc, nil, "B")

	_, err := uc.Edit(ctx, a.ID, category.EditInput{}, testUser)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	name := "b"
	_, err = uc.Edit(ctx, a.ID, category.EditInput{Name: &name}, testUser)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.Equal(t, "A", get(t, uc, a.ID).Name)

	_, err = uc.Edit(ctx, uuid.NewString(), category.EditInput{Name: &name}, testUser)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Move
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad 3: sin ciclos.
func TestMove_RechazaCiclos(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")

	_, err := uc.Move(ctx, a.ID, &a.ID, testUser)
	assert.True(t, errors.Is(err, domain.ErrCycle))

	_, err = uc.Move(ctx, a.ID, &b.ID, testUser)
	assert.True(t, errors.Is(err, domain.ErrCycle))
	assert.Nil(t, get(t, uc, a.ID).ParentID)
}

func TestMove_AComoRaiz(t *testing.T) {
	uc, _ := newManager(t)
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")
	c := create(t, uc, b, "C")

	moved, err := uc.Move(context.Background(), b.ID, nil, testUser)
	require.NoError(t, err)
	assert.True(t, moved.IsRoot())
	assert.Equal(t, 1, moved.Level)
	assert.Equal(t, "B", moved.FullPath)
	assert.Equal(t, 2, moved.Order, "pasa al final de las raíces")

	c = get(t, uc, c.ID)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, "B/C", c.FullPath)
}

func TestMove_ProfundidadDelDescendienteMasProfundo(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")
	c := create(t, uc, b, "C")

	x := create(t, uc, nil, "X")
	y := create(t, uc, x, "Y")
	z := create(t, uc, y, "Z")

	// B+C bajo Z dejaría a C en nivel 5.
	_, err := uc.Move(ctx, b.ID, &z.ID, testUser)
	require.Error(t, err)
	var depth *domain.DepthExceededError
	require.ErrorAs(t, err, &depth)
	assert.Equal(t, c.ID, depth.ID)
	assert.Equal(t, 5, depth.Level)
	assert.Equal(t, "A/B/C", get(t, uc, c.ID).FullPath)

	// Bajo Y sí cabe: B nivel 3, C nivel 4.
	_, err = uc.Move(ctx, b.ID, &y.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, "X/Y/B/C", get(t, uc, c.ID).FullPath)
	assert.Equal(t, 4, get(t, uc, c.ID).Level)
}

func TestMove_NombreDuplicadoEnDestino(t *testing.T) {
	uc, _ := newManager(t)
	a := create(t, uc, nil, "A")
	create(t, uc, a, "Sal")
	other := create(t, uc, nil, "Sal")

	_, err := uc.Move(context.Background(), other.ID, &a.ID, testUser)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.True(t, get(t, uc, other.ID).IsRoot())
}

func TestMove_MismoPadreNoHaceNada(t *testing.T) {
	uc, _ := newManager(t)
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")

	moved, err := uc.Move(context.Background(), b.ID, &a.ID, testUser)
	require.NoError(t, err)
	assert.Equal(t, b.Order, moved.Order)

	entries, err := uc.ListAudit(context.Background(), testInstitution, b.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "solo la creación")
}

// Propiedad 4: la cascada es atómica ante una falla a mitad del lote.
func TestMove_FallaAMitadDeCascadaRevierteTodo(t *testing.T) {
	fail := false
	uc, _ := newManager(t, memory.WithRepoWrapper(func(
		c repository.CategoryRepository, m repository.MaterialRepository, a repository.AuditRepository,
	) (repository.CategoryRepository, repository.MaterialRepository, repository.AuditRepository) {
		return failingCategories{CategoryRepository: c, fail: &fail}, m, a
	}))
	ctx := context.Background()

	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")
	c := create(t, uc, b, "C")
	d := create(t, uc, c, "D")
	root := create(t, uc, nil, "R")

	before := map[string]*entity.Category{}
	for _, x := range []*entity.Category{b, c, d} {
		before[x.ID] = get(t, uc, x.ID)
	}

	fail = true
	_, err := uc.Move(ctx, b.ID, &root.ID, testUser)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransaction))

	for id, want := range before {
		got := get(t, uc, id)
		assert.Equal(t, want.FullPath, got.FullPath)
		assert.Equal(t, want.Level, got.Level)
		assert.Equal(t, want.ParentKey(), got.ParentKey())
	}
	entries, err := uc.ListAudit(ctx, testInstitution, b.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "la auditoría del movimiento también se revierte")
	assertConsistent(t, uc)
}

// Propiedades 1 y 2: tras cualquier secuencia de altas y movimientos, nivel y ruta
// coinciden con la cadena de ancestros y ningún nivel supera el máximo.
func TestMove_SecuenciaAleatoriaMantieneInvariantes(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(42))

	var nodes []*entity.Category
	for i := 0; i < 12; i++ {
		var parent *entity.Category
		if len(nodes) > 0 && rnd.Intn(3) > 0 {
			parent = nodes[rnd.Intn(len(nodes))]
		}
		in := category.CreateInput{InstitutionID: testInstitution, Name: fmt.Sprintf("N%02d", i)}
		if parent != nil {
			in.ParentID = &parent.ID
		}
		c, err := uc.Create(ctx, in, testUser)
		if err != nil {
			require.True(t, errors.Is(err, domain.ErrDepthExceeded), "got %v", err)
			continue
		}
		nodes = append(nodes, c)
	}

	for i := 0; i < 200; i++ {
		node := nodes[rnd.Intn(len(nodes))]
		var target *string
		if rnd.Intn(5) > 0 {
			id := nodes[rnd.Intn(len(nodes))].ID
			target = &id
		}
		_, err := uc.Move(ctx, node.ID, target, testUser)
		if err != nil {
			require.True(t,
				errors.Is(err, domain.ErrCycle) || errors.Is(err, domain.ErrDepthExceeded),
				"error inesperado: %v", err)
		}
	}
	assertConsistent(t, uc)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reorder
// ──────────────────────────────────────────────────────────────────────────────

func TestReorder_IntercambiaHermanas(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	b := create(t, uc, nil, "B")

	err := uc.Reorder(ctx, testInstitution, []category.OrderChange{{ID: a.ID, Order: 2}, {ID: b.ID, Order: 1}}, testUser)
	require.NoError(t, err)

	roots, err := uc.ListTree(ctx, testInstitution, false)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "B", roots[0].Name)
	assert.Equal(t, "A", roots[1].Name)
}

func TestReorder_TodoONada(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	b := create(t, uc, nil, "B")

	cases := []struct {
		name    string
		changes []category.OrderChange
	}{
		{"id inválido", []category.OrderChange{{ID: a.ID, Order: 7}, {ID: "x", Order: 1}}},
		{"id inexistente", []category.OrderChange{{ID: a.ID, Order: 7}, {ID: uuid.NewString(), Order: 1}}},
		{"orden negativo", []category.OrderChange{{ID: a.ID, Order: 7}, {ID: b.ID, Order: -1}}},
		{"orden repetido", []category.OrderChange{{ID: a.ID, Order: 2}}},
		{"id repetido", []category.OrderChange{{ID: a.ID, Order: 7}, {ID: a.ID, Order: 8}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.Reorder(ctx, testInstitution, tc.changes, testUser)
			assert.True(t, errors.Is(err, domain.ErrInvalidOrder), "got %v", err)
			assert.Equal(t, 1, get(t, uc, a.ID).Order)
			assert.Equal(t, 2, get(t, uc, b.ID).Order)
		})
	}

	err := uc.Reorder(ctx, 2, []category.OrderChange{{ID: a.ID, Order: 9}}, testUser)
	assert.True(t, errors.Is(err, domain.ErrInvalidOrder), "otra institución")

	err = uc.Reorder(ctx, testInstitution, nil, testUser)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// ToggleActive
// ──────────────────────────────────────────────────────────────────────────────

func TestToggleActive_NoPropagaAHijos(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")

	off, err := uc.ToggleActive(ctx, a.ID, false, testUser)
	require.NoError(t, err)
	assert.False(t, off.Active)
	assert.True(t, get(t, uc, b.ID).Active)

	_, err = uc.GetByID(ctx, a.ID, false)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	// Sin el padre activo, la hija aparece como raíz en el árbol por defecto.
	roots, err := uc.ListTree(ctx, testInstitution, false)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, b.ID, roots[0].ID)

	on, err := uc.ToggleActive(ctx, a.ID, true, testUser)
	require.NoError(t, err)
	assert.True(t, on.Active)
}

func TestToggleActive_ActivarRevalidaNombreYOrden(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()

	p := create(t, uc, nil, "P")
	q := create(t, uc, nil, "Q")
	_, err := uc.ToggleActive(ctx, p.ID, false, testUser)
	require.NoError(t, err)

	// Q toma el orden 1 que P dejó libre.
	require.NoError(t, uc.Reorder(ctx, testInstitution, []category.OrderChange{{ID: q.ID, Order: 1}}, testUser))

	on, err := uc.ToggleActive(ctx, p.ID, true, testUser)
	require.NoError(t, err)
	assert.Equal(t, 2, on.Order, "pasa al final del grupo")

	_, err = uc.ToggleActive(ctx, p.ID, false, testUser)
	require.NoError(t, err)
	create(t, uc, nil, "p")
	_, err = uc.ToggleActive(ctx, p.ID, true, testUser)
	assert.True(t, errors.Is(err, domain.ErrDuplicate))
	assert.False(t, get(t, uc, p.ID).Active)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad 6: baja bloqueada por dependencias; la forzada no arrastra a los hijos.
func TestDelete_BloqueadoPorHijoActivo(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	parent := create(t, uc, nil, "Granos")
	child := create(t, uc, parent, "Arroz")

	err := uc.Delete(ctx, parent.ID, false, testUser)
	require.Error(t, err)
	var dep *domain.DependencyError
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, 1, dep.ActiveChildren)
	assert.True(t, get(t, uc, parent.ID).Active)

	require.NoError(t, uc.Delete(ctx, parent.ID, true, testUser))
	_, err = uc.GetByID(ctx, parent.ID, true)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	orphan := get(t, uc, child.ID)
	assert.True(t, orphan.Active)
	assert.Equal(t, parent.ID, orphan.ParentKey())
	assert.Equal(t, "Granos/Arroz", orphan.FullPath)

	roots, err := uc.ListTree(ctx, testInstitution, false)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, child.ID, roots[0].ID)

	entries, err := uc.ListAudit(ctx, testInstitution, parent.ID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, entity.AuditForceDelete, entries[0].Operation)

	report, err := uc.ValidateHierarchy(ctx, testInstitution)
	require.NoError(t, err)
	require.Len(t, report.Problems, 1)
	assert.Equal(t, hierarchy.ProblemOrphan, report.Problems[0].Kind)
}

func TestDelete_BloqueadoPorMaterialActivo(t *testing.T) {
	uc, store := newManager(t)
	ctx := context.Background()
	c := create(t, uc, nil, "Aceites")
	store.AddMaterial(&entity.Material{
		ID: uuid.NewString(), InstitutionID: testInstitution, CategoryID: c.ID,
		Code: "MP-001", Name: "Aceite de oliva", UnitMeasure: "L",
		Stock: decimal.NewFromFloat(12.5), Active: true,
	})

	err := uc.Delete(ctx, c.ID, false, testUser)
	var dep *domain.DependencyError
	require.ErrorAs(t, err, &dep)
	assert.Equal(t, 0, dep.ActiveChildren)
	assert.Equal(t, 1, dep.ActiveMaterials)

	materials, err := uc.ListMaterials(ctx, c.ID, false)
	require.NoError(t, err)
	require.Len(t, materials, 1)
	assert.True(t, materials[0].Stock.Equal(decimal.RequireFromString("12.5")))
}

func TestDelete_BajaLogica(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	c := create(t, uc, nil, "Especias")

	require.NoError(t, uc.Delete(ctx, c.ID, false, testUser))

	active, err := uc.ListFlat(ctx, testInstitution, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := uc.ListFlat(ctx, testInstitution, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	err = uc.Delete(ctx, uuid.NewString(), false, testUser)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestLecturas_RutaHijosYDescendencia(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	a := create(t, uc, nil, "A")
	b := create(t, uc, a, "B")
	c := create(t, uc, b, "C")
	create(t, uc, a, "B2")

	segments, err := uc.GetFullPath(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{segments[0].Name, segments[1].Name, segments[2].Name})
	assert.Equal(t, 3, segments[2].Level)

	children, err := uc.GetChildren(ctx, a.ID, false)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "B", children[0].Name)

	yes, err := uc.IsDescendant(ctx, c.ID, a.ID)
	require.NoError(t, err)
	assert.True(t, yes)
	no, err := uc.IsDescendant(ctx, a.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, no)

	_, err = uc.IsDescendant(ctx, c.ID, uuid.NewString())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = uc.GetByID(ctx, "no-uuid", true)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = uc.ListFlat(ctx, 0, false)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestListAudit_MasRecientePrimero(t *testing.T) {
	uc, _ := newManager(t)
	ctx := context.Background()
	c := create(t, uc, nil, "A")
	name := "A2"
	_, err := uc.Edit(ctx, c.ID, category.EditInput{Name: &name}, testUser)
	require.NoError(t, err)

	entries, err := uc.ListAudit(ctx, testInstitution, c.ID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditEdit, entries[0].Operation)
	assert.Equal(t, "A", entries[0].Detail["nombre_anterior"])
	assert.Equal(t, entity.AuditCreate, entries[1].Operation)
	assert.Equal(t, testUser, entries[1].UserID)
}

func TestValidateHierarchy_DatosHeredadosInconsistentes(t *testing.T) {
	uc, store := newManager(t)
	parentID := uuid.NewString()
	store.Put(
		&entity.Category{ID: parentID, InstitutionID: testInstitution, Name: "Raíz", Level: 1, FullPath: "Raíz", Order: 1, Active: true},
		&entity.Category{ID: uuid.NewString(), InstitutionID: testInstitution, ParentID: &parentID, Name: "Hija", Level: 3, FullPath: "Otra/Hija", Order: 1, Active: true},
	)

	report, err := uc.ValidateHierarchy(context.Background(), testInstitution)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Roots)
	kinds := map[string]bool{}
	for _, p := range report.Problems {
		kinds[p.Kind] = true
	}
	assert.True(t, kinds[hierarchy.ProblemLevelMismatch])
	assert.True(t, kinds[hierarchy.ProblemPathMismatch])
}

func TestExportReport_SinGenerador(t *testing.T) {
	uc, _ := newManager(t)
	_, err := uc.ExportReport(context.Background(), testInstitution)
	assert.ErrorIs(t, err, category.ErrReportsDisabled)
}
