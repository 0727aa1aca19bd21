// Package memory implementa los puertos de persistencia en memoria con transacciones de
// todo o nada. Se usa en pruebas y con APP_STORE=memory para correr la API sin PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/gestion-almacen/internal/application/category"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ category.TxRunner = (*Store)(nil)

// RepoWrapper permite envolver los repositorios entregados dentro de una transacción
// (por ejemplo para simular una falla a mitad de una escritura en cascada).
type RepoWrapper func(
	categories repository.CategoryRepository,
	materials repository.MaterialRepository,
	audit repository.AuditRepository,
) (repository.CategoryRepository, repository.MaterialRepository, repository.AuditRepository)

// Option configura el Store.
type Option func(*Store)

// WithRepoWrapper instala un RepoWrapper para las transacciones.
func WithRepoWrapper(w RepoWrapper) Option {
	return func(s *Store) { s.wrap = w }
}

type state struct {
	categories map[string]*entity.Category
	materials  map[string]*entity.Material
	audit      []*entity.AuditEntry
}

func (st *state) clone() *state {
	cp := &state{
		categories: make(map[string]*entity.Category, len(st.categories)),
		materials:  make(map[string]*entity.Material, len(st.materials)),
		audit:      make([]*entity.AuditEntry, len(st.audit)),
	}
	for id, c := range st.categories {
		cp.categories[id] = c.Clone()
	}
	for id, m := range st.materials {
		v := *m
		cp.materials[id] = &v
	}
	copy(cp.audit, st.audit)
	return cp
}

// Store guarda categorías, materiales y auditoría. Las transacciones se serializan: Run toma
// el candado durante toda la función y, si fn falla, restaura la foto tomada al inicio.
type Store struct {
	mu   sync.Mutex
	st   *state
	wrap RepoWrapper
}

// NewStore crea un almacén vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{st: &state{
		categories: make(map[string]*entity.Category),
		materials:  make(map[string]*entity.Material),
	}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories repositorio de categorías fuera de transacción.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{store: s} }

// Materials repositorio de materiales fuera de transacción.
func (s *Store) Materials() *MaterialRepo { return &MaterialRepo{store: s} }

// Audit repositorio de auditoría fuera de transacción.
func (s *Store) Audit() *AuditRepo { return &AuditRepo{store: s} }

// AddMaterial registra (o reemplaza) una materia prima.
func (s *Store) AddMaterial(m *entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := *m
	s.st.materials[m.ID] = &v
}

// Put inserta una categoría tal cual, sin validaciones. Útil para cargar datos heredados
// (incluso inconsistentes) en pruebas y demos.
func (s *Store) Put(categories ...*entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range categories {
		s.st.categories[c.ID] = c.Clone()
	}
}

// Run ejecuta fn con repositorios atados a la transacción.
func (s *Store) Run(ctx context.Context, fn func(
	categories repository.CategoryRepository,
	materials repository.MaterialRepository,
	audit repository.AuditRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	var (
		c repository.CategoryRepository = &CategoryRepo{store: s, inTx: true}
		m repository.MaterialRepository = &MaterialRepo{store: s, inTx: true}
		a repository.AuditRepository    = &AuditRepo{store: s, inTx: true}
	)
	if s.wrap != nil {
		c, m, a = s.wrap(c, m, a)
	}
	if err := fn(c, m, a); err != nil {
		s.st = snapshot
		return err
	}
	if err := ctx.Err(); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// access ejecuta f con el estado; fuera de transacción toma el candado.
func (s *Store) access(inTx bool, f func(st *state) error) error {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return f(s.st)
}
