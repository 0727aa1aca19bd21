package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación en memoria de CategoryRepository. Entrega y guarda copias.
type CategoryRepo struct {
	store *Store
	inTx  bool
}

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.store.access(r.inTx, func(st *state) error {
		if _, ok := st.categories[c.ID]; ok {
			return domain.ErrDuplicate
		}
		if err := nameBackstop(st, c); err != nil {
			return err
		}
		st.categories[c.ID] = c.Clone()
		return nil
	})
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.store.access(r.inTx, func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = c.Clone()
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el almacén en exclusiva.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.GetByID(ctx, id)
}

func (r *CategoryRepo) ListByInstitution(_ context.Context, institutionID int, includeInactive bool) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.store.access(r.inTx, func(st *state) error {
		for _, c := range st.categories {
			if c.InstitutionID == institutionID && (includeInactive || c.Active) {
				out = append(out, c.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return lessSibling(out[i], out[j])
	})
	return out, err
}

func (r *CategoryRepo) ListByParent(_ context.Context, institutionID int, parentID *string, includeInactive bool) ([]*entity.Category, error) {
	var out []*entity.Category
	key := ""
	if parentID != nil {
		key = *parentID
	}
	err := r.store.access(r.inTx, func(st *state) error {
		for _, c := range st.categories {
			if c.InstitutionID == institutionID && c.ParentKey() == key && (includeInactive || c.Active) {
				out = append(out, c.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return lessSibling(out[i], out[j]) })
	return out, err
}

func (r *CategoryRepo) ListSubtree(_ context.Context, id string) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.store.access(r.inTx, func(st *state) error {
		byParent := make(map[string][]*entity.Category)
		for _, c := range st.categories {
			if c.ParentID != nil {
				byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
			}
		}
		seen := map[string]bool{id: true}
		queue := []string{id}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, child := range byParent[cur] {
				if seen[child.ID] {
					continue
				}
				seen[child.ID] = true
				out = append(out, child.Clone())
				queue = append(queue, child.ID)
			}
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.store.access(r.inTx, func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return &domain.NotFoundError{Resource: "categoría", ID: c.ID}
		}
		if err := nameBackstop(st, c); err != nil {
			return err
		}
		st.categories[c.ID] = c.Clone()
		return nil
	})
}

func (r *CategoryRepo) UpdateHierarchy(_ context.Context, categories []*entity.Category) error {
	return r.store.access(r.inTx, func(st *state) error {
		for _, c := range categories {
			stored, ok := st.categories[c.ID]
			if !ok {
				return &domain.NotFoundError{Resource: "categoría", ID: c.ID}
			}
			upd := c.Clone()
			stored.ParentID = upd.ParentID
			stored.Level = upd.Level
			stored.FullPath = upd.FullPath
			stored.Order = upd.Order
			stored.UpdatedAt = upd.UpdatedAt
			stored.UpdatedBy = upd.UpdatedBy
		}
		return nil
	})
}

func (r *CategoryRepo) UpdateOrders(_ context.Context, categories []*entity.Category) error {
	return r.store.access(r.inTx, func(st *state) error {
		for _, c := range categories {
			stored, ok := st.categories[c.ID]
			if !ok {
				return &domain.NotFoundError{Resource: "categoría", ID: c.ID}
			}
			stored.Order = c.Order
			stored.UpdatedAt = c.UpdatedAt
			stored.UpdatedBy = c.UpdatedBy
		}
		return nil
	})
}

func (r *CategoryRepo) CountActiveChildren(_ context.Context, id string) (int, error) {
	n := 0
	err := r.store.access(r.inTx, func(st *state) error {
		for _, c := range st.categories {
			if c.Active && c.ParentKey() == id {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	return r.store.access(r.inTx, func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return &domain.NotFoundError{Resource: "categoría", ID: id}
		}
		delete(st.categories, id)
		return nil
	})
}

// nameBackstop replica el índice único de nombre entre hermanas activas de PostgreSQL.
func nameBackstop(st *state, c *entity.Category) error {
	if !c.Active {
		return nil
	}
	for _, s := range st.categories {
		if s.ID != c.ID && s.Active && s.InstitutionID == c.InstitutionID &&
			s.ParentKey() == c.ParentKey() && hierarchy.SameName(s.Name, c.Name) {
			return &domain.DuplicateNameError{
				Name:          c.Name,
				ParentID:      c.ParentKey(),
				InstitutionID: c.InstitutionID,
				ExistingID:    s.ID,
			}
		}
	}
	return nil
}

func lessSibling(a, b *entity.Category) bool {
	if a.Order != b.Order {
		return a.Order < b.Order
	}
	ka, kb := hierarchy.NameKey(a.Name), hierarchy.NameKey(b.Name)
	if ka != kb {
		return ka < kb
	}
	return a.ID < b.ID
}
