package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo materias primas en memoria.
type MaterialRepo struct {
	store *Store
	inTx  bool
}

func (r *MaterialRepo) CountActiveByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	err := r.store.access(r.inTx, func(st *state) error {
		for _, m := range st.materials {
			if m.Active && m.CategoryID == categoryID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *MaterialRepo) ListByCategory(_ context.Context, categoryID string, includeInactive bool) ([]*entity.Material, error) {
	var out []*entity.Material
	err := r.store.access(r.inTx, func(st *state) error {
		for _, m := range st.materials {
			if m.CategoryID == categoryID && (includeInactive || m.Active) {
				v := *m
				out = append(out, &v)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, err
}
