package memory

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo bitácora en memoria, en orden de inserción.
type AuditRepo struct {
	store *Store
	inTx  bool
}

func (r *AuditRepo) Record(_ context.Context, entry *entity.AuditEntry) error {
	return r.store.access(r.inTx, func(st *state) error {
		v := *entry
		st.audit = append(st.audit, &v)
		return nil
	})
}

// ListByCategory devuelve las entradas más recientes primero.
func (r *AuditRepo) ListByCategory(_ context.Context, institutionID int, categoryID string, limit int) ([]*entity.AuditEntry, error) {
	var out []*entity.AuditEntry
	err := r.store.access(r.inTx, func(st *state) error {
		for i := len(st.audit) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
			e := st.audit[i]
			if e.InstitutionID == institutionID && e.CategoryID == categoryID {
				v := *e
				out = append(out, &v)
			}
		}
		return nil
	})
	return out, err
}
