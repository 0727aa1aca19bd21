// Package category implementa el gestor del árbol de categorías: lecturas del almacén de
// categorías y escrituras que mantienen nivel y ruta materializada consistentes.
package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
	"github.com/jhoicas/gestion-almacen/pkg/logger"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// CategoryUseCase gestiona la jerarquía de categorías de materia prima por institución.
// Las lecturas usan los repositorios del pool; cada escritura corre completa en una sola
// transacción del TxRunner (nodo + descendientes + auditoría).
// No autentica ni autoriza: confía en que el llamador ya validó la institución.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	materials  repository.MaterialRepository
	audit      repository.AuditRepository
	tx         TxRunner
	reports    TreeReportGenerator
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewCategoryUseCase construye el caso de uso. reports puede ser nil si no se exporta PDF.
func NewCategoryUseCase(
	categories repository.CategoryRepository,
	materials repository.MaterialRepository,
	audit repository.AuditRepository,
	tx TxRunner,
	reports TreeReportGenerator,
	log *logger.Logger,
) *CategoryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryUseCase{
		categories: categories,
		materials:  materials,
		audit:      audit,
		tx:         tx,
		reports:    reports,
		log:        log.Component("categorias"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// ListFlat devuelve todas las categorías de la institución ordenadas por nivel, orden y nombre.
func (uc *CategoryUseCase) ListFlat(ctx context.Context, institutionID int, includeInactive bool) ([]*entity.Category, error) {
	if err := validateInstitution(institutionID); err != nil {
		return nil, err
	}
	return uc.categories.ListByInstitution(ctx, institutionID, includeInactive)
}

// ListTree arma el bosque de la institución; los huérfanos se exponen como raíces.
func (uc *CategoryUseCase) ListTree(ctx context.Context, institutionID int, includeInactive bool) ([]*entity.CategoryTreeNode, error) {
	list, err := uc.ListFlat(ctx, institutionID, includeInactive)
	if err != nil {
		return nil, err
	}
	return hierarchy.BuildTree(list), nil
}

// GetByID obtiene una categoría; NotFoundError si no existe o está inactiva sin includeInactive.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string, includeInactive bool) (*entity.Category, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil || (!c.Active && !includeInactive) {
		return nil, &domain.NotFoundError{Resource: "categoría", ID: id}
	}
	return c, nil
}

// GetChildren hijas directas de parentID. El padre debe existir (activo o inactivo).
func (uc *CategoryUseCase) GetChildren(ctx context.Context, parentID string, includeInactive bool) ([]*entity.Category, error) {
	parent, err := uc.GetByID(ctx, parentID, true)
	if err != nil {
		return nil, err
	}
	return uc.categories.ListByParent(ctx, parent.InstitutionID, &parent.ID, includeInactive)
}

// GetFullPath tramos {id, nombre, nivel} desde la raíz hasta id.
func (uc *CategoryUseCase) GetFullPath(ctx context.Context, id string) ([]entity.PathSegment, error) {
	node, err := uc.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	chain, err := hierarchy.AncestorChain(ctx, uc.categories.GetByID, node)
	if err != nil {
		return nil, err
	}
	return hierarchy.Segments(chain), nil
}

// IsDescendant informa si candidateID cuelga (a cualquier profundidad) de ancestorID.
func (uc *CategoryUseCase) IsDescendant(ctx context.Context, candidateID, ancestorID string) (bool, error) {
	if _, err := uc.GetByID(ctx, candidateID, true); err != nil {
		return false, err
	}
	if _, err := uc.GetByID(ctx, ancestorID, true); err != nil {
		return false, err
	}
	return hierarchy.IsDescendant(ctx, uc.categories.GetByID, candidateID, ancestorID)
}

// ListMaterials materias primas clasificadas directamente en la categoría.
func (uc *CategoryUseCase) ListMaterials(ctx context.Context, categoryID string, includeInactive bool) ([]*entity.Material, error) {
	if _, err := uc.GetByID(ctx, categoryID, true); err != nil {
		return nil, err
	}
	return uc.materials.ListByCategory(ctx, categoryID, includeInactive)
}

// ListAudit últimas entradas de auditoría de la categoría, incluidas las de categorías ya eliminadas.
func (uc *CategoryUseCase) ListAudit(ctx context.Context, institutionID int, categoryID string, limit int) ([]*entity.AuditEntry, error) {
	if err := validateInstitution(institutionID); err != nil {
		return nil, err
	}
	if err := validateID("id", categoryID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return uc.audit.ListByCategory(ctx, institutionID, categoryID, limit)
}

// inTx corre fn en una transacción. Los errores de dominio se devuelven tal cual; cualquier
// otra falla de almacenamiento se envuelve en TransactionError (la jerarquía quedó intacta).
func (uc *CategoryUseCase) inTx(ctx context.Context, op string, fn func(
	categories repository.CategoryRepository,
	materials repository.MaterialRepository,
	audit repository.AuditRepository,
) error) error {
	err := uc.tx.Run(ctx, fn)
	if err == nil || isDomainError(err) {
		return err
	}
	uc.log.Error().Err(err).Str("op", op).Msg("transacción revertida")
	return &domain.TransactionError{Op: op, Err: err}
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrCycle,
		domain.ErrDepthExceeded,
		domain.ErrDuplicate,
		domain.ErrDependency,
		domain.ErrInvalidOrder,
		domain.ErrTransaction,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (uc *CategoryUseCase) auditEntry(c *entity.Category, op, userID string, detail map[string]any) *entity.AuditEntry {
	return &entity.AuditEntry{
		ID:            uc.newID(),
		InstitutionID: c.InstitutionID,
		CategoryID:    c.ID,
		Operation:     op,
		UserID:        userID,
		FullPath:      c.FullPath,
		Level:         c.Level,
		Detail:        detail,
		CreatedAt:     uc.now(),
	}
}
