package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id::text, institucion_id, categoria_padre_id::text, nombre, descripcion, icono, color,
	nivel, ruta_completa, orden, activo, usuario_creacion, usuario_modificacion, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	err := row.Scan(
		&c.ID, &c.InstitutionID, &c.ParentID, &c.Name, &c.Description, &c.Icon, &c.Color,
		&c.Level, &c.FullPath, &c.Order, &c.Active, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) get(ctx context.Context, op, query, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// mapWriteError traduce las violaciones de los índices únicos a errores de dominio.
func mapWriteError(op string, c *entity.Category, err error) error {
	constraint, ok := isUniqueViolation(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch constraint {
	case uxSiblingName:
		return &domain.DuplicateNameError{Name: c.Name, ParentID: c.ParentKey(), InstitutionID: c.InstitutionID}
	case uxSiblingOrder:
		return &domain.OrderValidationError{ID: c.ID, Order: c.Order, Reason: "orden ya usado por una categoría hermana"}
	default:
		return domain.ErrDuplicate
	}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `
		INSERT INTO categorias (id, institucion_id, categoria_padre_id, nombre, descripcion, icono, color,
			nivel, ruta_completa, orden, activo, usuario_creacion, usuario_modificacion, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.InstitutionID, c.ParentID, c.Name, c.Description, c.Icon, c.Color,
		c.Level, c.FullPath, c.Order, c.Active, c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert category", c, err)
	}
	return nil
}

// GetByID obtiene una categoría por ID.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return r.get(ctx, "get category", `SELECT `+categoryColumns+` FROM categorias WHERE id = $1`, id)
}

// GetForUpdate obtiene y bloquea la fila hasta el fin de la transacción.
func (r *CategoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Category, error) {
	return r.get(ctx, "get category for update", `SELECT `+categoryColumns+` FROM categorias WHERE id = $1 FOR UPDATE`, id)
}

// ListByInstitution lista la jerarquía completa ordenada por nivel, orden y nombre.
func (r *CategoryRepo) ListByInstitution(ctx context.Context, institutionID int, includeInactive bool) ([]*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categorias
		WHERE institucion_id = $1 AND ($2 OR activo)
		ORDER BY nivel, orden, lower(nombre), id`
	return r.list(ctx, "list categories", query, institutionID, includeInactive)
}

// ListByParent lista hijas directas; parentID nil lista las raíces.
func (r *CategoryRepo) ListByParent(ctx context.Context, institutionID int, parentID *string, includeInactive bool) ([]*entity.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categorias
		WHERE institucion_id = $1 AND categoria_padre_id IS NOT DISTINCT FROM $2::uuid AND ($3 OR activo)
		ORDER BY orden, lower(nombre), id`
	return r.list(ctx, "list children", query, institutionID, parentID, includeInactive)
}

// ListSubtree devuelve todos los descendientes de id y los bloquea. UNION (no UNION ALL)
// corta la recursión si los datos traen un ciclo.
func (r *CategoryRepo) ListSubtree(ctx context.Context, id string) ([]*entity.Category, error) {
	query := `
		WITH RECURSIVE sub AS (
			SELECT id FROM categorias WHERE categoria_padre_id = $1
			UNION
			SELECT c.id FROM categorias c JOIN sub s ON c.categoria_padre_id = s.id
		)
		SELECT ` + categoryColumns + `
		FROM categorias
		WHERE id IN (SELECT id FROM sub) AND id <> $1
		ORDER BY nivel, orden
		FOR UPDATE`
	return r.list(ctx, "list subtree", query, id)
}

// Update actualiza los campos editables y el estado. Padre, nivel y ruta se escriben con UpdateHierarchy.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	query := `
		UPDATE categorias SET nombre = $2, descripcion = $3, icono = $4, color = $5, ruta_completa = $6,
			orden = $7, activo = $8, usuario_modificacion = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Description, c.Icon, c.Color, c.FullPath, c.Order, c.Active, c.UpdatedBy, c.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update category", c, err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "categoría", ID: c.ID}
	}
	return nil
}

// UpdateHierarchy escribe padre, nivel, ruta y orden de todo el lote en un solo viaje (pgx.Batch).
func (r *CategoryRepo) UpdateHierarchy(ctx context.Context, categories []*entity.Category) error {
	if len(categories) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`
			UPDATE categorias SET categoria_padre_id = $2, nivel = $3, ruta_completa = $4, orden = $5,
				usuario_modificacion = $6, updated_at = $7
			WHERE id = $1`,
			c.ID, c.ParentID, c.Level, c.FullPath, c.Order, c.UpdatedBy, c.UpdatedAt,
		)
	}
	return r.execBatch(ctx, "update hierarchy", batch, categories)
}

// UpdateOrders escribe el orden del lote en dos fases dentro del mismo batch: primero valores
// negativos temporales (fuera del índice único parcial) y luego los definitivos, para que
// los intercambios entre hermanas no choquen a mitad del lote.
func (r *CategoryRepo) UpdateOrders(ctx context.Context, categories []*entity.Category) error {
	if len(categories) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, c := range categories {
		batch.Queue(`UPDATE categorias SET orden = $2 WHERE id = $1`, c.ID, -1-c.Order)
	}
	for _, c := range categories {
		batch.Queue(`UPDATE categorias SET orden = $2, usuario_modificacion = $3, updated_at = $4 WHERE id = $1`,
			c.ID, c.Order, c.UpdatedBy, c.UpdatedAt)
	}
	targets := append(append([]*entity.Category{}, categories...), categories...)
	return r.execBatch(ctx, "update orders", batch, targets)
}

func (r *CategoryRepo) execBatch(ctx context.Context, op string, batch *pgx.Batch, targets []*entity.Category) error {
	br := r.q.SendBatch(ctx, batch)
	for _, c := range targets {
		cmd, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return mapWriteError(op, c, err)
		}
		if cmd.RowsAffected() == 0 {
			_ = br.Close()
			return &domain.NotFoundError{Resource: "categoría", ID: c.ID}
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CountActiveChildren cuenta hijas activas directas.
func (r *CategoryRepo) CountActiveChildren(ctx context.Context, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM categorias WHERE categoria_padre_id = $1 AND activo`, id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return n, nil
}

// Delete elimina físicamente la fila. No hay FK sobre categoria_padre_id: las hijas quedan huérfanas.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categorias WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Resource: "categoría", ID: id}
	}
	return nil
}
