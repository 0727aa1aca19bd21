package category

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

// OrderChange nuevo orden para una categoría dentro de su grupo de hermanas.
type OrderChange struct {
	ID    string
	Order int
}

// Reorder aplica un lote de cambios de orden. Todo o nada: un id inválido, de otra
// institución o repetido, un orden negativo, o un orden final repetido entre hermanas
// activas devuelve OrderValidationError y no se aplica ningún cambio.
func (uc *CategoryUseCase) Reorder(ctx context.Context, institutionID int, changes []OrderChange, actingUser string) error {
	if err := validateInstitution(institutionID); err != nil {
		return err
	}
	if len(changes) == 0 {
		return &domain.ValidationError{Field: "operaciones", Message: "el lote está vacío"}
	}
	seen := make(map[string]struct{}, len(changes))
	for _, ch := range changes {
		if _, err := uuid.Parse(ch.ID); err != nil {
			return &domain.OrderValidationError{ID: ch.ID, Order: ch.Order, Reason: "id inválido"}
		}
		if ch.Order < 0 {
			return &domain.OrderValidationError{ID: ch.ID, Order: ch.Order, Reason: "el orden no puede ser negativo"}
		}
		if _, dup := seen[ch.ID]; dup {
			return &domain.OrderValidationError{ID: ch.ID, Order: ch.Order, Reason: "id repetido en el lote"}
		}
		seen[ch.ID] = struct{}{}
	}

	return uc.inTx(ctx, "reordenar categorías", func(
		categories repository.CategoryRepository,
		_ repository.MaterialRepository,
		audit repository.AuditRepository,
	) error {
		now := uc.now()
		targets := make([]*entity.Category, 0, len(changes))
		previous := make(map[string]int, len(changes))
		groups := make(map[string]*string)
		for _, ch := range changes {
			c, err := categories.GetForUpdate(ctx, ch.ID)
			if err != nil {
				return err
			}
			if c == nil || c.InstitutionID != institutionID {
				return &domain.OrderValidationError{ID: ch.ID, Order: ch.Order, Reason: "la categoría no existe"}
			}
			previous[c.ID] = c.Order
			c.Order = ch.Order
			c.UpdatedAt = now
			c.UpdatedBy = actingUser
			targets = append(targets, c)
			groups[c.ParentKey()] = c.ParentID
		}

		if err := checkGroupOrders(ctx, categories, institutionID, groups, targets); err != nil {
			return err
		}
		if err := categories.UpdateOrders(ctx, targets); err != nil {
			return err
		}
		for _, c := range targets {
			entry := uc.auditEntry(c, entity.AuditReorder, actingUser, map[string]any{
				"orden_anterior": previous[c.ID],
				"orden_nuevo":    c.Order,
			})
			if err := audit.Record(ctx, entry); err != nil {
				return err
			}
		}
		uc.log.Info().
			Int("institucion_id", institutionID).
			Int("cambios", len(targets)).
			Str("usuario", actingUser).
			Msg("categorías reordenadas")
		return nil
	})
}

// checkGroupOrders valida que, con los cambios aplicados, ningún grupo de hermanas activas
// repita orden.
func checkGroupOrders(ctx context.Context, categories repository.CategoryRepository, institutionID int, groups map[string]*string, targets []*entity.Category) error {
	changed := make(map[string]*entity.Category, len(targets))
	for _, c := range targets {
		changed[c.ID] = c
	}
	for key, parentID := range groups {
		siblings, err := categories.ListByParent(ctx, institutionID, parentID, false)
		if err != nil {
			return err
		}
		final := make([]*entity.Category, 0, len(siblings)+1)
		for _, s := range siblings {
			if c, ok := changed[s.ID]; ok {
				s = c
			}
			final = append(final, s)
		}
		for _, c := range targets {
			if c.ParentKey() == key && c.Active && !containsID(final, c.ID) {
				final = append(final, c)
			}
		}
		used := make(map[int]string, len(final))
		for _, s := range final {
			if !s.Active {
				continue
			}
			if other, dup := used[s.Order]; dup {
				return &domain.OrderValidationError{
					ID:     s.ID,
					Order:  s.Order,
					Reason: fmt.Sprintf("orden repetido con la categoría hermana %s", other),
				}
			}
			used[s.Order] = s.ID
		}
	}
	return nil
}

func containsID(list []*entity.Category, id string) bool {
	for _, c := range list {
		if c.ID == id {
			return true
		}
	}
	return false
}

// ToggleActive activa o desactiva una categoría. No se propaga a los hijos: desactivar un
// padre deja a sus descendientes como estén. Al activar se vuelve a exigir nombre único entre
// hermanas activas y, si su orden ya está tomado, pasa al final del grupo.
func (uc *CategoryUseCase) ToggleActive(ctx context.Context, id string, activate bool, actingUser string) (*entity.Category, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}

	var result *entity.Category
	err := uc.inTx(ctx, "cambiar estado de categoría", func(
		categories repository.CategoryRepository,
		_ repository.MaterialRepository,
		audit repository.AuditRepository,
	) error {
		c, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return &domain.NotFoundError{Resource: "categoría", ID: id}
		}
		result = c
		if c.Active == activate {
			return nil
		}

		op := entity.AuditDeactivate
		detail := map[string]any{}
		if activate {
			op = entity.AuditActivate
			siblings, err := categories.ListByParent(ctx, c.InstitutionID, c.ParentID, false)
			if err != nil {
				return err
			}
			if err := checkSiblingName(siblings, c); err != nil {
				return err
			}
			if _, taken := orderTaken(siblings, c.ID, c.Order); taken {
				detail["orden_anterior"] = c.Order
				c.Order = nextOrder(siblings, c.ID)
				detail["orden_nuevo"] = c.Order
			}
		}
		c.Active = activate
		c.UpdatedAt = uc.now()
		c.UpdatedBy = actingUser
		if err := categories.Update(ctx, c); err != nil {
			return err
		}
		return audit.Record(ctx, uc.auditEntry(c, op, actingUser, detail))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("id", result.ID).
		Bool("activo", result.Active).
		Str("usuario", actingUser).
		Msg("estado de categoría actualizado")
	return result, nil
}

// Delete sin force es una baja lógica que exige no tener hijos activos ni materiales activos
// (DependencyError). Con force borra físicamente solo la fila: hijos y materiales no se tocan.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string, force bool, actingUser string) error {
	if err := validateID("id", id); err != nil {
		return err
	}

	return uc.inTx(ctx, "eliminar categoría", func(
		categories repository.CategoryRepository,
		materials repository.MaterialRepository,
		audit repository.AuditRepository,
	) error {
		c, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return &domain.NotFoundError{Resource: "categoría", ID: id}
		}
		children, err := categories.CountActiveChildren(ctx, id)
		if err != nil {
			return err
		}
		linked, err := materials.CountActiveByCategory(ctx, id)
		if err != nil {
			return err
		}

		if force {
			if err := categories.Delete(ctx, id); err != nil {
				return err
			}
			uc.log.Warn().
				Str("id", id).
				Str("ruta", c.FullPath).
				Int("hijos_activos", children).
				Int("materiales_activos", linked).
				Str("usuario", actingUser).
				Msg("categoría eliminada físicamente")
			return audit.Record(ctx, uc.auditEntry(c, entity.AuditForceDelete, actingUser, map[string]any{
				"hijos_activos":      children,
				"materiales_activos": linked,
			}))
		}

		if children > 0 || linked > 0 {
			return &domain.DependencyError{ID: id, ActiveChildren: children, ActiveMaterials: linked}
		}
		if !c.Active {
			return nil
		}
		c.Active = false
		c.UpdatedAt = uc.now()
		c.UpdatedBy = actingUser
		if err := categories.Update(ctx, c); err != nil {
			return err
		}
		uc.log.Info().Str("id", id).Str("usuario", actingUser).Msg("categoría dada de baja")
		return audit.Record(ctx, uc.auditEntry(c, entity.AuditDelete, actingUser, nil))
	})
}
