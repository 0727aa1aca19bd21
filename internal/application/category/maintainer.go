package category

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

// CreateInput entrada para crear una categoría. ParentID nil (o "") crea una raíz;
// Order nil la coloca al final de sus hermanas.
type CreateInput struct {
	InstitutionID int
	ParentID      *string
	Name          string
	Description   string
	Icon          string
	Color         string
	Order         *int
}

// EditInput cambios de campos; los nil no se tocan. El padre se cambia con Move.
type EditInput struct {
	Name        *string
	Description *string
	Icon        *string
	Color       *string
}

// Create valida padre, nivel y nombre entre hermanas, calcula la ruta y persiste con su auditoría.
func (uc *CategoryUseCase) Create(ctx context.Context, in CreateInput, actingUser string) (*entity.Category, error) {
	if err := validateInstitution(in.InstitutionID); err != nil {
		return nil, err
	}
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	parentID := normalizeParentID(in.ParentID)
	if parentID != nil {
		if err := validateID("categoria_padre_id", *parentID); err != nil {
			return nil, err
		}
	}
	if in.Order != nil && *in.Order < 0 {
		return nil, &domain.ValidationError{Field: "orden", Message: "no puede ser negativo"}
	}

	now := uc.now()
	created := &entity.Category{
		ID:            uc.newID(),
		InstitutionID: in.InstitutionID,
		ParentID:      parentID,
		Name:          name,
		Description:   in.Description,
		Icon:          in.Icon,
		Color:         in.Color,
		Active:        true,
		CreatedBy:     actingUser,
		UpdatedBy:     actingUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = uc.inTx(ctx, "crear categoría", func(
		categories repository.CategoryRepository,
		_ repository.MaterialRepository,
		audit repository.AuditRepository,
	) error {
		parentPath, parentLevel := "", 0
		if parentID != nil {
			parent, err := activeParent(ctx, categories, *parentID, in.InstitutionID)
			if err != nil {
				return err
			}
			parentPath, parentLevel = parent.FullPath, parent.Level
		}
		level, err := hierarchy.LevelFor(parentLevel)
		if err != nil {
			return err
		}

		siblings, err := categories.ListByParent(ctx, in.InstitutionID, parentID, false)
		if err != nil {
			return err
		}
		if err := checkSiblingName(siblings, created); err != nil {
			return err
		}
		created.Order = nextOrder(siblings, created.ID)
		if in.Order != nil {
			if other, taken := orderTaken(siblings, created.ID, *in.Order); taken {
				return &domain.OrderValidationError{ID: created.ID, Order: *in.Order, Reason: "ya lo usa la categoría hermana " + other}
			}
			created.Order = *in.Order
		}

		created.Level = level
		created.FullPath = hierarchy.BuildPath(parentPath, name)
		if err := categories.Create(ctx, created); err != nil {
			return err
		}
		return audit.Record(ctx, uc.auditEntry(created, entity.AuditCreate, actingUser, nil))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Int("institucion_id", created.InstitutionID).
		Str("id", created.ID).
		Str("ruta", created.FullPath).
		Int("nivel", created.Level).
		Str("usuario", actingUser).
		Msg("categoría creada")
	return created, nil
}

// Edit aplica cambios de campos. Si cambia el nombre, la ruta se recalcula para el nodo y
// todos sus descendientes en la misma transacción.
func (uc *CategoryUseCase) Edit(ctx context.Context, id string, changes EditInput, actingUser string) (*entity.Category, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	if changes.Name == nil && changes.Description == nil && changes.Icon == nil && changes.Color == nil {
		return nil, &domain.ValidationError{Field: "cambios", Message: "no hay campos para actualizar"}
	}
	var newName string
	if changes.Name != nil {
		name, err := validateName(*changes.Name)
		if err != nil {
			return nil, err
		}
		newName = name
	}

	var (
		updated  *entity.Category
		cascaded int
	)
	err := uc.inTx(ctx, "editar categoría", func(
		categories repository.CategoryRepository,
		_ repository.MaterialRepository,
		audit repository.AuditRepository,
	) error {
		current, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return &domain.NotFoundError{Resource: "categoría", ID: id}
		}
		before := current.Clone()
		now := uc.now()

		var cascade []*entity.Category
		if changes.Name != nil && newName != current.Name {
			current.Name = newName
			if current.Active {
				siblings, err := categories.ListByParent(ctx, current.InstitutionID, current.ParentID, false)
				if err != nil {
					return err
				}
				if err := checkSiblingName(siblings, current); err != nil {
					return err
				}
			}
			descendants, err := categories.ListSubtree(ctx, current.ID)
			if err != nil {
				return err
			}
			changed, err := hierarchy.Recompute(current, hierarchy.ParentPath(before.FullPath), current.Level-1, descendants)
			if err != nil {
				return err
			}
			cascade = changed[1:]
		}
		if changes.Description != nil {
			current.Description = *changes.Description
		}
		if changes.Icon != nil {
			current.Icon = *changes.Icon
		}
		if changes.Color != nil {
			current.Color = *changes.Color
		}
		current.UpdatedAt = now
		current.UpdatedBy = actingUser

		if err := categories.Update(ctx, current); err != nil {
			return err
		}
		if len(cascade) > 0 {
			for _, d := range cascade {
				d.UpdatedAt = now
				d.UpdatedBy = actingUser
			}
			if err := categories.UpdateHierarchy(ctx, cascade); err != nil {
				return err
			}
		}

		updated, cascaded = current, len(cascade)
		return audit.Record(ctx, uc.auditEntry(current, entity.AuditEdit, actingUser, map[string]any{
			"nombre_anterior": before.Name,
			"ruta_anterior":   before.FullPath,
			"descendientes":   len(cascade),
		}))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("id", updated.ID).
		Str("ruta", updated.FullPath).
		Int("descendientes", cascaded).
		Str("usuario", actingUser).
		Msg("categoría editada")
	return updated, nil
}

// Move cambia el padre de id (nil = raíz). Rechaza ciclos y cualquier descendiente que
// quede por encima del nivel máximo; nivel y ruta del subárbol completo se recalculan en
// memoria y se guardan en una sola escritura por lotes dentro de la transacción.
func (uc *CategoryUseCase) Move(ctx context.Context, id string, newParentID *string, actingUser string) (*entity.Category, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}
	newParentID = normalizeParentID(newParentID)
	if newParentID != nil {
		if err := validateID("categoria_padre_id", *newParentID); err != nil {
			return nil, err
		}
		if *newParentID == id {
			return nil, &domain.CycleError{ID: id, NewParentID: *newParentID}
		}
	}

	var (
		moved    *entity.Category
		cascaded int
	)
	err := uc.inTx(ctx, "mover categoría", func(
		categories repository.CategoryRepository,
		_ repository.MaterialRepository,
		audit repository.AuditRepository,
	) error {
		node, err := categories.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if node == nil {
			return &domain.NotFoundError{Resource: "categoría", ID: id}
		}
		if sameParent(node.ParentID, newParentID) {
			moved = node
			return nil
		}

		parentPath, parentLevel := "", 0
		if newParentID != nil {
			parent, err := activeParent(ctx, categories, *newParentID, node.InstitutionID)
			if err != nil {
				return err
			}
			cycle, err := hierarchy.IsDescendant(ctx, categories.GetByID, parent.ID, node.ID)
			if err != nil {
				return err
			}
			if cycle {
				return &domain.CycleError{ID: id, NewParentID: parent.ID}
			}
			parentPath, parentLevel = parent.FullPath, parent.Level
		}

		before := node.Clone()
		node.ParentID = newParentID
		if node.Active {
			siblings, err := categories.ListByParent(ctx, node.InstitutionID, newParentID, false)
			if err != nil {
				return err
			}
			if err := checkSiblingName(siblings, node); err != nil {
				return err
			}
			node.Order = nextOrder(siblings, node.ID)
		}

		descendants, err := categories.ListSubtree(ctx, node.ID)
		if err != nil {
			return err
		}
		changed, err := hierarchy.Recompute(node, parentPath, parentLevel, descendants)
		if err != nil {
			return err
		}
		now := uc.now()
		for _, c := range changed {
			c.UpdatedAt = now
			c.UpdatedBy = actingUser
		}
		if err := categories.UpdateHierarchy(ctx, changed); err != nil {
			return err
		}

		moved, cascaded = node, len(changed)-1
		return audit.Record(ctx, uc.auditEntry(node, entity.AuditMove, actingUser, map[string]any{
			"padre_anterior": before.ParentKey(),
			"padre_nuevo":    node.ParentKey(),
			"ruta_anterior":  before.FullPath,
			"descendientes":  cascaded,
		}))
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("id", moved.ID).
		Str("ruta", moved.FullPath).
		Int("nivel", moved.Level).
		Int("descendientes", cascaded).
		Str("usuario", actingUser).
		Msg("categoría movida")
	return moved, nil
}
