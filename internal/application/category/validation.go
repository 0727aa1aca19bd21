package category

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
	"github.com/jhoicas/gestion-almacen/internal/domain/hierarchy"
	"github.com/jhoicas/gestion-almacen/internal/domain/repository"
)

func validateInstitution(institutionID int) error {
	if institutionID <= 0 {
		return &domain.ValidationError{Field: "institucion_id", Message: "es requerido"}
	}
	return nil
}

func validateID(field, id string) error {
	if id == "" {
		return &domain.ValidationError{Field: field, Message: "es requerido"}
	}
	if _, err := uuid.Parse(id); err != nil {
		return &domain.ValidationError{Field: field, Message: fmt.Sprintf("formato inválido %q", id)}
	}
	return nil
}

// validateName devuelve el nombre normalizado.
func validateName(name string) (string, error) {
	name = hierarchy.NormalizeName(name)
	switch {
	case name == "":
		return "", &domain.ValidationError{Field: "nombre", Message: "es requerido"}
	case utf8.RuneCountInString(name) > entity.MaxNameLength:
		return "", &domain.ValidationError{Field: "nombre", Message: fmt.Sprintf("máximo %d caracteres", entity.MaxNameLength)}
	case strings.Contains(name, entity.PathSeparator):
		return "", &domain.ValidationError{Field: "nombre", Message: "no puede contener " + entity.PathSeparator}
	}
	return name, nil
}

// normalizeParentID trata "" como raíz.
func normalizeParentID(id *string) *string {
	if id == nil || strings.TrimSpace(*id) == "" {
		return nil
	}
	v := strings.TrimSpace(*id)
	return &v
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// activeParent bloquea y devuelve el padre destino; debe existir, estar activo y ser de la institución.
func activeParent(ctx context.Context, categories repository.CategoryRepository, parentID string, institutionID int) (*entity.Category, error) {
	parent, err := categories.GetForUpdate(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil || !parent.Active || parent.InstitutionID != institutionID {
		return nil, &domain.NotFoundError{Resource: "categoría padre", ID: parentID}
	}
	return parent, nil
}

// checkSiblingName falla si otra hermana activa ya usa el nombre de c.
func checkSiblingName(siblings []*entity.Category, c *entity.Category) error {
	for _, s := range siblings {
		if s.ID != c.ID && s.Active && hierarchy.SameName(s.Name, c.Name) {
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

func orderTaken(siblings []*entity.Category, selfID string, order int) (string, bool) {
	for _, s := range siblings {
		if s.ID != selfID && s.Active && s.Order == order {
			return s.ID, true
		}
	}
	return "", false
}

// nextOrder siguiente orden libre al final del grupo de hermanas activas (el primero es 1).
func nextOrder(siblings []*entity.Category, selfID string) int {
	max := 0
	for _, s := range siblings {
		if s.ID != selfID && s.Active && s.Order > max {
			max = s.Order
		}
	}
	return max + 1
}
