package hierarchy

import (
	"context"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// Lookup obtiene una categoría por ID; (nil, nil) si no existe.
type Lookup func(ctx context.Context, id string) (*entity.Category, error)

// IsDescendant sube por la cadena de padres de candidateID y devuelve true en cuanto
// encuentra ancestorID; false al llegar a una raíz, a un padre inexistente o a un ciclo.
// Un nodo no es descendiente de sí mismo.
func IsDescendant(ctx context.Context, lookup Lookup, candidateID, ancestorID string) (bool, error) {
	if candidateID == ancestorID {
		return false, nil
	}
	visited := map[string]bool{candidateID: true}
	current, err := lookup(ctx, candidateID)
	if err != nil {
		return false, err
	}
	for current != nil && current.ParentID != nil {
		parentID := *current.ParentID
		if parentID == ancestorID {
			return true, nil
		}
		if visited[parentID] {
			return false, nil
		}
		visited[parentID] = true
		if current, err = lookup(ctx, parentID); err != nil {
			return false, err
		}
	}
	return false, nil
}

// AncestorChain devuelve la cadena raíz → node (incluido). Si un ancestro no existe, la
// cadena empieza en el ancestro más alto encontrado, igual que BuildTree expone huérfanos.
func AncestorChain(ctx context.Context, lookup Lookup, node *entity.Category) ([]*entity.Category, error) {
	chain := []*entity.Category{node}
	visited := map[string]bool{node.ID: true}
	current := node
	for current.ParentID != nil && !visited[*current.ParentID] {
		parent, err := lookup(ctx, *current.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		visited[parent.ID] = true
		chain = append(chain, parent)
		current = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Segments convierte una cadena de ancestros en tramos {id, nombre, nivel}.
func Segments(chain []*entity.Category) []entity.PathSegment {
	out := make([]entity.PathSegment, 0, len(chain))
	for _, c := range chain {
		out = append(out, entity.PathSegment{ID: c.ID, Name: c.Name, Level: c.Level})
	}
	return out
}
