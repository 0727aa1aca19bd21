package hierarchy

import (
	"strings"

	"github.com/jhoicas/gestion-almacen/internal/domain"
	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// BuildPath concatena la ruta del padre con el nombre del nodo. parentPath vacío = raíz.
func BuildPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + entity.PathSeparator + name
}

// ParentPath devuelve la ruta sin el último tramo ("A/B/C" -> "A/B", "A" -> "").
func ParentPath(fullPath string) string {
	i := strings.LastIndex(fullPath, entity.PathSeparator)
	if i < 0 {
		return ""
	}
	return fullPath[:i]
}

// LevelFor calcula el nivel de un hijo de parentLevel (0 para raíces) y valida el máximo.
func LevelFor(parentLevel int) (int, error) {
	level := parentLevel + 1
	if level > entity.MaxLevel {
		return level, &domain.DepthExceededError{Level: level, Max: entity.MaxLevel}
	}
	return level, nil
}

// Recompute recalcula Level y FullPath de node y de todos sus descendientes a partir de la
// ruta y el nivel del (nuevo) padre. parentPath "" y parentLevel 0 colocan el nodo como raíz.
//
// descendants puede venir en cualquier orden; los que no cuelgan de node se ignoran.
// Los valores se calculan completos antes de modificar nada: si algún nodo del subárbol
// excede entity.MaxLevel se devuelve DepthExceededError con el más profundo y ninguna
// entidad queda modificada. En caso de éxito devuelve node seguido de sus descendientes
// en orden de anchura (padres antes que hijos).
func Recompute(node *entity.Category, parentPath string, parentLevel int, descendants []*entity.Category) ([]*entity.Category, error) {
	byParent := make(map[string][]*entity.Category, len(descendants))
	for _, d := range descendants {
		if d.ParentID == nil || d.ID == node.ID {
			continue
		}
		byParent[*d.ParentID] = append(byParent[*d.ParentID], d)
	}

	type computed struct {
		cat   *entity.Category
		level int
		path  string
	}
	rootLevel := parentLevel + 1
	queue := []computed{{cat: node, level: rootLevel, path: BuildPath(parentPath, node.Name)}}
	seen := map[string]bool{node.ID: true}
	var deepest *computed

	for i := 0; i < len(queue); i++ {
		cur := queue[i]
		if cur.level > entity.MaxLevel && (deepest == nil || cur.level > deepest.level) {
			c := cur
			deepest = &c
		}
		for _, child := range byParent[cur.cat.ID] {
			if seen[child.ID] {
				continue
			}
			seen[child.ID] = true
			queue = append(queue, computed{
				cat:   child,
				level: cur.level + 1,
				path:  BuildPath(cur.path, child.Name),
			})
		}
	}

	if deepest != nil {
		return nil, &domain.DepthExceededError{ID: deepest.cat.ID, Level: deepest.level, Max: entity.MaxLevel}
	}

	out := make([]*entity.Category, 0, len(queue))
	for _, c := range queue {
		c.cat.Level = c.level
		c.cat.FullPath = c.path
		out = append(out, c.cat)
	}
	return out, nil
}
