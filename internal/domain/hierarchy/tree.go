package hierarchy

import (
	"sort"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// BuildTree arma el bosque de raíces en una sola pasada: indexa todos los nodos por ID y
// cuelga cada uno de su padre. Los nodos cuyo padre no está en la lista (inexistente o
// filtrado por inactivo) se devuelven como raíces en lugar de descartarse.
// Hermanas ordenadas por Order y luego por nombre.
func BuildTree(categories []*entity.Category) []*entity.CategoryTreeNode {
	index := make(map[string]*entity.CategoryTreeNode, len(categories))
	for _, c := range categories {
		index[c.ID] = &entity.CategoryTreeNode{Category: c}
	}

	roots := make([]*entity.CategoryTreeNode, 0)
	for _, c := range categories {
		node := index[c.ID]
		if c.ParentID != nil {
			if parent, ok := index[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	// Un ciclo en datos corruptos deja nodos inalcanzables desde las raíces: se corta
	// la arista hacia el primero de cada ciclo y se expone como raíz.
	reached := make(map[string]bool, len(categories))
	for _, n := range Flatten(roots) {
		reached[n.ID] = true
	}
	for _, c := range categories {
		if reached[c.ID] {
			continue
		}
		node := index[c.ID]
		parent := index[*c.ParentID]
		parent.Children = removeNode(parent.Children, node)
		roots = append(roots, node)
		for _, n := range Flatten([]*entity.CategoryTreeNode{node}) {
			reached[n.ID] = true
		}
	}

	sortNodes(roots)
	for _, n := range index {
		sortNodes(n.Children)
	}
	return roots
}

// Flatten recorre el árbol en preorden.
func Flatten(roots []*entity.CategoryTreeNode) []*entity.CategoryTreeNode {
	var out []*entity.CategoryTreeNode
	stack := make([]*entity.CategoryTreeNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

func removeNode(nodes []*entity.CategoryTreeNode, target *entity.CategoryTreeNode) []*entity.CategoryTreeNode {
	for i, n := range nodes {
		if n == target {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

func sortNodes(nodes []*entity.CategoryTreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Order != nodes[j].Order {
			return nodes[i].Order < nodes[j].Order
		}
		return NameKey(nodes[i].Name) < NameKey(nodes[j].Name)
	})
}
