package hierarchy

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/gestion-almacen/internal/domain/entity"
)

// Tipos de problema reportados por Diagnose.
const (
	ProblemDepthExceeded = "nivel_excedido"
	ProblemDuplicateName = "nombre_duplicado"
	ProblemOrphan        = "padre_inexistente"
	ProblemLevelMismatch = "nivel_inconsistente"
	ProblemPathMismatch  = "ruta_inconsistente"
	ProblemCycle         = "ciclo"
)

// Problem una inconsistencia encontrada en la jerarquía.
type Problem struct {
	Kind        string
	CategoryIDs []string
	Message     string
}

// Report resultado del barrido de diagnóstico de una institución.
type Report struct {
	Total    int
	Active   int
	Inactive int
	Levels   map[int]int // nivel -> cantidad
	Roots    int
	Problems []Problem
}

// Diagnose revisa la jerarquía completa (activas e inactivas) y reporta sin corregir.
func Diagnose(categories []*entity.Category) *Report {
	r := &Report{Levels: make(map[int]int), Problems: make([]Problem, 0)}
	index := make(map[string]*entity.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}

	type siblingKey struct{ parent, name string }
	siblings := make(map[siblingKey][]*entity.Category)

	for _, c := range categories {
		r.Total++
		if c.Active {
			r.Active++
			k := siblingKey{c.ParentKey(), NameKey(c.Name)}
			siblings[k] = append(siblings[k], c)
		} else {
			r.Inactive++
		}
		r.Levels[c.Level]++
		if c.ParentID == nil {
			r.Roots++
		}

		if c.Level > entity.MaxLevel {
			r.Problems = append(r.Problems, Problem{
				Kind:        ProblemDepthExceeded,
				CategoryIDs: []string{c.ID},
				Message:     fmt.Sprintf("%q está en nivel %d (máximo %d)", c.FullPath, c.Level, entity.MaxLevel),
			})
		}
		r.Problems = append(r.Problems, checkChain(c, index)...)
	}

	keys := make([]siblingKey, 0, len(siblings))
	for k, group := range siblings {
		if len(group) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].parent != keys[j].parent {
			return keys[i].parent < keys[j].parent
		}
		return keys[i].name < keys[j].name
	})
	for _, k := range keys {
		group := siblings[k]
		ids := make([]string, 0, len(group))
		for _, c := range group {
			ids = append(ids, c.ID)
		}
		r.Problems = append(r.Problems, Problem{
			Kind:        ProblemDuplicateName,
			CategoryIDs: ids,
			Message:     fmt.Sprintf("%d categorías activas hermanas se llaman %q", len(group), group[0].Name),
		})
	}
	return r
}

// checkChain compara nivel y ruta guardados con los calculados desde la cadena de padres.
func checkChain(c *entity.Category, index map[string]*entity.Category) []Problem {
	names := []string{c.Name}
	visited := map[string]bool{c.ID: true}
	current := c
	for current.ParentID != nil {
		parent, ok := index[*current.ParentID]
		if !ok {
			if current == c {
				return []Problem{{
					Kind:        ProblemOrphan,
					CategoryIDs: []string{c.ID},
					Message:     fmt.Sprintf("%q referencia un padre inexistente %s", c.Name, *c.ParentID),
				}}
			}
			// El huérfano es un ancestro: ya se reporta en su propia entrada.
			return nil
		}
		if visited[parent.ID] {
			return []Problem{{
				Kind:        ProblemCycle,
				CategoryIDs: []string{c.ID},
				Message:     fmt.Sprintf("la cadena de padres de %q contiene un ciclo", c.Name),
			}}
		}
		visited[parent.ID] = true
		names = append(names, parent.Name)
		current = parent
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	var problems []Problem
	if want := len(names); c.Level != want {
		problems = append(problems, Problem{
			Kind:        ProblemLevelMismatch,
			CategoryIDs: []string{c.ID},
			Message:     fmt.Sprintf("%q tiene nivel %d, según sus ancestros debería ser %d", c.Name, c.Level, want),
		})
	}
	if want := strings.Join(names, entity.PathSeparator); c.FullPath != want {
		problems = append(problems, Problem{
			Kind:        ProblemPathMismatch,
			CategoryIDs: []string{c.ID},
			Message:     fmt.Sprintf("ruta %q, según sus ancestros debería ser %q", c.FullPath, want),
		})
	}
	return problems
}
