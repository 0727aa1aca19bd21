// Package hierarchy contiene la lógica pura del árbol de categorías: rutas materializadas,
// niveles, construcción del árbol, recorridos de ancestros y diagnóstico de consistencia.
// No conoce la persistencia; las búsquedas se inyectan como funciones.
package hierarchy

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// NormalizeName recorta espacios en los extremos del nombre.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// NameKey clave de comparación para la unicidad entre hermanas: sin espacios extremos
// y con plegado de mayúsculas Unicode ("Harinas" == "HARINAS").
func NameKey(name string) string {
	return folder.String(NormalizeName(name))
}

// SameName compara dos nombres con la misma regla que NameKey.
func SameName(a, b string) bool {
	return NameKey(a) == NameKey(b)
}
