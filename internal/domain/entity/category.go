package entity

import "time"

// Límites de la jerarquía de categorías.
const (
	MaxLevel      = 4
	RootLevel     = 1
	PathSeparator = "/"
	MaxNameLength = 100
)

// Category representa un nodo del árbol de categorías de materia prima de una institución.
type Category struct {
	ID            string
	InstitutionID int
	ParentID      *string // nil si es raíz
	Name          string
	Description   string
	Icon          string
	Color         string
	Level         int    // raíz = 1
	FullPath      string // nombres de ancestros unidos por "/", ej. "A/B/C"
	Order         int    // orden entre hermanas activas
	Active        bool
	CreatedBy     string
	UpdatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// ParentKey devuelve el ID del padre o "" para raíces (útil como clave de mapa).
func (c *Category) ParentKey() string {
	if c.ParentID == nil {
		return ""
	}
	return *c.ParentID
}

// Clone devuelve una copia independiente (el puntero ParentID no se comparte).
func (c *Category) Clone() *Category {
	cp := *c
	if c.ParentID != nil {
		p := *c.ParentID
		cp.ParentID = &p
	}
	return &cp
}

// CategoryTreeNode nodo del árbol de lectura con sus hijas ordenadas.
type CategoryTreeNode struct {
	*Category
	Children []*CategoryTreeNode
}

// PathSegment un tramo de la ruta raíz → nodo.
type PathSegment struct {
	ID    string
	Name  string
	Level int
}
