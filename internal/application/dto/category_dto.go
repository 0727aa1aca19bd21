package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateCategoryRequest entrada para crear una categoría. Sin categoria_padre_id se crea como raíz.
type CreateCategoryRequest struct {
	ParentID    *string `json:"categoria_padre_id"`
	Name        string  `json:"nombre" validate:"required,max=100"`
	Description string  `json:"descripcion" validate:"max=500"`
	Icon        string  `json:"icono" validate:"max=50"`
	Color       string  `json:"color" validate:"omitempty,hexcolor"`
	Order       *int    `json:"orden"`
}

// UpdateCategoryRequest cambios de campos; los ausentes no se modifican.
type UpdateCategoryRequest struct {
	Name        *string `json:"nombre" validate:"omitempty,max=100"`
	Description *string `json:"descripcion" validate:"omitempty,max=500"`
	Icon        *string `json:"icono" validate:"omitempty,max=50"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

// MoveCategoryRequest nuevo padre; null o "" mueve la categoría a la raíz.
type MoveCategoryRequest struct {
	ParentID *string `json:"categoria_padre_id"`
}

// ToggleActiveRequest activa o desactiva una categoría.
type ToggleActiveRequest struct {
	Active *bool `json:"activo" validate:"required"`
}

// OrderOperation un cambio de orden dentro de un lote.
type OrderOperation struct {
	ID    string `json:"id" validate:"required"`
	Order *int   `json:"orden" validate:"required"`
}

// ReorderRequest lote de cambios de orden (todo o nada).
type ReorderRequest struct {
	Operations []OrderOperation `json:"operaciones" validate:"required,min=1,dive"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID            string    `json:"id"`
	InstitutionID int       `json:"institucion_id"`
	ParentID      *string   `json:"categoria_padre_id"`
	Name          string    `json:"nombre"`
	Description   string    `json:"descripcion"`
	Icon          string    `json:"icono"`
	Color         string    `json:"color"`
	Level         int       `json:"nivel"`
	FullPath      string    `json:"ruta_completa"`
	Order         int       `json:"orden"`
	Active        bool      `json:"activo"`
	CreatedBy     string    `json:"usuario_creacion,omitempty"`
	UpdatedBy     string    `json:"usuario_modificacion,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategoryListResponse listado plano.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Total int                `json:"total"`
}

// CategoryTreeResponse nodo del árbol con sus hijas.
type CategoryTreeResponse struct {
	CategoryResponse
	Children []CategoryTreeResponse `json:"children"`
}

// PathSegmentResponse tramo de la ruta raíz → categoría.
type PathSegmentResponse struct {
	ID    string `json:"id"`
	Name  string `json:"nombre"`
	Level int    `json:"nivel"`
}

// DescendantResponse resultado de la consulta de descendencia.
type DescendantResponse struct {
	ID           string `json:"id"`
	AncestorID   string `json:"ancestro_id"`
	IsDescendant bool   `json:"es_descendiente"`
}

// MaterialResponse materia prima de una categoría.
type MaterialResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"categoria_id"`
	Code        string          `json:"codigo"`
	Name        string          `json:"nombre"`
	UnitMeasure string          `json:"unidad_medida"`
	Stock       decimal.Decimal `json:"stock_actual"`
	Active      bool            `json:"activo"`
}

// AuditEntryResponse entrada de la bitácora.
type AuditEntryResponse struct {
	ID         string         `json:"id"`
	CategoryID string         `json:"categoria_id"`
	Operation  string         `json:"operacion"`
	UserID     string         `json:"usuario_id,omitempty"`
	FullPath   string         `json:"ruta_completa"`
	Level      int            `json:"nivel"`
	Detail     map[string]any `json:"detalle,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// HierarchyProblemResponse inconsistencia detectada por la validación.
type HierarchyProblemResponse struct {
	Kind        string   `json:"tipo"`
	CategoryIDs []string `json:"categorias"`
	Message     string   `json:"mensaje"`
}

// HierarchyReportResponse resultado de la validación de la jerarquía.
type HierarchyReportResponse struct {
	Valid    bool                       `json:"valida"`
	Total    int                        `json:"total"`
	Active   int                        `json:"activas"`
	Inactive int                        `json:"inactivas"`
	Levels   map[int]int                `json:"niveles"`
	Roots    int                        `json:"raices"`
	Problems []HierarchyProblemResponse `json:"problemas"`
}
