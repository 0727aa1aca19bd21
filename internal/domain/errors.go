package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrCycle         = errors.New("la operación crearía un ciclo en la jerarquía")
	ErrDepthExceeded = errors.New("profundidad máxima de la jerarquía excedida")
	ErrDependency    = errors.New("la categoría tiene dependencias activas")
	ErrInvalidOrder  = errors.New("orden inválido")
	ErrTransaction   = errors.New("error en la transacción")
)

// ValidationError campo requerido ausente o con formato inválido.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError recurso inexistente o no visible con el filtro activo/inactivo.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrada", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// CycleError el nuevo padre es el mismo nodo o uno de sus descendientes.
type CycleError struct {
	ID          string
	NewParentID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("no se puede mover %s bajo %s: crearía un ciclo", e.ID, e.NewParentID)
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// DepthExceededError el nivel resultante de ID supera Max.
type DepthExceededError struct {
	ID    string
	Level int
	Max   int
}

func (e *DepthExceededError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("nivel %d excede el máximo permitido (%d)", e.Level, e.Max)
	}
	return fmt.Sprintf("categoría %s quedaría en nivel %d, máximo permitido %d", e.ID, e.Level, e.Max)
}

func (e *DepthExceededError) Is(target error) bool { return target == ErrDepthExceeded }

// DuplicateNameError ya existe una hermana activa con el mismo nombre.
type DuplicateNameError struct {
	Name          string
	ParentID      string // vacío si el conflicto es entre raíces
	InstitutionID int
	ExistingID    string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("ya existe una categoría activa %q en la misma ubicación (id %s)", e.Name, e.ExistingID)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicate }

// DependencyError bloquea la eliminación no forzada.
type DependencyError struct {
	ID              string
	ActiveChildren  int
	ActiveMaterials int
}

func (e *DependencyError) Error() string {
	switch {
	case e.ActiveChildren > 0 && e.ActiveMaterials > 0:
		return fmt.Sprintf("categoría %s tiene %d subcategorías activas y %d materiales activos", e.ID, e.ActiveChildren, e.ActiveMaterials)
	case e.ActiveChildren > 0:
		return fmt.Sprintf("categoría %s tiene %d subcategorías activas", e.ID, e.ActiveChildren)
	default:
		return fmt.Sprintf("categoría %s tiene %d materiales activos", e.ID, e.ActiveMaterials)
	}
}

func (e *DependencyError) Is(target error) bool { return target == ErrDependency }

// OrderValidationError lote de reordenamiento rechazado completo.
type OrderValidationError struct {
	ID     string
	Order  int
	Reason string
}

func (e *OrderValidationError) Error() string {
	return fmt.Sprintf("orden %d para %s: %s", e.Order, e.ID, e.Reason)
}

func (e *OrderValidationError) Is(target error) bool { return target == ErrInvalidOrder }

// TransactionError falla de almacenamiento durante una escritura; la jerarquía queda sin cambios.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transacción revertida: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }

func (e *TransactionError) Is(target error) bool { return target == ErrTransaction }
