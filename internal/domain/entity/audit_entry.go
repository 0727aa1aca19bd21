package entity

import "time"

// Operaciones registradas en la auditoría de categorías.
const (
	AuditCreate      = "crear"
	AuditEdit        = "editar"
	AuditMove        = "mover"
	AuditReorder     = "reordenar"
	AuditActivate    = "activar"
	AuditDeactivate  = "desactivar"
	AuditDelete      = "eliminar"
	AuditForceDelete = "eliminar_forzado"
)

// AuditEntry registro de una operación sobre la jerarquía, escrito en la misma transacción.
type AuditEntry struct {
	ID            string
	InstitutionID int
	CategoryID    string
	Operation     string
	UserID        string // vacío si el llamador no lo informa
	FullPath      string
	Level         int
	Detail        map[string]any
	CreatedAt     time.Time
}
